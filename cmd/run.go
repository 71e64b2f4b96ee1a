package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"controllerboard/internal/config"
	"controllerboard/internal/connectivity"
	"controllerboard/internal/hardware"
	"controllerboard/internal/logger"
	"controllerboard/internal/repository"
	"controllerboard/internal/server"
	"controllerboard/internal/service"
	"controllerboard/internal/telemetry"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run wake cycles: connect, fetch commands, open ports, sleep.",
	RunE: func(cmd *cobra.Command, args []string) error {
		once, _ := cmd.Flags().GetBool("once")

		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		conn, err := openDB(cfg, log)
		if err != nil {
			return err
		}
		defer closeDB(conn, log)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		repos := repository.NewRepository(conn)
		metrics := telemetry.NewMetrics()
		defer instrumentEvents(cfg, repos, metrics, log)()

		if cfg.Metrics.Listen != "" {
			srv := &server.Server{}
			go func() {
				if err := srv.Run(cfg.Metrics.Listen, metrics.Handler()); err != nil {
					log.Errorw("metrics_server_failed", "err", err)
				}
			}()
			defer func() { _ = shutdown(srv, log) }()
		}

		node, err := buildNode(cfg, repos, log)
		if err != nil {
			return err
		}

		log.Infow("node_starting", "server", cfg.Server.URL(), "ports", len(cfg.Node.Ports), "power_mode", cfg.Power.Mode)
		if once {
			return ignoreShutdown(ctx, node.Cycle(ctx))
		}
		return node.Run(ctx)
	},
}

func init() {
	runCmd.Flags().Bool("once", false, "Run a single wake cycle and exit after the sleep")
}

// buildNode wires the wake cycle from configuration.
func buildNode(cfg *config.Config, repos *repository.Repository, log *logger.Logger) (service.Node, error) {
	clock := hardware.RealClock{}

	lowPower, err := hardware.NewLowPower(cfg.Power.Mode, clock)
	if err != nil {
		return nil, err
	}
	provider, err := connectivity.NewInterfaceProvider(cfg.WiFi.SSID, cfg.WiFi.InterfaceCIDR, log.Component("connectivity"))
	if err != nil {
		return nil, err
	}

	table := service.PortTable(cfg.Node.Ports)
	board := hardware.NewSimulatedBoard(table.Channels(), clock, log.Component("gpio"))

	fetcher := service.NewHTTPFetcher(service.FetchConfig{
		Host:       cfg.Server.Host,
		Port:       cfg.Server.Port,
		URL:        cfg.Server.URL(),
		UserAgent:  cfg.Server.UserAgent,
		BufferSize: cfg.Node.BufferSize,
		IOTimeout:  cfg.Server.IOTimeout,
	}, nil, nil, log.Component("fetcher"))

	scheduler := service.NewScheduler(table, board, clock, cfg.Node.Minute, repos.EventRepo, log.Component("scheduler"))
	sleeper := service.NewSleepController(cfg.Node.DefaultSleepMinutes, cfg.Node.Minute,
		repos.WakeRepo, repos.EventRepo, lowPower, clock, log.Component("sleep"))

	return service.NewNodeService(provider, cfg.WiFi.ConnectTimeout, fetcher, scheduler, sleeper,
		repos.EventRepo, clock, log.Component("node")), nil
}

// ignoreShutdown treats the end of a cycle caused by a signal or a halt as success.
func ignoreShutdown(ctx context.Context, err error) error {
	switch {
	case err == nil, ctx.Err() != nil:
		return nil
	case errors.Is(err, hardware.ErrHalted):
		return nil
	default:
		return fmt.Errorf("wake cycle: %w", err)
	}
}
