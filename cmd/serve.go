package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	_ "controllerboard/docs"
	"controllerboard/internal/handlers"
	"controllerboard/internal/logger"
	"controllerboard/internal/repository"
	"controllerboard/internal/server"
	"controllerboard/internal/service"
	"controllerboard/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve action plans to polling boards.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		if cfg.Log.Level != logger.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}

		conn, err := openDB(cfg, log)
		if err != nil {
			return err
		}
		defer closeDB(conn, log)

		// wire dependencies
		repos := repository.NewRepository(conn)
		metrics := telemetry.NewMetrics()
		defer instrumentEvents(cfg, repos, metrics, log)()
		services := service.NewService(repos, cfg.API.BoardPorts, cfg.Node.Minute, log.Component("plans"))
		apiHandler := handlers.NewHandler(services, log.Component("api")).WithMetrics(metrics)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := &server.Server{}
		errCh := make(chan error, 1)
		go func() {
			log.Infow("server_listening", "port", cfg.API.Port)
			errCh <- srv.Run(cfg.API.Port, apiHandler.InitRoutes())
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		return shutdown(srv, log)
	},
}

// shutdown lets in-flight requests complete.
func shutdown(srv *server.Server, log *logger.Logger) error {
	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
		return err
	}
	return nil
}
