package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"controllerboard/internal/config"
	"controllerboard/internal/logger"
	"controllerboard/internal/repository/db"

	"github.com/spf13/cobra"
)

var configFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "controllerboard",
	Short: "Battery powered valve controller and the command server it polls.",
	Long: `controllerboard wakes up, fetches a list of "port,minutes" commands over ` +
		`HTTP, opens each port in turn and goes back to sleep. The serve command ` +
		`hosts the plans the boards poll for.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default configs/config.yml)")
	rootCmd.AddCommand(runCmd, serveCmd, historyCmd, statusCmd)
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadRuntime reads the configuration and builds the process logger.
func loadRuntime() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.Get(cfg.Log.Level), nil
}

// openDB initializes the SQLite database, creating its directory if needed.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	path := cfg.DB.Path
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory %q: %w", dir, err)
		}
	}
	log.Debugw("opening_db", "path", path)
	return db.InitDB(path)
}

func closeDB(conn *sql.DB, log *logger.Logger) {
	if err := conn.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}
