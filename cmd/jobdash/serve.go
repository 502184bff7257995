package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobdash/internal/devserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the job-board API from a fixtures file",
	Long:  "Runs a local implementation of the job-board API backed by a YAML fixtures file, for development and demos. Point api.base_url at http://<addr>/api.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default: serve.addr)")
	serveCmd.Flags().String("fixtures", "", "fixtures file (default: serve.fixtures)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	addr := cfg.Serve.Addr
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		addr = v
	}
	fixtures := cfg.Serve.Fixtures
	if v, _ := cmd.Flags().GetString("fixtures"); v != "" {
		fixtures = v
	}

	data, err := devserver.LoadFixtures(fixtures)
	if err != nil {
		logger.Error("failed to load fixtures", "path", fixtures, "error", err)
		os.Exit(1)
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := devserver.NewServer(data, cfg.Serve.CORSOrigins, logger)
	if err := srv.Run(ctx, addr); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
