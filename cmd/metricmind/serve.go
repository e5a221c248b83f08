package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/metricmind/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for generating and retrieving dashboards.`,
	RunE:  runServe,
}

var (
	serveConfigPath string
	servePort       int
)

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	deps, err := buildDeps(ctx, serveConfigPath)
	if err != nil {
		return err
	}
	defer deps.Close()

	port := deps.cfg.Port
	if servePort != 0 {
		port = servePort
	}

	srv := server.New(server.Config{Port: port}, deps.engine, deps.database, deps.index, nil)
	return srv.Start(ctx)
}
