package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/vibeguard/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the vibeguard detection and policy
engines.

Endpoints:
  GET  /health                — Health check
  POST /api/v1/analyze        — Analyze one code snippet
  POST /api/v1/analyze/batch  — Analyze multiple files
  POST /api/v1/evaluate       — Evaluate an analysis against policies
  POST /api/v1/scan           — Full scan: analyze files + evaluate policies
  GET  /api/v1/policies       — Current policy configuration
  GET  /api/ws                — WebSocket for streaming scan sessions`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "127.0.0.1", "address to listen on")
	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	serveCmd.Flags().StringP("config", "c", "", "path to vibeguard.yaml")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	port, _ := cmd.Flags().GetInt("port")
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := loadPolicyConfig(configPath, ".")
	if err != nil {
		return err
	}

	listen := fmt.Sprintf("%s:%d", addr, port)
	srv := api.New(listen, cfg)
	return srv.ListenAndServe()
}
