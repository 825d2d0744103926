package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nikogura/resume-builder/pkg/server"
)

//nolint:gochecknoglobals // Cobra boilerplate
var listenAddr string

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve resume generation over HTTP",
	Long: `Run a JSON HTTP server.

Routes:
  POST /api/v1/resumes   {"description": "...", "provider": "", "offline": false}
  GET  /api/v1/health
  GET  /metrics          Prometheus metrics

Each request runs its own generation; the response carries the record, where
it came from, and the rendered HTML.

Example:
  resume-builder serve --listen :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := signalContext()
	defer cancel()

	var a *app
	a, err = setupApp(0)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	addr := listenAddr
	if addr == "" {
		addr = a.cfg.ListenAddr
	}

	s := server.New(a.pipeline, a.html, a.metrics, a.logger.Named("http"))
	err = s.Serve(ctx, addr)

	return err
}
