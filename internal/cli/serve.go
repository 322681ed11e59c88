package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowkit/flowkit/internal/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the flowkit HTTP API",
		Long: `Run the flowkit HTTP API.

The API is stateless: layout and export requests carry the full project
in the request body, and only the autosave slot is persisted through the
configured backend (file or redis).

Endpoints:
  POST /api/layout           compute positions for a project
  POST /api/export/{format}  render png, svg, dot, mermaid, or txt
  GET  /api/autosave         read the autosave slot
  PUT  /api/autosave         overwrite the autosave slot
  DELETE /api/autosave       clear the autosave slot
  GET  /healthz              liveness check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := c.newAutosaveStore(ctx)
			if err != nil {
				return fmt.Errorf("open autosave backend: %w", err)
			}
			if store != nil {
				defer store.Close()
			}

			artifacts := newArtifactCache(noCache)
			defer artifacts.Close()

			listenAddr := addr
			if listenAddr == "" {
				listenAddr = c.Config.Server.Addr
			}

			layoutOpts := c.layoutOptions()
			srv := server.New(server.Config{
				Logger:     c.Logger,
				Store:      store,
				Artifacts:  artifacts,
				Layout:     &layoutOpts,
				Background: c.Config.Export.Background,
				Scale:      c.Config.Export.Scale,
			})
			return srv.ListenAndServe(listenAddr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable artifact caching")

	return cmd
}
