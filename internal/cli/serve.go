package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/asciiwipe/pkg/cache"
	"github.com/matzehuels/asciiwipe/pkg/config"
	"github.com/matzehuels/asciiwipe/pkg/playback"
	"github.com/matzehuels/asciiwipe/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr         string
		allowRemote  bool
		refreshRate  int
		noCache      bool
		maxBodyBytes int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket API",
		Long: `Run the HTTP API. Routes:

  GET  /healthz       liveness
  GET  /v1/fonts      available fonts
  POST /v1/frames     build a program (json, dot or svg)
  GET  /v1/render     draw text once
  GET  /v1/play       stream playback over a WebSocket`,
		Example: `  asciiwipe serve --addr :9000
  asciiwipe serve --cache redis://localhost:6379/0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") && c.cfg.Addr != "" {
				addr = c.cfg.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			runner.Keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), "server:v1:")

			srv := server.New(server.Config{
				Runner:           runner,
				FontDirs:         c.cfg.FontDirs,
				AllowRemoteFonts: allowRemote,
				RefreshRate:      refreshRate,
				MaxBodyBytes:     maxBodyBytes,
				Logger:           c.Logger,
			})
			c.Logger.Info("listening", "addr", addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&allowRemote, "allow-remote-fonts", false, "accept fonts given by URL")
	cmd.Flags().IntVar(&refreshRate, "refresh-rate", playback.DefaultRefreshRate, "tick rate of streamed playback in Hz")
	cmd.Flags().Int64Var(&maxBodyBytes, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
