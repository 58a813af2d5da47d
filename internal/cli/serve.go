package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/semtree/pkg/provider"
	"github.com/matzehuels/semtree/pkg/server"
)

// serveCommand serves conversions of one source over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "serve <source>",
		Short: "Serve display trees over HTTP",
		Long: `Serve conversions of one source over HTTP until interrupted.

Routes: /healthz, /v1/features, /v1/variants, /v1/concepts/{id} and
/v1/trees/{root}?variant=...&format=json|dot|svg. Use --cache-url to share
the tree cache between several server processes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr, noCache)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the tree cache")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, source, addr string, noCache bool) error {
	runner, ch, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	p, err := c.openProvider(ctx, source, ch, provider.NewLogDiagnostics(c.Logger))
	if err != nil {
		return err
	}
	defer p.Source().Close()

	printInfo("Serving %s on http://%s", source, addr)
	return server.New(p, runner, server.WithLogger(c.Logger)).ListenAndServe(ctx, addr)
}
