package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bitfield/internal/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	maxBody int64
	cache   cacheFlags
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:    server.DefaultAddr,
		maxBody: server.DefaultMaxBodyBytes,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render pipeline over HTTP",
		Long: `Serve the render pipeline over HTTP.

POST a register description to /render; the response is the rendered
diagram. Query parameters select the output (format=svg|json|png|pdf), the
input (input=json|yaml|toml|text) and layout overrides named like the render
flags (bits, lanes, compact, ...).`,
		Example: `  bitfield serve --addr :8080
  bitfield serve --cache-url redis://localhost:6379/0 --cache-prefix staging:
  curl --data-binary @reg.json 'localhost:8080/render?format=svg&bits=16'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", opts.maxBody, "maximum request body size in bytes")
	cmd.Flags().StringVar(&opts.cache.prefix, "cache-prefix", "", "prefix for cache keys, to share one backend between deployments")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts *serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	printInfo("Serving bitfield diagrams")
	printKeyValue("Address", opts.addr)
	printKeyValue("Cache", cacheLabel(opts.cache))

	srv := server.New(runner, server.Config{
		Addr:         opts.addr,
		MaxBodyBytes: opts.maxBody,
		Logger:       logger,
	})
	return srv.ListenAndServe(ctx)
}

// cacheLabel describes the selected cache backend for display.
func cacheLabel(f cacheFlags) string {
	switch {
	case f.noCache:
		return "disabled"
	case f.url != "":
		return f.url
	}
	if env := os.Getenv(cacheURLEnv); env != "" {
		return env
	}
	if dir, err := cacheDir(); err == nil {
		return dir
	}
	return "disabled"
}
