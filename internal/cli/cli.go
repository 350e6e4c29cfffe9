// Package cli implements the bitfield command-line interface.
//
// The CLI renders register descriptions (JSON, YAML, TOML or the compact
// text notation) to SVG, JsonML, PNG and PDF, serves the same pipeline
// over HTTP and manages the artifact cache. It is built on cobra and logs
// through charmbracelet/log.
//
// # Commands
//
//   - render: Render a register description to one or more formats
//   - serve: Serve the render pipeline over HTTP
//   - cache: Clear the artifact cache or print its location
//   - completion: Generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is attached to the command context and read back with loggerFromContext.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bitfield/pkg/buildinfo"
	"github.com/matzehuels/bitfield/pkg/cache"
	"github.com/matzehuels/bitfield/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "bitfield"

	// cacheURLEnv selects the cache backend when --cache-url is not given.
	cacheURLEnv = "BITFIELD_CACHE_URL"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Bitfield draws register bit-field diagrams",
		Long:         `Bitfield renders register and packet layouts, described in JSON, YAML, TOML or a compact text notation, as lane diagrams in SVG, JsonML, PNG or PDF.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags select the cache backend for a command.
type cacheFlags struct {
	noCache bool
	url     string
	prefix  string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&f.url, "cache-url", "", "cache backend: file:///dir, redis://host:6379/0 or none (default $"+cacheURLEnv+" or the user cache dir)")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(f cacheFlags) (*pipeline.Runner, error) {
	backend, err := openCache(f)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if f.prefix != "" {
		keyer = cache.NewScopedKeyer(nil, f.prefix)
	}
	return pipeline.NewRunner(backend, keyer, c.Logger), nil
}

// openCache resolves the backend from flags, then the environment, then
// the user cache directory. Without a usable home directory caching is
// disabled rather than failing the command.
func openCache(f cacheFlags) (cache.Cache, error) {
	if f.noCache {
		return cache.NewNullCache(), nil
	}
	url := f.url
	if url == "" {
		url = os.Getenv(cacheURLEnv)
	}
	dir, err := cacheDir()
	if err != nil && url == "" {
		return cache.NewNullCache(), nil
	}
	return cache.Open(url, dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/bitfield/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
