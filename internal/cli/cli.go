// Package cli implements the semtree command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/semtree/pkg/buildinfo"
	"github.com/matzehuels/semtree/pkg/cache"
	"github.com/matzehuels/semtree/pkg/provider"
	"github.com/matzehuels/semtree/pkg/semantic"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "semtree"

	// defaultAddr is the listen address of the serve command.
	defaultAddr = "127.0.0.1:8080"
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

	// cacheURL selects a Redis tree cache instead of the file cache.
	cacheURL string
	// variantsFile holds extra variants loaded into the registry.
	variantsFile string
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
		Use:   appName,
		Short: "Semtree converts semantic graphs into bounded display trees",
		Long: `Semtree turns cyclic, arbitrarily wide semantic graphs (WordNet-style synset
networks, ontologies) into finite display trees with a bounded fan-out, ready
for a tree or radial renderer.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.cacheURL, "cache-url", "", "redis:// URL of a shared tree cache (default: file cache)")
	root.PersistentFlags().StringVar(&c.variantsFile, "variants", "", "TOML or YAML file with extra variants")

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.featuresCommand())
	root.AddCommand(c.variantsCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a provider runner for CLI use. The returned cache must be
// closed by the caller.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*provider.Runner, cache.Cache, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	return provider.NewRunner(ch, c.keyer(), c.Logger), ch, nil
}

// keyer namespaces keys in a shared Redis cache.
func (c *CLI) keyer() cache.Keyer {
	if c.cacheURL == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":")
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if c.cacheURL != "" {
		rc, err := cache.NewRedisCache(ctx, c.cacheURL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// registry returns the built-in variants plus those of --variants.
func (c *CLI) registry() (*provider.Registry, error) {
	if c.variantsFile == "" {
		return provider.Builtin(), nil
	}
	reg := provider.NewRegistry()
	n, err := reg.LoadVariants(c.variantsFile)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded variants", "file", c.variantsFile, "count", n)
	return reg, nil
}

// openProvider opens a source and wraps it in a provider. Remote sources get
// a concept cache in front of them.
func (c *CLI) openProvider(ctx context.Context, uri string, ch cache.Cache, diag provider.Diagnostics) (*provider.Provider, error) {
	reg, err := c.registry()
	if err != nil {
		return nil, err
	}
	src, err := provider.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	if isRemote(uri) && ch != nil {
		src = semantic.NewCachedSource(src, ch, c.keyer(), uri)
	}
	return provider.New(src, uri,
		provider.WithRegistry(reg),
		provider.WithDiagnostics(diag),
		provider.WithLogger(c.Logger),
	), nil
}

func isRemote(uri string) bool {
	return strings.HasPrefix(uri, "redis") || strings.HasPrefix(uri, "mongodb")
}

// rootsOf returns the roots a source declares, looking through wrappers.
func rootsOf(src semantic.Source) []string {
	for src != nil {
		if r, ok := src.(interface{ Roots() []string }); ok {
			return r.Roots()
		}
		u, ok := src.(interface{ Unwrap() semantic.Source })
		if !ok {
			return nil
		}
		src = u.Unwrap()
	}
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/semtree/).
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
