// Package cli implements the flowkit command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/flowkit/flowkit/pkg/autosave"
	"github.com/flowkit/flowkit/pkg/buildinfo"
	"github.com/flowkit/flowkit/pkg/cache"
	"github.com/flowkit/flowkit/pkg/config"
	"github.com/flowkit/flowkit/pkg/layout"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "flowkit"

	// artifactTTL is how long cached export artifacts stay valid.
	artifactTTL = 24 * time.Hour
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
	Config config.Config
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The config file is layered on in RootCommand's
// PersistentPreRunE so that --config is honored.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "flowkit",
		Short:        "Flowkit edits and renders flowcharts from the terminal",
		Long:         `Flowkit is a flowchart editor for the terminal: build flows interactively, auto-layout them from connectivity, and export diagrams as PNG, SVG, Mermaid, or plain text.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ~/.config/flowkit/config.toml)")

	// Register all subcommands
	root.AddCommand(c.newProjectCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Backends
// =============================================================================

// newArtifactCache opens the export artifact cache, or the null cache when
// caching is disabled or the cache directory is unavailable.
func newArtifactCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// newAutosaveStore opens the autosave backend selected in the config.
// Backend "off" returns nil, which disables autosave entirely.
func (c *CLI) newAutosaveStore(ctx context.Context) (autosave.Store, error) {
	switch c.Config.Autosave.Backend {
	case "off":
		return nil, nil
	case "redis":
		return autosave.NewRedisStore(ctx, autosave.RedisConfig{
			Addr: c.Config.Autosave.RedisAddr,
			DB:   c.Config.Autosave.RedisDB,
		})
	default:
		return autosave.NewFileStore(c.Config.Autosave.Path)
	}
}

// layoutOptions applies the config's spacing overrides to the defaults.
func (c *CLI) layoutOptions() layout.Options {
	opts := layout.DefaultOptions()
	if c.Config.Layout.HSpacing > 0 {
		opts.HSpacing = c.Config.Layout.HSpacing
	}
	if c.Config.Layout.VGap > 0 {
		opts.VGap = c.Config.Layout.VGap
	}
	return opts
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/flowkit/).
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

// =============================================================================
// Format Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{"png"}
	}
	return strings.Split(s, ",")
}
