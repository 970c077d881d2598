// Package cli implements the robopom command-line interface.
//
// This package provides the generate command (also run by the bare root
// command), an HTTP server that renders the POM on request, and management
// of the local HTTP response cache. The CLI is built using cobra and logs
// through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - generate: Build the Robolectric POM and write it to stdout or a file
//   - serve: Serve the POM over HTTP
//   - cache: Manage the file-backed HTTP response cache
//
// # Output
//
// Only the POM goes to stdout. Logs, status lines and the spinner go to
// stderr, so `robopom > pom.xml` always yields a clean document.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/robopom/pkg/buildinfo"
	"github.com/matzehuels/robopom/pkg/cache"
	perrors "github.com/matzehuels/robopom/pkg/errors"
	"github.com/matzehuels/robopom/pkg/observability"
	"github.com/matzehuels/robopom/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "robopom"

	// cacheKeyPrefix scopes keys on shared backends (redis, mongo).
	cacheKeyPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Cache backends.
const (
	backendNone  = "none"
	backendFile  = "file"
	backendRedis = "redis"
	backendMongo = "mongo"
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	stdout     io.Writer
	stderr     io.Writer
	ui         *statusPrinter
	configPath string
	config     *Config
}

// New creates a new CLI instance. The POM is written to stdout; logs and
// status output go to stderr.
func New(stdout, stderr io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(stderr, level),
		stdout: stdout,
		stderr: stderr,
		ui:     newStatusPrinter(stderr),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Running the root command without a subcommand generates the POM.
func (c *CLI) RootCommand() *cobra.Command {
	gen := &generateOpts{}

	root := &cobra.Command{
		Use:   appName,
		Short: "robopom generates a Maven POM of Robolectric's runtime jars",
		Long: `robopom reads Robolectric's SdkConfig.java and the latest Robolectric release,
then prints a pom.xml listing every jar the test runner needs in offline mode.

Download the jars with:
  robopom > pom.xml
  mvn dependency:copy-dependencies -DoutputDirectory=/tmp/robolectric-files`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, gen)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/robopom/config.toml)")
	gen.register(root)

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// setup loads configuration and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	for _, key := range cfg.Undecoded {
		c.ui.warning("unknown config key %q in %s", key, cfg.Path)
	}
	c.config = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))

	hooks := newLogHooks(c.Logger)
	observability.SetHTTPHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetPipelineHooks(hooks)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, backend string) (*pipeline.Runner, error) {
	cfg := c.config.Cache
	if backend != "" {
		cfg.Backend = backend
	}
	store, keyer, err := newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	loggerFromContext(ctx).Debug("cache backend", "backend", cfg.Backend)
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// newCache opens the cache backend named in cfg. Shared backends get keys
// scoped with the application prefix.
func newCache(ctx context.Context, cfg CacheConfig) (cache.Cache, cache.Keyer, error) {
	switch cfg.Backend {
	case "", backendNone:
		return cache.NewNullCache(), nil, nil
	case backendFile:
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return nil, nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "resolve cache directory")
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "open file cache")
		}
		return fc, nil, nil
	case backendRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "connect to redis")
		}
		return rc, cache.NewScopedKeyer(nil, cacheKeyPrefix), nil
	case backendMongo:
		mc, err := cache.NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "connect to mongodb")
		}
		return mc, cache.NewScopedKeyer(nil, cacheKeyPrefix), nil
	default:
		return nil, nil, perrors.New(perrors.ErrCodeInvalidInput, "unknown cache backend %q (must be one of: none, file, redis, mongo)", cfg.Backend)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/robopom/).
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

// configFile returns the default config file path using XDG standard
// (~/.config/robopom/config.toml).
func configFile() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
