package cli

import (
	"errors"
	"io/fs"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"

	perrors "github.com/matzehuels/robopom/pkg/errors"
	"github.com/matzehuels/robopom/pkg/pipeline"
	"github.com/matzehuels/robopom/pkg/sdkconfig"
)

// Config is the on-disk configuration (config.toml).
type Config struct {
	Sources SourcesConfig `toml:"sources"`
	HTTP    HTTPConfig    `toml:"http"`
	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
	Extract ExtractConfig `toml:"extract"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
	// Undecoded lists keys present in the file that no field consumed.
	Undecoded []string `toml:"-"`
}

// SourcesConfig locates the upstream services.
type SourcesConfig struct {
	SdkConfigURL     string `toml:"sdk_config_url"`
	LatestVersionURL string `toml:"latest_version_url"`
	MavenSearchURL   string `toml:"maven_search_url"`
	VersionSource    string `toml:"version_source"`
	GitHubToken      string `toml:"github_token"`
}

// HTTPConfig bounds upstream requests.
type HTTPConfig struct {
	Timeout Duration `toml:"timeout"`
	Retries int      `toml:"retries"` // total attempts; 1 disables retries
}

// CacheConfig selects and configures the response cache backend.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	TTL           Duration `toml:"ttl"`
	Dir           string   `toml:"dir"`
	RedisURL      string   `toml:"redis_url"`
	MongoURI      string   `toml:"mongo_uri"`
	MongoDatabase string   `toml:"mongo_database"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// ExtractConfig tunes SdkConfig.java extraction.
type ExtractConfig struct {
	SdkOrder string `toml:"sdk_order"`
}

// Duration is a time.Duration that decodes from strings like "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Sources: SourcesConfig{
			VersionSource: pipeline.DefaultVersionSource,
		},
		HTTP: HTTPConfig{
			Timeout: Duration{pipeline.DefaultTimeout},
			Retries: pipeline.DefaultAttempts,
		},
		Cache: CacheConfig{
			Backend:       backendNone,
			TTL:           Duration{pipeline.DefaultCacheTTL},
			RedisURL:      "redis://localhost:6379/0",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: appName,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Extract: ExtractConfig{
			SdkOrder: sdkconfig.OrderLexical.String(),
		},
	}
}

// LoadConfig reads the configuration file.
//
// An explicit path must exist. Without one, the XDG location is tried and a
// missing file yields [DefaultConfig]. Values of the form ${VAR} are
// replaced from the environment, and GITHUB_TOKEN is used when no token is
// configured.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := configFile()
		if err != nil {
			return finish(cfg)
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return finish(cfg)
		}
		return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	cfg.Path = path
	for _, key := range md.Undecoded() {
		cfg.Undecoded = append(cfg.Undecoded, key.String())
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.expandEnv()
	if cfg.Sources.GitHubToken == "" {
		cfg.Sources.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func expand(s string) string {
	return envRefPattern.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(ref[2 : len(ref)-1])
	})
}

func (c *Config) expandEnv() {
	for _, p := range []*string{
		&c.Sources.SdkConfigURL,
		&c.Sources.LatestVersionURL,
		&c.Sources.MavenSearchURL,
		&c.Sources.VersionSource,
		&c.Sources.GitHubToken,
		&c.Cache.Backend,
		&c.Cache.Dir,
		&c.Cache.RedisURL,
		&c.Cache.MongoURI,
		&c.Cache.MongoDatabase,
		&c.Server.Addr,
		&c.Extract.SdkOrder,
	} {
		*p = expand(*p)
	}
}

// Validate checks enumerations and numeric ranges. URLs are validated by
// the pipeline once flags have been merged in.
func (c *Config) Validate() error {
	if err := pipeline.ValidateVersionSource(c.Sources.VersionSource); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "sources.version_source")
	}
	switch c.Cache.Backend {
	case backendNone, backendFile, backendRedis, backendMongo:
	default:
		return perrors.New(perrors.ErrCodeInvalidConfig, "cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.HTTP.Retries < 1 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "http.retries must be at least 1")
	}
	if c.HTTP.Timeout.Duration <= 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "http.timeout must be positive")
	}
	if c.Cache.TTL.Duration < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if _, err := sdkconfig.ParseOrder(c.Extract.SdkOrder); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "extract.sdk_order")
	}
	return nil
}

// pipelineOptions converts the config into pipeline options. Empty URLs
// fall through to the pipeline defaults.
func (c *Config) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		VersionSource:    c.Sources.VersionSource,
		LatestVersionURL: c.Sources.LatestVersionURL,
		MavenSearchURL:   c.Sources.MavenSearchURL,
		SdkConfigURL:     c.Sources.SdkConfigURL,
		GitHubToken:      c.Sources.GitHubToken,
		SdkOrder:         c.Extract.SdkOrder,
		CacheTTL:         c.Cache.TTL.Duration,
		Timeout:          c.HTTP.Timeout.Duration,
		Attempts:         c.HTTP.Retries,
	}
}
