// Package pipeline provides the POM generation pipeline for robopom.
//
// This package implements the complete resolve → fetch → extract → render
// pipeline used by both the CLI and the HTTP server. By centralizing this
// logic, both entry points produce byte-identical output for the same inputs.
//
// # Architecture
//
// The pipeline consists of four stages, run strictly in order:
//
//  1. Resolve: Look up the latest Robolectric release (Bintray or Maven Central)
//  2. Fetch: Download SdkConfig.java from GitHub
//  3. Extract: Scan SdkVersion and createDependency declarations, substitute versions
//  4. Render: Execute the POM template
//
// # Usage
//
//	runner := pipeline.NewRunner(backend, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.POM)
//
// Run individual stages:
//
//	version, err := runner.ResolveVersion(ctx, opts)
//	src, err := runner.FetchSdkConfig(ctx, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/robopom/pkg/errors"
	"github.com/matzehuels/robopom/pkg/integrations"
	"github.com/matzehuels/robopom/pkg/integrations/bintray"
	"github.com/matzehuels/robopom/pkg/integrations/github"
	"github.com/matzehuels/robopom/pkg/integrations/maven"
	"github.com/matzehuels/robopom/pkg/sdkconfig"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultCacheTTL is how long upstream responses stay cached when a
	// cache backend is configured.
	DefaultCacheTTL = 24 * time.Hour

	// DefaultTimeout bounds each upstream request.
	DefaultTimeout = integrations.DefaultTimeout

	// DefaultAttempts disables retries: a run fails on the first error.
	DefaultAttempts = 1

	// RobolectricCoordinate is the artifact whose latest release is resolved.
	RobolectricCoordinate = "org.robolectric:robolectric"
)

// Version source constants.
const (
	SourceBintray = "bintray"
	SourceMaven   = "maven"
)

// DefaultVersionSource is the default latest-version source.
const DefaultVersionSource = SourceBintray

// ValidVersionSources is the set of supported latest-version sources.
var ValidVersionSources = map[string]bool{
	SourceBintray: true,
	SourceMaven:   true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Resolve options
	RobolectricVersion string `json:"robolectric_version,omitempty"` // skips the resolve stage when set
	VersionSource      string `json:"version_source,omitempty"`
	LatestVersionURL   string `json:"latest_version_url,omitempty"`
	MavenSearchURL     string `json:"maven_search_url,omitempty"`

	// Fetch options
	SdkConfigURL string `json:"sdk_config_url,omitempty"`

	// Extract options
	SdkOrder string `json:"sdk_order,omitempty"`

	// HTTP options
	Refresh  bool          `json:"refresh,omitempty"`
	CacheTTL time.Duration `json:"-"`
	Timeout  time.Duration `json:"-"`
	Attempts int           `json:"-"`

	// Runtime options (not serialized)
	Logger      *log.Logger `json:"-"`
	GitHubToken string      `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and server responses.
	RunID string

	// RobolectricVersion is the resolved (or supplied) Robolectric release.
	RobolectricVersion string

	// SdkVersion is "<platform>-robolectric-<suffix>" of the latest SDK.
	SdkVersion string

	// Extraction holds the raw scan results.
	Extraction *sdkconfig.Extraction

	// Dependencies are the substituted dependencies in source order.
	Dependencies []sdkconfig.ResolvedDependency

	// POM is the rendered document.
	POM []byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	VersionCount    int
	DependencyCount int
	ResolveTime     time.Duration
	FetchTime       time.Duration
	ExtractTime     time.Duration
	RenderTime      time.Duration
}

// Total returns the summed stage durations.
func (s Stats) Total() time.Duration {
	return s.ResolveTime + s.FetchTime + s.ExtractTime + s.RenderTime
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateVersionSource checks that a version source is supported.
func ValidateVersionSource(src string) error {
	if !ValidVersionSources[src] {
		return perrors.New(perrors.ErrCodeInvalidInput, "invalid version source: %q (must be one of: bintray, maven)", src)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()

	if err := ValidateVersionSource(o.VersionSource); err != nil {
		return err
	}
	if o.RobolectricVersion != "" {
		if err := perrors.ValidateVersion(o.RobolectricVersion); err != nil {
			return err
		}
	}
	for _, u := range []string{o.LatestVersionURL, o.MavenSearchURL, o.SdkConfigURL} {
		if err := perrors.ValidateURL(u); err != nil {
			return err
		}
	}
	if _, err := sdkconfig.ParseOrder(o.SdkOrder); err != nil {
		return err
	}
	if o.Timeout < 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "timeout must not be negative")
	}

	o.validated = true
	return nil
}

// SetDefaults fills every empty field with its default.
func (o *Options) SetDefaults() {
	if o.VersionSource == "" {
		o.VersionSource = DefaultVersionSource
	}
	if o.LatestVersionURL == "" {
		o.LatestVersionURL = bintray.DefaultPackageURL
	}
	if o.MavenSearchURL == "" {
		o.MavenSearchURL = maven.DefaultSearchURL
	}
	if o.SdkConfigURL == "" {
		o.SdkConfigURL = github.DefaultSdkConfigURL
	}
	if o.SdkOrder == "" {
		o.SdkOrder = sdkconfig.OrderLexical.String()
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Attempts <= 0 {
		o.Attempts = DefaultAttempts
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Order returns the parsed SdkOrder. Call after ValidateAndSetDefaults.
func (o *Options) Order() sdkconfig.Order {
	order, _ := sdkconfig.ParseOrder(o.SdkOrder)
	return order
}

func (o *Options) clientOptions(keyerOpt integrations.Option) []integrations.Option {
	return []integrations.Option{
		integrations.WithTimeout(o.Timeout),
		integrations.WithAttempts(o.Attempts),
		keyerOpt,
	}
}
