package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/robopom/pkg/cache"
	"github.com/matzehuels/robopom/pkg/integrations"
	"github.com/matzehuels/robopom/pkg/integrations/bintray"
	"github.com/matzehuels/robopom/pkg/integrations/github"
	"github.com/matzehuels/robopom/pkg/integrations/maven"
	"github.com/matzehuels/robopom/pkg/observability"
	"github.com/matzehuels/robopom/pkg/pom"
	"github.com/matzehuels/robopom/pkg/sdkconfig"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating the stage wiring.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete resolve → fetch → extract → render pipeline.
// Any stage failure aborts the run; the returned error carries a
// [perrors.Code] describing the failure family.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])
	opts.Logger = logger

	// Stage 1: Resolve
	version, d, err := timed(ctx, observability.StageResolve, func() (string, error) {
		return r.ResolveVersion(ctx, opts)
	})
	if err != nil {
		return nil, err
	}
	result.RobolectricVersion = version
	result.Stats.ResolveTime = d

	// Stage 2: Fetch
	src, d, err := timed(ctx, observability.StageFetch, func() (string, error) {
		return r.FetchSdkConfig(ctx, opts)
	})
	if err != nil {
		return nil, err
	}
	result.Stats.FetchTime = d
	logger.Debug("fetched sdk config", "url", opts.SdkConfigURL, "bytes", len(src), "duration", d)

	// Stage 3: Extract
	ext, d, err := timed(ctx, observability.StageExtract, func() (*sdkconfig.Extraction, error) {
		ext, err := sdkconfig.ExtractWith(src, opts.Order())
		if err != nil {
			return nil, stageError(observability.StageExtract, err, "extract dependencies from %s", opts.SdkConfigURL)
		}
		return ext, nil
	})
	if err != nil {
		return nil, err
	}
	result.Extraction = ext
	result.SdkVersion = ext.SdkVersion()
	result.Dependencies = sdkconfig.ResolveAll(ext.Dependencies, result.SdkVersion, version)
	result.Stats.ExtractTime = d
	result.Stats.VersionCount = len(ext.Versions)
	result.Stats.DependencyCount = len(result.Dependencies)

	logger.Info("extracted dependencies",
		"sdk_version", result.SdkVersion,
		"sdk_versions", len(ext.Versions),
		"dependencies", len(result.Dependencies),
		"order", opts.SdkOrder)
	for _, dep := range result.Dependencies {
		logger.Debug("dependency", "coordinate", dep.String())
	}

	// Stage 4: Render
	out, d, err := timed(ctx, observability.StageRender, func() ([]byte, error) {
		var buf bytes.Buffer
		err := pom.Render(&buf, pom.RenderContext{
			RobolectricVersion: version,
			SdkVersion:         result.SdkVersion,
			Dependencies:       result.Dependencies,
		})
		if err != nil {
			return nil, stageError(observability.StageRender, err, "render pom")
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		return nil, err
	}
	result.POM = out
	result.Stats.RenderTime = d

	logger.Info("rendered pom", "bytes", len(out), "duration", result.Stats.Total())
	return result, nil
}

// ResolveVersion returns opts.RobolectricVersion when set, otherwise the
// latest release from the configured version source.
func (r *Runner) ResolveVersion(ctx context.Context, opts Options) (string, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return "", err
	}

	if opts.RobolectricVersion != "" {
		opts.Logger.Info("using pinned robolectric version", "version", opts.RobolectricVersion)
		return opts.RobolectricVersion, nil
	}

	var (
		version string
		err     error
		from    string
	)
	clientOpts := opts.clientOptions(integrations.WithKeyer(r.Keyer))
	switch opts.VersionSource {
	case SourceMaven:
		from = opts.MavenSearchURL
		client := maven.NewClient(r.Cache, opts.CacheTTL, opts.MavenSearchURL, clientOpts...)
		version, err = client.LatestVersion(ctx, RobolectricCoordinate, opts.Refresh)
	default:
		from = opts.LatestVersionURL
		client := bintray.NewClient(r.Cache, opts.CacheTTL, opts.LatestVersionURL, clientOpts...)
		version, err = client.LatestVersion(ctx, opts.Refresh)
	}
	if err != nil {
		return "", stageError(observability.StageResolve, err, "resolve latest robolectric version from %s", from)
	}

	opts.Logger.Info("resolved robolectric version", "version", version, "source", opts.VersionSource)
	return version, nil
}

// FetchSdkConfig downloads the SdkConfig.java source text.
func (r *Runner) FetchSdkConfig(ctx context.Context, opts Options) (string, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return "", err
	}

	client := github.NewRawClient(r.Cache, opts.CacheTTL, opts.GitHubToken,
		opts.clientOptions(integrations.WithKeyer(r.Keyer))...)
	src, err := client.FetchRaw(ctx, opts.SdkConfigURL, opts.Refresh)
	if err != nil {
		return "", stageError(observability.StageFetch, err, "fetch %s", opts.SdkConfigURL)
	}
	return src, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// timed runs fn as the named stage, reporting it to the pipeline hooks.
func timed[T any](ctx context.Context, stage string, fn func() (T, error)) (T, time.Duration, error) {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, stage)
	start := time.Now()
	v, err := fn()
	d := time.Since(start)
	hooks.OnStageComplete(ctx, stage, d, err)
	return v, d, err
}
