package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/robopom/pkg/errors"
	"github.com/matzehuels/robopom/pkg/pipeline"
)

// generateOpts holds the generate flags. Flags left unset fall back to the
// config file, which falls back to the pipeline defaults.
type generateOpts struct {
	output             string
	versionSource      string
	robolectricVersion string
	sdkConfigURL       string
	latestVersionURL   string
	sdkOrder           string
	refresh            bool
	cache              string
}

// register adds the generate flags to cmd.
func (o *generateOpts) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", "", "write the POM to this file instead of stdout")
	f.StringVar(&o.versionSource, "version-source", "", "latest-version source: bintray or maven")
	f.StringVar(&o.robolectricVersion, "robolectric-version", "", "use this Robolectric version instead of resolving the latest")
	f.StringVar(&o.sdkConfigURL, "sdk-config-url", "", "URL of SdkConfig.java")
	f.StringVar(&o.latestVersionURL, "latest-version-url", "", "URL of the bintray package endpoint")
	f.StringVar(&o.sdkOrder, "sdk-order", "", "SDK version ordering: lexical or numeric")
	f.BoolVar(&o.refresh, "refresh", false, "bypass cached upstream responses")
	f.StringVar(&o.cache, "cache", "", "cache backend: none, file, redis or mongo")
}

// options merges the flags that were set on cmd over the loaded config.
func (o *generateOpts) options(cmd *cobra.Command, cfg *Config) pipeline.Options {
	opts := cfg.pipelineOptions()
	f := cmd.Flags()
	if f.Changed("version-source") {
		opts.VersionSource = o.versionSource
	}
	if f.Changed("robolectric-version") {
		opts.RobolectricVersion = o.robolectricVersion
	}
	if f.Changed("sdk-config-url") {
		opts.SdkConfigURL = o.sdkConfigURL
	}
	if f.Changed("latest-version-url") {
		opts.LatestVersionURL = o.latestVersionURL
	}
	if f.Changed("sdk-order") {
		opts.SdkOrder = o.sdkOrder
	}
	opts.Refresh = o.refresh
	return opts
}

// generateCommand creates the generate command. The bare root command runs
// the same code.
func (c *CLI) generateCommand() *cobra.Command {
	opts := &generateOpts{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the Robolectric offline-mode pom.xml",
		Long: `Generate resolves the latest Robolectric release, downloads SdkConfig.java,
extracts every android-all jar it declares and prints a Maven POM listing them.`,
		Example: `  # Print the POM
  robopom generate > pom.xml

  # Pin the Robolectric version and write to a file
  robopom generate --robolectric-version 4.3 -o pom.xml

  # Resolve the version from Maven Central and cache responses on disk
  robopom generate --version-source maven --cache file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, opts)
		},
	}
	opts.register(cmd)
	return cmd
}

// runGenerate runs the pipeline and writes the POM. Nothing reaches stdout
// or the output file unless every stage succeeded.
func (c *CLI) runGenerate(cmd *cobra.Command, o *generateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	backend := ""
	if cmd.Flags().Changed("cache") {
		backend = o.cache
	}
	runner, err := c.newRunner(ctx, backend)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := o.options(cmd, c.config)
	opts.Logger = logger

	prog := newProgress(logger)
	spinner := newSpinner(ctx, c.stderr, "Generating pom.xml...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	if o.output == "" {
		if _, err := c.stdout.Write(result.POM); err != nil {
			return perrors.Wrap(perrors.ErrCodeInternal, err, "write pom to stdout")
		}
	} else if err := writeFileAtomic(o.output, result.POM); err != nil {
		return perrors.Wrap(perrors.ErrCodeInternal, err, "write %s", o.output)
	}

	c.ui.success("Robolectric %s with SDK %s", result.RobolectricVersion, result.SdkVersion)
	c.ui.stats(result.Stats.VersionCount, result.Stats.DependencyCount)
	if o.output != "" {
		c.ui.file(o.output)
		prog.done(fmt.Sprintf("Wrote %s", o.output))
	}
	return nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer os.Remove(name)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(name, 0o644); err != nil {
		return err
	}
	return os.Rename(name, path)
}
