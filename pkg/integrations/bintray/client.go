package bintray

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/robopom/pkg/cache"
	"github.com/matzehuels/robopom/pkg/integrations"
)

// DefaultPackageURL is the Bintray package endpoint for org.robolectric:robolectric.
const DefaultPackageURL = "https://api.bintray.com/packages/bintray/jcenter/org.robolectric%3Arobolectric"

// PackageInfo holds the subset of a Bintray package record robopom needs.
type PackageInfo struct {
	Name          string   `json:"name"`
	Repo          string   `json:"repo"`
	Owner         string   `json:"owner"`
	LatestVersion string   `json:"latest_version"`
	Versions      []string `json:"versions,omitempty"`
}

// Client provides access to the Bintray package API.
// It handles HTTP requests with caching and optional retries.
type Client struct {
	*integrations.Client
	packageURL string
}

// NewClient creates a Bintray client for the package at packageURL.
// An empty packageURL selects [DefaultPackageURL].
func NewClient(backend cache.Cache, ttl time.Duration, packageURL string, opts ...integrations.Option) *Client {
	if packageURL == "" {
		packageURL = DefaultPackageURL
	}
	return &Client{
		Client:     integrations.NewClient(backend, "bintray", ttl, nil, opts...),
		packageURL: packageURL,
	}
}

// FetchPackage retrieves the package record.
// If refresh is true, cached data is bypassed.
//
// Returns [integrations.ErrDecode] if the body is not JSON or has no
// latest_version, [integrations.ErrNotFound] on 404, and
// [integrations.ErrNetwork] for any other transport or status failure.
func (c *Client) FetchPackage(ctx context.Context, refresh bool) (*PackageInfo, error) {
	var info PackageInfo
	err := c.Cached(ctx, c.packageURL, refresh, &info, func() error {
		return c.fetch(ctx, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// LatestVersion returns the package's latest_version field.
func (c *Client) LatestVersion(ctx context.Context, refresh bool) (string, error) {
	info, err := c.FetchPackage(ctx, refresh)
	if err != nil {
		return "", err
	}
	return info.LatestVersion, nil
}

func (c *Client) fetch(ctx context.Context, info *PackageInfo) error {
	var data PackageInfo
	if err := c.Get(ctx, c.packageURL, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: bintray package %s", err, c.packageURL)
		}
		return err
	}
	if data.LatestVersion == "" {
		return fmt.Errorf("%w: bintray response has no latest_version", integrations.ErrDecode)
	}
	*info = data
	return nil
}
