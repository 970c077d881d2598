package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/matzehuels/robopom/pkg/cache"
	"github.com/matzehuels/robopom/pkg/integrations"
)

// DefaultSdkConfigURL is the raw location of Robolectric's SdkConfig.java.
const DefaultSdkConfigURL = "https://raw.githubusercontent.com/robolectric/robolectric/master/robolectric/src/main/java/org/robolectric/internal/SdkConfig.java"

var blobURLPattern = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/]+)/blob/(.+)$`)

// RawClient downloads files from raw.githubusercontent.com.
// It handles HTTP requests with caching, optional retries, and optional authentication.
type RawClient struct {
	*integrations.Client
	token string
}

// NewRawClient creates a raw-content client.
// Pass an empty string for token to use unauthenticated requests. The token
// is only sent to GitHub hosts.
func NewRawClient(backend cache.Cache, ttl time.Duration, token string, opts ...integrations.Option) *RawClient {
	return &RawClient{
		Client: integrations.NewClient(backend, "github", ttl, nil, opts...),
		token:  token,
	}
}

// FetchRaw returns the body at rawURL as text. A github.com blob URL is
// rewritten to its raw.githubusercontent.com form first.
// If refresh is true, cached data is bypassed.
func (c *RawClient) FetchRaw(ctx context.Context, rawURL string, refresh bool) (string, error) {
	rawURL = RawURL(rawURL)
	headers := c.authHeaders(rawURL)

	var text string
	err := c.Cached(ctx, rawURL, refresh, &text, func() error {
		var err error
		text, err = c.GetTextWithHeaders(ctx, rawURL, headers)
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: %s", err, rawURL)
		}
		return err
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// authHeaders returns the Authorization header for rawURL, or nil when no
// token is set or the host is not GitHub.
func (c *RawClient) authHeaders(rawURL string) map[string]string {
	if c.token == "" {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil || !IsGitHubHost(u.Hostname()) {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + c.token}
}

// IsGitHubHost reports whether host may receive a GitHub token.
func IsGitHubHost(host string) bool {
	switch host {
	case "github.com", "raw.githubusercontent.com":
		return true
	}
	return false
}

// RawURL converts "https://github.com/<owner>/<repo>/blob/<ref>/<path>" into
// the equivalent raw.githubusercontent.com URL. Other URLs are returned unchanged.
func RawURL(rawURL string) string {
	m := blobURLPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return rawURL
	}
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s", m[1], m[2], m[3])
}
