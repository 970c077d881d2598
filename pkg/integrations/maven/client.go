package maven

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/robopom/pkg/cache"
	perrors "github.com/matzehuels/robopom/pkg/errors"
	"github.com/matzehuels/robopom/pkg/integrations"
)

// DefaultSearchURL is the Maven Central Solr search endpoint.
const DefaultSearchURL = "https://search.maven.org/solrsearch/select"

// ArtifactInfo holds the search result for a Java artifact on Maven Central.
//
// Zero values: All string fields are empty.
// This struct is safe for concurrent reads after construction.
type ArtifactInfo struct {
	GroupID    string `json:"group_id"`    // Maven groupId (e.g., "org.robolectric")
	ArtifactID string `json:"artifact_id"` // Maven artifactId (e.g., "robolectric")
	Version    string `json:"version"`     // Latest version (never empty in valid info)
}

// Coordinate returns the Maven coordinate string "groupId:artifactId".
// Example: "org.robolectric:robolectric"
func (a *ArtifactInfo) Coordinate() string {
	return a.GroupID + ":" + a.ArtifactID
}

// Client provides access to the Maven Central search API.
// It handles HTTP requests with caching and optional retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Maven Central client.
//
// Responses are cached in backend for ttl. An empty baseURL selects
// [DefaultSearchURL]. The returned Client is safe for concurrent use.
func NewClient(backend cache.Cache, ttl time.Duration, baseURL string, opts ...integrations.Option) *Client {
	if baseURL == "" {
		baseURL = DefaultSearchURL
	}
	return &Client{
		Client:  integrations.NewClient(backend, "maven", ttl, nil, opts...),
		baseURL: baseURL,
	}
}

// FetchArtifact retrieves the latest-version record for an artifact.
//
// The coordinate parameter must be in the format "groupId:artifactId",
// e.g. "org.robolectric:robolectric".
//
// If refresh is true, the cache is bypassed and a fresh API call is made.
//
// Returns:
//   - ArtifactInfo populated with metadata on success
//   - [integrations.ErrNotFound] if the search has no hits
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
//   - [integrations.ErrDecode] if the hit carries no version
//   - an INVALID_INPUT error if the coordinate is malformed
func (c *Client) FetchArtifact(ctx context.Context, coordinate string, refresh bool) (*ArtifactInfo, error) {
	groupID, artifactID, err := parseCoordinate(coordinate)
	if err != nil {
		return nil, err
	}

	var info ArtifactInfo
	err = c.Cached(ctx, coordinate, refresh, &info, func() error {
		return c.fetch(ctx, groupID, artifactID, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// LatestVersion returns only the version of [Client.FetchArtifact].
func (c *Client) LatestVersion(ctx context.Context, coordinate string, refresh bool) (string, error) {
	info, err := c.FetchArtifact(ctx, coordinate, refresh)
	if err != nil {
		return "", err
	}
	return info.Version, nil
}

func (c *Client) fetch(ctx context.Context, groupID, artifactID string, info *ArtifactInfo) error {
	query := fmt.Sprintf("g:%q AND a:%q", groupID, artifactID)
	url := fmt.Sprintf("%s?q=%s&rows=1&wt=json", c.baseURL, integrations.URLEncode(query))

	var searchResp searchResponse
	if err := c.Get(ctx, url, &searchResp); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: maven artifact %s:%s", err, groupID, artifactID)
		}
		return err
	}

	if searchResp.Response.NumFound == 0 || len(searchResp.Response.Docs) == 0 {
		return fmt.Errorf("%w: maven artifact %s:%s", integrations.ErrNotFound, groupID, artifactID)
	}

	doc := searchResp.Response.Docs[0]
	version := doc.LatestVersion
	if version == "" {
		version = doc.Version
	}
	if version == "" {
		return fmt.Errorf("%w: no version for maven artifact %s:%s", integrations.ErrDecode, groupID, artifactID)
	}

	*info = ArtifactInfo{
		GroupID:    groupID,
		ArtifactID: artifactID,
		Version:    version,
	}
	return nil
}

func parseCoordinate(coord string) (groupID, artifactID string, err error) {
	if err := perrors.ValidateCoordinate(coord); err != nil {
		return "", "", err
	}
	groupID, artifactID, _ = strings.Cut(coord, ":")
	return groupID, artifactID, nil
}

type searchResponse struct {
	Response struct {
		NumFound int         `json:"numFound"`
		Docs     []searchDoc `json:"docs"`
	} `json:"response"`
}

type searchDoc struct {
	GroupID       string `json:"g"`
	ArtifactID    string `json:"a"`
	Version       string `json:"v"`
	LatestVersion string `json:"latestVersion"`
}
