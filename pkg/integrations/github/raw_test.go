package github

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/robopom/pkg/cache"
	"github.com/matzehuels/robopom/pkg/integrations"
)

const sdkConfigSnippet = `  private static final Map<Integer, SdkVersion> SUPPORTED_APIS = Collections.unmodifiableMap(new HashMap<Integer, SdkVersion>() {
    {
      addSdk(Build.VERSION_CODES.LOLLIPOP, "5.0.0_r2", "1");
    }
  });
`

func TestRawURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"raw unchanged", DefaultSdkConfigURL, DefaultSdkConfigURL},
		{
			"blob rewritten",
			"https://github.com/robolectric/robolectric/blob/master/robolectric/src/main/java/org/robolectric/internal/SdkConfig.java",
			DefaultSdkConfigURL,
		},
		{"other host unchanged", "https://example.com/SdkConfig.java", "https://example.com/SdkConfig.java"},
		{"tree url unchanged", "https://github.com/robolectric/robolectric/tree/master", "https://github.com/robolectric/robolectric/tree/master"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RawURL(tt.input); got != tt.want {
				t.Errorf("RawURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFetchRaw(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(sdkConfigSnippet))
	}))
	defer server.Close()

	c := NewRawClient(nil, time.Hour, "")
	got, err := c.FetchRaw(context.Background(), server.URL+"/SdkConfig.java", false)
	if err != nil {
		t.Fatalf("FetchRaw() error: %v", err)
	}
	if got != sdkConfigSnippet {
		t.Errorf("FetchRaw() = %q, want %q", got, sdkConfigSnippet)
	}
}

// roundTripFunc answers requests in-process so GitHub hosts can be tested
// without network access.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestFetchRawAuthorization(t *testing.T) {
	var auth string
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		auth = r.Header.Get("Authorization")
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": {"text/plain"}},
			Body:       io.NopCloser(strings.NewReader(sdkConfigSnippet)),
			Request:    r,
		}, nil
	})

	tests := []struct {
		name     string
		token    string
		url      string
		wantAuth string
	}{
		{"anonymous", "", DefaultSdkConfigURL, ""},
		{"raw host", "s3cret", DefaultSdkConfigURL, "Bearer s3cret"},
		{"blob url", "s3cret", "https://github.com/robolectric/robolectric/blob/master/SdkConfig.java", "Bearer s3cret"},
		{"foreign host", "s3cret", "https://mirror.example.com/SdkConfig.java", ""},
		{"lookalike host", "s3cret", "https://raw.githubusercontent.com.evil.test/SdkConfig.java", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth = "unset"
			c := NewRawClient(nil, time.Hour, tt.token,
				integrations.WithHTTPClient(&http.Client{Transport: transport}))
			if _, err := c.FetchRaw(context.Background(), tt.url, false); err != nil {
				t.Fatalf("FetchRaw() error: %v", err)
			}
			if auth != tt.wantAuth {
				t.Errorf("Authorization = %q, want %q", auth, tt.wantAuth)
			}
		})
	}
}

func TestFetchRawTokenStaysOnGitHub(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(sdkConfigSnippet))
	}))
	defer server.Close()

	c := NewRawClient(nil, time.Hour, "ghp_secret")
	if _, err := c.FetchRaw(context.Background(), server.URL+"/SdkConfig.java", false); err != nil {
		t.Fatalf("FetchRaw() error: %v", err)
	}
	if auth != "" {
		t.Errorf("non-GitHub host received Authorization %q", auth)
	}
}

func TestIsGitHubHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"github.com", true},
		{"raw.githubusercontent.com", true},
		{"api.github.com", false},
		{"example.com", false},
		{"127.0.0.1", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsGitHubHost(tt.host); got != tt.want {
			t.Errorf("IsGitHubHost(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}

func TestFetchRawNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	c := NewRawClient(nil, time.Hour, "")
	_, err := c.FetchRaw(context.Background(), server.URL+"/missing.java", false)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("FetchRaw() error = %v, want ErrNotFound", err)
	}
}

func TestFetchRawCached(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(sdkConfigSnippet))
	}))
	defer server.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer fc.Close()

	c := NewRawClient(fc, time.Hour, "")
	url := server.URL + "/SdkConfig.java"
	for range 2 {
		if _, err := c.FetchRaw(context.Background(), url, false); err != nil {
			t.Fatalf("FetchRaw() error: %v", err)
		}
	}
	if _, err := c.FetchRaw(context.Background(), url, true); err != nil {
		t.Fatalf("FetchRaw(refresh) error: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hits = %d, want 2 (one miss, one refresh)", got)
	}
}
