package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/matzehuels/robopom/pkg/observability"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine and the test
// to share.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}

func (b *syncBuffer) String() string {
	return string(b.Bytes())
}

const testSdkConfig = `public class SdkConfig {
  static {
    addSdk(new SdkVersion("4.4_r1", "0"));
    addSdk(new SdkVersion("5.0.0_r2", "1"));
  }

  public DependencyJar[] getSdkClasspathDependencies() {
    return new DependencyJar[] {
        createDependency("org.robolectric", "android-all", artifactVersionString, null),
        createDependency("org.robolectric", "shadows-core", ROBOLECTRIC_VERSION, null),
        createDependency("org.json", "json", "20080701", null)
    };
  }
}
`

// newFakeUpstream serves the bintray, maven and SdkConfig.java endpoints.
// sdkStatus overrides the SdkConfig.java status when non-zero.
func newFakeUpstream(t *testing.T, sdkStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/bintray", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"robolectric","latest_version":"3.0-rc2"}`))
	})
	mux.HandleFunc("/maven", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"numFound":1,"docs":[{"g":"org.robolectric","a":"robolectric","latestVersion":"4.11.1"}]}}`))
	})
	mux.HandleFunc("/SdkConfig.java", func(w http.ResponseWriter, r *http.Request) {
		if sdkStatus != 0 {
			w.WriteHeader(sdkStatus)
			return
		}
		w.Write([]byte(testSdkConfig))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// writeConfig writes a config.toml pointing at srv, followed by extra.
func writeConfig(t *testing.T, srv *httptest.Server, extra string) string {
	t.Helper()
	body := fmt.Sprintf(`[sources]
sdk_config_url = %q
latest_version_url = %q
maven_search_url = %q

[http]
timeout = "5s"
`, srv.URL+"/SdkConfig.java", srv.URL+"/bintray", srv.URL+"/maven")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body+extra), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI executes the root command with args and captures both streams.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Cleanup(observability.Reset)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")

	var out, errOut bytes.Buffer
	c := New(&out, &errOut, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}
