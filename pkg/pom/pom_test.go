package pom

import (
	"encoding/xml"
	"errors"
	"strings"
	"testing"

	perrors "github.com/matzehuels/robopom/pkg/errors"
	"github.com/matzehuels/robopom/pkg/sdkconfig"
)

type project struct {
	XMLName      xml.Name `xml:"project"`
	GroupID      string   `xml:"groupId"`
	ArtifactID   string   `xml:"artifactId"`
	Version      string   `xml:"version"`
	Packaging    string   `xml:"packaging"`
	Comment      string   `xml:",comment"`
	Dependencies []struct {
		GroupID    string `xml:"groupId"`
		ArtifactID string `xml:"artifactId"`
		Version    string `xml:"version"`
	} `xml:"dependencies>dependency"`
}

func parse(t *testing.T, out string) project {
	t.Helper()
	var p project
	if err := xml.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("rendered POM is not well-formed XML: %v\n%s", err, out)
	}
	return p
}

func TestRenderSingleDependency(t *testing.T) {
	out, err := RenderString(RenderContext{
		RobolectricVersion: "3.0",
		SdkVersion:         "5.0.0_r2-robolectric-1",
		Dependencies: []sdkconfig.ResolvedDependency{
			{GroupID: "org.robolectric", ArtifactID: "android-all", Version: "5.0.0_r2-robolectric-1"},
		},
	})
	if err != nil {
		t.Fatalf("RenderString() error: %v", err)
	}

	if !strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("output should start with the XML declaration, got %q", out[:min(40, len(out))])
	}
	if strings.Count(out, "<dependency>") != 1 {
		t.Errorf("want exactly one <dependency>, got %d", strings.Count(out, "<dependency>"))
	}
	for _, want := range []string{
		"<groupId>org.robolectric</groupId>\n      <artifactId>android-all</artifactId>",
		"<version>5.0.0_r2-robolectric-1</version>",
		"Robolectric version: 3.0\n",
		"SDK version: 5.0.0_r2-robolectric-1\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	p := parse(t, out)
	if p.Version != "3.0" {
		t.Errorf("project version = %q, want 3.0", p.Version)
	}
	if p.GroupID != "org.robolectric" || p.ArtifactID != "robolectric-files" || p.Packaging != "pom" {
		t.Errorf("project coordinates = %s:%s (%s)", p.GroupID, p.ArtifactID, p.Packaging)
	}
	if len(p.Dependencies) != 1 {
		t.Fatalf("dependencies = %d, want 1", len(p.Dependencies))
	}
	d := p.Dependencies[0]
	if d.GroupID != "org.robolectric" || d.ArtifactID != "android-all" || d.Version != "5.0.0_r2-robolectric-1" {
		t.Errorf("dependency = %+v", d)
	}
}

func TestRenderKeepsOrder(t *testing.T) {
	deps := []sdkconfig.ResolvedDependency{
		{GroupID: "org.robolectric", ArtifactID: "android-all", Version: "5.0.0_r2-robolectric-1"},
		{GroupID: "org.robolectric", ArtifactID: "shadows-core", Version: "3.0"},
		{GroupID: "org.json", ArtifactID: "json", Version: "20080701"},
	}
	out, err := RenderString(RenderContext{RobolectricVersion: "3.0", SdkVersion: "x", Dependencies: deps})
	if err != nil {
		t.Fatalf("RenderString() error: %v", err)
	}
	p := parse(t, out)
	if len(p.Dependencies) != len(deps) {
		t.Fatalf("dependencies = %d, want %d", len(p.Dependencies), len(deps))
	}
	for i, d := range deps {
		got := p.Dependencies[i]
		if got.GroupID != d.GroupID || got.ArtifactID != d.ArtifactID || got.Version != d.Version {
			t.Errorf("dependency %d = %+v, want %v", i, got, d)
		}
	}
}

func TestRenderNoDependencies(t *testing.T) {
	out, err := RenderString(RenderContext{RobolectricVersion: "3.0", SdkVersion: "x"})
	if err != nil {
		t.Fatalf("RenderString() error: %v", err)
	}
	if !strings.Contains(out, "<dependencies>\n  </dependencies>") {
		t.Errorf("empty dependencies block not rendered:\n%s", out)
	}
	parse(t, out)
}

func TestRenderEscapes(t *testing.T) {
	out, err := RenderString(RenderContext{
		RobolectricVersion: `1.0<beta>&"x"`,
		SdkVersion:         "5.0--rc-->",
		Dependencies: []sdkconfig.ResolvedDependency{
			{GroupID: "a&b", ArtifactID: "<c>", Version: `'1'`},
		},
	})
	if err != nil {
		t.Fatalf("RenderString() error: %v", err)
	}
	if strings.Contains(out, "<beta>") || strings.Contains(out, "<c>") {
		t.Errorf("raw markup leaked into output:\n%s", out)
	}

	p := parse(t, out)
	if p.Version != `1.0<beta>&"x"` {
		t.Errorf("version round-trip = %q", p.Version)
	}
	if d := p.Dependencies[0]; d.GroupID != "a&b" || d.ArtifactID != "<c>" || d.Version != `'1'` {
		t.Errorf("dependency round-trip = %+v", d)
	}
	if strings.Contains(p.Comment, "--") {
		t.Errorf("comment contains \"--\": %q", p.Comment)
	}
	if !strings.Contains(p.Comment, `Robolectric version: 1.0<beta>&"x"`) {
		t.Errorf("comment should carry the version verbatim: %q", p.Comment)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderWriteError(t *testing.T) {
	err := Render(failWriter{}, RenderContext{RobolectricVersion: "3.0"})
	if !perrors.Is(err, perrors.ErrCodeRender) {
		t.Errorf("Render() error = %v, want RENDER_ERROR", err)
	}
}

func TestEscapeComment(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"5.0.0_r2-robolectric-1", "5.0.0_r2-robolectric-1"},
		{"a--b", "a- -b"},
		{"a---b", "a- - -b"},
		{"<x>&y", "<x>&y"},
	}
	for _, tt := range tests {
		if got := escapeComment(tt.in); got != tt.want {
			t.Errorf("escapeComment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
