package sdkconfig

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	perrors "github.com/matzehuels/robopom/pkg/errors"
)

// Sentinel version tokens recognised by [Resolve].
const (
	TokenSdkVersion         = "artifactVersionString"
	TokenRobolectricVersion = "ROBOLECTRIC_VERSION"
)

var (
	sdkVersionRE       = regexp.MustCompile(`SdkVersion\("(.+)",\s*"(.+)"\)`)
	createDependencyRE = regexp.MustCompile(`(?m)^\s*createDependency\("(.+?)",\s*"(.+?)",\s*(.+?),`)
)

var (
	// ErrNoSdkVersions is returned when the source declares no SdkVersion.
	ErrNoSdkVersions = perrors.New(perrors.ErrCodeParse, "no SdkVersion declarations found")

	// ErrNoDependencies is returned when the source has no createDependency lines.
	ErrNoDependencies = perrors.New(perrors.ErrCodeParse, "no createDependency declarations found")
)

// VersionPair is one SdkVersion("<platform>", "<suffix>") declaration.
type VersionPair struct {
	Platform string `json:"platform"`
	Suffix   string `json:"suffix"`
}

// SdkVersion returns "<platform>-robolectric-<suffix>".
func (p VersionPair) SdkVersion() string {
	return p.Platform + "-robolectric-" + p.Suffix
}

// Dependency is one createDependency declaration with its raw version token.
type Dependency struct {
	GroupID      string `json:"group_id"`
	ArtifactID   string `json:"artifact_id"`
	VersionToken string `json:"version_token"`
}

// ResolvedDependency is a [Dependency] with a concrete version.
type ResolvedDependency struct {
	GroupID    string `json:"group_id"`
	ArtifactID string `json:"artifact_id"`
	Version    string `json:"version"`
}

// Extraction is everything pulled out of one SdkConfig.java text.
type Extraction struct {
	Versions     []VersionPair
	Latest       VersionPair
	Dependencies []Dependency
}

// SdkVersion is shorthand for e.Latest.SdkVersion().
func (e *Extraction) SdkVersion() string { return e.Latest.SdkVersion() }

// ParseVersions returns every SdkVersion declaration in source order.
func ParseVersions(src string) []VersionPair {
	matches := sdkVersionRE.FindAllStringSubmatch(src, -1)
	pairs := make([]VersionPair, 0, len(matches))
	for _, m := range matches {
		pairs = append(pairs, VersionPair{Platform: m[1], Suffix: m[2]})
	}
	return pairs
}

// ParseDependencies returns every createDependency declaration in source order.
func ParseDependencies(src string) []Dependency {
	matches := createDependencyRE.FindAllStringSubmatch(src, -1)
	deps := make([]Dependency, 0, len(matches))
	for _, m := range matches {
		deps = append(deps, Dependency{GroupID: m[1], ArtifactID: m[2], VersionToken: m[3]})
	}
	return deps
}

// Latest returns the pair with the greatest Platform under [OrderLexical].
func Latest(pairs []VersionPair) (VersionPair, error) {
	return LatestBy(pairs, OrderLexical)
}

// LatestBy returns the pair with the greatest Platform under order.
// The sort is stable and descending, so among equal platforms the pair that
// appears first in pairs wins.
func LatestBy(pairs []VersionPair, order Order) (VersionPair, error) {
	if len(pairs) == 0 {
		return VersionPair{}, ErrNoSdkVersions
	}
	cmp := order.compare()
	sorted := slices.Clone(pairs)
	slices.SortStableFunc(sorted, func(a, b VersionPair) int {
		return cmp(b.Platform, a.Platform)
	})
	return sorted[0], nil
}

// Extract scans src with [OrderLexical]. See [ExtractWith].
func Extract(src string) (*Extraction, error) {
	return ExtractWith(src, OrderLexical)
}

// ExtractWith runs both scans over src and selects the latest version pair
// under order. It fails with [ErrNoSdkVersions] or [ErrNoDependencies] when
// either scan comes back empty.
func ExtractWith(src string, order Order) (*Extraction, error) {
	versions := ParseVersions(src)
	latest, err := LatestBy(versions, order)
	if err != nil {
		return nil, err
	}
	deps := ParseDependencies(src)
	if len(deps) == 0 {
		return nil, ErrNoDependencies
	}
	return &Extraction{Versions: versions, Latest: latest, Dependencies: deps}, nil
}

// Resolve substitutes the version token of dep.
//
//	artifactVersionString -> sdkVersion
//	ROBOLECTRIC_VERSION   -> robolectricVersion
//	anything else         -> the token with every '"' removed
func Resolve(dep Dependency, sdkVersion, robolectricVersion string) ResolvedDependency {
	var version string
	switch dep.VersionToken {
	case TokenSdkVersion:
		version = sdkVersion
	case TokenRobolectricVersion:
		version = robolectricVersion
	default:
		version = strings.ReplaceAll(dep.VersionToken, `"`, "")
	}
	return ResolvedDependency{GroupID: dep.GroupID, ArtifactID: dep.ArtifactID, Version: version}
}

// ResolveAll applies [Resolve] to each dependency, keeping order.
func ResolveAll(deps []Dependency, sdkVersion, robolectricVersion string) []ResolvedDependency {
	out := make([]ResolvedDependency, len(deps))
	for i, d := range deps {
		out[i] = Resolve(d, sdkVersion, robolectricVersion)
	}
	return out
}

// String implements fmt.Stringer for log output.
func (d Dependency) String() string {
	return fmt.Sprintf("%s:%s:%s", d.GroupID, d.ArtifactID, d.VersionToken)
}

// String implements fmt.Stringer for log output.
func (d ResolvedDependency) String() string {
	return fmt.Sprintf("%s:%s:%s", d.GroupID, d.ArtifactID, d.Version)
}
