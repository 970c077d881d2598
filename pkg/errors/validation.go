package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https) and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme: %q", rawURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL %q", rawURL)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL has no host: %q", rawURL)
	}

	return nil
}

// ValidateVersion validates a user-supplied version string such as the
// --robolectric-version override.
//
// Validation rules:
//   - Version cannot be empty
//   - Maximum length of 128 characters
//   - No whitespace or control characters
func ValidateVersion(version string) error {
	if version == "" {
		return New(ErrCodeInvalidInput, "version cannot be empty")
	}

	const maxVersionLength = 128
	if len(version) > maxVersionLength {
		return New(ErrCodeInvalidInput, "version too long (max %d characters)", maxVersionLength)
	}

	for _, r := range version {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "version contains invalid characters: %q", version)
		}
	}

	return nil
}

// mavenCoordinateRegex matches "groupId:artifactId" coordinates.
var mavenCoordinateRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+:[A-Za-z0-9_.-]+$`)

// ValidateCoordinate validates a Maven "groupId:artifactId" coordinate.
func ValidateCoordinate(coord string) error {
	if coord == "" {
		return New(ErrCodeInvalidInput, "maven coordinate cannot be empty")
	}
	if !mavenCoordinateRegex.MatchString(coord) {
		return New(ErrCodeInvalidInput, "invalid maven coordinate %q (expected groupId:artifactId)", coord)
	}
	return nil
}
