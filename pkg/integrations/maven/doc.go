// Package maven provides an HTTP client for the Maven Central search API.
//
// # Overview
//
// This package asks Maven Central (https://search.maven.org) for the latest
// published version of an artifact. robopom uses it as an alternative to
// Bintray when resolving the current Robolectric release.
//
// # Usage
//
//	client := maven.NewClient(backend, 24*time.Hour, "")
//	version, err := client.LatestVersion(ctx, "org.robolectric:robolectric", false)
//
// # Coordinates
//
// Maven artifacts are identified by coordinates in the format "groupId:artifactId".
//
// # Version Selection
//
// The search document's latestVersion field is preferred. Some documents
// only carry v, which is used as a fallback.
package maven
