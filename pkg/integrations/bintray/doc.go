// Package bintray provides an HTTP client for the Bintray package API.
//
// # Overview
//
// robopom asks Bintray for the latest published version of
// org.robolectric:robolectric. The response is a JSON package record whose
// latest_version field is the only value used.
//
// # Usage
//
//	client := bintray.NewClient(backend, 24*time.Hour, "")
//	version, err := client.LatestVersion(ctx, false)  // false = use cache
//
// # Errors
//
// A body that is not JSON, or that lacks latest_version, is reported as
// [integrations.ErrDecode]. Transport failures and non-2xx statuses are
// [integrations.ErrNetwork] (or [integrations.ErrNotFound] for 404).
//
// [integrations.ErrDecode]: github.com/matzehuels/robopom/pkg/integrations.ErrDecode
// [integrations.ErrNetwork]: github.com/matzehuels/robopom/pkg/integrations.ErrNetwork
// [integrations.ErrNotFound]: github.com/matzehuels/robopom/pkg/integrations.ErrNotFound
package bintray
