// Package integrations provides HTTP clients for the upstream services robopom
// reads from.
//
// # Overview
//
// Each upstream has its own subpackage:
//
//   - [bintray]: Bintray package API, the default latest-version source
//   - [maven]: Maven Central search, an alternative latest-version source
//   - [github]: raw.githubusercontent.com, for SdkConfig.java
//
// # Client Pattern
//
// All clients follow a consistent pattern:
//
//	client := bintray.NewClient(backend, 24*time.Hour)
//	version, err := client.LatestVersion(ctx, false)  // false = use cache
//
// Clients handle:
//   - HTTP requests with optional retry
//   - Response caching through any [cache.Cache] backend
//   - API-specific parsing
//
// # Shared Infrastructure
//
// The [Client] type provides shared HTTP functionality used by all clients.
// Failures are reported through three sentinels: [ErrNotFound] for 404,
// [ErrNetwork] for transport errors and other non-2xx statuses, and
// [ErrDecode] for bodies that cannot be parsed.
//
// [bintray]: github.com/matzehuels/robopom/pkg/integrations/bintray
// [maven]: github.com/matzehuels/robopom/pkg/integrations/maven
// [github]: github.com/matzehuels/robopom/pkg/integrations/github
// [cache.Cache]: github.com/matzehuels/robopom/pkg/cache.Cache
package integrations
