// Package github provides an HTTP client for raw file content on GitHub.
//
// # Overview
//
// robopom reads Robolectric's SdkConfig.java straight from the repository
// through https://raw.githubusercontent.com. The body is returned as text
// and handed to the sdkconfig package for extraction.
//
// # Usage
//
//	client := github.NewRawClient(backend, 24*time.Hour, os.Getenv("GITHUB_TOKEN"))
//	src, err := client.FetchRaw(ctx, github.DefaultSdkConfigURL, false)
//
// # Authentication
//
// A token is optional. When set it is sent as "Authorization: Bearer",
// which raises the rate limit and allows reading private forks.
//
// # URL Forms
//
// Both raw URLs and github.com "blob" URLs are accepted; see [RawURL].
package github
