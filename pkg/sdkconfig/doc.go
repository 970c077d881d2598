// Package sdkconfig extracts Robolectric SDK and dependency declarations
// from the source text of SdkConfig.java.
//
// # Overview
//
// SdkConfig.java enumerates the Android platform builds Robolectric supports
// and the jars each one needs. This package scans that text with two regular
// expressions rather than parsing Java:
//
//	SdkVersion("5.0.0_r2", "1")
//	createDependency("org.robolectric", "android-all", artifactVersionString, null)
//
// The first pattern yields [VersionPair] values; the greatest one becomes the
// SDK version string "5.0.0_r2-robolectric-1". The second yields [Dependency]
// values whose version token may be one of two sentinels:
//
//   - artifactVersionString: replaced with the SDK version
//   - ROBOLECTRIC_VERSION: replaced with the Robolectric release
//
// Any other token is a literal; its double quotes are removed.
//
// # Ordering
//
// [OrderLexical] compares platform strings byte by byte, so "4.4_r1" sorts
// above "10.0.0_r1". [OrderNumeric] compares dotted numeric segments as
// numbers instead. Lexical is the default.
//
// # Errors
//
// Text with no SdkVersion declarations fails with [ErrNoSdkVersions]; text
// with no createDependency lines fails with [ErrNoDependencies]. Both carry
// the PARSE_ERROR code.
package sdkconfig
