// Package pom renders the Maven POM that lists the Robolectric runtime jars.
//
// The document is a fixed template: project coordinates
// org.robolectric:robolectric-files at the Robolectric version, a comment
// naming both versions with the mvn command that downloads the jars, and one
// <dependency> per resolved dependency in input order.
//
// Every interpolated element value is XML-escaped. Values placed inside the
// comment are written verbatim except that "--" is broken up, since XML
// forbids it there.
package pom
