// Package x is the X.com (formerly Twitter) connector.
//
// Calls go to API v2 with OAuth 1.0a user-context signing. Media uploads use
// the v1.1 upload endpoint, which v2 has no replacement for.
package x
