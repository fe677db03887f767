// Package domain defines the core types shared by every switchboard connector.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Vendor: A supported SaaS API and the credentials it needs
//   - Credentials: Key/value secrets loaded for one vendor
//   - OAuthToken: A cached access token with its expiry
//   - ActivityRecord: A mutation performed against a vendor API
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
