// Package auth provides the request authorizers that are not plain static
// headers, and the factory that turns vendor credentials into clients.
//
// X.com requests are signed with OAuth 1.0a HMAC-SHA1. Zoom and Google use
// OAuth 2.0 token sources whose access tokens are kept in the on-disk token
// cache. Token vendors send their API token as a header.
package auth
