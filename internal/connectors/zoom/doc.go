// Package zoom is the Zoom API v2 connector.
//
// Authentication uses a Server-to-Server OAuth app: the account credentials
// grant is exchanged for a one-hour access token which is kept in the
// token cache between invocations.
package zoom
