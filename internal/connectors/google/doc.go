// Package google provides shared infrastructure for the Google Workspace
// connectors.
//
// This package contains the plumbing used by the docs, drive, gmail,
// calendar and sheets packages:
//   - NewTokenSource, a refresh-token oauth2.TokenSource
//   - Session, which builds authenticated, rate limited API services
//   - Error handling for common Google API errors (401, 403, 404, 429)
//   - Rate limiting to respect per-service quotas
//
// # Usage
//
//	ts := google.NewTokenSource(ctx, clientID, clientSecret, refreshToken)
//	session := google.NewSession(ts)
//	svc, err := session.Drive(ctx)
//
// # OAuth2 Scopes
//
// The refresh token must have been granted the scopes in Scopes. The
// consent flow that obtains it is outside this tool.
package google
