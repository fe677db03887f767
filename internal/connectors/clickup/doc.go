// Package clickup is the ClickUp API v2 connector.
//
// Requests authenticate with a personal API token sent verbatim in the
// Authorization header. The hierarchy is team (workspace), space, folder,
// list, task; lists can also sit directly in a space.
package clickup
