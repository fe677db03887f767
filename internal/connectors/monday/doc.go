// Package monday wraps the Monday.com GraphQL API.
//
// Every call is a POST of {query, variables} to a single endpoint. Errors
// arrive with status 200 in an errors array, or in the legacy
// error_message shape; both are surfaced as *GraphQLError. Complexity
// budget exhaustion is reported as a *rest.RateLimitError.
package monday
