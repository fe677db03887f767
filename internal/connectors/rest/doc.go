// Package rest is the HTTP plumbing shared by the JSON vendor connectors.
//
// A Client joins paths onto a vendor base URL, applies an Authorizer,
// encodes JSON bodies, decodes JSON responses and turns non-2xx answers
// into *APIError values that carry the vendor's own message. Requests pass
// through a token-bucket RateLimiter first; a 429 becomes *RateLimitError.
// Nothing is retried.
//
// Paginate drives cursor-style listings with a page-count safety limit.
package rest
