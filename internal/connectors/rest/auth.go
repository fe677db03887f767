package rest

import (
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// Authorizer adds credentials to an outgoing request.
type Authorizer interface {
	Authorize(req *http.Request) error
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(req *http.Request) error

// Authorize calls f(req).
func (f AuthorizerFunc) Authorize(req *http.Request) error {
	return f(req)
}

// HeaderAuth sets a header to a fixed value, e.g. "Authorization: <token>".
type HeaderAuth struct {
	Name  string
	Value string
}

// Authorize sets the header.
func (a HeaderAuth) Authorize(req *http.Request) error {
	req.Header.Set(a.Name, a.Value)
	return nil
}

// BearerAuth sends a static bearer token.
type BearerAuth struct {
	Token string
}

// Authorize sets "Authorization: Bearer <token>".
func (a BearerAuth) Authorize(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+a.Token)
	return nil
}

// TokenSourceAuth fetches a bearer token from an oauth2.TokenSource per request.
type TokenSourceAuth struct {
	Source oauth2.TokenSource
}

// Authorize obtains a token and sets it on the request.
func (a TokenSourceAuth) Authorize(req *http.Request) error {
	token, err := a.Source.Token()
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}
	token.SetAuthHeader(req)
	return nil
}
