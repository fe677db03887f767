package google

import (
	"context"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/sheets/v4"
)

// Scopes are the OAuth scopes the refresh token needs.
var Scopes = []string{
	docs.DocumentsScope,
	drive.DriveFileScope,
	drive.DriveReadonlyScope,
	gmail.GmailSendScope,
	gmail.GmailReadonlyScope,
	calendar.CalendarEventsScope,
	sheets.SpreadsheetsScope,
}

// NewTokenSource creates a token source that exchanges a refresh token for
// access tokens. An empty tokenURL uses Google's token endpoint.
func NewTokenSource(ctx context.Context, clientID, clientSecret, refreshToken, tokenURL string) oauth2.TokenSource {
	endpoint := googleoauth.Endpoint
	if tokenURL != "" {
		endpoint.TokenURL = tokenURL
	}
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     endpoint,
		Scopes:       Scopes,
	}
	return cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
}
