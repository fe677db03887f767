package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/switchboard/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Inspect credentials and cached tokens",
	Long: `Inspect vendor credentials and manage cached access tokens.

Credentials are never prompted for. Put them in <home>/credentials/<vendor>.env
or export them, for example:

  # ~/.switchboard/credentials/zoom.env
  ZOOM_ACCOUNT_ID=...
  ZOOM_CLIENT_ID=...
  ZOOM_CLIENT_SECRET=...

Zoom and Google exchange their credentials for short-lived access tokens,
which are cached in <home>/tokens until they expire.`,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show credential completeness and cached tokens per vendor",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

var authClearCmd = &cobra.Command{
	Use:   "clear [vendor]",
	Short: "Remove a vendor's cached access token",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthClear,
}

func init() {
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authClearCmd)
	rootCmd.AddCommand(authCmd)
}

type authStatus struct {
	Vendor      domain.VendorID `json:"vendor"`
	Configured  bool            `json:"configured"`
	Missing     []string        `json:"missing,omitempty"`
	Source      string          `json:"source,omitempty"`
	Token       string          `json:"token,omitempty"`
	TokenExpiry *time.Time      `json:"token_expiry,omitempty"`
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Vendors == nil || services.Credentials == nil {
		return errors.New("credentials not configured")
	}

	statuses := []authStatus{}
	for _, v := range services.Vendors.List() {
		creds, err := services.Credentials.Load(v.ID)
		if err != nil {
			return fmt.Errorf("load %s credentials: %w", v.ID, err)
		}
		missing := creds.Missing(v.CredentialKeys)
		st := authStatus{
			Vendor:     v.ID,
			Configured: len(missing) == 0,
			Missing:    missing,
			Source:     creds.Source,
		}
		if v.CachesTokens && services.Tokens != nil {
			st.Token, st.TokenExpiry = tokenState(v.ID)
		}
		statuses = append(statuses, st)
	}

	return printItems(cmd, statuses, []column[authStatus]{
		{"VENDOR", func(s authStatus) string { return string(s.Vendor) }},
		{"CREDENTIALS", func(s authStatus) string {
			if s.Configured {
				return "ok"
			}
			return "missing " + strings.Join(s.Missing, ", ")
		}},
		{"TOKEN", func(s authStatus) string {
			if s.TokenExpiry == nil {
				return s.Token
			}
			return s.Token + " until " + formatTime(s.TokenExpiry)
		}},
	})
}

// tokenState describes the cached token of a vendor.
func tokenState(vendor domain.VendorID) (string, *time.Time) {
	token, err := services.Tokens.Load(vendor)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "none", nil
	case err != nil:
		return "unreadable: " + err.Error(), nil
	}

	var expiry *time.Time
	if !token.Expiry.IsZero() {
		e := token.Expiry
		expiry = &e
	}
	if token.IsExpired() {
		return "expired", expiry
	}
	return "valid", expiry
}

func runAuthClear(cmd *cobra.Command, args []string) error {
	if services == nil || services.Tokens == nil {
		return errors.New("token cache not configured")
	}

	vendor, err := domain.ParseVendorID(args[0])
	if err != nil {
		return err
	}
	if err := services.Tokens.Clear(vendor); err != nil {
		return fmt.Errorf("clear %s token: %w", vendor, err)
	}
	if services.Clients != nil {
		services.Clients.Reset()
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared cached token for %s\n", vendor)
	return nil
}
