package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/switchboard/internal/core/domain"
)

var vendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "List supported vendors and their credential keys",
	Args:  cobra.NoArgs,
	RunE:  runVendors,
}

func init() {
	rootCmd.AddCommand(vendorsCmd)
}

type vendorKey struct {
	Key         string `json:"key"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

type vendorInfo struct {
	ID          domain.VendorID   `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	AuthMethod  domain.AuthMethod `json:"auth_method"`
	BaseURL     string            `json:"base_url"`
	Keys        []vendorKey       `json:"credential_keys"`
}

func runVendors(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Vendors == nil {
		return errors.New("vendor registry not configured")
	}

	infos := []vendorInfo{}
	for _, v := range services.Vendors.List() {
		info := vendorInfo{
			ID:          v.ID,
			Name:        v.Name,
			Description: v.Description,
			AuthMethod:  v.AuthMethod,
			BaseURL:     v.BaseURL,
			Keys:        []vendorKey{},
		}
		for _, k := range v.CredentialKeys {
			info.Keys = append(info.Keys, vendorKey{Key: k.Key, Description: k.Description, Required: k.Required})
		}
		infos = append(infos, info)
	}

	return printItems(cmd, infos, []column[vendorInfo]{
		{"VENDOR", func(v vendorInfo) string { return string(v.ID) }},
		{"NAME", func(v vendorInfo) string { return v.Name }},
		{"AUTH", func(v vendorInfo) string { return string(v.AuthMethod) }},
		{"KEYS", func(v vendorInfo) string {
			keys := make([]string, len(v.Keys))
			for i, k := range v.Keys {
				keys[i] = k.Key
				if !k.Required {
					keys[i] += " (optional)"
				}
			}
			return strings.Join(keys, ", ")
		}},
	})
}
