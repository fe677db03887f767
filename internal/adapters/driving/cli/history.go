package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/switchboard/internal/core/domain"
)

var (
	historyVendor string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent mutating calls",
	Long: `List the mutating calls switchboard made, newest first.

Every create, update, delete and post is recorded. A thread that failed
midway shows each tweet that was posted before the failure.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyVendor, "vendor", "", "only show one vendor")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", domain.DefaultActivityLimit, "maximum number of records")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Activity == nil {
		return errors.New("activity service not configured")
	}

	filter := domain.ActivityFilter{Limit: historyLimit}
	if historyVendor != "" {
		vendor, err := domain.ParseVendorID(historyVendor)
		if err != nil {
			return err
		}
		filter.Vendor = vendor
	}

	records, err := services.Activity.Recent(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}
	return printItems(cmd, records, []column[domain.ActivityRecord]{
		{"TIME", func(r domain.ActivityRecord) string { return formatTime(&r.CreatedAt) }},
		{"VENDOR", func(r domain.ActivityRecord) string { return string(r.Vendor) }},
		{"ACTION", func(r domain.ActivityRecord) string { return r.Action }},
		{"RESOURCE", func(r domain.ActivityRecord) string { return r.ResourceID }},
		{"DETAIL", func(r domain.ActivityRecord) string { return truncate(r.Detail, 60) }},
	})
}
