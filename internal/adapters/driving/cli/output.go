package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/switchboard/internal/connectors/rest"
)

// Output formats.
const (
	outputJSON  = "json"
	outputTable = "table"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// column renders one table column of T.
type column[T any] struct {
	header string
	value  func(T) string
}

// printJSON writes v as indented JSON to stdout.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(data)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// printItems writes a list as JSON, or as a table with --output table.
func printItems[T any](cmd *cobra.Command, items []T, cols []column[T]) error {
	if flagOutput != outputTable {
		if items == nil {
			items = []T{}
		}
		return printJSON(cmd, items)
	}
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No results.")
		return nil
	}

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.header
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, item := range items {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = c.value(item)
		}
		t.Row(row...)
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}

// printPage writes a paginated listing and warns on stderr when the page
// limit stopped it early.
func printPage[T any](cmd *cobra.Command, page *rest.Page[T], cols []column[T]) error {
	var err error
	if flagOutput == outputTable {
		err = printItems(cmd, page.Items, cols)
	} else {
		err = printJSON(cmd, page)
	}
	if err != nil {
		return err
	}
	if page.Truncated {
		fmt.Fprintf(cmd.ErrOrStderr(),
			"Warning: stopped after %d pages, more results remain (next cursor %s). Raise --max-pages to fetch more.\n",
			page.Pages, page.NextCursor)
	}
	return nil
}
