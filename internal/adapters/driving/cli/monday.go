package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/switchboard/internal/connectors/monday"
	"github.com/custodia-labs/switchboard/internal/core/domain"
)

var mondayCmd = &cobra.Command{
	Use:   "monday",
	Short: "Monday.com boards and items",
	Long: `Read and change Monday.com boards through the GraphQL API.

Credentials: MONDAY_API_TOKEN.

Column values are passed as --column id=value. Plain values suit text,
status and numbers columns; a value starting with { is sent as JSON, e.g.
--column 'date4={"date":"2026-03-01"}'.`,
}

var mondayMeCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the token owner",
	Args:  cobra.NoArgs,
	RunE:  runMondayMe,
}

var mondayBoardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List boards",
	Args:  cobra.NoArgs,
	RunE:  runMondayBoards,
}

var mondayBoardCmd = &cobra.Command{
	Use:   "board [board-id]",
	Short: "Show a board with its columns and groups",
	Args:  cobra.ExactArgs(1),
	RunE:  runMondayBoard,
}

var mondayItemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List, create, update or delete items",
}

var mondayItemsListCmd = &cobra.Command{
	Use:   "list [board-id]",
	Short: "List a board's items",
	Args:  cobra.ExactArgs(1),
	RunE:  runMondayItemsList,
}

var mondayItemsCreateCmd = &cobra.Command{
	Use:   "create [board-id] [name]",
	Short: "Create an item",
	Args:  cobra.ExactArgs(2),
	RunE:  runMondayItemsCreate,
}

var mondayItemsUpdateCmd = &cobra.Command{
	Use:   "update [board-id] [item-id]",
	Short: "Change an item's column values",
	Args:  cobra.ExactArgs(2),
	RunE:  runMondayItemsUpdate,
}

var mondayItemsDeleteCmd = &cobra.Command{
	Use:   "delete [item-id]",
	Short: "Delete an item",
	Args:  cobra.ExactArgs(1),
	RunE:  runMondayItemsDelete,
}

var mondayUpdateCmd = &cobra.Command{
	Use:   "update [item-id] [body]",
	Short: "Post an update on an item",
	Args:  cobra.ExactArgs(2),
	RunE:  runMondayUpdate,
}

var (
	mondayLimit    int
	mondayPage     int
	mondayGroup    string
	mondayColumns  []string
	mondayPageSize int
)

func init() {
	mondayBoardsCmd.Flags().IntVar(&mondayLimit, "limit", 25, "boards per page")
	mondayBoardsCmd.Flags().IntVar(&mondayPage, "page", 1, "page number, from 1")
	mondayItemsListCmd.Flags().IntVar(&mondayPageSize, "page-size", 0, "items per page (up to 500)")
	mondayItemsCreateCmd.Flags().StringVar(&mondayGroup, "group", "", "group ID, default the top group")
	for _, c := range []*cobra.Command{mondayItemsCreateCmd, mondayItemsUpdateCmd} {
		c.Flags().StringArrayVar(&mondayColumns, "column", nil, "column value as id=value (repeatable)")
	}

	mondayItemsCmd.AddCommand(mondayItemsListCmd)
	mondayItemsCmd.AddCommand(mondayItemsCreateCmd)
	mondayItemsCmd.AddCommand(mondayItemsUpdateCmd)
	mondayItemsCmd.AddCommand(mondayItemsDeleteCmd)
	mondayCmd.AddCommand(mondayMeCmd)
	mondayCmd.AddCommand(mondayBoardsCmd)
	mondayCmd.AddCommand(mondayBoardCmd)
	mondayCmd.AddCommand(mondayItemsCmd)
	mondayCmd.AddCommand(mondayUpdateCmd)
	rootCmd.AddCommand(mondayCmd)
}

func mondayClient(cmd *cobra.Command) (*monday.Client, error) {
	f, err := clientFactory()
	if err != nil {
		return nil, err
	}
	return f.Monday(cmd.Context())
}

// columnValues turns --column pairs into values. Values starting with {
// must be JSON objects.
func columnValues() (map[string]any, error) {
	pairs, err := parseKeyValues("column", mondayColumns)
	if err != nil {
		return nil, err
	}
	values := make(map[string]any, len(pairs))
	for k, v := range pairs {
		if strings.HasPrefix(strings.TrimSpace(v), "{") {
			if !json.Valid([]byte(v)) {
				return nil, fmt.Errorf("%w: --column %s is not valid JSON", domain.ErrInvalidInput, k)
			}
			values[k] = json.RawMessage(v)
			continue
		}
		values[k] = v
	}
	return values, nil
}

func runMondayMe(cmd *cobra.Command, _ []string) error {
	c, err := mondayClient(cmd)
	if err != nil {
		return err
	}
	me, err := c.Me(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(cmd, me)
}

func runMondayBoards(cmd *cobra.Command, _ []string) error {
	c, err := mondayClient(cmd)
	if err != nil {
		return err
	}
	boards, err := c.Boards(cmd.Context(), mondayLimit, mondayPage)
	if err != nil {
		return err
	}
	return printItems(cmd, boards, []column[monday.Board]{
		{"ID", func(b monday.Board) string { return b.ID }},
		{"NAME", func(b monday.Board) string { return b.Name }},
		{"KIND", func(b monday.Board) string { return b.Kind }},
		{"ITEMS", func(b monday.Board) string { return strconv.Itoa(b.ItemsCount) }},
	})
}

func runMondayBoard(cmd *cobra.Command, args []string) error {
	c, err := mondayClient(cmd)
	if err != nil {
		return err
	}
	board, err := c.Board(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, board)
}

func runMondayItemsList(cmd *cobra.Command, args []string) error {
	c, err := mondayClient(cmd)
	if err != nil {
		return err
	}
	page, err := c.Items(cmd.Context(), args[0], pageOptions(mondayPageSize))
	if err != nil {
		return err
	}
	return printPage(cmd, page, []column[monday.Item]{
		{"ID", func(it monday.Item) string { return it.ID }},
		{"GROUP", func(it monday.Item) string {
			if it.Group == nil {
				return ""
			}
			return it.Group.Title
		}},
		{"NAME", func(it monday.Item) string { return truncate(it.Name, 60) }},
	})
}

func runMondayItemsCreate(cmd *cobra.Command, args []string) error {
	columns, err := columnValues()
	if err != nil {
		return err
	}
	c, err := mondayClient(cmd)
	if err != nil {
		return err
	}
	item, err := c.CreateItem(cmd.Context(), monday.ItemRequest{
		BoardID: args[0],
		GroupID: mondayGroup,
		Name:    args[1],
		Columns: columns,
	})
	if err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorMonday, "item.create", item.ID, item.Name)
	return printJSON(cmd, item)
}

func runMondayItemsUpdate(cmd *cobra.Command, args []string) error {
	columns, err := columnValues()
	if err != nil {
		return err
	}
	c, err := mondayClient(cmd)
	if err != nil {
		return err
	}
	item, err := c.ChangeColumnValues(cmd.Context(), args[0], args[1], columns)
	if err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorMonday, "item.update", item.ID, item.Name)
	return printJSON(cmd, item)
}

func runMondayItemsDelete(cmd *cobra.Command, args []string) error {
	if err := confirm(fmt.Sprintf("Delete item %s?", args[0])); err != nil {
		return err
	}
	c, err := mondayClient(cmd)
	if err != nil {
		return err
	}
	if err := c.DeleteItem(cmd.Context(), args[0]); err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorMonday, "item.delete", args[0], "")
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %s\n", args[0])
	return nil
}

func runMondayUpdate(cmd *cobra.Command, args []string) error {
	c, err := mondayClient(cmd)
	if err != nil {
		return err
	}
	update, err := c.CreateUpdate(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorMonday, "item.update_posted", args[0], truncate(args[1], 120))
	return printJSON(cmd, update)
}
