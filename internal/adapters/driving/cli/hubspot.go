package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/switchboard/internal/connectors/hubspot"
	"github.com/custodia-labs/switchboard/internal/core/domain"
)

var hubspotCmd = &cobra.Command{
	Use:   "hubspot",
	Short: "HubSpot CRM records",
	Long: `List, search and change HubSpot CRM contacts, companies, deals and tickets.

Credentials: HUBSPOT_ACCESS_TOKEN, a private app token.

Examples:
  switchboard hubspot contacts list --property email --property firstname
  switchboard hubspot contacts create --prop email=ada@example.com --prop firstname=Ada
  switchboard hubspot deals search "renewal" --where dealstage=closedwon
  switchboard hubspot associate contacts 51 companies 9001`,
}

var hubspotAssociationsCmd = &cobra.Command{
	Use:   "associations [object] [id] [to-object]",
	Short: "List the records of one type associated with a record",
	Args:  cobra.ExactArgs(3),
	RunE:  runHubSpotAssociations,
}

var hubspotAssociateCmd = &cobra.Command{
	Use:   "associate [object] [id] [to-object] [to-id]",
	Short: "Associate two records with the default association",
	Args:  cobra.ExactArgs(4),
	RunE:  runHubSpotAssociate,
}

var hubspotOwnersCmd = &cobra.Command{
	Use:   "owners",
	Short: "List record owners",
	Args:  cobra.NoArgs,
	RunE:  runHubSpotOwners,
}

var (
	hubspotProperties []string
	hubspotProps      []string
	hubspotWhere      []string
	hubspotSort       string
	hubspotDesc       bool
	hubspotPageSize   int
)

func init() {
	for _, object := range hubspot.Objects {
		hubspotCmd.AddCommand(newHubSpotObjectCmd(object))
	}
	hubspotCmd.AddCommand(hubspotAssociationsCmd)
	hubspotCmd.AddCommand(hubspotAssociateCmd)
	hubspotCmd.AddCommand(hubspotOwnersCmd)
	rootCmd.AddCommand(hubspotCmd)
}

// newHubSpotObjectCmd builds the record commands of one object type.
func newHubSpotObjectCmd(object string) *cobra.Command {
	objectCmd := &cobra.Command{
		Use:   object,
		Short: "Manage " + object,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List " + object,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHubSpotList(cmd, object)
		},
	}
	getCmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHubSpotGet(cmd, object, args[0])
		},
	}
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a record from --prop key=value pairs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHubSpotCreate(cmd, object)
		},
	}
	updateCmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Change a record's properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHubSpotUpdate(cmd, object, args[0])
		},
	}
	archiveCmd := &cobra.Command{
		Use:   "archive [id]",
		Short: "Archive a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHubSpotArchive(cmd, object, args[0])
		},
	}
	searchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search " + object,
		Long: `Search records by full text over the default searchable properties.
--where key=value adds equality filters that must all match.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHubSpotSearch(cmd, object, args)
		},
	}

	for _, c := range []*cobra.Command{listCmd, getCmd, searchCmd} {
		c.Flags().StringArrayVar(&hubspotProperties, "property", nil, "property to return (repeatable)")
	}
	for _, c := range []*cobra.Command{createCmd, updateCmd} {
		c.Flags().StringArrayVar(&hubspotProps, "prop", nil, "property to set as key=value (repeatable)")
	}
	for _, c := range []*cobra.Command{listCmd, searchCmd} {
		c.Flags().IntVar(&hubspotPageSize, "page-size", 0, "records per page")
	}
	searchCmd.Flags().StringArrayVar(&hubspotWhere, "where", nil, "equality filter as key=value (repeatable)")
	searchCmd.Flags().StringVar(&hubspotSort, "sort", "", "property to sort by")
	searchCmd.Flags().BoolVar(&hubspotDesc, "desc", false, "sort descending")

	objectCmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, archiveCmd, searchCmd)
	return objectCmd
}

// objectColumns shows the requested properties, or all of them sorted.
func objectColumns(properties []string) []column[hubspot.Object] {
	cols := []column[hubspot.Object]{
		{"ID", func(o hubspot.Object) string { return o.ID }},
	}
	if len(properties) > 0 {
		for _, p := range properties {
			cols = append(cols, column[hubspot.Object]{strings.ToUpper(p), func(o hubspot.Object) string {
				return truncate(o.Properties[p], 40)
			}})
		}
		return cols
	}
	return append(cols, column[hubspot.Object]{"PROPERTIES", func(o hubspot.Object) string {
		keys := make([]string, 0, len(o.Properties))
		for k, v := range o.Properties {
			if v != "" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + "=" + o.Properties[k]
		}
		return truncate(strings.Join(pairs, " "), 80)
	}})
}

func hubspotClient(cmd *cobra.Command) (*hubspot.Client, error) {
	f, err := clientFactory()
	if err != nil {
		return nil, err
	}
	return f.HubSpot(cmd.Context())
}

func runHubSpotList(cmd *cobra.Command, object string) error {
	c, err := hubspotClient(cmd)
	if err != nil {
		return err
	}
	page, err := c.List(cmd.Context(), object, hubspotProperties, pageOptions(hubspotPageSize))
	if err != nil {
		return err
	}
	return printPage(cmd, page, objectColumns(hubspotProperties))
}

func runHubSpotGet(cmd *cobra.Command, object, id string) error {
	c, err := hubspotClient(cmd)
	if err != nil {
		return err
	}
	record, err := c.Get(cmd.Context(), object, id, hubspotProperties)
	if err != nil {
		return err
	}
	return printJSON(cmd, record)
}

func runHubSpotCreate(cmd *cobra.Command, object string) error {
	props, err := parseKeyValues("prop", hubspotProps)
	if err != nil {
		return err
	}
	c, err := hubspotClient(cmd)
	if err != nil {
		return err
	}
	record, err := c.Create(cmd.Context(), object, props)
	if err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorHubSpot, object+".create", record.ID, "")
	return printJSON(cmd, record)
}

func runHubSpotUpdate(cmd *cobra.Command, object, id string) error {
	props, err := parseKeyValues("prop", hubspotProps)
	if err != nil {
		return err
	}
	if len(props) == 0 {
		return fmt.Errorf("%w: at least one --prop is required", domain.ErrInvalidInput)
	}
	c, err := hubspotClient(cmd)
	if err != nil {
		return err
	}
	record, err := c.Update(cmd.Context(), object, id, props)
	if err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorHubSpot, object+".update", record.ID, "")
	return printJSON(cmd, record)
}

func runHubSpotArchive(cmd *cobra.Command, object, id string) error {
	if err := confirm(fmt.Sprintf("Archive %s %s?", object, id)); err != nil {
		return err
	}
	c, err := hubspotClient(cmd)
	if err != nil {
		return err
	}
	if err := c.Archive(cmd.Context(), object, id); err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorHubSpot, object+".archive", id, "")
	fmt.Fprintf(cmd.OutOrStdout(), "Archived %s %s\n", object, id)
	return nil
}

func runHubSpotSearch(cmd *cobra.Command, object string, args []string) error {
	where, err := parseKeyValues("where", hubspotWhere)
	if err != nil {
		return err
	}
	req := hubspot.SearchRequest{Properties: hubspotProperties}
	if len(args) == 1 {
		req.Query = args[0]
	}
	if len(where) > 0 {
		group := hubspot.FilterGroup{}
		keys := make([]string, 0, len(where))
		for k := range where {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			group.Filters = append(group.Filters, hubspot.Filter{PropertyName: k, Operator: "EQ", Value: where[k]})
		}
		req.FilterGroups = []hubspot.FilterGroup{group}
	}
	if req.Query == "" && len(req.FilterGroups) == 0 {
		return fmt.Errorf("%w: a query or --where filter is required", domain.ErrInvalidInput)
	}
	if hubspotSort != "" {
		dir := "ASCENDING"
		if hubspotDesc {
			dir = "DESCENDING"
		}
		req.Sorts = []hubspot.Sort{{PropertyName: hubspotSort, Direction: dir}}
	}

	c, err := hubspotClient(cmd)
	if err != nil {
		return err
	}
	page, err := c.Search(cmd.Context(), object, req, pageOptions(hubspotPageSize))
	if err != nil {
		return err
	}
	return printPage(cmd, page, objectColumns(hubspotProperties))
}

func runHubSpotAssociations(cmd *cobra.Command, args []string) error {
	c, err := hubspotClient(cmd)
	if err != nil {
		return err
	}
	page, err := c.Associations(cmd.Context(), args[0], args[1], args[2], pageOptions(0))
	if err != nil {
		return err
	}
	return printPage(cmd, page, []column[hubspot.Association]{
		{"TO ID", func(a hubspot.Association) string { return strconv.FormatInt(a.ToObjectID, 10) }},
		{"TYPES", func(a hubspot.Association) string {
			labels := make([]string, len(a.Types))
			for i, t := range a.Types {
				labels[i] = t.Label
				if labels[i] == "" {
					labels[i] = strconv.Itoa(t.TypeID)
				}
			}
			return strings.Join(labels, ", ")
		}},
	})
}

func runHubSpotAssociate(cmd *cobra.Command, args []string) error {
	c, err := hubspotClient(cmd)
	if err != nil {
		return err
	}
	if err := c.Associate(cmd.Context(), args[0], args[1], args[2], args[3]); err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorHubSpot, "association.create", args[1],
		fmt.Sprintf("%s %s -> %s %s", args[0], args[1], args[2], args[3]))
	fmt.Fprintf(cmd.OutOrStdout(), "Associated %s %s with %s %s\n", args[0], args[1], args[2], args[3])
	return nil
}

func runHubSpotOwners(cmd *cobra.Command, _ []string) error {
	c, err := hubspotClient(cmd)
	if err != nil {
		return err
	}
	page, err := c.Owners(cmd.Context(), pageOptions(0))
	if err != nil {
		return err
	}
	return printPage(cmd, page, []column[hubspot.Owner]{
		{"ID", func(o hubspot.Owner) string { return o.ID }},
		{"NAME", func(o hubspot.Owner) string { return strings.TrimSpace(o.FirstName + " " + o.LastName) }},
		{"EMAIL", func(o hubspot.Owner) string { return o.Email }},
	})
}
