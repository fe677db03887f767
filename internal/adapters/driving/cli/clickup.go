package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/switchboard/internal/connectors/clickup"
	"github.com/custodia-labs/switchboard/internal/core/domain"
)

var clickupCmd = &cobra.Command{
	Use:   "clickup",
	Short: "ClickUp workspaces, lists and tasks",
	Long: `Browse the ClickUp hierarchy (team > space > folder > list) and manage tasks.

Credentials: CLICKUP_API_TOKEN, a personal token starting with pk_.`,
}

var clickupTeamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List workspaces",
	Args:  cobra.NoArgs,
	RunE:  runClickUpTeams,
}

var clickupSpacesCmd = &cobra.Command{
	Use:   "spaces [team-id]",
	Short: "List the spaces of a workspace",
	Args:  cobra.ExactArgs(1),
	RunE:  runClickUpSpaces,
}

var clickupFoldersCmd = &cobra.Command{
	Use:   "folders [space-id]",
	Short: "List the folders of a space",
	Args:  cobra.ExactArgs(1),
	RunE:  runClickUpFolders,
}

var clickupListsCmd = &cobra.Command{
	Use:   "lists [folder-id]",
	Short: "List the lists of a folder, or of a space with --space",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClickUpLists,
}

var clickupTasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List, create, update or delete tasks",
}

var clickupTasksListCmd = &cobra.Command{
	Use:   "list [list-id]",
	Short: "List the tasks of a list",
	Args:  cobra.ExactArgs(1),
	RunE:  runClickUpTasksList,
}

var clickupTasksGetCmd = &cobra.Command{
	Use:   "get [task-id]",
	Short: "Show a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runClickUpTasksGet,
}

var clickupTasksCreateCmd = &cobra.Command{
	Use:   "create [list-id] [name]",
	Short: "Create a task",
	Args:  cobra.ExactArgs(2),
	RunE:  runClickUpTasksCreate,
}

var clickupTasksUpdateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Change a task",
	Long:  `Change a task. Only the flags that are set are sent.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runClickUpTasksUpdate,
}

var clickupTasksDeleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runClickUpTasksDelete,
}

var clickupCommentCmd = &cobra.Command{
	Use:   "comment [task-id] [text]",
	Short: "Comment on a task",
	Args:  cobra.ExactArgs(2),
	RunE:  runClickUpComment,
}

var (
	clickupSpace       string
	clickupStatuses    []string
	clickupAssignees   []string
	clickupClosed      bool
	clickupSubtasks    bool
	clickupName        string
	clickupDescription string
	clickupStatus      string
	clickupPriority    int
	clickupDue         string
	clickupTags        []string
	clickupNotifyAll   bool
)

func init() {
	clickupListsCmd.Flags().StringVar(&clickupSpace, "space", "", "list the folderless lists of this space")
	clickupTasksListCmd.Flags().StringArrayVar(&clickupStatuses, "status", nil, "only tasks in this status (repeatable)")
	clickupTasksListCmd.Flags().StringArrayVar(&clickupAssignees, "assignee", nil, "only tasks assigned to this user ID (repeatable)")
	clickupTasksListCmd.Flags().BoolVar(&clickupClosed, "include-closed", false, "include closed tasks")
	clickupTasksListCmd.Flags().BoolVar(&clickupSubtasks, "subtasks", false, "include subtasks")
	for _, c := range []*cobra.Command{clickupTasksCreateCmd, clickupTasksUpdateCmd} {
		c.Flags().StringVar(&clickupDescription, "description", "", "Markdown description")
		c.Flags().StringVar(&clickupStatus, "status", "", "status name")
		c.Flags().IntVar(&clickupPriority, "priority", 0, "1 urgent, 2 high, 3 normal, 4 low")
		c.Flags().StringVar(&clickupDue, "due", "", "due date, RFC 3339 or YYYY-MM-DD")
	}
	clickupTasksCreateCmd.Flags().StringArrayVar(&clickupTags, "tag", nil, "tag name (repeatable)")
	clickupTasksUpdateCmd.Flags().StringVar(&clickupName, "name", "", "new task name")
	clickupCommentCmd.Flags().BoolVar(&clickupNotifyAll, "notify-all", false, "notify everyone watching the task")

	clickupTasksCmd.AddCommand(clickupTasksListCmd)
	clickupTasksCmd.AddCommand(clickupTasksGetCmd)
	clickupTasksCmd.AddCommand(clickupTasksCreateCmd)
	clickupTasksCmd.AddCommand(clickupTasksUpdateCmd)
	clickupTasksCmd.AddCommand(clickupTasksDeleteCmd)
	clickupCmd.AddCommand(clickupTeamsCmd)
	clickupCmd.AddCommand(clickupSpacesCmd)
	clickupCmd.AddCommand(clickupFoldersCmd)
	clickupCmd.AddCommand(clickupListsCmd)
	clickupCmd.AddCommand(clickupTasksCmd)
	clickupCmd.AddCommand(clickupCommentCmd)
	rootCmd.AddCommand(clickupCmd)
}

type namedItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var namedColumns = []column[namedItem]{
	{"ID", func(n namedItem) string { return n.ID }},
	{"NAME", func(n namedItem) string { return n.Name }},
}

var taskColumns = []column[clickup.Task]{
	{"ID", func(t clickup.Task) string { return t.ID }},
	{"STATUS", func(t clickup.Task) string { return t.Status.Status }},
	{"PRIORITY", func(t clickup.Task) string {
		if t.Priority == nil {
			return ""
		}
		return t.Priority.Priority
	}},
	{"DUE", func(t clickup.Task) string {
		if t.DueDate == nil {
			return ""
		}
		return formatTime(&t.DueDate.Time)
	}},
	{"NAME", func(t clickup.Task) string { return truncate(t.Name, 60) }},
}

func clickupClient(cmd *cobra.Command) (*clickup.Client, error) {
	f, err := clientFactory()
	if err != nil {
		return nil, err
	}
	return f.ClickUp(cmd.Context())
}

func runClickUpTeams(cmd *cobra.Command, _ []string) error {
	c, err := clickupClient(cmd)
	if err != nil {
		return err
	}
	teams, err := c.Teams(cmd.Context())
	if err != nil {
		return err
	}
	if flagOutput != outputTable {
		return printJSON(cmd, teams)
	}
	items := make([]namedItem, len(teams))
	for i, t := range teams {
		items[i] = namedItem{ID: t.ID, Name: t.Name}
	}
	return printItems(cmd, items, namedColumns)
}

func runClickUpSpaces(cmd *cobra.Command, args []string) error {
	c, err := clickupClient(cmd)
	if err != nil {
		return err
	}
	spaces, err := c.Spaces(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if flagOutput != outputTable {
		return printJSON(cmd, spaces)
	}
	items := make([]namedItem, len(spaces))
	for i, s := range spaces {
		items[i] = namedItem{ID: s.ID, Name: s.Name}
	}
	return printItems(cmd, items, namedColumns)
}

func runClickUpFolders(cmd *cobra.Command, args []string) error {
	c, err := clickupClient(cmd)
	if err != nil {
		return err
	}
	folders, err := c.Folders(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if flagOutput != outputTable {
		return printJSON(cmd, folders)
	}
	items := make([]namedItem, len(folders))
	for i, f := range folders {
		items[i] = namedItem{ID: f.ID, Name: f.Name}
	}
	return printItems(cmd, items, namedColumns)
}

func runClickUpLists(cmd *cobra.Command, args []string) error {
	if (len(args) == 1) == (clickupSpace != "") {
		return errors.New("pass either a folder ID or --space")
	}
	c, err := clickupClient(cmd)
	if err != nil {
		return err
	}

	var lists []clickup.List
	if clickupSpace != "" {
		lists, err = c.FolderlessLists(cmd.Context(), clickupSpace)
	} else {
		lists, err = c.Lists(cmd.Context(), args[0])
	}
	if err != nil {
		return err
	}
	if flagOutput != outputTable {
		return printJSON(cmd, lists)
	}
	items := make([]namedItem, len(lists))
	for i, l := range lists {
		items[i] = namedItem{ID: l.ID, Name: l.Name}
	}
	return printItems(cmd, items, namedColumns)
}

func runClickUpTasksList(cmd *cobra.Command, args []string) error {
	c, err := clickupClient(cmd)
	if err != nil {
		return err
	}
	filter := clickup.TaskFilter{
		Statuses:      clickupStatuses,
		Assignees:     clickupAssignees,
		IncludeClosed: clickupClosed,
		Subtasks:      clickupSubtasks,
	}
	page, err := c.Tasks(cmd.Context(), args[0], filter, pageOptions(0))
	if err != nil {
		return err
	}
	return printPage(cmd, page, taskColumns)
}

func runClickUpTasksGet(cmd *cobra.Command, args []string) error {
	c, err := clickupClient(cmd)
	if err != nil {
		return err
	}
	task, err := c.GetTask(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, task)
}

func dueDate() (*clickup.Millis, error) {
	if clickupDue == "" {
		return nil, nil
	}
	t, err := parseTime("due", clickupDue)
	if err != nil {
		return nil, err
	}
	return clickup.MillisOf(t), nil
}

func runClickUpTasksCreate(cmd *cobra.Command, args []string) error {
	due, err := dueDate()
	if err != nil {
		return err
	}
	c, err := clickupClient(cmd)
	if err != nil {
		return err
	}
	req := clickup.TaskRequest{
		Name:                args[1],
		MarkdownDescription: clickupDescription,
		Tags:                clickupTags,
		Status:              clickupStatus,
		Priority:            clickupPriority,
		DueDate:             due,
	}
	task, err := c.CreateTask(cmd.Context(), args[0], req)
	if err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorClickUp, "task.create", task.ID, task.Name)
	return printJSON(cmd, task)
}

func runClickUpTasksUpdate(cmd *cobra.Command, args []string) error {
	var update clickup.TaskUpdate
	flags := cmd.Flags()
	if flags.Changed("name") {
		update.Name = &clickupName
	}
	if flags.Changed("description") {
		update.MarkdownDescription = &clickupDescription
	}
	if flags.Changed("status") {
		update.Status = &clickupStatus
	}
	if flags.Changed("priority") {
		update.Priority = &clickupPriority
	}
	if flags.Changed("due") {
		due, err := dueDate()
		if err != nil {
			return err
		}
		update.DueDate = due
	}

	c, err := clickupClient(cmd)
	if err != nil {
		return err
	}
	task, err := c.UpdateTask(cmd.Context(), args[0], update)
	if err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorClickUp, "task.update", task.ID, task.Name)
	return printJSON(cmd, task)
}

func runClickUpTasksDelete(cmd *cobra.Command, args []string) error {
	if err := confirm(fmt.Sprintf("Delete task %s?", args[0])); err != nil {
		return err
	}
	c, err := clickupClient(cmd)
	if err != nil {
		return err
	}
	if err := c.DeleteTask(cmd.Context(), args[0]); err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorClickUp, "task.delete", args[0], "")
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", args[0])
	return nil
}

func runClickUpComment(cmd *cobra.Command, args []string) error {
	c, err := clickupClient(cmd)
	if err != nil {
		return err
	}
	comment, err := c.AddComment(cmd.Context(), args[0], args[1], clickupNotifyAll)
	if err != nil {
		return err
	}
	recordActivity(cmd.Context(), domain.VendorClickUp, "task.comment", args[0], truncate(args[1], 120))
	return printJSON(cmd, comment)
}
