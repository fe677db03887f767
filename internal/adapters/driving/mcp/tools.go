package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/switchboard/internal/connectors/clickup"
	"github.com/custodia-labs/switchboard/internal/connectors/google/drive"
	"github.com/custodia-labs/switchboard/internal/connectors/hubspot"
	"github.com/custodia-labs/switchboard/internal/connectors/monday"
	"github.com/custodia-labs/switchboard/internal/connectors/rest"
	"github.com/custodia-labs/switchboard/internal/connectors/x"
	"github.com/custodia-labs/switchboard/internal/connectors/zoom"
)

// ListOutput is the output schema shared by every listing tool.
type ListOutput[T any] struct {
	Items      []T    `json:"items"`
	Count      int    `json:"count"`
	Truncated  bool   `json:"truncated"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// XSearchInput is the input schema for the x_search tool.
type XSearchInput struct {
	Query    string `json:"query" jsonschema:"recent search query, X search operators allowed"`
	PageSize int    `json:"page_size,omitempty" jsonschema:"tweets per page, 10 to 100"`
}

// TweetOutput is a tweet returned by x_search.
type TweetOutput struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	AuthorID  string `json:"author_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	Likes     int    `json:"likes"`
}

// ZoomMeetingsInput is the input schema for the zoom_meetings tool.
type ZoomMeetingsInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"user id or email, default me"`
	Type   string `json:"type,omitempty" jsonschema:"scheduled, live, upcoming, upcoming_meetings or previous_meetings"`
}

// MeetingOutput is a meeting returned by zoom_meetings.
type MeetingOutput struct {
	ID        int64  `json:"id"`
	Topic     string `json:"topic"`
	StartTime string `json:"start_time,omitempty"`
	Duration  int    `json:"duration"`
	JoinURL   string `json:"join_url,omitempty"`
}

// ClickUpTasksInput is the input schema for the clickup_tasks tool.
type ClickUpTasksInput struct {
	ListID        string   `json:"list_id" jsonschema:"the list to read tasks from"`
	Statuses      []string `json:"statuses,omitempty" jsonschema:"only tasks in these statuses"`
	IncludeClosed bool     `json:"include_closed,omitempty" jsonschema:"include closed tasks"`
}

// TaskOutput is a task returned by clickup_tasks.
type TaskOutput struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Priority string `json:"priority,omitempty"`
	DueDate  string `json:"due_date,omitempty"`
	URL      string `json:"url,omitempty"`
}

// HubSpotSearchInput is the input schema for the hubspot_search tool.
type HubSpotSearchInput struct {
	Object     string   `json:"object" jsonschema:"contacts, companies, deals or tickets"`
	Query      string   `json:"query" jsonschema:"full text query over the default searchable properties"`
	Properties []string `json:"properties,omitempty" jsonschema:"properties to return"`
	PageSize   int      `json:"page_size,omitempty" jsonschema:"records per page, up to 200"`
}

// CRMObjectOutput is a record returned by hubspot_search.
type CRMObjectOutput struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
	UpdatedAt  string            `json:"updated_at,omitempty"`
}

// MondayItemsInput is the input schema for the monday_items tool.
type MondayItemsInput struct {
	BoardID  string `json:"board_id" jsonschema:"the board to read items from"`
	PageSize int    `json:"page_size,omitempty" jsonschema:"items per page, up to 500"`
}

// MondayItemOutput is an item returned by monday_items.
type MondayItemOutput struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Group   string            `json:"group,omitempty"`
	Columns map[string]string `json:"columns,omitempty"`
}

// DriveSearchInput is the input schema for the drive_search tool.
type DriveSearchInput struct {
	Query    string `json:"query" jsonschema:"file name text, or a raw Drive query such as mimeType = 'application/pdf'"`
	PageSize int    `json:"page_size,omitempty" jsonschema:"files per page, up to 1000"`
}

// FileOutput is a file returned by drive_search.
type FileOutput struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mime_type"`
	ModifiedTime string `json:"modified_time,omitempty"`
	Link         string `json:"link,omitempty"`
}

// Tool names. Every tool only reads; mutations stay on the CLI where they
// pass the confirmation gate and the activity history.
const (
	ToolXSearch       = "x_search"
	ToolZoomMeetings  = "zoom_meetings"
	ToolClickUpTasks  = "clickup_tasks"
	ToolHubSpotSearch = "hubspot_search"
	ToolMondayItems   = "monday_items"
	ToolDriveSearch   = "drive_search"
)

// ToolNames lists the registered tools in registration order.
var ToolNames = []string{
	ToolXSearch,
	ToolZoomMeetings,
	ToolClickUpTasks,
	ToolHubSpotSearch,
	ToolMondayItems,
	ToolDriveSearch,
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolXSearch,
		Description: "Search tweets from the last seven days on X",
	}, s.handleXSearch)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolZoomMeetings,
		Description: "List a Zoom user's meetings",
	}, s.handleZoomMeetings)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolClickUpTasks,
		Description: "List the tasks of a ClickUp list",
	}, s.handleClickUpTasks)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolHubSpotSearch,
		Description: "Search HubSpot CRM contacts, companies, deals or tickets",
	}, s.handleHubSpotSearch)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolMondayItems,
		Description: "List the items of a Monday.com board with their column text",
	}, s.handleMondayItems)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolDriveSearch,
		Description: "Search Google Drive files by name or Drive query",
	}, s.handleDriveSearch)
}

func (s *Server) pageOptions(pageSize int) rest.PageOptions {
	return rest.PageOptions{MaxPages: s.ports.MaxPages, PageSize: pageSize}
}

func (s *Server) handleXSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input XSearchInput,
) (*mcp.CallToolResult, ListOutput[TweetOutput], error) {
	c, err := s.ports.Clients.X(ctx)
	if err != nil {
		return nil, ListOutput[TweetOutput]{}, err
	}
	page, err := c.SearchRecent(ctx, input.Query, s.pageOptions(input.PageSize))
	if err != nil {
		return nil, ListOutput[TweetOutput]{}, err
	}
	return nil, listOutput(page, func(t x.Tweet) TweetOutput {
		out := TweetOutput{ID: t.ID, Text: t.Text, AuthorID: t.AuthorID, CreatedAt: formatTime(t.CreatedAt)}
		if t.PublicMetrics != nil {
			out.Likes = t.PublicMetrics.Likes
		}
		return out
	}), nil
}

func (s *Server) handleZoomMeetings(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ZoomMeetingsInput,
) (*mcp.CallToolResult, ListOutput[MeetingOutput], error) {
	c, err := s.ports.Clients.Zoom(ctx)
	if err != nil {
		return nil, ListOutput[MeetingOutput]{}, err
	}
	page, err := c.ListMeetings(ctx, input.UserID, input.Type, s.pageOptions(0))
	if err != nil {
		return nil, ListOutput[MeetingOutput]{}, err
	}
	return nil, listOutput(page, func(m zoom.Meeting) MeetingOutput {
		return MeetingOutput{
			ID:        m.ID,
			Topic:     m.Topic,
			StartTime: formatTime(m.StartTime),
			Duration:  m.Duration,
			JoinURL:   m.JoinURL,
		}
	}), nil
}

func (s *Server) handleClickUpTasks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ClickUpTasksInput,
) (*mcp.CallToolResult, ListOutput[TaskOutput], error) {
	c, err := s.ports.Clients.ClickUp(ctx)
	if err != nil {
		return nil, ListOutput[TaskOutput]{}, err
	}
	filter := clickup.TaskFilter{Statuses: input.Statuses, IncludeClosed: input.IncludeClosed}
	page, err := c.Tasks(ctx, input.ListID, filter, s.pageOptions(0))
	if err != nil {
		return nil, ListOutput[TaskOutput]{}, err
	}
	return nil, listOutput(page, func(t clickup.Task) TaskOutput {
		out := TaskOutput{ID: t.ID, Name: t.Name, Status: t.Status.Status, URL: t.URL}
		if t.Priority != nil {
			out.Priority = t.Priority.Priority
		}
		if t.DueDate != nil {
			out.DueDate = t.DueDate.UTC().Format(time.RFC3339)
		}
		return out
	}), nil
}

func (s *Server) handleHubSpotSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HubSpotSearchInput,
) (*mcp.CallToolResult, ListOutput[CRMObjectOutput], error) {
	c, err := s.ports.Clients.HubSpot(ctx)
	if err != nil {
		return nil, ListOutput[CRMObjectOutput]{}, err
	}
	req := hubspot.SearchRequest{Query: input.Query, Properties: input.Properties, Limit: input.PageSize}
	page, err := c.Search(ctx, input.Object, req, s.pageOptions(input.PageSize))
	if err != nil {
		return nil, ListOutput[CRMObjectOutput]{}, err
	}
	return nil, listOutput(page, func(o hubspot.Object) CRMObjectOutput {
		out := CRMObjectOutput{ID: o.ID, Properties: o.Properties}
		if out.Properties == nil {
			out.Properties = map[string]string{}
		}
		if !o.UpdatedAt.IsZero() {
			out.UpdatedAt = o.UpdatedAt.UTC().Format(time.RFC3339)
		}
		return out
	}), nil
}

func (s *Server) handleMondayItems(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MondayItemsInput,
) (*mcp.CallToolResult, ListOutput[MondayItemOutput], error) {
	c, err := s.ports.Clients.Monday(ctx)
	if err != nil {
		return nil, ListOutput[MondayItemOutput]{}, err
	}
	page, err := c.Items(ctx, input.BoardID, s.pageOptions(input.PageSize))
	if err != nil {
		return nil, ListOutput[MondayItemOutput]{}, err
	}
	return nil, listOutput(page, func(it monday.Item) MondayItemOutput {
		out := MondayItemOutput{ID: it.ID, Name: it.Name}
		if it.Group != nil {
			out.Group = it.Group.Title
		}
		if len(it.ColumnValues) > 0 {
			out.Columns = make(map[string]string, len(it.ColumnValues))
			for _, cv := range it.ColumnValues {
				out.Columns[cv.ID] = cv.Text
			}
		}
		return out
	}), nil
}

func (s *Server) handleDriveSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DriveSearchInput,
) (*mcp.CallToolResult, ListOutput[FileOutput], error) {
	session, err := s.ports.Clients.Google(ctx)
	if err != nil {
		return nil, ListOutput[FileOutput]{}, err
	}
	svc, err := session.Drive(ctx)
	if err != nil {
		return nil, ListOutput[FileOutput]{}, err
	}
	page, err := drive.New(svc).Search(ctx, input.Query, s.pageOptions(input.PageSize))
	if err != nil {
		return nil, ListOutput[FileOutput]{}, fmt.Errorf("drive search: %w", err)
	}
	return nil, listOutput(page, func(f drive.File) FileOutput {
		return FileOutput{
			ID:           f.ID,
			Name:         f.Name,
			MimeType:     f.MimeType,
			ModifiedTime: f.ModifiedTime,
			Link:         f.WebViewLink,
		}
	}), nil
}

func listOutput[T, O any](page *rest.Page[T], convert func(T) O) ListOutput[O] {
	out := ListOutput[O]{
		Items:      make([]O, len(page.Items)),
		Count:      len(page.Items),
		Truncated:  page.Truncated,
		NextCursor: page.NextCursor,
	}
	for i, item := range page.Items {
		out.Items[i] = convert(item)
	}
	return out
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
