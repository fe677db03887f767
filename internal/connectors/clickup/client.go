package clickup

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/custodia-labs/switchboard/internal/connectors/rest"
	"github.com/custodia-labs/switchboard/internal/core/domain"
)

const (
	// DefaultBaseURL is the API v2 root.
	DefaultBaseURL = "https://api.clickup.com/api/v2"

	// ProactiveRate is 100 requests per minute, the free plan limit.
	ProactiveRate = 100.0 / 60.0
)

// Client wraps the ClickUp API.
type Client struct {
	api *rest.Client
}

// NewClient creates a client authenticating with token.
// An empty baseURL uses DefaultBaseURL.
func NewClient(token, baseURL string, opts ...rest.Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("clickup: %w: CLICKUP_API_TOKEN", domain.ErrMissingCredentials)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	opts = append([]rest.Option{rest.WithRateLimit(ProactiveRate, 10)}, opts...)
	api, err := rest.New("clickup", baseURL, rest.HeaderAuth{Name: "Authorization", Value: token}, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{api: api}, nil
}

// Teams lists the workspaces the token can access.
func (c *Client) Teams(ctx context.Context) ([]Team, error) {
	var resp struct {
		Teams []Team `json:"teams"`
	}
	if err := c.api.Get(ctx, "team", nil, &resp); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return resp.Teams, nil
}

// Spaces lists the non-archived spaces of a team.
func (c *Client) Spaces(ctx context.Context, teamID string) ([]Space, error) {
	if err := required("team id", teamID); err != nil {
		return nil, err
	}
	var resp struct {
		Spaces []Space `json:"spaces"`
	}
	if err := c.api.Get(ctx, "team/"+url.PathEscape(teamID)+"/space", url.Values{"archived": {"false"}}, &resp); err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	return resp.Spaces, nil
}

// Folders lists the folders of a space.
func (c *Client) Folders(ctx context.Context, spaceID string) ([]Folder, error) {
	if err := required("space id", spaceID); err != nil {
		return nil, err
	}
	var resp struct {
		Folders []Folder `json:"folders"`
	}
	if err := c.api.Get(ctx, "space/"+url.PathEscape(spaceID)+"/folder", url.Values{"archived": {"false"}}, &resp); err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return resp.Folders, nil
}

// Lists lists the lists in a folder.
func (c *Client) Lists(ctx context.Context, folderID string) ([]List, error) {
	if err := required("folder id", folderID); err != nil {
		return nil, err
	}
	return c.lists(ctx, "folder/"+url.PathEscape(folderID)+"/list")
}

// FolderlessLists lists the lists placed directly in a space.
func (c *Client) FolderlessLists(ctx context.Context, spaceID string) ([]List, error) {
	if err := required("space id", spaceID); err != nil {
		return nil, err
	}
	return c.lists(ctx, "space/"+url.PathEscape(spaceID)+"/list")
}

func (c *Client) lists(ctx context.Context, path string) ([]List, error) {
	var resp struct {
		Lists []List `json:"lists"`
	}
	if err := c.api.Get(ctx, path, url.Values{"archived": {"false"}}, &resp); err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	return resp.Lists, nil
}

// Tasks lists the tasks of a list. ClickUp pages by number; the cursor is
// the next page number and the listing ends at last_page.
func (c *Client) Tasks(ctx context.Context, listID string, filter TaskFilter, opts rest.PageOptions) (*rest.Page[Task], error) {
	if err := required("list id", listID); err != nil {
		return nil, err
	}

	base := url.Values{}
	for _, s := range filter.Statuses {
		base.Add("statuses[]", s)
	}
	for _, a := range filter.Assignees {
		base.Add("assignees[]", a)
	}
	if filter.IncludeClosed {
		base.Set("include_closed", "true")
	}
	if filter.Subtasks {
		base.Set("subtasks", "true")
	}
	path := "list/" + url.PathEscape(listID) + "/task"

	return rest.Paginate(ctx, opts, func(ctx context.Context, cursor string) ([]Task, string, error) {
		page := 0
		if cursor != "" {
			n, err := strconv.Atoi(cursor)
			if err != nil {
				return nil, "", fmt.Errorf("invalid page cursor %q", cursor)
			}
			page = n
		}

		q := url.Values{}
		for k, v := range base {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))

		var resp struct {
			Tasks    []Task `json:"tasks"`
			LastPage *bool  `json:"last_page"`
		}
		if err := c.api.Get(ctx, path, q, &resp); err != nil {
			return nil, "", fmt.Errorf("list tasks: %w", err)
		}

		// Older responses omit last_page; an empty page ends the listing.
		last := len(resp.Tasks) == 0
		if resp.LastPage != nil {
			last = *resp.LastPage
		}
		if last {
			return resp.Tasks, "", nil
		}
		return resp.Tasks, strconv.Itoa(page + 1), nil
	})
}

// GetTask fetches one task.
func (c *Client) GetTask(ctx context.Context, taskID string) (*Task, error) {
	if err := required("task id", taskID); err != nil {
		return nil, err
	}
	var t Task
	if err := c.api.Get(ctx, "task/"+url.PathEscape(taskID), url.Values{"include_markdown_description": {"true"}}, &t); err != nil {
		return nil, fmt.Errorf("get task %s: %w", taskID, err)
	}
	return &t, nil
}

// CreateTask creates a task in a list.
func (c *Client) CreateTask(ctx context.Context, listID string, req TaskRequest) (*Task, error) {
	if err := required("list id", listID); err != nil {
		return nil, err
	}
	if err := required("task name", req.Name); err != nil {
		return nil, err
	}
	if err := validPriority(req.Priority); err != nil {
		return nil, err
	}

	var t Task
	if err := c.api.Post(ctx, "list/"+url.PathEscape(listID)+"/task", req, &t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &t, nil
}

// UpdateTask changes the set fields of a task.
func (c *Client) UpdateTask(ctx context.Context, taskID string, update TaskUpdate) (*Task, error) {
	if err := required("task id", taskID); err != nil {
		return nil, err
	}
	if update.IsZero() {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	if update.Priority != nil {
		if err := validPriority(*update.Priority); err != nil {
			return nil, err
		}
	}

	var t Task
	if err := c.api.Put(ctx, "task/"+url.PathEscape(taskID), update, &t); err != nil {
		return nil, fmt.Errorf("update task %s: %w", taskID, err)
	}
	return &t, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	if err := required("task id", taskID); err != nil {
		return err
	}
	if _, err := c.api.Do(ctx, rest.Request{Method: http.MethodDelete, Path: "task/" + url.PathEscape(taskID)}, nil); err != nil {
		return fmt.Errorf("delete task %s: %w", taskID, err)
	}
	return nil
}

// AddComment posts a comment on a task.
func (c *Client) AddComment(ctx context.Context, taskID, text string, notifyAll bool) (*Comment, error) {
	if err := required("task id", taskID); err != nil {
		return nil, err
	}
	if err := required("comment text", text); err != nil {
		return nil, err
	}

	body := map[string]any{"comment_text": text, "notify_all": notifyAll}
	var comment Comment
	if err := c.api.Post(ctx, "task/"+url.PathEscape(taskID)+"/comment", body, &comment); err != nil {
		return nil, fmt.Errorf("comment on task %s: %w", taskID, err)
	}
	return &comment, nil
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, name)
	}
	return nil
}

func validPriority(p int) error {
	if p < 0 || p > PriorityLow {
		return fmt.Errorf("%w: priority %d, want 1 (urgent) to 4 (low)", domain.ErrInvalidInput, p)
	}
	return nil
}
