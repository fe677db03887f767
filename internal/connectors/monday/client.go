package monday

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/switchboard/internal/connectors/rest"
	"github.com/custodia-labs/switchboard/internal/core/domain"
)

const (
	// DefaultBaseURL is the GraphQL endpoint.
	DefaultBaseURL = "https://api.monday.com/v2"

	// APIVersion is sent in the API-Version header.
	APIVersion = "2024-10"

	// ProactiveRate stays well inside the per-minute request limit.
	ProactiveRate = 5.0

	defaultItemsLimit = 100
	maxItemsLimit     = 500
)

// Client wraps the Monday.com API.
type Client struct {
	api *rest.Client
	now func() time.Time
}

// NewClient creates a client authenticating with token.
// An empty baseURL uses DefaultBaseURL.
func NewClient(token, baseURL string, opts ...rest.Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("monday: %w: MONDAY_API_TOKEN", domain.ErrMissingCredentials)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	opts = append([]rest.Option{
		rest.WithRateLimit(ProactiveRate, 5),
		rest.WithHeader("API-Version", APIVersion),
	}, opts...)
	api, err := rest.New("monday", baseURL, rest.HeaderAuth{Name: "Authorization", Value: token}, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{api: api, now: time.Now}, nil
}

// Query runs a GraphQL query or mutation and decodes its data into out.
func (c *Client) Query(ctx context.Context, query string, vars map[string]any, out any) error {
	body := map[string]any{"query": query}
	if len(vars) > 0 {
		body["variables"] = vars
	}

	resp, err := c.api.Do(ctx, rest.Request{Method: http.MethodPost, Path: c.api.BaseURL(), Body: body}, nil)
	if err != nil {
		// Non-2xx responses may still carry a GraphQL error body.
		var apiErr *rest.APIError
		if resp != nil && errors.As(err, &apiErr) {
			if gerr := c.decodeErrors(resp); gerr != nil {
				return gerr
			}
		}
		return err
	}

	var env struct {
		envelope
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("monday: decode response: %w", err)
	}
	if gerr := env.toError(resp.StatusCode, c.now()); gerr != nil {
		return gerr
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("monday: decode data: %w", err)
	}
	return nil
}

func (c *Client) decodeErrors(resp *http.Response) error {
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil
	}
	return env.toError(resp.StatusCode, c.now())
}

// Me returns the token owner.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var data struct {
		Me User `json:"me"`
	}
	if err := c.Query(ctx, `query { me { id name email account { id name } } }`, nil, &data); err != nil {
		return nil, fmt.Errorf("get me: %w", err)
	}
	return &data.Me, nil
}

// Boards lists boards, page numbering from 1.
func (c *Client) Boards(ctx context.Context, limit, page int) ([]Board, error) {
	if limit <= 0 {
		limit = 25
	}
	if page <= 0 {
		page = 1
	}
	const q = `query ($limit: Int, $page: Int) {
  boards (limit: $limit, page: $page) { id name state board_kind items_count }
}`
	var data struct {
		Boards []Board `json:"boards"`
	}
	if err := c.Query(ctx, q, map[string]any{"limit": limit, "page": page}, &data); err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return data.Boards, nil
}

// Board fetches a board with its columns and groups.
func (c *Client) Board(ctx context.Context, id string) (*Board, error) {
	if err := required("board id", id); err != nil {
		return nil, err
	}
	const q = `query ($ids: [ID!]) {
  boards (ids: $ids) { id name description state board_kind columns { id title type } groups { id title } }
}`
	var data struct {
		Boards []Board `json:"boards"`
	}
	if err := c.Query(ctx, q, map[string]any{"ids": []string{id}}, &data); err != nil {
		return nil, fmt.Errorf("get board %s: %w", id, err)
	}
	if len(data.Boards) == 0 {
		return nil, fmt.Errorf("board %s: %w", id, domain.ErrNotFound)
	}
	return &data.Boards[0], nil
}

const itemFields = `cursor items { id name group { id title } column_values { id type text value } }`

type itemsPage struct {
	Cursor string `json:"cursor"`
	Items  []Item `json:"items"`
}

// Items lists a board's items. The first page comes from items_page and
// later pages from next_items_page.
func (c *Client) Items(ctx context.Context, boardID string, opts rest.PageOptions) (*rest.Page[Item], error) {
	if err := required("board id", boardID); err != nil {
		return nil, err
	}
	limit := opts.PageSize
	switch {
	case limit <= 0:
		limit = defaultItemsLimit
	case limit > maxItemsLimit:
		limit = maxItemsLimit
	}

	return rest.Paginate(ctx, opts, func(ctx context.Context, cursor string) ([]Item, string, error) {
		if cursor == "" {
			q := `query ($board: [ID!], $limit: Int) { boards (ids: $board) { items_page (limit: $limit) { ` + itemFields + ` } } }`
			var data struct {
				Boards []struct {
					ItemsPage itemsPage `json:"items_page"`
				} `json:"boards"`
			}
			if err := c.Query(ctx, q, map[string]any{"board": []string{boardID}, "limit": limit}, &data); err != nil {
				return nil, "", fmt.Errorf("list items: %w", err)
			}
			if len(data.Boards) == 0 {
				return nil, "", fmt.Errorf("board %s: %w", boardID, domain.ErrNotFound)
			}
			p := data.Boards[0].ItemsPage
			return p.Items, p.Cursor, nil
		}

		q := `query ($cursor: String!, $limit: Int) { next_items_page (cursor: $cursor, limit: $limit) { ` + itemFields + ` } }`
		var data struct {
			Next itemsPage `json:"next_items_page"`
		}
		if err := c.Query(ctx, q, map[string]any{"cursor": cursor, "limit": limit}, &data); err != nil {
			return nil, "", fmt.Errorf("list items: %w", err)
		}
		return data.Next.Items, data.Next.Cursor, nil
	})
}

// CreateItem creates an item on a board.
func (c *Client) CreateItem(ctx context.Context, req ItemRequest) (*Item, error) {
	if err := required("board id", req.BoardID); err != nil {
		return nil, err
	}
	if err := required("item name", req.Name); err != nil {
		return nil, err
	}

	vars := map[string]any{"board": req.BoardID, "name": req.Name}
	if req.GroupID != "" {
		vars["group"] = req.GroupID
	}
	if len(req.Columns) > 0 {
		values, err := encodeColumns(req.Columns)
		if err != nil {
			return nil, err
		}
		vars["values"] = values
	}

	const q = `mutation ($board: ID!, $group: String, $name: String!, $values: JSON) {
  create_item (board_id: $board, group_id: $group, item_name: $name, column_values: $values) { id name }
}`
	var data struct {
		Item Item `json:"create_item"`
	}
	if err := c.Query(ctx, q, vars, &data); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return &data.Item, nil
}

// ChangeColumnValues sets several column values on an item.
func (c *Client) ChangeColumnValues(ctx context.Context, boardID, itemID string, columns map[string]any) (*Item, error) {
	if err := required("board id", boardID); err != nil {
		return nil, err
	}
	if err := required("item id", itemID); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: at least one column value is required", domain.ErrInvalidInput)
	}
	values, err := encodeColumns(columns)
	if err != nil {
		return nil, err
	}

	const q = `mutation ($board: ID!, $item: ID!, $values: JSON!) {
  change_multiple_column_values (board_id: $board, item_id: $item, column_values: $values) { id name }
}`
	var data struct {
		Item Item `json:"change_multiple_column_values"`
	}
	if err := c.Query(ctx, q, map[string]any{"board": boardID, "item": itemID, "values": values}, &data); err != nil {
		return nil, fmt.Errorf("update item %s: %w", itemID, err)
	}
	return &data.Item, nil
}

// CreateUpdate posts an update (comment) on an item.
func (c *Client) CreateUpdate(ctx context.Context, itemID, body string) (*Update, error) {
	if err := required("item id", itemID); err != nil {
		return nil, err
	}
	if err := required("update body", body); err != nil {
		return nil, err
	}
	const q = `mutation ($item: ID!, $body: String!) { create_update (item_id: $item, body: $body) { id body created_at } }`
	var data struct {
		Update Update `json:"create_update"`
	}
	if err := c.Query(ctx, q, map[string]any{"item": itemID, "body": body}, &data); err != nil {
		return nil, fmt.Errorf("post update on %s: %w", itemID, err)
	}
	return &data.Update, nil
}

// DeleteItem deletes an item.
func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	if err := required("item id", itemID); err != nil {
		return err
	}
	const q = `mutation ($item: ID!) { delete_item (item_id: $item) { id } }`
	if err := c.Query(ctx, q, map[string]any{"item": itemID}, nil); err != nil {
		return fmt.Errorf("delete item %s: %w", itemID, err)
	}
	return nil
}

// encodeColumns renders column values as the JSON string the API expects.
func encodeColumns(columns map[string]any) (string, error) {
	data, err := json.Marshal(columns)
	if err != nil {
		return "", fmt.Errorf("%w: column values: %w", domain.ErrInvalidInput, err)
	}
	return string(data), nil
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, name)
	}
	return nil
}
