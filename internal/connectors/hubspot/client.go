package hubspot

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/switchboard/internal/connectors/rest"
	"github.com/custodia-labs/switchboard/internal/core/domain"
)

const (
	// DefaultBaseURL is the API root shared by v3 and v4.
	DefaultBaseURL = "https://api.hubapi.com"

	// ProactiveRate keeps under the private-app burst of 100 per 10 seconds.
	ProactiveRate = 9.0

	defaultPageSize = 100
	maxPageSize     = 100
	maxSearchSize   = 200
	maxAssocSize    = 500
)

// Objects are the CRM object types the client accepts.
var Objects = []string{"contacts", "companies", "deals", "tickets"}

// Client wraps the HubSpot CRM API.
type Client struct {
	api *rest.Client
}

// NewClient creates a client authenticating with a private-app token.
// An empty baseURL uses DefaultBaseURL.
func NewClient(token, baseURL string, opts ...rest.Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("hubspot: %w: HUBSPOT_ACCESS_TOKEN", domain.ErrMissingCredentials)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	opts = append([]rest.Option{rest.WithRateLimit(ProactiveRate, 10)}, opts...)
	api, err := rest.New("hubspot", baseURL, rest.BearerAuth{Token: token}, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{api: api}, nil
}

// ValidateObject checks object against Objects. Singular forms are accepted.
func ValidateObject(object string) (string, error) {
	o := strings.ToLower(strings.TrimSpace(object))
	switch o {
	case "contact", "company", "deal", "ticket":
		if o == "company" {
			o = "companies"
		} else {
			o += "s"
		}
	}
	if !slices.Contains(Objects, o) {
		return "", fmt.Errorf("%w: object %q, want one of %s", domain.ErrInvalidInput, object, strings.Join(Objects, ", "))
	}
	return o, nil
}

// List lists records of an object type with the given properties.
func (c *Client) List(ctx context.Context, object string, properties []string, opts rest.PageOptions) (*rest.Page[Object], error) {
	object, err := ValidateObject(object)
	if err != nil {
		return nil, err
	}
	path := "crm/v3/objects/" + object

	return rest.Paginate(ctx, opts, func(ctx context.Context, cursor string) ([]Object, string, error) {
		q := url.Values{"limit": {strconv.Itoa(pageSize(opts.PageSize, maxPageSize))}}
		if len(properties) > 0 {
			q.Set("properties", strings.Join(properties, ","))
		}
		if cursor != "" {
			q.Set("after", cursor)
		}
		var resp listResponse[Object]
		if err := c.api.Get(ctx, path, q, &resp); err != nil {
			return nil, "", fmt.Errorf("list %s: %w", object, err)
		}
		return resp.Results, resp.Paging.after(), nil
	})
}

// Get fetches one record.
func (c *Client) Get(ctx context.Context, object, id string, properties []string) (*Object, error) {
	path, err := objectPath(object, id)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	if len(properties) > 0 {
		q.Set("properties", strings.Join(properties, ","))
	}
	var o Object
	if err := c.api.Get(ctx, path, q, &o); err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return &o, nil
}

// Create creates a record from properties.
func (c *Client) Create(ctx context.Context, object string, properties map[string]string) (*Object, error) {
	object, err := ValidateObject(object)
	if err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return nil, fmt.Errorf("%w: at least one property is required", domain.ErrInvalidInput)
	}
	var o Object
	if err := c.api.Post(ctx, "crm/v3/objects/"+object, map[string]any{"properties": properties}, &o); err != nil {
		return nil, fmt.Errorf("create %s: %w", object, err)
	}
	return &o, nil
}

// Update sets properties on a record.
func (c *Client) Update(ctx context.Context, object, id string, properties map[string]string) (*Object, error) {
	path, err := objectPath(object, id)
	if err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return nil, fmt.Errorf("%w: at least one property is required", domain.ErrInvalidInput)
	}
	var o Object
	if err := c.api.Patch(ctx, path, map[string]any{"properties": properties}, &o); err != nil {
		return nil, fmt.Errorf("update %s: %w", path, err)
	}
	return &o, nil
}

// Archive moves a record to the recycle bin.
func (c *Client) Archive(ctx context.Context, object, id string) error {
	path, err := objectPath(object, id)
	if err != nil {
		return err
	}
	if err := c.api.Delete(ctx, path, nil); err != nil {
		return fmt.Errorf("archive %s: %w", path, err)
	}
	return nil
}

// Search runs a CRM search. The cursor is carried in the request body.
func (c *Client) Search(ctx context.Context, object string, req SearchRequest, opts rest.PageOptions) (*rest.Page[Object], error) {
	object, err := ValidateObject(object)
	if err != nil {
		return nil, err
	}
	if req.Limit == 0 {
		req.Limit = pageSize(opts.PageSize, maxSearchSize)
	}
	path := "crm/v3/objects/" + object + "/search"

	return rest.Paginate(ctx, opts, func(ctx context.Context, cursor string) ([]Object, string, error) {
		body := req
		body.After = cursor
		var resp listResponse[Object]
		if err := c.api.Post(ctx, path, body, &resp); err != nil {
			return nil, "", fmt.Errorf("search %s: %w", object, err)
		}
		return resp.Results, resp.Paging.after(), nil
	})
}

// Associations lists the records of type to associated with a record.
func (c *Client) Associations(ctx context.Context, from, id, to string, opts rest.PageOptions) (*rest.Page[Association], error) {
	from, to, err := objectPair(from, to)
	if err != nil {
		return nil, err
	}
	if err := required("record id", id); err != nil {
		return nil, err
	}
	path := "crm/v4/objects/" + from + "/" + url.PathEscape(id) + "/associations/" + to

	return rest.Paginate(ctx, opts, func(ctx context.Context, cursor string) ([]Association, string, error) {
		q := url.Values{"limit": {strconv.Itoa(pageSize(opts.PageSize, maxAssocSize))}}
		if cursor != "" {
			q.Set("after", cursor)
		}
		var resp listResponse[Association]
		if err := c.api.Get(ctx, path, q, &resp); err != nil {
			return nil, "", fmt.Errorf("list %s associations: %w", to, err)
		}
		return resp.Results, resp.Paging.after(), nil
	})
}

// Associate links two records with the default association type.
func (c *Client) Associate(ctx context.Context, from, fromID, to, toID string) error {
	from, to, err := objectPair(from, to)
	if err != nil {
		return err
	}
	if err := required("from id", fromID); err != nil {
		return err
	}
	if err := required("to id", toID); err != nil {
		return err
	}
	path := fmt.Sprintf("crm/v4/objects/%s/%s/associations/default/%s/%s",
		from, url.PathEscape(fromID), to, url.PathEscape(toID))
	if err := c.api.Put(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("associate %s %s with %s %s: %w", from, fromID, to, toID, err)
	}
	return nil
}

// Owners lists the owners on the account.
func (c *Client) Owners(ctx context.Context, opts rest.PageOptions) (*rest.Page[Owner], error) {
	return rest.Paginate(ctx, opts, func(ctx context.Context, cursor string) ([]Owner, string, error) {
		q := url.Values{"limit": {strconv.Itoa(pageSize(opts.PageSize, maxPageSize))}}
		if cursor != "" {
			q.Set("after", cursor)
		}
		var resp listResponse[Owner]
		if err := c.api.Get(ctx, "crm/v3/owners", q, &resp); err != nil {
			return nil, "", fmt.Errorf("list owners: %w", err)
		}
		return resp.Results, resp.Paging.after(), nil
	})
}

func objectPath(object, id string) (string, error) {
	object, err := ValidateObject(object)
	if err != nil {
		return "", err
	}
	if err := required("record id", id); err != nil {
		return "", err
	}
	return "crm/v3/objects/" + object + "/" + url.PathEscape(id), nil
}

func objectPair(from, to string) (string, string, error) {
	f, err := ValidateObject(from)
	if err != nil {
		return "", "", err
	}
	t, err := ValidateObject(to)
	if err != nil {
		return "", "", err
	}
	return f, t, nil
}

func pageSize(n, limit int) int {
	switch {
	case n <= 0:
		return min(defaultPageSize, limit)
	case n > limit:
		return limit
	default:
		return n
	}
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, name)
	}
	return nil
}
