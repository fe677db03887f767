package zoom

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/switchboard/internal/connectors/rest"
	"github.com/custodia-labs/switchboard/internal/core/domain"
)

const (
	// DefaultBaseURL is the API v2 root.
	DefaultBaseURL = "https://api.zoom.us/v2"

	// ProactiveRate keeps under the "medium" endpoint limit.
	ProactiveRate = 10.0

	// Me is the user ID alias for the token owner.
	Me = "me"

	defaultPageSize = 100
	maxPageSize     = 300
	dateLayout      = "2006-01-02"
)

// MeetingListTypes are the accepted values for ListMeetings.
var MeetingListTypes = []string{"scheduled", "live", "upcoming", "upcoming_meetings", "previous_meetings"}

// Client wraps the Zoom API.
type Client struct {
	api *rest.Client
}

// NewClient creates a client. An empty baseURL uses DefaultBaseURL.
func NewClient(auth rest.Authorizer, baseURL string, opts ...rest.Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	opts = append([]rest.Option{rest.WithRateLimit(ProactiveRate, 10)}, opts...)
	api, err := rest.New("zoom", baseURL, auth, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{api: api}, nil
}

type pageEnvelope struct {
	NextPageToken string `json:"next_page_token"`
}

// ListUsers lists active users on the account.
func (c *Client) ListUsers(ctx context.Context, opts rest.PageOptions) (*rest.Page[User], error) {
	return rest.Paginate(ctx, opts, func(ctx context.Context, cursor string) ([]User, string, error) {
		var resp struct {
			pageEnvelope
			Users []User `json:"users"`
		}
		if err := c.api.Get(ctx, "users", pageQuery(opts, cursor, nil), &resp); err != nil {
			return nil, "", fmt.Errorf("list users: %w", err)
		}
		return resp.Users, resp.NextPageToken, nil
	})
}

// ListMeetings lists a user's meetings. An empty listType means "scheduled".
func (c *Client) ListMeetings(ctx context.Context, userID, listType string, opts rest.PageOptions) (*rest.Page[Meeting], error) {
	userID = defaultUser(userID)
	if listType == "" {
		listType = "scheduled"
	}
	if !validListType(listType) {
		return nil, fmt.Errorf("%w: meeting type %q, want one of %s", domain.ErrInvalidInput, listType, strings.Join(MeetingListTypes, ", "))
	}

	path := "users/" + url.PathEscape(userID) + "/meetings"
	extra := url.Values{"type": {listType}}
	return rest.Paginate(ctx, opts, func(ctx context.Context, cursor string) ([]Meeting, string, error) {
		var resp struct {
			pageEnvelope
			Meetings []Meeting `json:"meetings"`
		}
		if err := c.api.Get(ctx, path, pageQuery(opts, cursor, extra), &resp); err != nil {
			return nil, "", fmt.Errorf("list meetings: %w", err)
		}
		return resp.Meetings, resp.NextPageToken, nil
	})
}

// GetMeeting fetches one meeting.
func (c *Client) GetMeeting(ctx context.Context, meetingID string) (*Meeting, error) {
	if err := validMeetingID(meetingID); err != nil {
		return nil, err
	}

	var m Meeting
	if err := c.api.Get(ctx, "meetings/"+meetingID, nil, &m); err != nil {
		return nil, fmt.Errorf("get meeting %s: %w", meetingID, err)
	}
	return &m, nil
}

// CreateMeeting schedules a meeting for userID. Type defaults to scheduled.
func (c *Client) CreateMeeting(ctx context.Context, userID string, req MeetingRequest) (*Meeting, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, fmt.Errorf("%w: meeting topic is required", domain.ErrInvalidInput)
	}
	if req.Type == 0 {
		req.Type = MeetingScheduled
	}
	if req.Type == MeetingScheduled && req.StartTime.IsZero() {
		return nil, fmt.Errorf("%w: scheduled meetings need a start time", domain.ErrInvalidInput)
	}
	if req.Duration < 0 {
		return nil, fmt.Errorf("%w: duration must be positive", domain.ErrInvalidInput)
	}

	var m Meeting
	path := "users/" + url.PathEscape(defaultUser(userID)) + "/meetings"
	if err := c.api.Post(ctx, path, req, &m); err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}
	return &m, nil
}

// UpdateMeeting patches a meeting with the non-zero fields of req.
func (c *Client) UpdateMeeting(ctx context.Context, meetingID string, req MeetingRequest) error {
	if err := validMeetingID(meetingID); err != nil {
		return err
	}
	if req == (MeetingRequest{}) {
		return fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}

	if err := c.api.Patch(ctx, "meetings/"+meetingID, req, nil); err != nil {
		return fmt.Errorf("update meeting %s: %w", meetingID, err)
	}
	return nil
}

// DeleteMeeting deletes a meeting.
func (c *Client) DeleteMeeting(ctx context.Context, meetingID string) error {
	if err := validMeetingID(meetingID); err != nil {
		return err
	}

	if _, err := c.api.Do(ctx, rest.Request{Method: http.MethodDelete, Path: "meetings/" + meetingID}, nil); err != nil {
		return fmt.Errorf("delete meeting %s: %w", meetingID, err)
	}
	return nil
}

// ListRecordings lists cloud recordings between from and to (inclusive
// dates). Zero times default to the last 30 days.
func (c *Client) ListRecordings(ctx context.Context, userID string, from, to time.Time, opts rest.PageOptions) (*rest.Page[Recording], error) {
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: from is after to", domain.ErrInvalidInput)
	}

	path := "users/" + url.PathEscape(defaultUser(userID)) + "/recordings"
	extra := url.Values{
		"from": {from.Format(dateLayout)},
		"to":   {to.Format(dateLayout)},
	}
	return rest.Paginate(ctx, opts, func(ctx context.Context, cursor string) ([]Recording, string, error) {
		var resp struct {
			pageEnvelope
			Meetings []Recording `json:"meetings"`
		}
		if err := c.api.Get(ctx, path, pageQuery(opts, cursor, extra), &resp); err != nil {
			return nil, "", fmt.Errorf("list recordings: %w", err)
		}
		return resp.Meetings, resp.NextPageToken, nil
	})
}

func pageQuery(opts rest.PageOptions, cursor string, extra url.Values) url.Values {
	size := opts.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	q := url.Values{"page_size": {strconv.Itoa(size)}}
	for k, v := range extra {
		q[k] = v
	}
	if cursor != "" {
		q.Set("next_page_token", cursor)
	}
	return q
}

func defaultUser(userID string) string {
	if userID == "" {
		return Me
	}
	return userID
}

func validListType(t string) bool {
	for _, v := range MeetingListTypes {
		if v == t {
			return true
		}
	}
	return false
}

// validMeetingID accepts numeric meeting IDs. See NormaliseMeetingID.
func validMeetingID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: meeting id is required", domain.ErrInvalidInput)
	}
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return fmt.Errorf("%w: meeting id %q is not numeric", domain.ErrInvalidInput, id)
	}
	return nil
}

// NormaliseMeetingID strips the spaces Zoom shows in meeting IDs.
func NormaliseMeetingID(id string) string {
	return strings.ReplaceAll(strings.TrimSpace(id), " ", "")
}
