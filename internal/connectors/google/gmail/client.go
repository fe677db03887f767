package gmail

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/api/gmail/v1"

	"github.com/custodia-labs/switchboard/internal/connectors/google"
	"github.com/custodia-labs/switchboard/internal/connectors/rest"
)

// me is the user ID alias for the authenticated account.
const me = "me"

// Summary is a listed message with its main headers.
type Summary struct {
	ID       string   `json:"id"`
	ThreadID string   `json:"threadId"`
	From     string   `json:"from,omitempty"`
	To       string   `json:"to,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Date     string   `json:"date,omitempty"`
	Snippet  string   `json:"snippet,omitempty"`
	Labels   []string `json:"labels,omitempty"`
}

// Client wraps a Gmail service.
type Client struct {
	svc *gmail.Service
}

// New wraps svc.
func New(svc *gmail.Service) *Client {
	return &Client{svc: svc}
}

// List lists messages matching a Gmail search query, fetching the main
// headers of each.
func (c *Client) List(ctx context.Context, query string, opts rest.PageOptions) (*rest.Page[Summary], error) {
	size := int64(opts.PageSize)
	if size <= 0 || size > 500 {
		size = 25
	}

	return rest.Paginate(ctx, opts, func(ctx context.Context, cursor string) ([]Summary, string, error) {
		call := c.svc.Users.Messages.List(me).MaxResults(size).Context(ctx)
		if query != "" {
			call = call.Q(query)
		}
		if cursor != "" {
			call = call.PageToken(cursor)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, "", fmt.Errorf("list messages: %w", google.WrapError(err))
		}

		out := make([]Summary, 0, len(resp.Messages))
		for _, ref := range resp.Messages {
			msg, err := c.svc.Users.Messages.Get(me, ref.Id).
				Format("metadata").
				MetadataHeaders("From", "To", "Subject", "Date").
				Context(ctx).Do()
			if err != nil {
				return out, "", fmt.Errorf("get message %s: %w", ref.Id, google.WrapError(err))
			}
			out = append(out, summarise(msg))
		}
		return out, resp.NextPageToken, nil
	})
}

// Send sends m from the authenticated account and returns the message ID.
func (c *Client) Send(ctx context.Context, m Message) (string, error) {
	raw, err := m.Build("")
	if err != nil {
		return "", err
	}
	sent, err := c.svc.Users.Messages.Send(me, &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("send message: %w", google.WrapError(err))
	}
	return sent.Id, nil
}

func summarise(msg *gmail.Message) Summary {
	s := Summary{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
		Labels:   msg.LabelIds,
	}
	if msg.Payload == nil {
		return s
	}
	for _, h := range msg.Payload.Headers {
		switch h.Name {
		case "From":
			s.From = h.Value
		case "To":
			s.To = h.Value
		case "Subject":
			s.Subject = h.Value
		case "Date":
			s.Date = h.Value
		}
	}
	return s
}
