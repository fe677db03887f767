package hubspot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/switchboard/internal/connectors/rest"
	"github.com/custodia-labs/switchboard/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient("pat-na1-abc", server.URL,
		rest.WithHTTPClient(server.Client()), rest.WithRateLimit(1000, 100))
	require.NoError(t, err)
	return c
}

func TestValidateObject(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "contacts", want: "contacts"},
		{in: "Contact", want: "contacts"},
		{in: "company", want: "companies"},
		{in: " deals ", want: "deals"},
		{in: "ticket", want: "tickets"},
		{in: "quotes", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ValidateObject(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient("", "")
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
}

func TestClient_List_FollowsAfterCursor(t *testing.T) {
	var afters []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crm/v3/objects/contacts", r.URL.Path)
		assert.Equal(t, "Bearer pat-na1-abc", r.Header.Get("Authorization"))
		assert.Equal(t, "email,firstname", r.URL.Query().Get("properties"))
		after := r.URL.Query().Get("after")
		afters = append(afters, after)
		if after == "" {
			_, _ = w.Write([]byte(`{"results":[{"id":"1","properties":{"email":"a@example.com"}}],"paging":{"next":{"after":"1"}}}`))
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"id":"2","properties":{"email":"b@example.com","firstname":null}}]}`))
	})

	page, err := c.List(context.Background(), "contacts", []string{"email", "firstname"}, rest.PageOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"", "1"}, afters)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "b@example.com", page.Items[1].Properties["email"])
	assert.False(t, page.Truncated)
}

func TestClient_List_Truncates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"id":"1"}],"paging":{"next":{"after":"next-` + r.URL.Query().Get("after") + `"}}}`))
	})

	page, err := c.List(context.Background(), "deals", nil, rest.PageOptions{MaxPages: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Pages)
	assert.True(t, page.Truncated)
	assert.Equal(t, "next-next-", page.NextCursor)
}

func TestClient_CreateAndUpdate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Properties map[string]string `json:"properties"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "/crm/v3/objects/companies", r.URL.Path)
			assert.Equal(t, "Acme", body.Properties["name"])
			_, _ = w.Write([]byte(`{"id":"77","properties":{"name":"Acme"}}`))
		case http.MethodPatch:
			assert.Equal(t, "/crm/v3/objects/companies/77", r.URL.Path)
			assert.Equal(t, "acme.com", body.Properties["domain"])
			_, _ = w.Write([]byte(`{"id":"77","properties":{"name":"Acme","domain":"acme.com"}}`))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})
	ctx := context.Background()

	created, err := c.Create(ctx, "company", map[string]string{"name": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "77", created.ID)

	updated, err := c.Update(ctx, "companies", "77", map[string]string{"domain": "acme.com"})
	require.NoError(t, err)
	assert.Equal(t, "acme.com", updated.Properties["domain"])

	_, err = c.Update(ctx, "companies", "77", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClient_Get_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":"error","message":"Object not found.  objectId are usually numeric.","category":"OBJECT_NOT_FOUND"}`))
	})

	_, err := c.Get(context.Background(), "contacts", "404", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "Object not found.")
}

func TestClient_Archive(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/crm/v3/objects/tickets/9", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Archive(context.Background(), "tickets", "9"))
}

func TestClient_Search_CursorInBody(t *testing.T) {
	var afters []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/crm/v3/objects/deals/search", r.URL.Path)
		var body SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "dealstage", body.FilterGroups[0].Filters[0].PropertyName)
		assert.Equal(t, 200, body.Limit)
		afters = append(afters, body.After)
		if body.After == "" {
			_, _ = w.Write([]byte(`{"total":2,"results":[{"id":"1"}],"paging":{"next":{"after":"200"}}}`))
			return
		}
		_, _ = w.Write([]byte(`{"total":2,"results":[{"id":"2"}]}`))
	})

	req := SearchRequest{FilterGroups: []FilterGroup{{Filters: []Filter{
		{PropertyName: "dealstage", Operator: "EQ", Value: "closedwon"},
	}}}}
	page, err := c.Search(context.Background(), "deals", req, rest.PageOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"", "200"}, afters)
	assert.Len(t, page.Items, 2)
}

func TestClient_Associations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crm/v4/objects/contacts/1/associations/companies", r.URL.Path)
		assert.Equal(t, "500", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"results":[{"toObjectId":77,"associationTypes":[{"category":"HUBSPOT_DEFINED","typeId":1,"label":"Primary"}]}]}`))
	})

	page, err := c.Associations(context.Background(), "contacts", "1", "companies", rest.PageOptions{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(77), page.Items[0].ToObjectID)
	assert.Equal(t, "Primary", page.Items[0].Types[0].Label)
}

func TestClient_Associate_DefaultType(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/crm/v4/objects/deals/5/associations/default/contacts/1", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"COMPLETE","results":[]}`))
	})

	require.NoError(t, c.Associate(context.Background(), "deal", "5", "contact", "1"))

	err := c.Associate(context.Background(), "deal", "", "contact", "1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClient_Owners(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crm/v3/owners", r.URL.Path)
		_, _ = w.Write([]byte(`{"results":[{"id":"o1","email":"owner@example.com","firstName":"Ada","lastName":"L"}]}`))
	})

	page, err := c.Owners(context.Background(), rest.PageOptions{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Ada", page.Items[0].FirstName)
}
