package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/switchboard/internal/core/domain"
)

func TestConfigStore_SetGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("b.key", "value"))
	require.NoError(t, store.Set("a.key", int64(7)))
	require.NoError(t, store.Set("c.key", true))

	assert.Equal(t, "value", store.GetString("b.key"))
	assert.Equal(t, 7, store.GetInt("a.key"))
	assert.True(t, store.GetBool("c.key"))
	assert.Equal(t, []string{"a.key", "b.key", "c.key"}, store.Keys())
	assert.Equal(t, ":memory:", store.Path())

	assert.Empty(t, store.GetString("a.key"))
	assert.Zero(t, store.GetInt("missing"))
}

func TestActivityStore_ListNewestFirst(t *testing.T) {
	store := NewActivityStore()
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, store.Append(ctx, domain.ActivityRecord{ID: "1", Vendor: domain.VendorX, CreatedAt: base}))
	require.NoError(t, store.Append(ctx, domain.ActivityRecord{ID: "2", Vendor: domain.VendorZoom, CreatedAt: base.Add(time.Second)}))
	require.NoError(t, store.Append(ctx, domain.ActivityRecord{ID: "3", Vendor: domain.VendorX, CreatedAt: base.Add(2 * time.Second)}))

	all, err := store.List(ctx, domain.ActivityFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"3", "2", "1"}, []string{all[0].ID, all[1].ID, all[2].ID})

	xOnly, err := store.List(ctx, domain.ActivityFilter{Vendor: domain.VendorX, Limit: 1})
	require.NoError(t, err)
	require.Len(t, xOnly, 1)
	assert.Equal(t, "3", xOnly[0].ID)

	assert.NoError(t, store.Close())
}

func TestTokenCache(t *testing.T) {
	cache := NewTokenCache()

	_, err := cache.Load(domain.VendorZoom)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	token := &domain.OAuthToken{AccessToken: "abc", Expiry: time.Now().Add(time.Hour)}
	require.NoError(t, cache.Save(domain.VendorZoom, token))
	token.AccessToken = "mutated"

	got, err := cache.Load(domain.VendorZoom)
	require.NoError(t, err)
	assert.Equal(t, "abc", got.AccessToken)

	require.NoError(t, cache.Clear(domain.VendorZoom))
	require.NoError(t, cache.Clear(domain.VendorZoom))
	_, err = cache.Load(domain.VendorZoom)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
