package driver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortlist/config"
	"shortlist/model"
	"shortlist/testutil/fakeapi"
)

func newRemote(t *testing.T, baseURL string) *RemoteStorage {
	t.Helper()
	cfg := config.Default().Storage
	cfg.Type = config.StorageTypeRemote
	cfg.Remote.BaseURL = baseURL
	cfg.Remote.Timeout = 2 * time.Second
	s, err := NewRemoteStorage(&cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func fixtures() []*model.Studio {
	return []*model.Studio{
		{ID: "a", Name: "Epic Designs", Price: "$$"},
		{ID: "b", Name: "Studio - D3", Price: "$$$"},
		{ID: "c", Name: "House of Designs", Price: "$"},
	}
}

func TestRemoteStorage_RoundTrip(t *testing.T) {
	api := fakeapi.New(fixtures()...)
	defer api.Close()
	s := newRemote(t, api.BaseURL())
	ctx := context.Background()

	ids, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, s.Add(ctx, "a"))
	require.NoError(t, s.Add(ctx, "c"))
	require.NoError(t, s.Add(ctx, "a"))
	assert.Equal(t, []string{"a", "c"}, api.Shortlisted())

	require.NoError(t, s.Remove(ctx, "a"))
	ids, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids)

	listings, err := s.Listings(ctx)
	require.NoError(t, err)
	assert.Len(t, listings, 3)

	assert.NoError(t, s.Health(ctx))
}

func TestRemoteStorage_RejectedCarriesBackendError(t *testing.T) {
	api := fakeapi.New(fixtures()...)
	defer api.Close()
	s := newRemote(t, api.BaseURL())
	ctx := context.Background()

	api.Reject(http.MethodPost, "Failed to save data")
	err := s.Add(ctx, "a")
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "Failed to save data")
	assert.Empty(t, api.Shortlisted())

	// 不存在的工作室返回 404 + success=false
	api.Accept(http.MethodPost)
	err = s.Add(ctx, "missing")
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "Listing not found")

	api.Reject(http.MethodGet, "boom")
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrRejected)
}

func TestRemoteStorage_NonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	s := newRemote(t, srv.URL+"/api")
	err := s.Remove(context.Background(), "a")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "502")
}

func TestRemoteStorage_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/api"
	srv.Close()

	s := newRemote(t, base)
	_, err := s.Load(context.Background())
	assert.Error(t, err)
}

func TestRemoteStorage_EscapesID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	s := newRemote(t, srv.URL+"/api/")
	require.NoError(t, s.Add(context.Background(), "a b/c"))
	assert.Equal(t, "/api/shortlist/a%20b%2Fc", gotPath)
}

func TestNewRemoteStorage_InvalidURL(t *testing.T) {
	cfg := config.Default().Storage
	cfg.Remote.BaseURL = "not a url"
	_, err := NewRemoteStorage(&cfg, nil)
	assert.Error(t, err)
}

// 后端 created_at 为不带时区的 isoformat 时间
func TestRemoteStorage_ListingTimestampsWithoutZone(t *testing.T) {
	const payload = `{"success":true,"count":2,"data":[
		{"id":"a","name":"Epic Designs","rating":4.5,"projects":57,"years":8,"price":"$$","phones":["+91-984532853"]},
		{"id":"b","name":"Studio - D3","rating":4.0,"created_at":"2026-10-19T12:30:00.123456","extra":{"nested":true}}
	]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	s := newRemote(t, srv.URL+"/api")

	ids, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	listings, err := s.Listings(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "2026-10-19T12:30:00.123456", listings[1].CreatedAt)
	assert.Equal(t, []string{"+91-984532853"}, listings[0].Phones)
}
