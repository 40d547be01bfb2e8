package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/linkstash/internal/config"
	"github.com/dshills/linkstash/internal/searcher"
	"github.com/dshills/linkstash/internal/storage"
	"github.com/dshills/linkstash/pkg/types"
)

type stubFetcher struct{}

func (stubFetcher) Fetch(ctx context.Context, rawURL string) (*types.LinkMetadata, error) {
	if rawURL == "https://down.test" {
		return nil, errors.New("HTTP 503")
	}
	return &types.LinkMetadata{Title: "React Hooks Guide"}, nil
}

func setupApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("LINKSTASH_STORAGE_PATH", ":memory:")
	cfg, err := config.Load("")
	require.NoError(t, err)

	a, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	// Swap in a fetcher that never touches the network
	withStub, err := NewWithStore(cfg, a.Store, stubFetcher{}, zerolog.Nop())
	require.NoError(t, err)
	return withStub
}

func TestSaveNote(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()

	note, err := a.SaveNote(ctx, 1, "  weekend reading  ", []string{"https://react.dev/learn", "  ", ""})
	require.NoError(t, err)
	assert.Equal(t, "weekend reading", note.Content)
	require.Len(t, note.Links, 1)

	stored, err := a.Store.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.ID, stored.ID)
}

func TestSaveNote_Validation(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		owner   int64
		content string
		urls    []string
		field   string
	}{
		{"no owner", 0, "text", nil, "note"},
		{"nothing to save", 1, "   ", []string{" "}, "note"},
		{"relative url", 1, "", []string{"/docs"}, "urls"},
		{"ftp url", 1, "", []string{"ftp://example.com"}, "urls"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.SaveNote(ctx, tt.owner, tt.content, tt.urls)
			var verr *types.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestNoteLifecycle(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()

	note, err := a.SaveNote(ctx, 1, "Remember to review Redux patterns tomorrow", nil)
	require.NoError(t, err)

	req := searcher.SearchRequest{OwnerID: 1, Query: "redux", Page: 1, PageSize: 5}

	page, err := a.Searcher.SearchNotes(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)

	// Delete requires archive first
	err = a.DeleteNote(ctx, note.ID)
	assert.ErrorIs(t, err, types.ErrNoteNotArchived)

	require.NoError(t, a.SetArchived(ctx, note.ID, true))
	page, err = a.Searcher.SearchNotes(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalCount)

	require.NoError(t, a.SetArchived(ctx, note.ID, false))
	page, err = a.Searcher.SearchNotes(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)

	require.NoError(t, a.SetArchived(ctx, note.ID, true))
	require.NoError(t, a.DeleteNote(ctx, note.ID))

	assert.ErrorIs(t, a.DeleteNote(ctx, note.ID), types.ErrNotFound)
	assert.ErrorIs(t, a.SetArchived(ctx, "missing", true), types.ErrNotFound)
	assert.ErrorIs(t, a.SetArchived(ctx, "", true), types.ErrValidation)
}

func TestEnrichThenSearchLinks(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()

	_, err := a.SaveNote(ctx, 1, "", []string{"https://react.dev/learn", "https://down.test"})
	require.NoError(t, err)

	stats, err := a.Enrich(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.LinksEnriched)
	assert.Equal(t, 1, stats.LinksFailed)

	page, err := a.Searcher.SearchLinks(ctx, searcher.SearchRequest{OwnerID: 1, Query: "reactt", Page: 1, PageSize: 5})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "React Hooks Guide", page.Items[0].Title)

	status, err := a.Status(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, status.ActiveNotes)
	assert.Equal(t, 2, status.Links)
	assert.Equal(t, 0, status.PendingLinks)
	assert.Equal(t, storage.CurrentSchemaVersion, status.SchemaVersion)
}

func TestServeMetrics(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ServeMetrics(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("metrics server did not shut down")
	}
}
