package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/problemlog/internal/domain"
	"github.com/conorfennell/problemlog/internal/storage"
	"github.com/conorfennell/problemlog/internal/tracker"
)

func newTestServer(t *testing.T) (*Server, *tracker.Tracker) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storage.NewProblemStore(storage.NewMemoryKV(), storage.DefaultKey, logger)
	now := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)
	tr, err := tracker.New(context.Background(), store,
		tracker.WithClock(func() time.Time {
			now = now.Add(time.Millisecond)
			return now
		}),
		tracker.WithLogger(logger))
	require.NoError(t, err)

	srv, err := NewServer(tr, logger, 0)
	require.NoError(t, err)
	return srv, tr
}

func postForm(srv http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="problemForm"`)
	assert.Contains(t, body, "No problems added yet")
	assert.NotContains(t, body, "revisionSection")

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStaticAssets(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dismissNotifications")
}

func TestAddReviseDeleteFlow(t *testing.T) {
	srv, tr := newTestServer(t)

	rec := postForm(srv, "/problems", url.Values{
		"name":          {"Two Sum"},
		"difficulty":    {"Easy"},
		"topic":         {"Array"},
		"needsRevision": {"on"},
		"revisionDate":  {"2026-10-17"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Problem added successfully!")
	assert.Contains(t, body, `data-dismiss-after="3000"`)
	assert.Contains(t, body, "revisionSection")

	problems := tr.Problems()
	require.Len(t, problems, 1)
	p := problems[0]
	assert.Equal(t, domain.DefaultCompany, p.Company)
	id := strconv.FormatInt(p.ID, 10)

	rec = postForm(srv, "/problems/"+id+"/revise", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Marked as revised!")
	assert.NotContains(t, rec.Body.String(), "revisionSection")
	got, err := tr.Find(p.ID)
	require.NoError(t, err)
	assert.True(t, got.Revised)

	req := httptest.NewRequest(http.MethodDelete, "/problems/"+id, nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Problem deleted!")
	assert.Empty(t, tr.Problems())
}

func TestAddValidationFailure(t *testing.T) {
	srv, tr := newTestServer(t)

	rec := postForm(srv, "/problems", url.Values{"name": {"Two Sum"}, "difficulty": {"Impossible"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not add problem")
	assert.Empty(t, tr.Problems())

	rec = postForm(srv, "/problems", url.Values{
		"name": {"Two Sum"}, "difficulty": {"Easy"}, "topic": {"Array"}, "revisionDate": {"whenever"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "revisionDate must be a date")
	assert.Empty(t, tr.Problems())
}

func TestUnknownIDIsNoOp(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := postForm(srv, "/problems/123/revise", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "notification")

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/problems/123", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Problem deleted!")
}

func TestProblemRouting(t *testing.T) {
	srv, _ := newTestServer(t)

	testCases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/problems", http.StatusMethodNotAllowed},
		{http.MethodGet, "/problems/1", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/problems/abc", http.StatusBadRequest},
		{http.MethodPost, "/problems/1/archive", http.StatusNotFound},
		{http.MethodPost, "/board", http.StatusMethodNotAllowed},
		{http.MethodGet, "/board", http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
