package bookmarks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := New(srv.URL, "service-key", zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestListReturnsItemIDs(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/bookmarks", r.URL.Path)
		assert.Equal(t, "eq.u1", r.URL.Query().Get("user_id"))
		w.Write([]byte(`[{"item_id":"phys-kinematics"},{"item_id":"formula-1"}]`))
	})

	ids, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"phys-kinematics", "formula-1"}, ids)
}

func TestToggleAddsWhenAbsent(t *testing.T) {
	inserted := false
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[]`))
		case http.MethodPost:
			inserted = true
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`[]`))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	bookmarked, err := svc.Toggle(context.Background(), "u1", "c1", ItemChapter)
	require.NoError(t, err)
	assert.True(t, bookmarked)
	assert.True(t, inserted)
}

func TestToggleRemovesWhenPresent(t *testing.T) {
	deleted := false
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[{"user_id":"u1","item_id":"c1","item_type":"chapter"}]`))
		case http.MethodDelete:
			deleted = true
			w.Write([]byte(`[]`))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	bookmarked, err := svc.Toggle(context.Background(), "u1", "c1", ItemChapter)
	require.NoError(t, err)
	assert.False(t, bookmarked)
	assert.True(t, deleted)
}

func TestListHonorsContextCancellation(t *testing.T) {
	release := make(chan struct{})
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := svc.List(ctx, "u1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
