package api_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/joestump/studyshelf/internal/api"
	"github.com/joestump/studyshelf/internal/notify"
	"github.com/joestump/studyshelf/internal/store"
	"github.com/joestump/studyshelf/internal/submission"
	"github.com/joestump/studyshelf/internal/testutil"
)

const fallbackThumbnail = "https://example.com/fallback.png"

// recordingSink counts delivery attempts and fails every one of them when err is set.
type recordingSink struct {
	mu  sync.Mutex
	got []notify.Submission
	err error
}

func (s *recordingSink) Send(_ context.Context, sub notify.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, sub)
	return s.err
}

func (s *recordingSink) attempts() []notify.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Submission(nil), s.got...)
}

// testEnv holds all stores and helpers needed for API integration tests.
type testEnv struct {
	Router     http.Handler
	Dispatcher *notify.Dispatcher
	Sink       *recordingSink
	Resources  *store.ResourceStore
	Tags       *store.TagStore
	Likes      *store.LikeStore
	Favourites *store.FavouriteStore
	Comments   *store.CommentStore
	Users      *store.UserStore
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the full router with real stores. The notification sink
// fails every delivery so that tests prove failures never reach the client.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	sink := &recordingSink{err: errors.New("webhook unavailable")}
	dispatcher := notify.NewDispatcher(sink, time.Second, nil, zap.NewNop())
	t.Cleanup(dispatcher.Wait)

	env := &testEnv{
		Dispatcher: dispatcher,
		Sink:       sink,
		Resources:  store.NewResourceStore(db),
		Tags:       store.NewTagStore(db),
		Likes:      store.NewLikeStore(db),
		Favourites: store.NewFavouriteStore(db),
		Comments:   store.NewCommentStore(db),
		Users:      store.NewUserStore(db),
	}

	pipeline := submission.New(env.Resources, dispatcher, submission.Options{
		FallbackThumbnail: fallbackThumbnail,
		PublicBaseURL:     "https://shelf.example.com",
	})

	env.Router = api.NewRouter(api.Deps{
		Pipeline:       pipeline,
		ResourceStore:  env.Resources,
		TagStore:       env.Tags,
		LikeStore:      env.Likes,
		FavouriteStore: env.Favourites,
		CommentStore:   env.Comments,
		UserStore:      env.Users,
	})
	return env
}

// seedResource stores a resource directly, bypassing the pipeline.
func seedResource(t *testing.T, env *testEnv, name string, tags ...string) *store.Resource {
	t.Helper()
	r, err := env.Resources.Create(context.Background(), store.NewResource{
		Name:          name,
		Author:        "Ada",
		URL:           "https://example.com/" + name,
		ContentType:   "article",
		Stage:         "beginner",
		SubmitterName: "alice",
		ThumbnailURL:  "https://example.com/thumb.png",
		Tags:          tags,
	})
	if err != nil {
		t.Fatalf("seed resource: %v", err)
	}
	return r
}

// do sends a request through the router and returns the recorder.
func do(t *testing.T, env *testEnv, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}
