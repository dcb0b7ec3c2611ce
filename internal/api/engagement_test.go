package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/joestump/studyshelf/internal/api"
)

func decodeBool(t *testing.T, env *testEnv, path string) bool {
	t.Helper()
	rec := do(t, env, "GET", path, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s: status = %d, want %d", path, rec.Code, http.StatusOK)
	}
	var got bool
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("GET %s: decode: %v", path, err)
	}
	return got
}

func likeCount(t *testing.T, env *testEnv, id string) int64 {
	t.Helper()
	r, err := env.Resources.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	return r.Likes
}

func TestLike_Unlike(t *testing.T) {
	env := newTestEnv(t)
	r := seedResource(t, env, "graphs")

	rec := do(t, env, "PUT", "/like/u1/"+r.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("like: status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp api.LikeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Likes != 1 {
		t.Errorf("likes = %d, want 1", resp.Likes)
	}
	if !decodeBool(t, env, "/hasLiked/u1/"+r.ID) {
		t.Error("hasLiked = false after like")
	}

	rec = do(t, env, "PUT", "/dislike/u1/"+r.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("dislike: status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := likeCount(t, env, r.ID); got != 0 {
		t.Errorf("likes = %d, want 0", got)
	}
	if decodeBool(t, env, "/hasLiked/u1/"+r.ID) {
		t.Error("hasLiked = true after dislike")
	}
}

func TestLike_TwiceIsConflict(t *testing.T) {
	env := newTestEnv(t)
	r := seedResource(t, env, "graphs")

	if rec := do(t, env, "PUT", "/like/u1/"+r.ID, ""); rec.Code != http.StatusOK {
		t.Fatalf("first like: status = %d", rec.Code)
	}
	rec := do(t, env, "PUT", "/like/u1/"+r.ID, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("second like: status = %d, want %d", rec.Code, http.StatusConflict)
	}

	var resp api.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "CONFLICT" {
		t.Errorf("code = %q, want CONFLICT", resp.Code)
	}
	if got := likeCount(t, env, r.ID); got != 1 {
		t.Errorf("likes = %d, want 1", got)
	}
	if !decodeBool(t, env, "/hasLiked/u1/"+r.ID) {
		t.Error("hasLiked = false after likes")
	}
}

func TestDislike_NotLikedIsNoop(t *testing.T) {
	env := newTestEnv(t)
	r := seedResource(t, env, "graphs")

	rec := do(t, env, "PUT", "/dislike/u1/"+r.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := likeCount(t, env, r.ID); got != 0 {
		t.Errorf("likes = %d, want 0", got)
	}
}

func TestLike_UnknownResource(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/like/u1/missing", "/dislike/u1/missing"} {
		rec := do(t, env, "PUT", path, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("PUT %s: status = %d, want %d", path, rec.Code, http.StatusNotFound)
		}
	}
}

func TestFavourites_AddTwiceRemoveTwice(t *testing.T) {
	env := newTestEnv(t)
	r := seedResource(t, env, "graphs")

	for i := 0; i < 2; i++ {
		rec := do(t, env, "POST", "/addFav/u1/"+r.ID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("addFav #%d: status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}
	if !decodeBool(t, env, "/getFav/u1/"+r.ID) {
		t.Error("getFav = false after add")
	}

	rec := do(t, env, "GET", "/favourites/u1", "")
	var list api.ResourceIDListResponse
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.ResourceIDs) != 1 {
		t.Errorf("len(favourites) = %d, want 1", len(list.ResourceIDs))
	}

	for i := 0; i < 2; i++ {
		rec := do(t, env, "DELETE", "/removeFav/u1/"+r.ID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("removeFav #%d: status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}
	if decodeBool(t, env, "/getFav/u1/"+r.ID) {
		t.Error("getFav = true after remove")
	}
}

func TestFavourites_AddUnknownResource(t *testing.T) {
	env := newTestEnv(t)

	rec := do(t, env, "POST", "/addFav/u1/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
