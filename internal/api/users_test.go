package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/joestump/studyshelf/internal/api"
)

func TestUsers_CreateListGet(t *testing.T) {
	env := newTestEnv(t)

	rec := do(t, env, "POST", "/users", `{"name":"alice"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var created api.UserResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = do(t, env, "POST", "/users", `{"name":"alice"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate: status = %d, want %d", rec.Code, http.StatusConflict)
	}

	rec = do(t, env, "GET", "/users", "")
	var list api.UserListResponse
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Users) != 1 || list.Users[0].Name != "alice" {
		t.Errorf("users = %+v, want [alice]", list.Users)
	}

	rec = do(t, env, "GET", "/users/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Errorf("get: status = %d, want %d", rec.Code, http.StatusOK)
	}
	rec = do(t, env, "GET", "/users/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get missing: status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestUsers_CreateRequiresName(t *testing.T) {
	env := newTestEnv(t)

	rec := do(t, env, "POST", "/users", `{"name":"  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
