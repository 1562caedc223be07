package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func postReorder(t *testing.T, h http.Handler, body string, csrf string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/projects/reorder", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if csrf != "" {
		req.Header.Set("X-CSRFToken", csrf)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestReorderSuccess(t *testing.T) {
	store := NewMemoryProjects("a1", "b2", "c3")
	h := NewReorderHandler(store, "", nil)

	rec := postReorder(t, h, `{"project_hex_ids":["c3","a1","b2"]}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if resp["status"] != "success" {
		t.Fatalf("unexpected response: %v", resp)
	}
	if diff := cmp.Diff([]string{"c3", "a1", "b2"}, store.Order()); diff != "" {
		t.Fatalf("unexpected stored order (-want +got):\n%s", diff)
	}
}

func TestReorderIgnoresUnknownIDs(t *testing.T) {
	store := NewMemoryProjects("a1", "b2")
	h := NewReorderHandler(store, "", nil)

	rec := postReorder(t, h, `{"project_hex_ids":["zz","b2","a1"]}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if diff := cmp.Diff([]string{"b2", "a1"}, store.Order()); diff != "" {
		t.Fatalf("unexpected stored order (-want +got):\n%s", diff)
	}
}

func TestReorderEmptyPayload(t *testing.T) {
	h := NewReorderHandler(NewMemoryProjects(), "", nil)

	rec := postReorder(t, h, `{"project_hex_ids":[]}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if resp["error"] == "" {
		t.Fatalf("expected error field, got %v", resp)
	}
}

func TestReorderInvalidJSON(t *testing.T) {
	h := NewReorderHandler(NewMemoryProjects(), "", nil)
	rec := postReorder(t, h, `not json`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestReorderCSRFMismatch(t *testing.T) {
	h := NewReorderHandler(NewMemoryProjects("a1"), "expected-token", nil)
	rec := postReorder(t, h, `{"project_hex_ids":["a1"]}`, "wrong")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestReorderMethodNotAllowed(t *testing.T) {
	h := NewReorderHandler(NewMemoryProjects(), "", nil)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/projects/reorder", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

type failingStore struct{}

func (failingStore) Reorder([]string) error { return errors.New("db unavailable") }

func TestReorderStoreFailure(t *testing.T) {
	h := NewReorderHandler(failingStore{}, "", nil)
	rec := postReorder(t, h, `{"project_hex_ids":["a1"]}`, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
