package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, "tok-123")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, srv
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", ""); err == nil {
		t.Error("empty server must be rejected")
	}
	if _, err := NewClient("sheets.example.org", ""); err == nil {
		t.Error("schemeless server must be rejected")
	}
	if _, err := NewClient("https://sheets.example.org/", ""); err != nil {
		t.Errorf("valid server rejected: %v", err)
	}
}

func TestRequestShape(t *testing.T) {
	var gotPath, gotAuth, gotAccept string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"type": "users", "id": "7",
			"attributes": map[string]any{"user_name": "ana"},
		}})
	}))

	u, err := c.FetchUser(context.Background())
	if err != nil {
		t.Fatalf("FetchUser: %v", err)
	}
	if gotPath != "/rest/user" {
		t.Errorf("path = %q, want /rest/user", gotPath)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("accept header = %q", gotAccept)
	}
	if u.UserName != "ana" || u.ID != "7" {
		t.Errorf("user hydrated wrong: %+v", u)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	cases := []struct {
		status int
		kind   ErrorKind
	}{
		{404, KindNotFound},
		{401, KindForbidden},
		{403, KindForbidden},
		{400, KindValidation},
		{500, KindTransport},
	}
	for _, tc := range cases {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(`{"errors":[{"detail":"boom"}]}`))
		}))
		_, err := c.FetchUser(context.Background())
		if err == nil {
			t.Fatalf("status %d produced no error", tc.status)
		}
		ae, ok := err.(*APIError)
		if !ok {
			t.Fatalf("status %d produced %T, want *APIError", tc.status, err)
		}
		if ae.Kind != tc.kind {
			t.Errorf("status %d → kind %q, want %q", tc.status, ae.Kind, tc.kind)
		}
		if ae.Message != "boom" {
			t.Errorf("server detail not surfaced: %q", ae.Message)
		}
		if ae.Body == "" {
			t.Error("body must be preserved for diagnosis")
		}
	}
}

func TestTransportErrorHasNoStatus(t *testing.T) {
	c, err := NewClient("http://127.0.0.1:1", "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = c.FetchUser(context.Background())
	ae, ok := err.(*APIError)
	if !ok {
		t.Fatalf("got %T, want *APIError", err)
	}
	if ae.Kind != KindTransport {
		t.Errorf("kind = %q, want transport", ae.Kind)
	}
}
