package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/auth"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/testutil"
)

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			return c
		}
	}
	return nil
}

func (s *testServer) withCookie(t *testing.T, method, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req, _ := http.NewRequest(method, basePath+path, nil)
	req.AddCookie(cookie)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestSession_LoginLogout(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/auth/session/", map[string]any{
		"login":    "READER@example.com",
		"password": testutil.Password,
	}, nil)
	expectStatus(t, w, http.StatusCreated)

	if got := decode[MemberResponse](t, w).Data; got.ID != s.reader.ID {
		t.Fatalf("expected reader to be logged in, got %+v", got)
	}

	cookie := sessionCookie(w)
	if cookie == nil || cookie.Value == "" {
		t.Fatalf("expected %s cookie, got %v", auth.SessionCookie, w.Result().Cookies())
	}
	if !cookie.HttpOnly {
		t.Errorf("session cookie must be HttpOnly")
	}

	w = s.withCookie(t, http.MethodGet, "/members/me/", cookie)
	expectStatus(t, w, http.StatusOK)

	w = s.withCookie(t, http.MethodDelete, "/auth/session", cookie)
	expectStatus(t, w, http.StatusNoContent)
	if cleared := sessionCookie(w); cleared == nil || cleared.MaxAge >= 0 {
		t.Errorf("expected logout to expire the cookie, got %v", cleared)
	}

	w = s.withCookie(t, http.MethodGet, "/members/me/", cookie)
	expectStatus(t, w, http.StatusUnauthorized)
}

func TestSession_BadCredentials(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"wrong password", map[string]any{"login": "reader", "password": "nope"}, http.StatusUnauthorized},
		{"unknown login", map[string]any{"login": "ghost", "password": testutil.Password}, http.StatusUnauthorized},
		{"missing password", map[string]any{"login": "reader"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/auth/session/", tt.body, nil)
			expectStatus(t, w, tt.status)

			if sessionCookie(w) != nil {
				t.Errorf("no cookie expected on failed login")
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	s := newTestServer(t)

	token, err := s.tokens.Issue(s.staff.ID, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	payload, _ := json.Marshal(map[string]any{"name": "Frank Herbert"})
	req, _ := http.NewRequest(http.MethodPost, basePath+"/authors/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	expectStatus(t, w, http.StatusCreated)

	req, _ = http.NewRequest(http.MethodGet, basePath+"/authors/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	expectStatus(t, w, http.StatusUnauthorized)
}
