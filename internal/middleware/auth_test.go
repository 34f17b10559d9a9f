package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oqulab/virtlab/internal/services"
	"github.com/oqulab/virtlab/internal/token"
)

type stubUserFinder struct {
	users map[int64]*services.User
}

func (s *stubUserFinder) GetUser(id int64) (*services.User, error) {
	return s.users[id], nil
}

func setupAuth() (*Auth, *token.Signer, *stubUserFinder) {
	signer := token.NewSigner("test-secret", time.Hour)
	users := &stubUserFinder{users: map[int64]*services.User{
		1: {ID: 1, Email: "student@example.kz", Role: services.RoleStudent},
		2: {ID: 2, Email: "teacher@example.kz", Role: services.RoleTeacher},
	}}
	return NewAuth(signer, users), signer, users
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			t.Fatalf("no user in context inside protected handler")
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthRejects(t *testing.T) {
	auth, signer, _ := setupAuth()
	h := auth.RequireAuth(okHandler(t))

	goodTok, err := signer.Issue(1)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	deletedTok, err := signer.Issue(99)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer zzz"},
		{"tampered token", "Bearer " + goodTok + "x"},
		{"deleted user", "Bearer " + deletedTok},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		if c.header != "" {
			req.Header.Set("Authorization", c.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status %d, want 401", c.name, rec.Code)
		}
		if rec.Header().Get("WWW-Authenticate") != "Bearer" {
			t.Fatalf("%s: missing bearer challenge header", c.name)
		}
	}
}

func TestRequireAuthAccepts(t *testing.T) {
	auth, signer, _ := setupAuth()
	h := auth.RequireAuth(okHandler(t))

	tok, err := signer.Issue(1)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	auth, signer, _ := setupAuth()
	h := auth.RequireRole(okHandler(t), services.RoleTeacher, services.RoleAdmin)

	studentTok, _ := signer.Issue(1)
	teacherTok, _ := signer.Issue(2)

	req := httptest.NewRequest(http.MethodPost, "/labs", nil)
	req.Header.Set("Authorization", "Bearer "+studentTok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("student status %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/labs", nil)
	req.Header.Set("Authorization", "Bearer "+teacherTok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("teacher status %d, want 200", rec.Code)
	}

	// Unauthenticated beats forbidden.
	req = httptest.NewRequest(http.MethodPost, "/labs", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status %d, want 401", rec.Code)
	}
}
