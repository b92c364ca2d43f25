package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/mealbridge/internal/app/system/auth"
	"go.uber.org/zap"
)

func newManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "mealbridge-test", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return sm
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	_, err := auth.NewSessionManager("", "mealbridge-test", "", false, zap.NewNop())
	if err == nil {
		t.Error("expected error for empty session key")
	}
}

func TestCurrentUser_None(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := auth.CurrentUser(req); ok {
		t.Error("expected no user on bare request")
	}
}

func TestWithTestUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "abc", Name: "Test", Role: "DONOR"})

	u, ok := auth.CurrentUser(req)
	if !ok {
		t.Fatal("expected user in context")
	}
	if u.Role != "DONOR" {
		t.Errorf("role: got %q, want DONOR", u.Role)
	}
}

func TestRequireSignedIn_Unauthenticated(t *testing.T) {
	sm := newManager(t)

	called := false
	h := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/auth/profile", nil))

	if called {
		t.Error("handler should not be called without a user")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestRequireSignedIn_Authenticated(t *testing.T) {
	sm := newManager(t)

	called := false
	h := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: "abc", Role: "NGO"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if !called {
		t.Error("handler should be called for a signed-in user")
	}
}

func TestRequireRole(t *testing.T) {
	sm := newManager(t)

	tests := []struct {
		name       string
		user       *auth.SessionUser
		allowed    []string
		wantStatus int
	}{
		{"matching role", &auth.SessionUser{ID: "a", Role: "NGO"}, []string{"NGO"}, http.StatusOK},
		{"role is case-insensitive", &auth.SessionUser{ID: "a", Role: "ngo"}, []string{"NGO"}, http.StatusOK},
		{"one of several", &auth.SessionUser{ID: "a", Role: "ADMIN"}, []string{"DONOR", "ADMIN"}, http.StatusOK},
		{"wrong role", &auth.SessionUser{ID: "a", Role: "DONOR"}, []string{"NGO"}, http.StatusForbidden},
		{"not signed in", nil, []string{"NGO"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := sm.RequireRole(tt.allowed...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("POST", "/", nil)
			if tt.user != nil {
				req = auth.WithTestUser(req, tt.user)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestSignIn_ThenLoadSessionUser(t *testing.T) {
	sm := newManager(t)

	// Sign in and capture the cookie.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	su := &auth.SessionUser{ID: "507f1f77bcf86cd799439011", Name: "Casey", Email: "casey@example.com", Role: "VOLUNTEER"}
	if err := sm.SignIn(rec, req, su); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie to be set")
	}

	// Replay the cookie through the middleware.
	var got *auth.SessionUser
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	req2 := httptest.NewRequest("GET", "/api/auth/profile", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req2)

	if got == nil {
		t.Fatal("expected user loaded from session cookie")
	}
	if got.ID != su.ID || got.Role != su.Role || got.Email != su.Email {
		t.Errorf("loaded user = %+v, want %+v", got, su)
	}
}

func TestSignOut_ClearsSession(t *testing.T) {
	sm := newManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	if err := sm.SignIn(rec, req, &auth.SessionUser{ID: "x", Role: "DONOR"}); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	rec2 := httptest.NewRecorder()
	req2 := httptest.NewRequest("POST", "/logout", nil)
	for _, c := range rec.Result().Cookies() {
		req2.AddCookie(c)
	}
	if err := sm.SignOut(rec2, req2); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	found := false
	for _, c := range rec2.Result().Cookies() {
		if c.MaxAge < 0 {
			found = true
		}
	}
	if !found {
		t.Error("expected a deletion cookie with MaxAge < 0")
	}
}
