package authz_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/mealbridge/internal/app/system/auth"
	"github.com/dalemusser/mealbridge/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func requestWithUser(role string) *http.Request {
	req := httptest.NewRequest("GET", "/", nil)
	return auth.WithTestUser(req, &auth.SessionUser{
		ID:   primitive.NewObjectID().Hex(),
		Name: "Test User",
		Role: role,
	})
}

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	role, name, userID, ok := authz.UserCtx(req)
	if ok {
		t.Error("expected ok=false without a user")
	}
	if role != "" || name != "" {
		t.Errorf("expected empty role/name, got %q/%q", role, name)
	}
	if userID != primitive.NilObjectID {
		t.Errorf("expected NilObjectID, got %v", userID)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "not-a-hex-id", Role: "DONOR"})

	if _, _, _, ok := authz.UserCtx(req); ok {
		t.Error("expected ok=false for malformed user ID")
	}
}

func TestUserCtx_NormalizesRole(t *testing.T) {
	role, _, _, ok := authz.UserCtx(requestWithUser("ngo"))
	if !ok {
		t.Fatal("expected ok=true")
	}
	if role != "NGO" {
		t.Errorf("role: got %q, want NGO", role)
	}
}

func TestRoleHelpers(t *testing.T) {
	tests := []struct {
		role  string
		check func(*http.Request) bool
		want  bool
	}{
		{"DONOR", authz.IsDonor, true},
		{"NGO", authz.IsDonor, false},
		{"NGO", authz.IsNGO, true},
		{"VOLUNTEER", authz.IsVolunteer, true},
		{"ADMIN", authz.IsAdmin, true},
		{"DONOR", authz.IsAdmin, false},
	}

	for _, tt := range tests {
		if got := tt.check(requestWithUser(tt.role)); got != tt.want {
			t.Errorf("role %q: got %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestHasAnyRole(t *testing.T) {
	req := requestWithUser("VOLUNTEER")
	if !authz.HasAnyRole(req, "NGO", "VOLUNTEER") {
		t.Error("expected VOLUNTEER to match one of [NGO VOLUNTEER]")
	}
	if authz.HasAnyRole(req, "NGO", "ADMIN") {
		t.Error("expected VOLUNTEER not to match [NGO ADMIN]")
	}
	if authz.HasAnyRole(httptest.NewRequest("GET", "/", nil), "DONOR") {
		t.Error("expected no match without a user")
	}
}
