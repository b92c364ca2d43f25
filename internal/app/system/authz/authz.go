// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/mealbridge/internal/app/system/auth"
	"github.com/dalemusser/mealbridge/internal/app/system/status"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (uppercased), name, Mongo ObjectID, and a
// found flag. If no user is present in context or the user ID is malformed,
// it returns "", "", NilObjectID, false — so ok=true means a valid,
// authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "", "", primitive.NilObjectID, false
	}
	return strings.ToUpper(user.Role), user.Name, userID, true
}

// HasAnyRole reports whether the current request's user has any of the
// given roles. Returns false if no user is present.
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToUpper(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// IsDonor reports whether the current request's user is a donor.
func IsDonor(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == status.RoleDonor
}

// IsNGO reports whether the current request's user is an NGO.
func IsNGO(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == status.RoleNGO
}

// IsVolunteer reports whether the current request's user is a volunteer.
func IsVolunteer(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == status.RoleVolunteer
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == status.RoleAdmin
}
