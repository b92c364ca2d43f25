// internal/app/features/authapi/handler.go
package authapi

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	sessionstore "github.com/dalemusser/mealbridge/internal/app/store/sessions"
	userstore "github.com/dalemusser/mealbridge/internal/app/store/users"
	"github.com/dalemusser/mealbridge/internal/app/system/auth"
	"github.com/dalemusser/mealbridge/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mealbridge/internal/app/system/httpapi"
	"github.com/dalemusser/mealbridge/internal/app/system/normalize"
	"github.com/dalemusser/mealbridge/internal/app/system/ratelimit"
	"github.com/dalemusser/mealbridge/internal/app/system/status"
	"github.com/dalemusser/mealbridge/internal/domain/models"
)

const minPasswordLength = 6

// Handler serves registration, login, logout, and profile.
type Handler struct {
	Users      *userstore.Store
	Sessions   *sessionstore.Store
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	Log        *zap.Logger
}

// NewHandler constructs the auth handler.
func NewHandler(users *userstore.Store, sess *sessionstore.Store, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		Sessions:   sess,
		SessionMgr: sm,
		Limiter:    ratelimit.NewLoginLimiter(),
		Log:        logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register handles POST /api/auth/register.
//
// Creates the account, opens a login session, and returns the bearer
// token alongside the user. The session cookie is also set so browser
// clients are signed in immediately.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Validation(w, "invalid request body", nil)
		return
	}

	req.Name = htmlsanitize.Strip(req.Name)
	req.Email = normalize.Email(req.Email)
	req.Role = normalize.Role(req.Role)

	fields := map[string]string{}
	if req.Name == "" {
		fields["name"] = "name is required"
	}
	if req.Email == "" {
		fields["email"] = "email is required"
	}
	if len(req.Password) < minPasswordLength {
		fields["password"] = "password must be at least 6 characters"
	}
	switch req.Role {
	case status.RoleDonor, status.RoleNGO, status.RoleVolunteer:
	default:
		// Admin accounts are provisioned at startup, never self-registered.
		fields["role"] = `role must be "DONOR", "NGO", or "VOLUNTEER"`
	}
	if len(fields) > 0 {
		httpapi.Validation(w, "invalid registration", fields)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpapi.Internal(w, h.Log, "bcrypt hash failed", err)
		return
	}

	user, err := h.Users.Create(r.Context(), models.User{
		FullName:     req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
	})
	if err != nil {
		if err == userstore.ErrDuplicateEmail {
			httpapi.Validation(w, "a user with this email already exists",
				map[string]string{"email": "already registered"})
			return
		}
		httpapi.Internal(w, h.Log, "user create failed", err)
		return
	}

	h.Log.Info("user registered",
		zap.String("user_id", user.ID.Hex()),
		zap.String("role", user.Role))

	h.openSession(w, r, user)
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Validation(w, "invalid request body", nil)
		return
	}

	if ok, msg := h.Limiter.Check(r, req.Email); !ok {
		httpapi.WriteError(w, http.StatusTooManyRequests, httpapi.CodeValidation, msg)
		return
	}

	user, err := h.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			h.rejectCredentials(w)
			return
		}
		httpapi.Internal(w, h.Log, "user lookup failed", err)
		return
	}

	if user.Status == status.Disabled {
		h.rejectCredentials(w)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		h.rejectCredentials(w)
		return
	}

	h.Limiter.ResetEmail(req.Email)
	h.openSession(w, r, *user)
}

// Logout handles POST /api/auth/logout. Closes the bearer session when
// one was presented and clears the cookie either way.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		if err := h.Sessions.Close(r.Context(), token); err != nil {
			h.Log.Warn("login session close failed", zap.Error(err))
		}
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("cookie sign-out failed", zap.Error(err))
	}
	httpapi.Respond(w, http.StatusOK, map[string]string{"message": "signed out"})
}

// Profile handles GET /api/auth/profile.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		httpapi.Unauthorized(w)
		return
	}

	id, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		httpapi.Unauthorized(w)
		return
	}

	user, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpapi.Unauthorized(w)
			return
		}
		httpapi.Internal(w, h.Log, "profile lookup failed", err)
		return
	}

	httpapi.Respond(w, http.StatusOK, user)
}

func (h *Handler) rejectCredentials(w http.ResponseWriter) {
	httpapi.WriteError(w, http.StatusUnauthorized, httpapi.CodeUnauthenticated, "invalid email or password")
}

// openSession issues a bearer token, sets the session cookie, and writes
// the auth response.
func (h *Handler) openSession(w http.ResponseWriter, r *http.Request, user models.User) {
	sess, err := h.Sessions.Create(r.Context(), user.ID, ratelimit.ClientIP(r), r.UserAgent())
	if err != nil {
		httpapi.Internal(w, h.Log, "login session create failed", err)
		return
	}

	su := &auth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Email: user.Email,
		Role:  user.Role,
	}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Warn("session cookie save failed", zap.Error(err),
			zap.String("user_id", su.ID))
		// The bearer token still works; keep going.
	}

	httpapi.Respond(w, http.StatusOK, authResponse{Token: sess.Token, User: user})
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}
