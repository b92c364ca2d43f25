package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/mealbridge/internal/app/system/httpapi"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
 | Session constants                                                           |
 *─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey    = "is_authenticated"
	userIDKey    = "user_id"
	userNameKey  = "user_name"
	userEmailKey = "user_email"
	userRoleKey  = "user_role"
)

/*─────────────────────────────────────────────────────────────────────────────*
 | Current-user helper                                                         |
 *─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is what we cache in the session & inject into r.Context().
type SessionUser struct {
	ID    string
	Name  string
	Email string
	Role  string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser injects a user into the request context, bypassing the
// session middleware. For handler tests only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
 | SessionManager                                                              |
 *─────────────────────────────────────────────────────────────────────────────*/

// UserFetcher loads fresh user data for a user ID on each request, so role
// changes and disabled accounts take effect without waiting for the cookie
// to expire. Implementations return (nil, nil) when the user no longer
// exists or may not sign in.
type UserFetcher interface {
	FetchSessionUser(ctx context.Context, userID string) (*SessionUser, error)
}

// TokenResolver maps an API bearer token to a user ID. Implementations
// return ("", nil) when the token is unknown or the session was closed.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (string, error)
}

// SessionManager owns the cookie store and the auth middleware. It is
// constructed once at startup and injected into features that need it;
// there is no package-level session state.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	log     *zap.Logger
	fetcher UserFetcher
	tokens  TokenResolver
}

// NewSessionManager builds a SessionManager backed by a cookie store with
// the given signing key, cookie name, and domain. The secure flag controls
// whether cookies are marked Secure; in local dev over http://localhost it
// must be false so browsers accept them.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// Store exposes the underlying cookie store (used by logout to mirror
// cookie options onto the deletion cookie).
func (sm *SessionManager) Store() *sessions.CookieStore {
	return sm.store
}

// GetSession returns the request's session, creating a fresh one if no
// valid cookie is present. Decode errors are returned alongside the fresh
// session so callers can log them.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

// SetUserFetcher installs the per-request user loader.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) {
	sm.fetcher = f
}

// SetTokenResolver installs the bearer-token resolver used for requests
// without a session cookie.
func (sm *SessionManager) SetTokenResolver(tr TokenResolver) {
	sm.tokens = tr
}

// SignIn marks the session authenticated for u and saves the cookie.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *SessionUser) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		// sess is a fresh session in either case; carry on.
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			sm.log.Warn("session cookie invalid, using fresh session", zap.Error(err))
		} else {
			sm.log.Error("session store error during sign-in, using fresh session", zap.Error(err))
		}
	}

	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[userNameKey] = u.Name
	sess.Values[userEmailKey] = u.Email
	sess.Values[userRoleKey] = u.Role

	return sess.Save(r, w)
}

// SignOut clears the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.log.Warn("session decode failed during sign-out", zap.Error(err))
	}

	// Ensure the deletion-cookie matches the original store settings.
	if opts := sm.store.Options; opts != nil {
		sess.Options.Domain = opts.Domain
		sess.Options.Path = opts.Path
		sess.Options.Secure = opts.Secure
		sess.Options.HttpOnly = opts.HttpOnly
		sess.Options.SameSite = opts.SameSite
	}
	sess.Options.MaxAge = -1 // delete immediately

	return sess.Save(r, w)
}

/*─────────────────────────────────────────────────────────────────────────────*
 | Middleware                                                                  |
 *─────────────────────────────────────────────────────────────────────────────*/

// LoadSessionUser injects the current user into context if the request
// carries a valid session cookie or, failing that, a bearer token. It
// never rejects the request; RequireSignedIn / RequireRole do that.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := sm.userFromCookie(r); u != nil {
			next.ServeHTTP(w, withUser(r, u))
			return
		}
		if u := sm.userFromBearer(r); u != nil {
			next.ServeHTTP(w, withUser(r, u))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by
// LoadSessionUser). API callers get a plain 401 with the error envelope.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			httpapi.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures there is a signed-in user whose role is one of the
// allowed set: 401 when not signed in, 403 on role mismatch.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToUpper(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				httpapi.Unauthorized(w)
				return
			}
			if _, has := set[strings.ToUpper(u.Role)]; !has {
				httpapi.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
 | Helpers                                                                     |
 *─────────────────────────────────────────────────────────────────────────────*/

func (sm *SessionManager) userFromCookie(r *http.Request) *SessionUser {
	sess, err := sm.GetSession(r)
	if err != nil {
		// Invalid cookie: treat as signed out. The fresh session is
		// discarded; nothing to save here.
		return nil
	}
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return nil
	}

	userID := getString(sess, userIDKey)
	if userID == "" {
		return nil
	}

	// Prefer fresh data so role changes and disabled accounts take
	// effect immediately; fall back to the values cached at sign-in.
	if sm.fetcher != nil {
		u, err := sm.fetcher.FetchSessionUser(r.Context(), userID)
		if err != nil {
			sm.log.Warn("session user fetch failed", zap.Error(err), zap.String("user_id", userID))
			return nil
		}
		return u
	}
	return &SessionUser{
		ID:    userID,
		Name:  getString(sess, userNameKey),
		Email: getString(sess, userEmailKey),
		Role:  getString(sess, userRoleKey),
	}
}

func (sm *SessionManager) userFromBearer(r *http.Request) *SessionUser {
	if sm.tokens == nil || sm.fetcher == nil {
		return nil
	}
	token := bearerToken(r)
	if token == "" {
		return nil
	}

	userID, err := sm.tokens.ResolveToken(r.Context(), token)
	if err != nil {
		sm.log.Warn("bearer token resolve failed", zap.Error(err))
		return nil
	}
	if userID == "" {
		return nil
	}

	u, err := sm.fetcher.FetchSessionUser(r.Context(), userID)
	if err != nil {
		sm.log.Warn("bearer user fetch failed", zap.Error(err), zap.String("user_id", userID))
		return nil
	}
	return u
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
