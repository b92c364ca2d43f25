// internal/app/store/sessions/store.go
package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LoginSession records one successful authentication. The Token is the
// opaque value returned to API clients; presenting it in an
// Authorization: Bearer header authenticates requests that carry no
// session cookie.
type LoginSession struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	UserID primitive.ObjectID `bson:"user_id"`
	Token  string             `bson:"token"`

	LoginAt    time.Time  `bson:"login_at"`
	LogoutAt   *time.Time `bson:"logout_at,omitempty"`
	LastSeenAt time.Time  `bson:"last_seen_at"`

	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`
}

// Store manages login sessions.
type Store struct {
	c *mongo.Collection
}

// New creates a new login sessions Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("login_sessions")}
}

// Create opens a session for a user and issues a fresh token.
func (s *Store) Create(ctx context.Context, userID primitive.ObjectID, ip, userAgent string) (LoginSession, error) {
	now := time.Now().UTC()

	sess := LoginSession{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		Token:      uuid.NewString(),
		LoginAt:    now,
		LastSeenAt: now,
		IP:         ip,
		UserAgent:  userAgent,
	}

	if _, err := s.c.InsertOne(ctx, sess); err != nil {
		return LoginSession{}, err
	}
	return sess, nil
}

// ResolveToken maps a bearer token to the owning user's ID hex.
// Returns ("", nil) for unknown or closed tokens so callers treat the
// request as anonymous rather than failing it.
func (s *Store) ResolveToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", nil
	}

	res := s.c.FindOneAndUpdate(ctx,
		bson.M{"token": token, "logout_at": nil},
		bson.M{"$set": bson.M{"last_seen_at": time.Now().UTC()}},
	)

	var sess LoginSession
	if err := res.Decode(&sess); err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil
		}
		return "", err
	}
	return sess.UserID.Hex(), nil
}

// Close ends the session identified by token. Closing an already closed
// or unknown token is a no-op.
func (s *Store) Close(ctx context.Context, token string) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"token": token, "logout_at": nil},
		bson.M{"$set": bson.M{"logout_at": now}},
	)
	return err
}

// CloseAllForUser ends every open session a user holds. Used when an
// account is disabled.
func (s *Store) CloseAllForUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	now := time.Now().UTC()
	result, err := s.c.UpdateMany(ctx,
		bson.M{"user_id": userID, "logout_at": nil},
		bson.M{"$set": bson.M{"logout_at": now}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// CloseInactive ends every open session whose last activity is older
// than the given threshold. Tokens for closed sessions stop resolving.
func (s *Store) CloseInactive(ctx context.Context, threshold time.Duration) (int64, error) {
	now := time.Now().UTC()
	cutoff := now.Add(-threshold)
	result, err := s.c.UpdateMany(ctx,
		bson.M{"logout_at": nil, "last_seen_at": bson.M{"$lt": cutoff}},
		bson.M{"$set": bson.M{"logout_at": now}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// GetByUser returns a user's most recent sessions, newest first.
func (s *Store) GetByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]LoginSession, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "login_at", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sessions []LoginSession
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
