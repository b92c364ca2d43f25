// Package txn runs multi-document mutations inside a Mongo transaction
// when the deployment supports one, falling back to sequential writes on
// standalone servers (local dev, some test setups) where transactions are
// rejected.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// WithTransaction executes fn within a session transaction. The context
// passed to fn carries the session, so store calls made with it join the
// transaction. If the server does not support transactions, fn runs once
// with the plain context instead — callers accept that the writes are
// then individually atomic but not jointly.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			zap.L().Debug("mongo sessions unavailable, running without transaction")
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		zap.L().Debug("mongo transactions unavailable, running without transaction")
		return fn(ctx)
	}
	return err
}

// Server error codes that indicate the deployment cannot run transactions.
const (
	codeIllegalOperation        = 20  // "Transaction numbers are only allowed on a replica set member"
	codeIllegalOperation2       = 51
	codeOperationNotSupportedIn = 263
)

// IsNotSupported reports whether err means the server cannot run
// transactions (standalone deployment, no replica set). It matches both
// the structured command-error codes and the message text, since drivers
// and server versions differ in which they surface.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case codeIllegalOperation, codeIllegalOperation2, codeOperationNotSupportedIn:
			return true
		}
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "transaction") &&
		(strings.Contains(s, "replica set") || strings.Contains(s, "session") || strings.Contains(s, "illegal operation")) {
		return true
	}
	if strings.Contains(s, "session") && strings.Contains(s, "not supported") {
		return true
	}
	return false
}
