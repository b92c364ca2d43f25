package txn

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/mealbridge/internal/testutil"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unrelated error", errors.New("connection reset by peer"), false},
		{"illegal operation code", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"}, true},
		{"illegal operation code 51", mongo.CommandError{Code: 51, Message: "Illegal operation"}, true},
		{"operation not supported code", mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"}, true},
		{"other command error", mongo.CommandError{Code: 11000, Message: "duplicate key"}, false},
		{"replica set message", errors.New("transaction requires a replica set member"), true},
		{"session message", errors.New("session operations are not supported on this server"), true},
		{"uppercase message", errors.New("TRANSACTION not allowed outside REPLICA SET"), true},
		{"transaction alone", errors.New("transaction aborted"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// WithTransaction must apply the callback's writes exactly once whether
// or not the server supports transactions. The local test server is
// usually a standalone, which exercises the fallback path: the
// transactional attempt fails without writing and the callback is
// retried outside a transaction.
func TestWithTransactionAppliesWrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := WithTransaction(ctx, db.Client(), func(ctx context.Context) error {
		_, insertErr := db.Collection("txn_probe").InsertOne(ctx, map[string]any{"probe": true})
		return insertErr
	})
	if err != nil {
		t.Fatalf("WithTransaction: %v", err)
	}

	count, err := db.Collection("txn_probe").CountDocuments(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	if count != 1 {
		t.Errorf("got %d documents, want 1", count)
	}
}

func TestWithTransactionPropagatesError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sentinel := errors.New("boom")
	err := WithTransaction(ctx, db.Client(), func(ctx context.Context) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("WithTransaction error = %v, want %v", err, sentinel)
	}
}
