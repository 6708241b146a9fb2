// Package store provides the document store the commerce engine is written
// against: per-document CRUD, equality/range queries, live subscriptions and
// multi-document optimistic transactions with bounded retry.
package store

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("store: document not found")
	// ErrExists is returned by Create when the document id is taken.
	ErrExists = errors.New("store: document already exists")
	// ErrConflict is returned when a transaction exhausts its retry budget
	// because another writer kept committing first.
	ErrConflict = errors.New("store: transaction conflict")
	// ErrUnavailable wraps infrastructure failures (connection, driver).
	ErrUnavailable = errors.New("store: unavailable")
)

// Filter restricts a Query or Subscription to matching documents.
// Supported ops: "==", "<", "<=", ">", ">=".
type Filter struct {
	Field string
	Op    string
	Value interface{}
}

// Tx is the read-modify-write view inside RunTransaction. Reads see
// committed state; writes are staged and applied atomically at commit.
// Every document read is version-checked at commit time, so a value read
// inside the transaction can never be overwritten by a concurrent commit
// without the whole transaction retrying.
type Tx interface {
	Get(collection, id string, dest interface{}) error
	Set(collection, id string, doc interface{})
	Create(collection, id string, doc interface{})
	Delete(collection, id string)
}

// Store is the persistence boundary. Both backends (memory, Postgres)
// implement identical semantics.
type Store interface {
	Get(ctx context.Context, collection, id string, dest interface{}) error
	Set(ctx context.Context, collection, id string, doc interface{}) error
	Create(ctx context.Context, collection, id string, doc interface{}) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection string, filters []Filter, dest interface{}) error
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error
	Subscribe(collection string, filters []Filter) *Subscription
}

// txMaxAttempts bounds the optimistic retry loop; conflicts beyond this
// surface as ErrConflict.
const txMaxAttempts = 5

// txBackoff returns the sleep before the given retry attempt:
// exponential from 10ms with up to 50% jitter.
func txBackoff(attempt int) time.Duration {
	base := 10 * time.Millisecond << uint(attempt)
	jitter := time.Duration(rand.Int63n(int64(base)/2 + 1))
	return base + jitter
}

// sleepCtx waits for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
