package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterDoc struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func TestMemoryCRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Create(ctx, "counters", "a", counterDoc{ID: "a", Count: 1}))

	var got counterDoc
	require.NoError(t, m.Get(ctx, "counters", "a", &got))
	assert.Equal(t, 1, got.Count)

	// Create on a taken id must fail without touching the document.
	err := m.Create(ctx, "counters", "a", counterDoc{ID: "a", Count: 99})
	assert.ErrorIs(t, err, ErrExists)
	require.NoError(t, m.Get(ctx, "counters", "a", &got))
	assert.Equal(t, 1, got.Count)

	require.NoError(t, m.Set(ctx, "counters", "a", counterDoc{ID: "a", Count: 7}))
	require.NoError(t, m.Get(ctx, "counters", "a", &got))
	assert.Equal(t, 7, got.Count)

	require.NoError(t, m.Delete(ctx, "counters", "a"))
	assert.ErrorIs(t, m.Get(ctx, "counters", "a", &got), ErrNotFound)
	assert.ErrorIs(t, m.Delete(ctx, "counters", "a"), ErrNotFound)
}

func TestMemoryQueryFilters(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, d := range []counterDoc{
		{ID: "a", Count: 1},
		{ID: "b", Count: 5},
		{ID: "c", Count: 10},
	} {
		require.NoError(t, m.Create(ctx, "counters", d.ID, d))
	}

	var docs []counterDoc
	require.NoError(t, m.Query(ctx, "counters", []Filter{{Field: "count", Op: ">=", Value: 5}}, &docs))
	require.Len(t, docs, 2)
	// Results come back id-ordered.
	assert.Equal(t, "b", docs[0].ID)
	assert.Equal(t, "c", docs[1].ID)

	docs = nil
	require.NoError(t, m.Query(ctx, "counters", []Filter{{Field: "id", Op: "==", Value: "a"}}, &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, 1, docs[0].Count)

	docs = nil
	require.NoError(t, m.Query(ctx, "missing", nil, &docs))
	assert.Empty(t, docs)
}

func TestTransactionReadYourWrites(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	err := m.RunTransaction(ctx, func(tx Tx) error {
		tx.Set("counters", "a", counterDoc{ID: "a", Count: 1})
		var got counterDoc
		if err := tx.Get("counters", "a", &got); err != nil {
			return err
		}
		got.Count++
		tx.Set("counters", "a", got)
		return nil
	})
	require.NoError(t, err)

	var got counterDoc
	require.NoError(t, m.Get(ctx, "counters", "a", &got))
	assert.Equal(t, 2, got.Count)
}

func TestTransactionConflictRetries(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "counters", "a", counterDoc{ID: "a", Count: 0}))

	// The first attempt reads, then loses to an outside write; the retry
	// must observe the new value.
	interfered := false
	err := m.RunTransaction(ctx, func(tx Tx) error {
		var got counterDoc
		if err := tx.Get("counters", "a", &got); err != nil {
			return err
		}
		if !interfered {
			interfered = true
			require.NoError(t, m.Set(ctx, "counters", "a", counterDoc{ID: "a", Count: 100}))
		}
		got.Count++
		tx.Set("counters", "a", got)
		return nil
	})
	require.NoError(t, err)

	var got counterDoc
	require.NoError(t, m.Get(ctx, "counters", "a", &got))
	assert.Equal(t, 101, got.Count)
}

func TestTransactionConcurrentIncrementsLoseNothing(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "counters", "a", counterDoc{ID: "a", Count: 0}))

	const workers = 8
	const perWorker = 5

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				// A caller that keeps wanting the increment retries on
				// conflict exhaustion like any other transient failure.
				for {
					err := m.RunTransaction(ctx, func(tx Tx) error {
						var got counterDoc
						if err := tx.Get("counters", "a", &got); err != nil {
							return err
						}
						got.Count++
						tx.Set("counters", "a", got)
						return nil
					})
					if err == nil {
						break
					}
					if !errors.Is(err, ErrConflict) {
						t.Errorf("unexpected transaction error: %v", err)
						break
					}
				}
			}
		}()
	}
	wg.Wait()

	var got counterDoc
	require.NoError(t, m.Get(ctx, "counters", "a", &got))
	assert.Equal(t, workers*perWorker, got.Count)
}

func TestTransactionBlindSetUpserts(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "counters", "a", counterDoc{ID: "a", Count: 1}))

	// A staged Set without a prior read replaces whatever is there, on
	// every backend; it must never surface a conflict for the document
	// already existing.
	err := m.RunTransaction(ctx, func(tx Tx) error {
		tx.Set("counters", "a", counterDoc{ID: "a", Count: 9})
		return nil
	})
	require.NoError(t, err)

	var got counterDoc
	require.NoError(t, m.Get(ctx, "counters", "a", &got))
	assert.Equal(t, 9, got.Count)
}

func TestTransactionFnErrorAborts(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	boom := errors.New("boom")

	err := m.RunTransaction(ctx, func(tx Tx) error {
		tx.Set("counters", "a", counterDoc{ID: "a", Count: 1})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var got counterDoc
	assert.ErrorIs(t, m.Get(ctx, "counters", "a", &got), ErrNotFound)
}

func TestTransactionCreateConflict(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "counters", "a", counterDoc{ID: "a", Count: 1}))

	err := m.RunTransaction(ctx, func(tx Tx) error {
		tx.Create("counters", "a", counterDoc{ID: "a", Count: 2})
		return nil
	})
	assert.ErrorIs(t, err, ErrExists)
}

func recv(t *testing.T, sub *Subscription) []json.RawMessage {
	t.Helper()
	select {
	case set, ok := <-sub.C:
		require.True(t, ok, "subscription channel closed")
		return set
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for subscription delivery")
		return nil
	}
}

func TestSubscribeDeliversFullSets(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "counters", "a", counterDoc{ID: "a", Count: 1}))

	sub := m.Subscribe("counters", nil)
	defer sub.Unsubscribe()

	// Initial snapshot first, then a full set per change.
	assert.Len(t, recv(t, sub), 1)

	require.NoError(t, m.Set(ctx, "counters", "b", counterDoc{ID: "b", Count: 2}))
	set := recv(t, sub)
	require.Len(t, set, 2)

	var doc counterDoc
	require.NoError(t, json.Unmarshal(set[1], &doc))
	assert.Equal(t, "b", doc.ID)

	require.NoError(t, m.Delete(ctx, "counters", "a"))
	assert.Len(t, recv(t, sub), 1)
}

func TestSubscribeFiltered(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	sub := m.Subscribe("counters", []Filter{{Field: "count", Op: ">", Value: 5}})
	defer sub.Unsubscribe()
	assert.Empty(t, recv(t, sub))

	require.NoError(t, m.Set(ctx, "counters", "low", counterDoc{ID: "low", Count: 1}))
	assert.Empty(t, recv(t, sub))

	require.NoError(t, m.Set(ctx, "counters", "high", counterDoc{ID: "high", Count: 9}))
	set := recv(t, sub)
	require.Len(t, set, 1)

	var doc counterDoc
	require.NoError(t, json.Unmarshal(set[0], &doc))
	assert.Equal(t, "high", doc.ID)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	m := NewMemory()
	sub := m.Subscribe("counters", nil)
	recv(t, sub)

	sub.Unsubscribe()
	// Idempotent.
	sub.Unsubscribe()

	_, ok := <-sub.C
	assert.False(t, ok)

	// Writes after unsubscribe must not panic.
	require.NoError(t, m.Set(context.Background(), "counters", "a", counterDoc{ID: "a", Count: 1}))
}
