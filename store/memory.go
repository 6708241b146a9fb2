package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Memory is an in-process Store with the same optimistic-transaction
// semantics as the Postgres backend. It backs the test suite and the
// no-database development mode.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]memEntry // collection -> id -> entry
	hub  *hub
}

type memEntry struct {
	data    json.RawMessage
	version int64
}

func NewMemory() *Memory {
	return &Memory{
		data: make(map[string]map[string]memEntry),
		hub:  newHub(),
	}
}

func (m *Memory) Get(ctx context.Context, collection, id string, dest interface{}) error {
	m.mu.RLock()
	entry, ok := m.data[collection][id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(entry.data, dest)
}

func (m *Memory) Set(ctx context.Context, collection, id string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.put(collection, id, raw)
	m.mu.Unlock()
	m.notify(collection)
	return nil
}

func (m *Memory) Create(ctx context.Context, collection, id string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	if _, ok := m.data[collection][id]; ok {
		m.mu.Unlock()
		return ErrExists
	}
	m.put(collection, id, raw)
	m.mu.Unlock()
	m.notify(collection)
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	if _, ok := m.data[collection][id]; !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	delete(m.data[collection], id)
	m.mu.Unlock()
	m.notify(collection)
	return nil
}

func (m *Memory) Query(ctx context.Context, collection string, filters []Filter, dest interface{}) error {
	raws := m.snapshot(collection, filters)
	arr, err := json.Marshal(raws)
	if err != nil {
		return err
	}
	return json.Unmarshal(arr, dest)
}

// RunTransaction executes fn against a read-tracking view and commits its
// staged writes atomically. If any document read by fn was committed over
// in the meantime, the whole read-modify-write is retried with backoff,
// up to the attempt budget.
func (m *Memory) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	for attempt := 0; attempt < txMaxAttempts; attempt++ {
		tx := &memTx{store: m, reads: make(map[docKey]int64)}
		if err := fn(tx); err != nil {
			return err
		}
		touched, err := m.commit(tx)
		if err == nil {
			m.hub.broadcast(touched, m.snapshot)
			return nil
		}
		if err != ErrConflict {
			return err
		}
		if serr := sleepCtx(ctx, txBackoff(attempt)); serr != nil {
			return serr
		}
	}
	return ErrConflict
}

func (m *Memory) Subscribe(collection string, filters []Filter) *Subscription {
	return m.hub.subscribe(collection, filters, m.snapshot)
}

// put inserts or replaces under the write lock, bumping the version.
func (m *Memory) put(collection, id string, raw json.RawMessage) {
	col, ok := m.data[collection]
	if !ok {
		col = make(map[string]memEntry)
		m.data[collection] = col
	}
	col[id] = memEntry{data: raw, version: col[id].version + 1}
}

func (m *Memory) notify(collection string) {
	m.hub.broadcast(map[string]struct{}{collection: {}}, m.snapshot)
}

// snapshot returns the current matching result set, id-ordered.
func (m *Memory) snapshot(collection string, filters []Filter) []json.RawMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	col := m.data[collection]
	ids := make([]string, 0, len(col))
	for id := range col {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]json.RawMessage, 0, len(ids))
	for _, id := range ids {
		if matchFilters(col[id].data, filters) {
			out = append(out, col[id].data)
		}
	}
	return out
}

// commit applies the staged writes if every read version still holds.
func (m *Memory) commit(tx *memTx) (map[string]struct{}, error) {
	if tx.err != nil {
		return nil, tx.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, version := range tx.reads {
		current := int64(0)
		if entry, ok := m.data[key.collection][key.id]; ok {
			current = entry.version
		}
		if current != version {
			return nil, ErrConflict
		}
	}

	touched := make(map[string]struct{}, len(tx.writes))
	for _, w := range tx.writes {
		switch w.op {
		case opCreate:
			if _, ok := m.data[w.key.collection][w.key.id]; ok {
				return nil, ErrExists
			}
			m.put(w.key.collection, w.key.id, w.raw)
		case opSet:
			m.put(w.key.collection, w.key.id, w.raw)
		case opDelete:
			delete(m.data[w.key.collection], w.key.id)
		}
		touched[w.key.collection] = struct{}{}
	}
	return touched, nil
}

type docKey struct {
	collection string
	id         string
}

const (
	opSet = iota
	opCreate
	opDelete
)

type memWrite struct {
	op  int
	key docKey
	raw json.RawMessage
}

// memTx stages writes and records the version of every committed document
// it read (0 for absent), for validation at commit.
type memTx struct {
	store  *Memory
	reads  map[docKey]int64
	writes []memWrite
	err    error
}

func (t *memTx) Get(collection, id string, dest interface{}) error {
	key := docKey{collection, id}
	// Read-your-writes within the transaction.
	for i := len(t.writes) - 1; i >= 0; i-- {
		if t.writes[i].key == key {
			if t.writes[i].op == opDelete {
				return ErrNotFound
			}
			return json.Unmarshal(t.writes[i].raw, dest)
		}
	}

	t.store.mu.RLock()
	entry, ok := t.store.data[collection][id]
	t.store.mu.RUnlock()
	if !ok {
		t.reads[key] = 0
		return ErrNotFound
	}
	t.reads[key] = entry.version
	return json.Unmarshal(entry.data, dest)
}

func (t *memTx) Set(collection, id string, doc interface{}) {
	t.stage(opSet, collection, id, doc)
}

func (t *memTx) Create(collection, id string, doc interface{}) {
	t.stage(opCreate, collection, id, doc)
}

func (t *memTx) Delete(collection, id string) {
	t.writes = append(t.writes, memWrite{op: opDelete, key: docKey{collection, id}})
}

func (t *memTx) stage(op int, collection, id string, doc interface{}) {
	raw, err := json.Marshal(doc)
	if err != nil {
		// Surfaced at commit; staged writes after a marshal failure are moot.
		t.err = fmt.Errorf("store: marshal %s/%s: %w", collection, id, err)
		return
	}
	t.writes = append(t.writes, memWrite{op: op, key: docKey{collection, id}, raw: raw})
}
