package store

import (
	"encoding/json"
	"sync"
)

// Subscription is a live feed over one collection/filter pair. Like the
// client SDK listeners it replaces, it re-delivers the FULL matching
// result set on every underlying change (and once on subscribe), rather
// than a diff. Consumers must call Unsubscribe when the view is torn down.
type Subscription struct {
	C chan []json.RawMessage

	collection string
	filters    []Filter
	hub        *hub
	closed     bool
}

// Unsubscribe detaches the listener and closes C.
func (s *Subscription) Unsubscribe() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	delete(s.hub.subs, s)
	close(s.C)
}

// snapshotFunc produces the current matching result set for a collection.
type snapshotFunc func(collection string, filters []Filter) []json.RawMessage

// hub fans out post-commit notifications to subscriptions. Delivery is
// eventually consistent with the committing transaction: the commit never
// blocks on a slow consumer (a stale undelivered set is dropped in favor
// of the newer one).
type hub struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[*Subscription]struct{})}
}

// broadcast pushes fresh result sets to every subscription watching one of
// the touched collections. Must be called outside the store's data lock,
// since snapshot re-reads committed state.
func (h *hub) broadcast(collections map[string]struct{}, snapshot snapshotFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		if _, ok := collections[s.collection]; ok {
			deliver(s, snapshot(s.collection, s.filters))
		}
	}
}

// deliver replaces any undelivered set with the newer one. Caller holds
// the hub lock, so the channel cannot be closed mid-send.
func deliver(s *Subscription, set []json.RawMessage) {
	for {
		select {
		case s.C <- set:
			return
		default:
			select {
			case <-s.C: // drop the stale set
			default:
			}
		}
	}
}

// subscribe registers a listener and seeds it with the current set.
func (h *hub) subscribe(collection string, filters []Filter, snapshot snapshotFunc) *Subscription {
	s := &Subscription{
		C:          make(chan []json.RawMessage, 1),
		collection: collection,
		filters:    filters,
		hub:        h,
	}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	deliver(s, snapshot(collection, filters))
	h.mu.Unlock()
	return s
}
