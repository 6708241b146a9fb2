package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// document is the single-table representation of the document store:
// JSONB payload keyed by (collection, doc_id), with an integer version
// driving the optimistic concurrency checks.
type document struct {
	Collection string `gorm:"primaryKey;size:191"`
	DocID      string `gorm:"primaryKey;size:191;column:doc_id"`
	Data       string `gorm:"type:jsonb;not null"`
	Version    int64  `gorm:"not null"`
	UpdatedAt  time.Time
}

func (document) TableName() string { return "documents" }

// Postgres is the production Store backend.
type Postgres struct {
	db  *gorm.DB
	hub *hub
}

func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := db.AutoMigrate(&document{}); err != nil {
		return nil, fmt.Errorf("%w: migrate: %v", ErrUnavailable, err)
	}
	return &Postgres{db: db, hub: newHub()}, nil
}

func (p *Postgres) Get(ctx context.Context, collection, id string, dest interface{}) error {
	var row document
	err := p.db.WithContext(ctx).
		First(&row, "collection = ? AND doc_id = ?", collection, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return json.Unmarshal([]byte(row.Data), dest)
}

func (p *Postgres) Set(ctx context.Context, collection, id string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	now := time.Now()
	row := document{Collection: collection, DocID: id, Data: string(raw), Version: 1, UpdatedAt: now}
	err = p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "collection"}, {Name: "doc_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"data":       string(raw),
			"version":    gorm.Expr("documents.version + 1"),
			"updated_at": now,
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	p.notify(collection)
	return nil
}

func (p *Postgres) Create(ctx context.Context, collection, id string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	row := document{Collection: collection, DocID: id, Data: string(raw), Version: 1, UpdatedAt: time.Now()}
	err = p.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrExists
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	p.notify(collection)
	return nil
}

func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	res := p.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&document{})
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	p.notify(collection)
	return nil
}

func (p *Postgres) Query(ctx context.Context, collection string, filters []Filter, dest interface{}) error {
	rows, err := p.queryRows(ctx, collection, filters)
	if err != nil {
		return err
	}
	raws := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		raws = append(raws, json.RawMessage(row.Data))
	}
	arr, err := json.Marshal(raws)
	if err != nil {
		return err
	}
	return json.Unmarshal(arr, dest)
}

func (p *Postgres) queryRows(ctx context.Context, collection string, filters []Filter) ([]document, error) {
	q := p.db.WithContext(ctx).Model(&document{}).Where("collection = ?", collection)
	for _, f := range filters {
		sqlOp, ok := sqlOperator(f.Op)
		if !ok {
			return nil, fmt.Errorf("store: unsupported filter op %q", f.Op)
		}
		if _, numeric := toFloat(f.Value); numeric {
			q = q.Where(fmt.Sprintf("(data ->> ?)::numeric %s ?", sqlOp), f.Field, f.Value)
		} else {
			q = q.Where(fmt.Sprintf("data ->> ? %s ?", sqlOp), f.Field, stringify(f.Value))
		}
	}
	var rows []document
	if err := q.Order("doc_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return rows, nil
}

func sqlOperator(op string) (string, bool) {
	switch op {
	case "==":
		return "=", true
	case "<", "<=", ">", ">=":
		return op, true
	}
	return "", false
}

// RunTransaction mirrors the memory backend: fn reads through a
// version-recording view, then the staged writes are applied inside a
// database transaction guarded by version checks; a lost race retries
// the whole read-modify-write with backoff.
func (p *Postgres) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	for attempt := 0; attempt < txMaxAttempts; attempt++ {
		tx := &pgTx{store: p, ctx: ctx, reads: make(map[docKey]int64)}
		if err := fn(tx); err != nil {
			return err
		}
		if tx.err != nil {
			return tx.err
		}
		touched := make(map[string]struct{})
		err := p.db.WithContext(ctx).Transaction(func(g *gorm.DB) error {
			return applyTx(g, tx, touched)
		})
		if err == nil {
			p.hub.broadcast(touched, p.snapshot)
			return nil
		}
		if !errors.Is(err, ErrConflict) {
			return err
		}
		if serr := sleepCtx(ctx, txBackoff(attempt)); serr != nil {
			return serr
		}
	}
	return ErrConflict
}

func (p *Postgres) Subscribe(collection string, filters []Filter) *Subscription {
	return p.hub.subscribe(collection, filters, p.snapshot)
}

func (p *Postgres) notify(collection string) {
	p.hub.broadcast(map[string]struct{}{collection: {}}, p.snapshot)
}

func (p *Postgres) snapshot(collection string, filters []Filter) []json.RawMessage {
	rows, err := p.queryRows(context.Background(), collection, filters)
	if err != nil {
		return nil
	}
	out := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		out = append(out, json.RawMessage(row.Data))
	}
	return out
}

// applyTx validates every read version and applies the staged writes.
func applyTx(g *gorm.DB, tx *pgTx, touched map[string]struct{}) error {
	written := make(map[docKey]bool, len(tx.writes))
	for _, w := range tx.writes {
		written[w.key] = true
	}

	// Read-only documents: take a share lock and re-check the version.
	for key, version := range tx.reads {
		if written[key] {
			continue
		}
		var row document
		err := g.Clauses(clause.Locking{Strength: "SHARE"}).
			First(&row, "collection = ? AND doc_id = ?", key.collection, key.id).Error
		current := int64(0)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		default:
			current = row.Version
		}
		if current != version {
			return ErrConflict
		}
	}

	now := time.Now()
	for _, w := range tx.writes {
		readVersion, wasRead := tx.reads[w.key]
		touched[w.key.collection] = struct{}{}
		switch w.op {
		case opSet:
			if err := applySet(g, w, readVersion, wasRead, now); err != nil {
				return err
			}
		case opCreate:
			row := document{Collection: w.key.collection, DocID: w.key.id, Data: string(w.raw), Version: 1, UpdatedAt: now}
			if err := g.Create(&row).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					if wasRead {
						return ErrConflict // created underneath us; retry and let fn decide
					}
					return ErrExists
				}
				return fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
		case opDelete:
			q := g.Where("collection = ? AND doc_id = ?", w.key.collection, w.key.id)
			if wasRead && readVersion > 0 {
				q = q.Where("version = ?", readVersion)
			}
			res := q.Delete(&document{})
			if res.Error != nil {
				return fmt.Errorf("%w: %v", ErrUnavailable, res.Error)
			}
			if wasRead && readVersion > 0 && res.RowsAffected == 0 {
				return ErrConflict
			}
		}
	}
	return nil
}

func applySet(g *gorm.DB, w memWrite, readVersion int64, wasRead bool, now time.Time) error {
	if wasRead && readVersion > 0 {
		res := g.Model(&document{}).
			Where("collection = ? AND doc_id = ? AND version = ?", w.key.collection, w.key.id, readVersion).
			Updates(map[string]interface{}{
				"data":       string(w.raw),
				"version":    readVersion + 1,
				"updated_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		return nil
	}
	if wasRead {
		// Read as absent: insert only; a duplicate means a concurrent
		// creator won and the transaction must re-run against it.
		row := document{Collection: w.key.collection, DocID: w.key.id, Data: string(w.raw), Version: 1, UpdatedAt: now}
		err := g.Create(&row).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil
	}
	// Blind set: upsert, same as the non-transactional Set. The memory
	// backend's staged opSet replaces unconditionally; this must too.
	row := document{Collection: w.key.collection, DocID: w.key.id, Data: string(w.raw), Version: 1, UpdatedAt: now}
	err := g.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "collection"}, {Name: "doc_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"data":       string(w.raw),
			"version":    gorm.Expr("documents.version + 1"),
			"updated_at": now,
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// pgTx records read versions for fn and stages its writes.
type pgTx struct {
	store  *Postgres
	ctx    context.Context
	reads  map[docKey]int64
	writes []memWrite
	err    error
}

func (t *pgTx) Get(collection, id string, dest interface{}) error {
	key := docKey{collection, id}
	for i := len(t.writes) - 1; i >= 0; i-- {
		if t.writes[i].key == key {
			if t.writes[i].op == opDelete {
				return ErrNotFound
			}
			return json.Unmarshal(t.writes[i].raw, dest)
		}
	}

	var row document
	err := t.store.db.WithContext(t.ctx).
		First(&row, "collection = ? AND doc_id = ?", collection, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		t.reads[key] = 0
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	t.reads[key] = row.Version
	return json.Unmarshal([]byte(row.Data), dest)
}

func (t *pgTx) Set(collection, id string, doc interface{}) {
	t.stage(opSet, collection, id, doc)
}

func (t *pgTx) Create(collection, id string, doc interface{}) {
	t.stage(opCreate, collection, id, doc)
}

func (t *pgTx) Delete(collection, id string) {
	t.writes = append(t.writes, memWrite{op: opDelete, key: docKey{collection, id}})
}

func (t *pgTx) stage(op int, collection, id string, doc interface{}) {
	raw, err := json.Marshal(doc)
	if err != nil {
		t.err = fmt.Errorf("store: marshal %s/%s: %w", collection, id, err)
		return
	}
	t.writes = append(t.writes, memWrite{op: op, key: docKey{collection, id}, raw: raw})
}
