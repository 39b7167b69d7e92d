package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

type Record interface {
	RecordID() string
}

// Collection is the ordered list of one record kind, kept as a single JSON
// array blob under a fixed name. Every mutation rewrites the whole blob.
//
// The mutex serializes load-modify-save inside this process only. Two
// processes sharing a backend still overwrite each other (last writer wins).
type Collection[T Record] struct {
	mu   sync.Mutex
	kv   KV
	name string
}

func NewCollection[T Record](kv KV, name string) *Collection[T] {
	return &Collection[T]{kv: kv, name: name}
}

func (c *Collection[T]) Name() string {
	return c.name
}

func (c *Collection[T]) LoadAll(ctx context.Context) ([]T, error) {
	raw, found, err := c.kv.Get(ctx, c.name)
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %w", ErrStorage, c.name, err)
	}
	if !found {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, c.name, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (c *Collection[T]) SaveAll(ctx context.Context, records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, records)
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	records, err := c.LoadAll(ctx)
	if err != nil {
		return zero, err
	}
	for _, rec := range records {
		if rec.RecordID() == id {
			return rec, nil
		}
	}
	return zero, ErrNotFound
}

// Upsert replaces the record with the same id in place, or appends it.
func (c *Collection[T]) Upsert(ctx context.Context, rec T) error {
	if rec.RecordID() == "" {
		return fmt.Errorf("%w: %s record without id", ErrInvalidRecord, c.name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.LoadAll(ctx)
	if err != nil {
		return err
	}
	if idx := indexOf(records, rec.RecordID()); idx >= 0 {
		records[idx] = rec
	} else {
		records = append(records, rec)
	}
	return c.save(ctx, records)
}

// Update replaces an existing record in place. It reports false and writes
// nothing when the id is not present.
func (c *Collection[T]) Update(ctx context.Context, rec T) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	idx := indexOf(records, rec.RecordID())
	if idx < 0 {
		return false, nil
	}
	records[idx] = rec
	return true, c.save(ctx, records)
}

// Remove drops the record with the given id. A missing id is a no-op and the
// stored blob is left untouched.
func (c *Collection[T]) Remove(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	idx := indexOf(records, id)
	if idx < 0 {
		return false, nil
	}
	kept := make([]T, 0, len(records)-1)
	kept = append(kept, records[:idx]...)
	kept = append(kept, records[idx+1:]...)
	return true, c.save(ctx, kept)
}

func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	records, err := c.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (c *Collection[T]) save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	if err := c.kv.Set(ctx, c.name, string(payload)); err != nil {
		return fmt.Errorf("%w: save %s: %w", ErrStorage, c.name, err)
	}
	return nil
}

func indexOf[T Record](records []T, id string) int {
	for i, rec := range records {
		if rec.RecordID() == id {
			return i
		}
	}
	return -1
}
