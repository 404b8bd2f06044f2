// internal/repository/memory/table.go
package memory

import (
	"fmt"
	"sync"

	xerrors "clinic-billing/internal/pkg/errors"
)

// table keeps rows by id and remembers insertion order.
// Rows are cloned on the way in and out so callers never share storage with the table.
type table[T any] struct {
	name  string
	mu    sync.RWMutex
	rows  map[int64]T
	order []int64
	clone func(T) T
}

func newTable[T any](name string, clone func(T) T) *table[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &table[T]{name: name, rows: make(map[int64]T), clone: clone}
}

func (t *table[T]) insert(id int64, v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; ok {
		return fmt.Errorf("%s %d: %w", t.name, id, xerrors.ErrDuplicateEntry)
	}
	t.rows[id] = t.clone(v)
	t.order = append(t.order, id)
	return nil
}

func (t *table[T]) get(id int64) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %d: %w", t.name, id, xerrors.ErrNotFound)
	}
	return t.clone(v), nil
}

func (t *table[T]) update(id int64, v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return fmt.Errorf("%s %d: %w", t.name, id, xerrors.ErrNotFound)
	}
	t.rows[id] = t.clone(v)
	return nil
}

// list returns the rows accepted by keep, in insertion order. A nil keep accepts all.
func (t *table[T]) list(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		v := t.rows[id]
		if keep == nil || keep(v) {
			out = append(out, t.clone(v))
		}
	}
	return out
}
