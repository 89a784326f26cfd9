// Package registry maps opaque numeric handles to resource records.
//
// Handles are what the engine hands across its API boundary for fonts,
// images, sounds and shaders. They carry no meaning beyond lookup: a
// handle is allocated from a monotonically increasing counter and is
// never reused, so a stale handle can only ever resolve to "not found".
//
// Records are heap-allocated one by one. The pointer returned by Insert
// stays valid until Remove, which lets callback-driven collaborators keep
// it as their context across many calls.
//
// Registry is NOT safe for concurrent use. All engine resources live on
// the thread that owns the GPU context.
package registry

import "slices"

// Handle identifies a record in a Registry.
type Handle uint32

// InvalidHandle is never returned by Insert.
const InvalidHandle Handle = 0

// FirstHandle is the first handle a Registry allocates by default.
// Values below it are reserved for sentinels.
const FirstHandle Handle = 1500

// Option configures a Registry.
type Option func(*config)

type config struct {
	first Handle
}

// WithFirstHandle sets the first handle value the registry allocates.
// Values of InvalidHandle are ignored.
func WithFirstHandle(h Handle) Option {
	return func(c *config) {
		if h != InvalidHandle {
			c.first = h
		}
	}
}

// Registry stores records of type T under unique handles.
type Registry[T any] struct {
	records map[Handle]*T
	next    Handle
}

// New creates an empty Registry.
func New[T any](opts ...Option) *Registry[T] {
	cfg := config{first: FirstHandle}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry[T]{
		records: make(map[Handle]*T),
		next:    cfg.first,
	}
}

// Insert stores a copy of v under a fresh handle. It returns the handle
// and the address of the stored record, which stays valid until Remove.
func (r *Registry[T]) Insert(v T) (Handle, *T) {
	h := r.next
	r.next++
	rec := new(T)
	*rec = v
	r.records[h] = rec
	return h, rec
}

// Lookup returns the record stored under h.
// The second result is false for handles that were never allocated or
// have been removed.
func (r *Registry[T]) Lookup(h Handle) (*T, bool) {
	rec, ok := r.records[h]
	return rec, ok
}

// Remove erases the record stored under h.
// It reports whether a record was removed; removing an absent handle is
// a no-op.
func (r *Registry[T]) Remove(h Handle) bool {
	if _, ok := r.records[h]; !ok {
		return false
	}
	delete(r.records, h)
	return true
}

// Len returns the number of live records.
func (r *Registry[T]) Len() int {
	return len(r.records)
}

// Handles returns the live handles in allocation order.
func (r *Registry[T]) Handles() []Handle {
	hs := make([]Handle, 0, len(r.records))
	for h := range r.records {
		hs = append(hs, h)
	}
	slices.Sort(hs)
	return hs
}

// Range calls fn for each live record in allocation order until fn
// returns false. fn may remove the record it is given.
func (r *Registry[T]) Range(fn func(Handle, *T) bool) {
	for _, h := range r.Handles() {
		rec, ok := r.records[h]
		if !ok {
			continue
		}
		if !fn(h, rec) {
			return
		}
	}
}
