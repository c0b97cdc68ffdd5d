package model

import (
	"fmt"
	"sync"

	"github.com/roach88/staticmodel/internal/value"
)

// DefaultPrimaryKey is the primary-key attribute used when neither a type
// nor any of its ancestors configures one.
const DefaultPrimaryKey = "id"

// Type describes one concrete record type and owns its Store.
type Type struct {
	name   string
	parent *Type
	store  *Store

	mu         sync.RWMutex
	primaryKey string // empty means inherit
}

// Option configures a Type at construction.
type Option func(*Type)

// WithPrimaryKey sets the primary-key attribute name.
func WithPrimaryKey(name string) Option {
	return func(t *Type) {
		t.primaryKey = name
	}
}

// NewType creates a root type with an empty Store.
func NewType(name string, opts ...Option) *Type {
	t := &Type{name: name}
	for _, opt := range opts {
		opt(t)
	}
	t.store = newStore(t)
	return t
}

// Extend creates a subtype. The subtype inherits the primary-key
// configuration of t unless opts override it, and gets its own empty Store.
func (t *Type) Extend(name string, opts ...Option) *Type {
	sub := NewType(name, opts...)
	sub.parent = t
	return sub
}

// Name returns the type name.
func (t *Type) Name() string { return t.name }

// Parent returns the type t was extended from, or nil.
func (t *Type) Parent() *Type { return t.parent }

// Store returns the Store owned by t.
func (t *Type) Store() *Store { return t.store }

// PrimaryKey returns the effective primary-key attribute: the type's own
// setting, else the nearest ancestor's, else DefaultPrimaryKey.
func (t *Type) PrimaryKey() string {
	for cur := t; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		pk := cur.primaryKey
		cur.mu.RUnlock()
		if pk != "" {
			return pk
		}
	}
	return DefaultPrimaryKey
}

// SetPrimaryKey changes the primary-key attribute. It takes effect
// immediately for Equal, Hash and Find on every record of t, and on
// subtypes that do not set their own. An empty name reverts to inheritance.
func (t *Type) SetPrimaryKey(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.primaryKey = name
}

// IsA reports whether t is other or extends it, directly or indirectly.
func (t *Type) IsA(other *Type) bool {
	for cur := t; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

// New creates a Record of type t holding a copy of attrs.
func (t *Type) New(attrs value.Object) Record {
	return Record{typ: t, attrs: attrs.Clone()}
}

// Build creates a Record from Go native attribute values.
// Returns an error if any value cannot be represented (e.g. a float).
func (t *Type) Build(attrs map[string]any) (Record, error) {
	obj, err := value.ObjectOf(attrs)
	if err != nil {
		return Record{}, fmt.Errorf("build %s: %w", t.name, err)
	}
	return Record{typ: t, attrs: obj}, nil
}

// MustBuild is like Build but panics on error.
// Use only in tests or with literal attributes known to be valid.
func (t *Type) MustBuild(attrs map[string]any) Record {
	r, err := t.Build(attrs)
	if err != nil {
		panic(err)
	}
	return r
}

// String returns the type name.
func (t *Type) String() string { return t.name }
