package model

import (
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/roach88/staticmodel/internal/value"
)

// Store is the ordered record collection of one Type.
//
// Reads take a single snapshot and never block. Load publishes a new
// snapshot atomically. The zero Store is not usable; obtain one from
// Type.Store.
type Store struct {
	typ     *Type
	records atomic.Pointer[[]Record]
}

func newStore(t *Type) *Store {
	s := &Store{typ: t}
	empty := []Record{}
	s.records.Store(&empty)
	return s
}

func (s *Store) snapshot() []Record {
	return *s.records.Load()
}

// Load replaces the collection with a copy of records. A nil slice empties
// the store. No primary-key uniqueness check is made.
//
// Returns a *UsageError if any record belongs to a different Type.
func (s *Store) Load(records []Record) error {
	for i, r := range records {
		if r.typ != s.typ {
			owner := "no type"
			if r.typ != nil {
				owner = r.typ.name
			}
			return usageError("load", "record %d belongs to %s, not %s", i, owner, s.typ.name)
		}
	}

	next := make([]Record, len(records))
	copy(next, records)
	s.records.Store(&next)

	slog.Debug("records loaded", "type", s.typ.name, "count", len(next))
	return nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return len(s.snapshot())
}

// All returns every record in stored order. The slice is never nil and is
// owned by the caller.
func (s *Store) All() []Record {
	return slices.Clone(s.snapshot())
}

// Where returns the records matching conds in stored order.
//
// Exactly one condition map is required. Where(nil) and
// Where(Conditions{}) return every record.
func (s *Store) Where(conds ...Conditions) ([]Record, error) {
	p, err := compileArg("where", conds)
	if err != nil {
		return nil, err
	}
	out := []Record{}
	for _, r := range s.snapshot() {
		if p.Match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// FindBy returns the first record matching conds in stored order.
// ok is false when nothing matches. The argument rule is that of Where.
func (s *Store) FindBy(conds ...Conditions) (Record, bool, error) {
	p, err := compileArg("find_by", conds)
	if err != nil {
		return Record{}, false, err
	}
	for _, r := range s.snapshot() {
		if p.Match(r) {
			return r, true, nil
		}
	}
	return Record{}, false, nil
}

// FindByStrict is FindBy that returns a *NotFoundError carrying the type
// name and conditions when nothing matches.
func (s *Store) FindByStrict(conds ...Conditions) (Record, error) {
	r, ok, err := s.FindBy(conds...)
	if err != nil {
		return Record{}, err
	}
	if !ok {
		return Record{}, &NotFoundError{Type: s.typ.name, Conditions: conds[0]}
	}
	return r, nil
}

// Find returns the first record whose primary key matches key. A decimal
// string finds an integer key.
//
// Passing a slice is a *UsageError; use FindAll for several keys.
func (s *Store) Find(key any) (Record, error) {
	k, err := value.Of(key)
	if err != nil {
		return Record{}, usageError("find", "key: %v", err)
	}
	if _, ok := k.(value.List); ok {
		return Record{}, usageError("find", "got a sequence of keys, use FindAll")
	}

	pk := s.typ.PrimaryKey()
	for _, r := range s.snapshot() {
		if value.Matches(r.get(pk), k) {
			return r, nil
		}
	}
	return Record{}, &NotFoundError{Type: s.typ.name, Key: pk, Values: []value.Value{k}}
}

// FindAll returns, in stored order, every record whose primary key matches
// one of keys. keys must be a slice or array.
//
// If any key matches no record, FindAll returns a *NotFoundError listing
// exactly those keys in input order, duplicates included.
func (s *Store) FindAll(keys any) ([]Record, error) {
	k, err := value.Of(keys)
	if err != nil {
		return nil, usageError("find_all", "keys: %v", err)
	}
	list, ok := k.(value.List)
	if !ok {
		return nil, usageError("find_all", "expected a sequence of keys, got %s", k.Kind())
	}

	pk := s.typ.PrimaryKey()
	hit := make([]bool, len(list))
	out := []Record{}
	for _, r := range s.snapshot() {
		actual := r.get(pk)
		matched := false
		for i, want := range list {
			if value.Matches(actual, want) {
				hit[i] = true
				matched = true
			}
		}
		if matched {
			out = append(out, r)
		}
	}

	var missing []value.Value
	for i, want := range list {
		if !hit[i] {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, &NotFoundError{Type: s.typ.name, Key: pk, Values: missing}
	}
	return out, nil
}

// FindAny dispatches on the shape of key: a slice goes to FindAll, anything
// else to Find and yields a one-element result.
func (s *Store) FindAny(key any) ([]Record, error) {
	k, err := value.Of(key)
	if err != nil {
		return nil, usageError("find", "key: %v", err)
	}
	if _, ok := k.(value.List); ok {
		return s.FindAll(k)
	}
	r, err := s.Find(k)
	if err != nil {
		return nil, err
	}
	return []Record{r}, nil
}

// Pluck returns the named attribute of every record in stored order.
// Absent attributes yield value.Null. Lists are returned as copies.
func (s *Store) Pluck(name string) []value.Value {
	snap := s.snapshot()
	out := make([]value.Value, len(snap))
	for i, r := range snap {
		out[i] = r.Get(name)
	}
	return out
}

// IndexBy returns named lookups: each record keyed by the string rendering
// of its name attribute. The first record in stored order wins a key.
// Records where the attribute is absent or null are skipped.
func (s *Store) IndexBy(name string) map[string]Record {
	snap := s.snapshot()
	out := make(map[string]Record, len(snap))
	for _, r := range snap {
		v := r.get(name)
		if value.IsNull(v) {
			continue
		}
		key := v.String()
		if _, taken := out[key]; !taken {
			out[key] = r
		}
	}
	return out
}

// compileArg enforces the single required condition argument.
func compileArg(op string, conds []Conditions) (Predicate, error) {
	switch len(conds) {
	case 0:
		return Predicate{}, usageError(op, "a condition map is required")
	case 1:
	default:
		return Predicate{}, usageError(op, "expected one condition map, got %d", len(conds))
	}
	p, err := Compile(conds[0])
	if err != nil {
		return Predicate{}, err
	}
	return p, nil
}
