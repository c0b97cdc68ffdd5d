package model

import (
	"github.com/roach88/staticmodel/internal/value"
)

// Record is an immutable attribute set belonging to one Type.
//
// Records are values. The zero Record belongs to no type, has no attributes
// and equals nothing.
type Record struct {
	typ   *Type
	attrs value.Object
}

// Type returns the record's type, or nil for the zero Record.
func (r Record) Type() *Type { return r.typ }

// IsZero reports whether r is the zero Record.
func (r Record) IsZero() bool { return r.typ == nil }

// Get returns the named attribute, or value.Null if it is absent.
// Lists are returned as copies.
func (r Record) Get(name string) value.Value {
	return value.Copy(r.get(name))
}

// Lookup returns the named attribute and whether it is present.
// Lists are returned as copies.
func (r Record) Lookup(name string) (value.Value, bool) {
	v, ok := r.attrs[name]
	if !ok {
		return nil, false
	}
	return value.Copy(v), true
}

// get is Get without the copy, for read-only use inside the package.
func (r Record) get(name string) value.Value {
	if v, ok := r.attrs[name]; ok {
		return v
	}
	return value.Null{}
}

// Names returns the attribute names in canonical order.
func (r Record) Names() []string {
	return r.attrs.SortedKeys()
}

// Attributes returns a copy of the attribute set.
func (r Record) Attributes() value.Object {
	return r.attrs.Clone()
}

// With returns a copy of r with name set to v. r is unchanged.
func (r Record) With(name string, v value.Value) Record {
	attrs := r.attrs.Clone()
	if v == nil {
		v = value.Null{}
	}
	attrs[name] = value.Copy(v)
	return Record{typ: r.typ, attrs: attrs}
}

// PrimaryKey returns the value of the type's primary-key attribute, or
// value.Null if it is absent.
func (r Record) PrimaryKey() value.Value {
	return value.Copy(r.primaryKey())
}

func (r Record) primaryKey() value.Value {
	if r.typ == nil {
		return value.Null{}
	}
	return r.get(r.typ.PrimaryKey())
}

// Equal reports record identity: same concrete Type and equal, non-null
// primary keys. A parent and child type never compare equal.
func (r Record) Equal(other Record) bool {
	if r.typ == nil || r.typ != other.typ {
		return false
	}
	pk := r.primaryKey()
	if value.IsNull(pk) {
		return false
	}
	return value.Equal(pk, other.primaryKey())
}

// Hash returns a hash derived only from the primary key, so records that
// are Equal hash equal.
func (r Record) Hash() uint64 {
	return value.Hash(r.primaryKey())
}

// String renders the record as TypeName{canonical attributes}.
func (r Record) String() string {
	name := "<nil>"
	if r.typ != nil {
		name = r.typ.name
	}
	return name + string(value.CanonicalObject(r.attrs))
}

// MarshalJSON encodes the attribute set canonically.
func (r Record) MarshalJSON() ([]byte, error) {
	return value.CanonicalObject(r.attrs), nil
}
