package model

import (
	"github.com/roach88/staticmodel/internal/value"
)

// Association resolves a foreign-key attribute on an owner record to a
// record of Target.
type Association struct {
	// Name is the association name, e.g. "country".
	Name string

	// Target is the referenced type.
	Target *Type

	// ForeignKey is the owner attribute holding the reference.
	// Default: Name + "_id".
	ForeignKey string

	// PrimaryKey is the Target attribute the foreign key refers to.
	// Empty means the target's primary key at resolve time.
	PrimaryKey string
}

// AssociationOption configures an Association.
type AssociationOption func(*Association)

// WithForeignKey overrides the owner attribute holding the reference.
func WithForeignKey(name string) AssociationOption {
	return func(a *Association) { a.ForeignKey = name }
}

// WithTargetKey overrides the referenced attribute on the target.
func WithTargetKey(name string) AssociationOption {
	return func(a *Association) { a.PrimaryKey = name }
}

// BelongsTo declares that owners reference target through a foreign key.
func BelongsTo(name string, target *Type, opts ...AssociationOption) Association {
	a := Association{
		Name:       name,
		Target:     target,
		ForeignKey: name + "_id",
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

func (a Association) targetKey() string {
	if a.PrimaryKey != "" {
		return a.PrimaryKey
	}
	return a.Target.PrimaryKey()
}

// Resolve returns the first target record whose key matches the owner's
// foreign key. ok is false when the foreign key is absent or null, or when
// no target record matches.
func (a Association) Resolve(owner Record) (Record, bool, error) {
	fk := owner.Get(a.ForeignKey)
	if value.IsNull(fk) {
		return Record{}, false, nil
	}
	return a.Target.store.FindBy(Conditions{a.targetKey(): fk})
}

// Assign returns a copy of owner whose foreign key holds target's key.
// A zero target stores value.Null.
func (a Association) Assign(owner, target Record) Record {
	if target.IsZero() {
		return owner.With(a.ForeignKey, value.Null{})
	}
	return owner.With(a.ForeignKey, target.Get(a.targetKey()))
}

// ResolveAs resolves the association and decodes the target into T.
func ResolveAs[T any](a Association, owner Record) (T, bool, error) {
	var zero T
	r, ok, err := a.Resolve(owner)
	if err != nil || !ok {
		return zero, false, err
	}
	out, err := As[T](r)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}
