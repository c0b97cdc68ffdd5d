package model

// Typed is a view of a Type that converts records to and from T, a struct
// type with attr tags (see Attributes and Bind).
type Typed[T any] struct {
	t *Type
}

// Bound returns the typed view of t.
func Bound[T any](t *Type) Typed[T] {
	return Typed[T]{t: t}
}

// Type returns the underlying Type.
func (b Typed[T]) Type() *Type { return b.t }

// New encodes v as a Record of the bound type.
func (b Typed[T]) New(v T) (Record, error) {
	attrs, err := Attributes(v)
	if err != nil {
		return Record{}, err
	}
	return Record{typ: b.t, attrs: attrs}, nil
}

// Load encodes vs and replaces the bound type's records with them.
func (b Typed[T]) Load(vs []T) error {
	records := make([]Record, len(vs))
	for i, v := range vs {
		r, err := b.New(v)
		if err != nil {
			return err
		}
		records[i] = r
	}
	return b.t.store.Load(records)
}

// All decodes every stored record.
func (b Typed[T]) All() ([]T, error) {
	return decodeAll[T](b.t.store.All())
}

// Where decodes the records matching conds.
func (b Typed[T]) Where(conds ...Conditions) ([]T, error) {
	records, err := b.t.store.Where(conds...)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](records)
}

// FindBy decodes the first record matching conds.
func (b Typed[T]) FindBy(conds ...Conditions) (T, bool, error) {
	var zero T
	r, ok, err := b.t.store.FindBy(conds...)
	if err != nil || !ok {
		return zero, false, err
	}
	out, err := As[T](r)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

// Find decodes the record with the given primary key.
func (b Typed[T]) Find(key any) (T, error) {
	r, err := b.t.store.Find(key)
	if err != nil {
		var zero T
		return zero, err
	}
	return As[T](r)
}

// As decodes r into a new T.
func As[T any](r Record) (T, error) {
	var out T
	if err := Bind(r, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func decodeAll[T any](records []Record) ([]T, error) {
	out := make([]T, len(records))
	for i, r := range records {
		v, err := As[T](r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
