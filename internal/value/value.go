package value

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Kind identifies the dynamic type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindBool
	KindList
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a sealed interface over the supported attribute kinds.
// Only Null, String, Int, Bool and List implement it.
// There is no Float: floats break deterministic equality and hashing.
type Value interface {
	Kind() Kind
	String() string
	sealed()
}

// Null represents an absent or explicitly null attribute.
type Null struct{}

func (Null) Kind() Kind     { return KindNull }
func (Null) String() string { return "null" }
func (Null) sealed()        {}

// String is a string attribute value.
type String string

func (String) Kind() Kind       { return KindString }
func (s String) String() string { return string(s) }
func (String) sealed()          {}

// Int is an integer attribute value. Always int64.
type Int int64

func (Int) Kind() Kind       { return KindInt }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (Int) sealed()          {}

// Bool is a boolean attribute value.
type Bool bool

func (Bool) Kind() Kind       { return KindBool }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }
func (Bool) sealed()          {}

// List is an ordered sequence of values. In conditions a List means
// "any of these".
type List []Value

func (List) Kind() Kind { return KindList }

// String renders the elements joined by ", ".
func (l List) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

func (List) sealed() {}

// IsNull reports whether v is Null or a nil interface.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// Object is an attribute set: attribute name to value.
// Use SortedKeys for deterministic iteration.
type Object map[string]Value

// Clone returns a copy that shares no List backing array with o, at any
// depth.
func (o Object) Clone() Object {
	if o == nil {
		return Object{}
	}
	out := make(Object, len(o))
	for k, v := range o {
		out[k] = Copy(v)
	}
	return out
}

// Copy returns v with every List, nested ones included, copied. Scalars are
// returned as is.
func Copy(v Value) Value {
	l, ok := v.(List)
	if !ok {
		return v
	}
	out := make(List, len(l))
	for i, elem := range l {
		out[i] = Copy(elem)
	}
	return out
}

// SortedKeys returns keys in UTF-16 code unit order, the ordering used by
// the canonical encoding.
func (o Object) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

// Pair is a key-value pair for typed Object construction.
type Pair struct {
	Key   string
	Value Value
}

// P is a shorthand for Pair.
// Example: NewObject(P("iso_code", String("US")), P("rank", Int(1)))
func P(key string, v Value) Pair {
	return Pair{Key: key, Value: v}
}

// NewObject creates an Object from typed pairs. Later pairs win.
func NewObject(pairs ...Pair) Object {
	obj := make(Object, len(pairs))
	for _, p := range pairs {
		if p.Value == nil {
			p.Value = Null{}
		}
		obj[p.Key] = p.Value
	}
	return obj
}

// compareKeys compares strings by UTF-16 code units.
// Go's native string comparison is by UTF-8 bytes, which orders
// supplementary-plane characters differently.
func compareKeys(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}
