package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/staticmodel/internal/value"
)

// Conditions maps attribute names to expected values.
//
// Values are Go natives or value.Value. A slice or array means "any of
// these". nil means the attribute must be absent or null.
type Conditions map[string]any

// String renders the conditions sorted by attribute, e.g.
// "iso_code=[CA MX] language=English".
func (c Conditions) String() string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		v, err := value.Of(c[k])
		if err != nil {
			parts[i] = fmt.Sprintf("%s=%v", k, c[k])
			continue
		}
		if l, ok := v.(value.List); ok {
			elems := make([]string, len(l))
			for j, e := range l {
				elems[j] = e.String()
			}
			parts[i] = fmt.Sprintf("%s=[%s]", k, strings.Join(elems, " "))
			continue
		}
		parts[i] = fmt.Sprintf("%s=%s", k, v)
	}
	return strings.Join(parts, " ")
}

// clause tests one attribute.
type clause struct {
	attr string
	// anyOf is set for list-valued conditions; an empty anyOf matches
	// nothing.
	anyOf    []value.Value
	isList   bool
	expected value.Value
}

func (c clause) match(r Record) bool {
	actual := r.get(c.attr)
	if !c.isList {
		return value.Matches(actual, c.expected)
	}
	for _, e := range c.anyOf {
		if value.Matches(actual, e) {
			return true
		}
	}
	return false
}

// Predicate is a compiled condition map.
//
// Semantics: the conjunction of its clauses. The zero Predicate has no
// clauses and matches every record (vacuous truth).
type Predicate struct {
	clauses []clause
}

// Compile converts conditions into a Predicate. Clauses are ordered by
// attribute name so evaluation is deterministic.
//
// Returns a *UsageError if a value cannot be represented as a value.Value.
func Compile(conds Conditions) (Predicate, error) {
	if len(conds) == 0 {
		return Predicate{}, nil
	}

	clauses := make([]clause, 0, len(conds))
	for attr, raw := range conds {
		v, err := value.Of(raw)
		if err != nil {
			return Predicate{}, usageError("conditions", "attribute %q: %v", attr, err)
		}
		c := clause{attr: attr}
		if l, ok := v.(value.List); ok {
			c.isList = true
			c.anyOf = l
		} else {
			c.expected = v
		}
		clauses = append(clauses, c)
	}
	slices.SortFunc(clauses, func(a, b clause) int {
		return strings.Compare(a.attr, b.attr)
	})
	return Predicate{clauses: clauses}, nil
}

// MustCompile is like Compile but panics on error.
// Use only in tests or with literal conditions known to be valid.
func MustCompile(conds Conditions) Predicate {
	p, err := Compile(conds)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports whether r satisfies every clause.
func (p Predicate) Match(r Record) bool {
	for _, c := range p.clauses {
		if !c.match(r) {
			return false
		}
	}
	return true
}

// Match compiles conds and tests r against it.
func Match(r Record, conds Conditions) (bool, error) {
	p, err := Compile(conds)
	if err != nil {
		return false, err
	}
	return p.Match(r), nil
}
