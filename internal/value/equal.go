package value

import "strconv"

// Equal reports native equality: same kind and same content.
// Lists compare element-wise. Null equals Null.
func Equal(a, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return IsNull(a) && IsNull(b)
	}
	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Matches is the equality used by attribute matching. It is Equal, plus one
// coercion: an Int actual matches a String expected that is exactly its
// base-10 rendering. "02", "+2" and "2.0" do not match Int(2), and a String
// actual never matches an Int expected.
func Matches(actual, expected Value) bool {
	if Equal(actual, expected) {
		return true
	}
	i, ok := actual.(Int)
	if !ok {
		return false
	}
	s, ok := expected.(String)
	return ok && strconv.FormatInt(int64(i), 10) == string(s)
}
