package value

import "github.com/cespare/xxhash/v2"

// Hash returns a 64-bit hash of v's canonical encoding.
// Values that are Equal hash equal. Null (and a nil Value) hash like
// each other.
func Hash(v Value) uint64 {
	return xxhash.Sum64(Canonical(v))
}
