package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// Canonical produces a deterministic JSON encoding of v for hashing and
// stable output.
//
// Differences from encoding/json:
//  1. Object keys sorted by UTF-16 code units
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized
//  4. Null is allowed and encodes as null
func Canonical(v Value) []byte {
	var buf bytes.Buffer
	appendCanonical(&buf, v)
	return buf.Bytes()
}

// CanonicalObject produces the canonical encoding of an attribute set.
func CanonicalObject(obj Object) []byte {
	var buf bytes.Buffer
	appendCanonicalObject(&buf, obj)
	return buf.Bytes()
}

func appendCanonical(buf *bytes.Buffer, v Value) {
	switch val := v.(type) {
	case nil, Null:
		buf.WriteString("null")
	case String:
		appendCanonicalString(buf, string(val))
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	case List:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			appendCanonical(buf, elem)
		}
		buf.WriteByte(']')
	default:
		// Sealed interface: unreachable.
		panic(fmt.Sprintf("value: unknown kind %T", v))
	}
}

func appendCanonicalObject(buf *bytes.Buffer, obj Object) {
	buf.WriteByte('{')
	for i, k := range obj.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		appendCanonicalString(buf, k)
		buf.WriteByte(':')
		appendCanonical(buf, obj[k])
	}
	buf.WriteByte('}')
}

// appendCanonicalString writes s as a JSON string with NFC normalization
// and no HTML escaping.
func appendCanonicalString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(norm.NFC.String(s))
	out := tmp.Bytes()
	// json.Encoder adds a trailing newline.
	buf.Write(bytes.TrimSuffix(out, []byte{'\n'}))
}
