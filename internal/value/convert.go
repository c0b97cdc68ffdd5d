package value

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

// ErrUnsupported is wrapped by every conversion or decoding error caused by
// a value outside the supported kinds.
var ErrUnsupported = errors.New("unsupported value")

// Of converts a Go value to a Value.
//
// Supported inputs: nil, Value (Lists are copied), string, bool, every integer kind, pointers to
// those (nil pointer -> Null), and slices or arrays of supported inputs
// (-> List). Floats, maps and structs are rejected.
func Of(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return Copy(val), nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case []any:
		list := make(List, len(val))
		for i, elem := range val {
			item, err := Of(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list[i] = item
		}
		return list, nil
	case []string:
		list := make(List, len(val))
		for i, s := range val {
			list[i] = String(s)
		}
		return list, nil
	case float32, float64:
		return nil, fmt.Errorf("%w: floats are not allowed (%v)", ErrUnsupported, val)
	}
	return ofReflect(reflect.ValueOf(v))
}

// MustOf is like Of but panics on error.
// Use only in tests or with literal inputs known to be valid.
func MustOf(v any) Value {
	out, err := Of(v)
	if err != nil {
		panic(err)
	}
	return out
}

// ofReflect handles named types, unsigned integers, pointers and typed
// slices that the fast path in Of does not cover.
func ofReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("%w: integer out of int64 range (%d)", ErrUnsupported, u)
		}
		return Int(int64(u)), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return Of(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return List{}, nil
		}
		list := make(List, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := Of(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list[i] = item
		}
		return list, nil
	case reflect.Float32, reflect.Float64:
		return nil, fmt.Errorf("%w: floats are not allowed (%v)", ErrUnsupported, rv.Float())
	case reflect.Invalid:
		return Null{}, nil
	default:
		return nil, fmt.Errorf("%w: type %s", ErrUnsupported, rv.Type())
	}
}

// ObjectOf converts a map of Go values to an Object.
func ObjectOf(m map[string]any) (Object, error) {
	obj := make(Object, len(m))
	for k, v := range m {
		val, err := Of(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		obj[k] = val
	}
	return obj, nil
}

// Native converts a Value back to a plain Go value: nil, string, int64,
// bool or []any.
func Native(v Value) any {
	switch val := v.(type) {
	case nil, Null:
		return nil
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Bool:
		return bool(val)
	case List:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Native(elem)
		}
		return out
	default:
		return nil
	}
}
