package model

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/staticmodel/internal/value"
)

var valueType = reflect.TypeOf((*value.Value)(nil)).Elem()

// fieldSpec is one struct field mapped to an attribute.
type fieldSpec struct {
	index     int
	name      string
	omitEmpty bool
}

// structFields reads the attr tags of a struct type.
//
// Tag format: `attr:"name,omitempty"`. `attr:"-"` skips the field. An
// untagged exported field maps to its lowercased name.
func structFields(rt reflect.Type) []fieldSpec {
	var specs []fieldSpec
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("attr")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		specs = append(specs, fieldSpec{
			index:     i,
			name:      name,
			omitEmpty: opts == "omitempty",
		})
	}
	return specs
}

func structValue(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("nil %s", rv.Type())
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("expected a struct, got %T", v)
	}
	return rv, nil
}

// Attributes encodes the exported fields of a struct (or pointer to one)
// as an attribute set. Nested structs and maps are not supported.
func Attributes(v any) (value.Object, error) {
	rv, err := structValue(v)
	if err != nil {
		return nil, err
	}

	obj := make(value.Object)
	for _, spec := range structFields(rv.Type()) {
		fv := rv.Field(spec.index)
		if spec.omitEmpty && fv.IsZero() {
			continue
		}
		val, err := value.Of(fv.Interface())
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", rv.Type().Field(spec.index).Name, err)
		}
		obj[spec.name] = val
	}
	return obj, nil
}

// Bind decodes r into dst, which must be a non-nil pointer to a struct.
// Absent and null attributes leave the field at its zero value. A kind
// mismatch between attribute and field is an error.
func Bind(r Record, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("bind: expected a non-nil struct pointer, got %T", dst)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("bind: expected a non-nil struct pointer, got %T", dst)
	}

	for _, spec := range structFields(rv.Type()) {
		v, ok := r.attrs[spec.name]
		if !ok || value.IsNull(v) {
			continue
		}
		if err := assign(rv.Field(spec.index), v); err != nil {
			return fmt.Errorf("bind %s: attribute %q: %w", r.typ, spec.name, err)
		}
	}
	return nil
}

func assign(fv reflect.Value, v value.Value) error {
	if fv.Type() == valueType {
		fv.Set(reflect.ValueOf(value.Copy(v)))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		s, ok := v.(value.String)
		if !ok {
			return mismatch(fv, v)
		}
		fv.SetString(string(s))

	case reflect.Bool:
		b, ok := v.(value.Bool)
		if !ok {
			return mismatch(fv, v)
		}
		fv.SetBool(bool(b))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := v.(value.Int)
		if !ok {
			return mismatch(fv, v)
		}
		if fv.OverflowInt(int64(i)) {
			return fmt.Errorf("%d overflows %s", i, fv.Type())
		}
		fv.SetInt(int64(i))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, ok := v.(value.Int)
		if !ok {
			return mismatch(fv, v)
		}
		if i < 0 || fv.OverflowUint(uint64(i)) {
			return fmt.Errorf("%d overflows %s", i, fv.Type())
		}
		fv.SetUint(uint64(i))

	case reflect.Slice:
		l, ok := v.(value.List)
		if !ok {
			return mismatch(fv, v)
		}
		out := reflect.MakeSlice(fv.Type(), len(l), len(l))
		for i, elem := range l {
			if value.IsNull(elem) {
				continue
			}
			if err := assign(out.Index(i), elem); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		fv.Set(out)

	case reflect.Pointer:
		ptr := reflect.New(fv.Type().Elem())
		if err := assign(ptr.Elem(), v); err != nil {
			return err
		}
		fv.Set(ptr)

	case reflect.Interface:
		if fv.NumMethod() != 0 {
			return mismatch(fv, v)
		}
		fv.Set(reflect.ValueOf(value.Native(v)))

	default:
		return mismatch(fv, v)
	}
	return nil
}

func mismatch(fv reflect.Value, v value.Value) error {
	return fmt.Errorf("cannot assign %s to %s", v.Kind(), fv.Type())
}
