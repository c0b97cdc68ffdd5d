package loader

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/staticmodel/internal/value"
)

// decodeCUE compiles a single CUE file and walks its types list.
//
// CUE lets dataset authors share defaults between records with
// definitions and unification; only the concrete result is loaded.
func decodeCUE(path string, data []byte) (*Dataset, error) {
	filename := path
	if filename == "" {
		filename = "dataset.cue"
	}

	ctx := cuecontext.New()
	root := ctx.CompileBytes(data, cue.Filename(filename))
	if err := root.Err(); err != nil {
		return nil, newLoadError(ErrCodeDecode, path, err, "compiling CUE: %v", err)
	}
	if err := root.Validate(cue.Concrete(true)); err != nil {
		return nil, newLoadError(ErrCodeDecode, path, err, "validating CUE: %v", err)
	}

	iter, err := root.Fields()
	if err != nil {
		return nil, newLoadError(ErrCodeDecode, path, err, "iterating CUE root: %v", err)
	}
	for iter.Next() {
		if iter.Label() != "types" {
			return nil, newLoadError(ErrCodeDecode, path, nil, "unknown field %q", iter.Label())
		}
	}

	ds := &Dataset{Path: path}
	typesVal := root.LookupPath(cue.ParsePath("types"))
	if !typesVal.Exists() {
		return ds, nil
	}
	list, err := typesVal.List()
	if err != nil {
		return nil, newLoadError(ErrCodeDecode, path, err, "types must be a list: %v", err)
	}
	for i := 0; list.Next(); i++ {
		spec, err := cueTypeSpec(path, i, list.Value())
		if err != nil {
			return nil, err
		}
		ds.Types = append(ds.Types, spec)
	}
	return ds, nil
}

func cueTypeSpec(path string, index int, v cue.Value) (TypeSpec, error) {
	var spec TypeSpec
	iter, err := v.Fields()
	if err != nil {
		return spec, newLoadError(ErrCodeDecode, path, err, "types[%d] must be a struct: %v", index, err)
	}

	for iter.Next() {
		label := iter.Label()
		field := iter.Value()
		switch label {
		case "name", "primary_key", "extends":
			s, err := field.String()
			if err != nil {
				return spec, newLoadError(ErrCodeDecode, path, err, "types[%d].%s must be a string", index, label)
			}
			switch label {
			case "name":
				spec.Name = s
			case "primary_key":
				spec.PrimaryKey = s
			case "extends":
				spec.Extends = s
			}
		case "records":
			records, err := field.List()
			if err != nil {
				return spec, newLoadError(ErrCodeDecode, path, err, "types[%d].records must be a list", index)
			}
			for j := 0; records.Next(); j++ {
				obj, err := cueRecord(records.Value())
				if err != nil {
					return spec, newLoadError(ErrCodeInvalidValue, path, err, "types[%d].records[%d]: %v", index, j, err)
				}
				spec.Records = append(spec.Records, obj)
			}
		default:
			return spec, newLoadError(ErrCodeDecode, path, nil, "types[%d]: unknown field %q", index, label)
		}
	}
	return spec, nil
}

func cueRecord(v cue.Value) (value.Object, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, fmt.Errorf("record must be a struct: %w", err)
	}
	obj := make(value.Object)
	for iter.Next() {
		val, err := cueValue(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", iter.Label(), err)
		}
		obj[iter.Label()] = val
	}
	return obj, nil
}

// cueValue converts a concrete CUE value. Floats and structs are rejected
// like everywhere else.
func cueValue(v cue.Value) (value.Value, error) {
	switch v.IncompleteKind() {
	case cue.NullKind:
		return value.Null{}, nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return value.String(s), nil
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", value.ErrUnsupported, err)
		}
		return value.Int(i), nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, err
		}
		return value.Bool(b), nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		list := value.List{}
		for iter.Next() {
			elem, err := cueValue(iter.Value())
			if err != nil {
				return nil, err
			}
			list = append(list, elem)
		}
		return list, nil
	case cue.FloatKind, cue.NumberKind:
		return nil, fmt.Errorf("%w: floats are not allowed (%v)", value.ErrUnsupported, v)
	case cue.StructKind:
		return nil, fmt.Errorf("%w: nested objects are not allowed", value.ErrUnsupported)
	default:
		return nil, fmt.Errorf("%w: CUE kind %v", value.ErrUnsupported, v.IncompleteKind())
	}
}
