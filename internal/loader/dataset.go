package loader

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/staticmodel/internal/model"
	"github.com/roach88/staticmodel/internal/value"
)

// Dataset is the decoded content of one dataset file.
type Dataset struct {
	// Path is the file the dataset was read from, empty for in-memory input.
	Path string `json:"-" yaml:"-"`

	Types []TypeSpec `json:"types" yaml:"types" jsonschema:"required,description=Record types defined by this file"`
}

// TypeSpec declares one record type and its records.
type TypeSpec struct {
	Name       string         `json:"name" yaml:"name" jsonschema:"required,minLength=1,description=Type name; unique within the dataset"`
	PrimaryKey string         `json:"primary_key,omitempty" yaml:"primary_key,omitempty" jsonschema:"description=Primary-key attribute; inherited from the parent or id when omitted"`
	Extends    string         `json:"extends,omitempty" yaml:"extends,omitempty" jsonschema:"description=Parent type name; the parent may be declared later or in another file"`
	Records    []value.Object `json:"records" yaml:"records" jsonschema:"description=Records in stored order"`
}

// Count returns the total number of records across all types.
func (d *Dataset) Count() int {
	n := 0
	for _, spec := range d.Types {
		n += len(spec.Records)
	}
	return n
}

// Apply creates or updates the dataset's types in reg and replaces their
// records.
//
// The dataset is validated before reg is touched: duplicate names, unknown
// parents, extends cycles and parent conflicts with already registered
// types are reported as *LoadError. Types already in reg are reloaded in
// place and take the dataset's primary key; one the dataset leaves unset
// reverts to inheritance.
func (d *Dataset) Apply(reg *model.Registry) error {
	order, err := d.resolve(reg)
	if err != nil {
		return err
	}

	types := make(map[string]*model.Type, len(order))
	for _, spec := range order {
		t, ok := reg.Lookup(spec.Name)
		if !ok {
			var parent *model.Type
			if spec.Extends != "" {
				parent = types[spec.Extends]
				if parent == nil {
					parent = reg.MustLookup(spec.Extends)
				}
			}
			t = newType(spec, parent)
			if err := reg.Register(t); err != nil {
				return newLoadError(ErrCodeDuplicateType, d.Path, err, "registering %s", spec.Name)
			}
		} else {
			t.SetPrimaryKey(spec.PrimaryKey)
		}
		types[spec.Name] = t
	}

	for _, spec := range d.Types {
		t := types[spec.Name]
		records := make([]model.Record, len(spec.Records))
		for i, attrs := range spec.Records {
			records[i] = t.New(attrs)
		}
		if err := t.Store().Load(records); err != nil {
			return newLoadError(ErrCodeGeneric, d.Path, err, "loading %s", spec.Name)
		}
		slog.Debug("dataset type applied", "path", d.Path, "type", spec.Name, "records", len(records))
	}
	return nil
}

func newType(spec TypeSpec, parent *model.Type) *model.Type {
	var opts []model.Option
	if spec.PrimaryKey != "" {
		opts = append(opts, model.WithPrimaryKey(spec.PrimaryKey))
	}
	if parent != nil {
		return parent.Extend(spec.Name, opts...)
	}
	return model.NewType(spec.Name, opts...)
}

// resolve validates the dataset against reg and returns its types ordered
// so every parent precedes its children.
func (d *Dataset) resolve(reg *model.Registry) ([]TypeSpec, error) {
	byName := make(map[string]TypeSpec, len(d.Types))
	for i, spec := range d.Types {
		if spec.Name == "" {
			return nil, newLoadError(ErrCodeInvalidType, d.Path, nil, "types[%d]: name is required", i)
		}
		if _, dup := byName[spec.Name]; dup {
			return nil, newLoadError(ErrCodeDuplicateType, d.Path, nil, "type %s declared twice", spec.Name)
		}
		byName[spec.Name] = spec
	}

	for _, spec := range d.Types {
		existing, ok := reg.Lookup(spec.Name)
		if !ok {
			continue
		}
		parent := ""
		if existing.Parent() != nil {
			parent = existing.Parent().Name()
		}
		if parent != spec.Extends {
			return nil, newLoadError(ErrCodeTypeConflict, d.Path, nil,
				"type %s already registered with parent %q, dataset says %q", spec.Name, parent, spec.Extends)
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(d.Types))
	order := make([]TypeSpec, 0, len(d.Types))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return newLoadError(ErrCodeCycle, d.Path, nil, "extends cycle: %s", strings.Join(append(path, name), " -> "))
		}
		state[name] = visiting
		spec := byName[name]
		if spec.Extends != "" {
			if _, local := byName[spec.Extends]; local {
				if err := visit(spec.Extends, append(path, name)); err != nil {
					return err
				}
			} else if _, ok := reg.Lookup(spec.Extends); !ok {
				return newLoadError(ErrCodeUnknownParent, d.Path, nil, "type %s extends unknown type %s", name, spec.Extends)
			}
		}
		state[name] = done
		order = append(order, spec)
		return nil
	}

	for _, spec := range d.Types {
		if err := visit(spec.Name, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// fromNative converts a decoded record map into an attribute set.
func fromNative(path, typeName string, index int, raw map[string]any) (value.Object, error) {
	obj, err := value.ObjectOf(raw)
	if err != nil {
		return nil, newLoadError(ErrCodeInvalidValue, path, err, "%s record %d: %v", typeName, index, err)
	}
	return obj, nil
}

// String summarizes the dataset, e.g. "countries.yaml: Country(3) Region(1)".
func (d *Dataset) String() string {
	parts := make([]string, len(d.Types))
	for i, spec := range d.Types {
		parts[i] = fmt.Sprintf("%s(%d)", spec.Name, len(spec.Records))
	}
	name := d.Path
	if name == "" {
		name = "<input>"
	}
	return name + ": " + strings.Join(parts, " ")
}
