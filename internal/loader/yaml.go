package loader

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/staticmodel/internal/value"
)

// yamlDataset mirrors Dataset with records left as native maps; yaml.v3
// decodes integers as int and floats as float64, which value.ObjectOf
// then accepts or rejects.
type yamlDataset struct {
	Types []struct {
		Name       string           `yaml:"name"`
		PrimaryKey string           `yaml:"primary_key"`
		Extends    string           `yaml:"extends"`
		Records    []map[string]any `yaml:"records"`
	} `yaml:"types"`
}

func decodeYAML(path string, data []byte) (*Dataset, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var raw yamlDataset
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return &Dataset{Path: path}, nil
		}
		return nil, newLoadError(ErrCodeDecode, path, err, "parsing YAML: %v", err)
	}

	ds := &Dataset{Path: path, Types: make([]TypeSpec, len(raw.Types))}
	for i, rt := range raw.Types {
		spec := TypeSpec{
			Name:       rt.Name,
			PrimaryKey: rt.PrimaryKey,
			Extends:    rt.Extends,
			Records:    make([]value.Object, len(rt.Records)),
		}
		for j, rec := range rt.Records {
			obj, err := fromNative(path, rt.Name, j, rec)
			if err != nil {
				return nil, err
			}
			spec.Records[j] = obj
		}
		ds.Types[i] = spec
	}
	return ds, nil
}
