package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/roach88/staticmodel/internal/value"
)

// decodeJSON decodes strictly: unknown fields are rejected and record
// values go through value.Object's decoder, which rejects floats and
// nested objects.
func decodeJSON(path string, data []byte) (*Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	ds := &Dataset{}
	if err := dec.Decode(ds); err != nil {
		if errors.Is(err, io.EOF) {
			return &Dataset{Path: path}, nil
		}
		code := ErrCodeDecode
		if errors.Is(err, value.ErrUnsupported) {
			code = ErrCodeInvalidValue
		}
		return nil, newLoadError(code, path, err, "parsing JSON: %v", err)
	}
	if dec.More() {
		return nil, newLoadError(ErrCodeDecode, path, nil, "parsing JSON: trailing data after dataset")
	}
	ds.Path = path
	return ds, nil
}
