package loader

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/staticmodel/internal/model"
)

// Format identifies a dataset encoding.
type Format string

const (
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
	FormatCUE    Format = "cue"
	FormatSQLite Format = "sqlite"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".cue":
		return FormatCUE, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", newLoadError(ErrCodeUnsupportedFormat, path, nil,
			"unsupported extension %q (want .yaml, .yml, .json, .cue, .db, .sqlite, .sqlite3)", filepath.Ext(path))
	}
}

// Decode decodes an in-memory dataset. SQLite datasets can only be read
// from a file; use ReadFile.
func Decode(format Format, data []byte) (*Dataset, error) {
	return decode(format, "", data)
}

func decode(format Format, path string, data []byte) (*Dataset, error) {
	switch format {
	case FormatYAML:
		return decodeYAML(path, data)
	case FormatJSON:
		return decodeJSON(path, data)
	case FormatCUE:
		return decodeCUE(path, data)
	case FormatSQLite:
		return nil, newLoadError(ErrCodeUnsupportedFormat, path, nil, "sqlite datasets must be read from a file")
	default:
		return nil, newLoadError(ErrCodeUnsupportedFormat, path, nil, "unknown format %q", format)
	}
}

// ReadFile reads and decodes the dataset at path.
func ReadFile(path string) (*Dataset, error) {
	return ReadFileContext(context.Background(), path)
}

// ReadFileContext is ReadFile with a context for the SQLite queries.
func ReadFileContext(ctx context.Context, path string) (*Dataset, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format == FormatSQLite {
		return readSQLite(ctx, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newLoadError(ErrCodeNotFound, path, err, "file not found")
		}
		return nil, newLoadError(ErrCodeNotFound, path, err, "reading file: %v", err)
	}
	return decode(format, path, data)
}

// LoadFiles reads paths concurrently, then applies the datasets to reg in
// argument order, so a later file may extend or reload types of an earlier
// one. Nothing is applied if any file fails to read.
func LoadFiles(ctx context.Context, reg *model.Registry, paths ...string) ([]*Dataset, error) {
	datasets := make([]*Dataset, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			ds, err := ReadFileContext(gctx, path)
			if err != nil {
				return err
			}
			datasets[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, ds := range datasets {
		if err := ds.Apply(reg); err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "dataset loaded", "path", ds.Path, "types", len(ds.Types), "records", ds.Count())
	}
	return datasets, nil
}
