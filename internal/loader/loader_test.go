package loader

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/staticmodel/internal/model"
	"github.com/roach88/staticmodel/internal/value"
)

func keysOf(t *testing.T, typ *model.Type) []string {
	t.Helper()
	var out []string
	for _, r := range typ.Store().All() {
		out = append(out, r.PrimaryKey().String())
	}
	return out
}

func TestFormatOf(t *testing.T) {
	tests := map[string]Format{
		"a.yaml":    FormatYAML,
		"a.YML":     FormatYAML,
		"a.json":    FormatJSON,
		"a.cue":     FormatCUE,
		"a.db":      FormatSQLite,
		"a.sqlite3": FormatSQLite,
	}
	for path, want := range tests {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatOf("a.toml")
	assert.Equal(t, ErrCodeUnsupportedFormat, ErrorCode(err))
}

func TestReadFile_CountriesInEveryFormat(t *testing.T) {
	for _, path := range []string{"testdata/countries.yaml", "testdata/countries.json", "testdata/countries.cue"} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			ds, err := ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, path, ds.Path)

			reg := model.NewRegistry()
			require.NoError(t, ds.Apply(reg))

			country := reg.MustLookup("Country")
			region := reg.MustLookup("Region")
			assert.Equal(t, "iso_code", country.PrimaryKey())
			assert.Equal(t, "iso_code", region.PrimaryKey(), "primary key inherited")
			assert.Same(t, country, region.Parent())
			assert.Equal(t, []string{"US", "CA", "MX"}, keysOf(t, country))
			assert.Equal(t, []string{"EU"}, keysOf(t, region))

			english, err := country.Store().Where(model.Conditions{"language": "English"})
			require.NoError(t, err)
			assert.Len(t, english, 2)
		})
	}
}

func TestReadFile_YAMLValueKinds(t *testing.T) {
	reg := model.NewRegistry()
	ds, err := ReadFile("testdata/countries.yaml")
	require.NoError(t, err)
	require.NoError(t, ds.Apply(reg))

	thing := reg.MustLookup("Thing")
	assert.Equal(t, "id", thing.PrimaryKey())

	one, err := thing.Store().Find("1")
	require.NoError(t, err)
	assert.Equal(t, value.List{value.String("red"), value.String("round")}, one.Get("tags"))

	two, err := thing.Store().Find(2)
	require.NoError(t, err)
	assert.Equal(t, value.List{}, two.Get("tags"))

	three, err := thing.Store().Find(3)
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), three.Get("retired"))
	v, ok := three.Lookup("replaced_by")
	assert.True(t, ok, "explicit null is present")
	assert.Equal(t, value.Null{}, v)
}

func TestReadFile_Errors(t *testing.T) {
	tests := []struct {
		path string
		code string
	}{
		{"testdata/missing.yaml", ErrCodeNotFound},
		{"testdata/missing.db", ErrCodeNotFound},
		{"testdata/float.yaml", ErrCodeInvalidValue},
		{"testdata/float.cue", ErrCodeInvalidValue},
		{"testdata/nested.json", ErrCodeInvalidValue},
		{"testdata/unknown_field.yaml", ErrCodeDecode},
		{"testdata/countries.txt", ErrCodeUnsupportedFormat},
	}

	for _, tc := range tests {
		t.Run(filepath.Base(tc.path), func(t *testing.T) {
			_, err := ReadFile(tc.path)
			require.Error(t, err)
			assert.Equal(t, tc.code, ErrorCode(err), err.Error())
			assert.Contains(t, err.Error(), tc.path)
		})
	}
}

func TestDecode(t *testing.T) {
	ds, err := Decode(FormatJSON, []byte(`{"types":[{"name":"Thing","records":[{"id":1}]}]}`))
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Count())
	assert.Equal(t, "<input>: Thing(1)", ds.String())

	_, err = Decode(FormatJSON, []byte(`{"types":[], "extra": 1}`))
	assert.Equal(t, ErrCodeDecode, ErrorCode(err))

	_, err = Decode(FormatJSON, []byte(`{"types":[]} {"types":[]}`))
	assert.Equal(t, ErrCodeDecode, ErrorCode(err))

	_, err = Decode(FormatCUE, []byte(`types: [] other: 1`))
	assert.Equal(t, ErrCodeDecode, ErrorCode(err))

	_, err = Decode(FormatSQLite, nil)
	assert.Equal(t, ErrCodeUnsupportedFormat, ErrorCode(err))

	empty, err := Decode(FormatYAML, nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Types)
}

func TestApply_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code string
	}{
		{"missing name", "types: [{records: []}]", ErrCodeInvalidType},
		{"duplicate", "types: [{name: A}, {name: A}]", ErrCodeDuplicateType},
		{"unknown parent", "types: [{name: A, extends: Nope}]", ErrCodeUnknownParent},
		{"self cycle", "types: [{name: A, extends: A}]", ErrCodeCycle},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ds, err := Decode(FormatYAML, []byte(tc.yaml))
			require.NoError(t, err)

			reg := model.NewRegistry()
			err = ds.Apply(reg)
			assert.Equal(t, tc.code, ErrorCode(err), "%v", err)
			assert.Empty(t, reg.Types(), "failed validation must not touch the registry")
		})
	}
}

func TestApply_CycleFromFile(t *testing.T) {
	ds, err := ReadFile("testdata/cycle.yaml")
	require.NoError(t, err)

	err = ds.Apply(model.NewRegistry())
	require.Error(t, err)
	assert.Equal(t, ErrCodeCycle, ErrorCode(err))
	assert.Contains(t, err.Error(), "A -> B -> A")
}

func TestApply_ParentFromRegistry(t *testing.T) {
	reg := model.NewRegistry()

	_, err := LoadFiles(context.Background(), reg, "testdata/regions_only.yaml")
	assert.Equal(t, ErrCodeUnknownParent, ErrorCode(err), "Country is not registered yet")

	datasets, err := LoadFiles(context.Background(), reg, "testdata/countries.json", "testdata/regions_only.yaml")
	require.NoError(t, err)
	require.Len(t, datasets, 2)

	territory := reg.MustLookup("Territory")
	assert.Same(t, reg.MustLookup("Country"), territory.Parent())
	assert.Equal(t, "iso_code", territory.PrimaryKey())
	assert.Equal(t, []string{"PR"}, keysOf(t, territory))
	assert.Len(t, reg.MustLookup("Country").Store().All(), 3, "child load leaves the parent alone")
}

func TestApply_ReloadsInPlace(t *testing.T) {
	reg := model.NewRegistry()
	first, err := Decode(FormatYAML, []byte(`
types:
  - name: Thing
    records: [{id: 1}, {id: 2}]
`))
	require.NoError(t, err)
	require.NoError(t, first.Apply(reg))
	thing := reg.MustLookup("Thing")

	second, err := Decode(FormatYAML, []byte(`
types:
  - name: Thing
    primary_key: code
    records: [{id: 3, code: c}]
`))
	require.NoError(t, err)
	require.NoError(t, second.Apply(reg))

	assert.Same(t, thing, reg.MustLookup("Thing"), "existing type reused")
	assert.Equal(t, "code", thing.PrimaryKey())
	assert.Equal(t, []string{"c"}, keysOf(t, thing))

	third, err := Decode(FormatYAML, []byte(`
types:
  - name: Thing
    records: [{id: 4, code: d}]
`))
	require.NoError(t, err)
	require.NoError(t, third.Apply(reg))

	assert.Equal(t, "id", thing.PrimaryKey(), "dropping primary_key reverts to the default")
	assert.Equal(t, []string{"4"}, keysOf(t, thing))
}

func TestApply_ParentConflict(t *testing.T) {
	reg := model.NewRegistry()
	_, err := LoadFiles(context.Background(), reg, "testdata/countries.yaml")
	require.NoError(t, err)

	ds, err := Decode(FormatYAML, []byte(`types: [{name: Region}]`))
	require.NoError(t, err)
	err = ds.Apply(reg)
	assert.Equal(t, ErrCodeTypeConflict, ErrorCode(err))
}

func TestLoadFiles_FailsWithoutApplying(t *testing.T) {
	reg := model.NewRegistry()
	_, err := LoadFiles(context.Background(), reg, "testdata/countries.yaml", "testdata/float.yaml")
	require.Error(t, err)
	assert.Equal(t, ErrCodeInvalidValue, ErrorCode(err))
	assert.Empty(t, reg.Types())
}

func createSQLite(t *testing.T, stmts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reference.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return path
}

func TestReadFile_SQLite(t *testing.T) {
	path := createSQLite(t,
		`CREATE TABLE countries (iso_code TEXT PRIMARY KEY, name TEXT NOT NULL, language TEXT)`,
		`INSERT INTO countries VALUES ('US', 'United States', 'English')`,
		`INSERT INTO countries VALUES ('CA', 'Canada', 'English')`,
		`INSERT INTO countries VALUES ('MX', 'Mexico', NULL)`,
		`CREATE TABLE things (id INTEGER PRIMARY KEY, name TEXT, weight REAL)`,
		`INSERT INTO things VALUES (2, 'Thing 2', 3.0)`,
		`INSERT INTO things VALUES (1, 'Thing 1', NULL)`,
	)

	reg := model.NewRegistry()
	_, err := LoadFiles(context.Background(), reg, path)
	require.NoError(t, err)

	countries := reg.MustLookup("countries")
	assert.Equal(t, "iso_code", countries.PrimaryKey())
	assert.Equal(t, []string{"US", "CA", "MX"}, keysOf(t, countries), "rowid order")

	mx, err := countries.Store().Find("MX")
	require.NoError(t, err)
	assert.Equal(t, value.Null{}, mx.Get("language"))

	things := reg.MustLookup("things")
	assert.Equal(t, "id", things.PrimaryKey())
	two, err := things.Store().Find("2")
	require.NoError(t, err)
	assert.Equal(t, value.Int(3), two.Get("weight"), "whole REAL values load as integers")
}

func TestReadFile_SQLiteRejectsFractions(t *testing.T) {
	path := createSQLite(t,
		`CREATE TABLE planets (id INTEGER PRIMARY KEY, gravity REAL)`,
		`INSERT INTO planets VALUES (1, 9.8)`,
	)

	_, err := ReadFile(path)
	require.Error(t, err)
	assert.Equal(t, ErrCodeInvalidValue, ErrorCode(err))
	assert.Contains(t, err.Error(), path)
}

func TestSQLiteValue_Floats(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want value.Value
	}{
		{"whole", 42, value.Int(42)},
		{"negative whole", -7, value.Int(-7)},
		{"largest exact below 2^63", 9223372036854774784, value.Int(9223372036854774784)},
		{"fraction", 0.5, nil},
		{"2^63", 9223372036854775808, nil},
		{"-2^63", -9223372036854775808, nil},
		{"beyond int64", 1e19, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := sqliteValue(tc.in)
			if tc.want == nil {
				assert.ErrorIs(t, err, value.ErrUnsupported)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReadFile_SQLiteIsReadOnly(t *testing.T) {
	path := createSQLite(t, `CREATE TABLE t (id INTEGER PRIMARY KEY)`)
	before, err := os.Stat(path)
	require.NoError(t, err)

	_, err = ReadFile(path)
	require.NoError(t, err)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
	assert.Equal(t, before.Size(), after.Size())
}
