package loader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/staticmodel/internal/model"
	"github.com/roach88/staticmodel/internal/value"
)

// readSQLite reads every user table of a SQLite database as a type.
//
// The database is opened read-only. A table's primary key is its single
// PRIMARY KEY column; tables with no or a composite primary key use the
// default. Rows are read in rowid order. REAL values are accepted only when
// they hold a whole number.
func readSQLite(ctx context.Context, path string) (*Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, newLoadError(ErrCodeNotFound, path, err, "opening database: %v", err)
	}

	dsn := "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, newLoadError(ErrCodeDecode, path, err, "opening database: %v", err)
	}
	defer db.Close()

	tables, err := sqliteTables(ctx, db)
	if err != nil {
		return nil, newLoadError(ErrCodeDecode, path, err, "listing tables: %v", err)
	}

	ds := &Dataset{Path: path}
	for _, table := range tables {
		spec, err := sqliteTable(ctx, db, table)
		if err != nil {
			var le *LoadError
			if errors.As(err, &le) {
				le.Path = path
				return nil, le
			}
			return nil, newLoadError(ErrCodeDecode, path, err, "reading table %s: %v", table, err)
		}
		ds.Types = append(ds.Types, spec)
	}
	return ds, nil
}

func sqliteTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func sqlitePrimaryKey(ctx context.Context, db *sql.DB, table string) (string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull bool
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return "", err
		}
		if pk > 0 {
			keys = append(keys, name)
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	if len(keys) == 1 {
		return keys[0], nil
	}
	return "", nil
}

func sqliteTable(ctx context.Context, db *sql.DB, table string) (TypeSpec, error) {
	pk, err := sqlitePrimaryKey(ctx, db, table)
	if err != nil {
		return TypeSpec{}, err
	}
	spec := TypeSpec{Name: table, PrimaryKey: pk}
	if pk == model.DefaultPrimaryKey {
		spec.PrimaryKey = ""
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY rowid", quoteIdent(table)))
	if err != nil {
		return TypeSpec{}, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return TypeSpec{}, err
	}
	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}

	for n := 0; rows.Next(); n++ {
		if err := rows.Scan(ptrs...); err != nil {
			return TypeSpec{}, err
		}
		obj := make(value.Object, len(cols))
		for i, col := range cols {
			v, err := sqliteValue(raw[i])
			if err != nil {
				return TypeSpec{}, newLoadError(ErrCodeInvalidValue, "", err, "%s row %d column %s: %v", table, n, col, err)
			}
			obj[col] = v
		}
		spec.Records = append(spec.Records, obj)
	}
	return spec, rows.Err()
}

func sqliteValue(v any) (value.Value, error) {
	switch val := v.(type) {
	case nil:
		return value.Null{}, nil
	case int64:
		return value.Int(val), nil
	case string:
		return value.String(val), nil
	case []byte:
		return value.String(string(val)), nil
	case bool:
		return value.Bool(val), nil
	case float64:
		if val != math.Trunc(val) || math.Abs(val) >= math.MaxInt64 {
			return nil, fmt.Errorf("%w: floats are not allowed (%v)", value.ErrUnsupported, val)
		}
		return value.Int(int64(val)), nil
	case time.Time:
		return value.String(val.UTC().Format(time.RFC3339Nano)), nil
	default:
		return nil, fmt.Errorf("%w: column type %T", value.ErrUnsupported, v)
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
