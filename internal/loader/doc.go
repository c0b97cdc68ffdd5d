// Package loader reads static datasets from files and applies them to a
// model.Registry.
//
// A dataset lists types, each with a name, an optional primary key, an
// optional parent type and its records:
//
//	types:
//	  - name: Country
//	    primary_key: iso_code
//	    records:
//	      - {name: United States, iso_code: US, language: English}
//	  - name: Region
//	    extends: Country
//	    records: [...]
//
// Supported sources, chosen by file extension:
//   - YAML (.yaml, .yml): strict, unknown fields rejected
//   - JSON (.json): strict, unknown fields rejected
//   - CUE (.cue): compiled, then the types list is walked value by value
//   - SQLite (.db, .sqlite, .sqlite3): one type per table, opened read-only
//
// Attribute values follow the value package: integers, strings, booleans,
// null and lists of those. Floats and nested objects fail with
// ErrCodeInvalidValue.
//
// Applying a dataset creates missing types, resolves parents regardless of
// declaration order, and replaces each type's records through Store.Load.
// Re-applying a changed file reloads the existing types in place, which is
// what Watch does on file change.
package loader
