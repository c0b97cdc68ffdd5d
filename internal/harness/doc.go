// Package harness runs finder scenarios against static datasets.
//
// A scenario loads one or more dataset files into a fresh registry, runs a
// list of finder steps and checks each step's outcome. The trace of every
// step is also comparable against a golden file.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: countries
//	description: "Country lookups"
//	datasets:
//	  - ../datasets/countries.yaml
//	steps:
//	  - op: where
//	    type: Country
//	    conditions: { language: English }
//	    expect:
//	      keys: [US, CA]
//	  - op: find
//	    type: Country
//	    key: [CA, GR]
//	    expect:
//	      error: not_found
//	      missing: [GR]
//
// Dataset paths are relative to the scenario file.
//
// # Operations
//
//   - all: every record of the type
//   - where: records matching conditions
//   - find_by: first record matching conditions, or none
//   - find_by!: like find_by, but no match is a not_found error
//   - find: record(s) by primary key; a list key finds several
//   - pluck: one attribute of every record
//   - index: records keyed by one attribute
//
// For where and the find_by forms, an absent conditions field passes no
// argument (invalid_usage) while "conditions: null" or "{}" selects all.
//
// # Expectations
//
// keys lists expected primary keys in order. values lists expected pluck
// results. index maps attribute values to primary keys. count checks the
// result size. error is "not_found" or "invalid_usage"; missing lists the
// keys a not_found error must report.
package harness
