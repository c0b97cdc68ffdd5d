// Package model implements the static record repository.
//
// A Type describes one concrete record type: its name, its optional parent
// and its primary-key attribute. Every Type owns exactly one Store. A Store
// holds an ordered, immutable snapshot of Records and answers the finder
// operations (All, Where, FindBy, FindByStrict, Find, FindAll, Pluck).
//
// STORAGE:
//
// Stores are never shared. A subtype created with Extend inherits its
// parent's primary-key configuration but starts with an empty Store, and
// loading either side never affects the other.
//
// Load replaces the collection wholesale. The supplied slice is copied, and
// the copy is published with a single atomic pointer swap, so concurrent
// readers observe either the old or the new collection in full.
//
// MATCHING:
//
// Conditions are compiled into a Predicate once per call and evaluated
// record by record in stored order. A record matches when every clause
// matches. A clause with a list value matches when any element matches.
// Scalar comparison uses value.Matches, which accepts a decimal string for
// an integer attribute and nothing looser.
//
// IDENTITY:
//
// Two records are equal when they belong to the same Type and carry equal,
// non-null primary keys. Hash depends only on the primary key.
//
// This package performs no I/O. Loading files, serving HTTP and the CLI live
// in the loader, api and cli packages.
package model
