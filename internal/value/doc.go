// Package value provides the closed set of attribute kinds a static record
// may hold.
//
// This package contains no knowledge of records or stores. The model package
// imports value; value imports nothing internal.
//
// Key design constraints:
//   - NO float types anywhere - use Int for numbers, String for decimals
//   - Null is an explicit type, never a nil interface
//   - Equality is native equality; the one loose rule (integer vs its
//     decimal string) lives in Matches and nowhere else
//   - Canonical encoding is the only input to Hash
package value
