// Package api serves a registry over a read-only JSON HTTP API.
//
// Routes:
//
//	GET /health
//	GET /types?extends=T                 types, optionally only T and its subtypes
//	GET /types/{type}/records            where, from query parameters
//	GET /types/{type}/records/{key}      find by primary key
//	GET /types/{type}/first              find_by!, from query parameters
//	GET /types/{type}/pluck/{attr}       pluck
//
// A query parameter given once is a single-value condition; repeated, it is
// a sequence condition. Errors are {"code", "message"} objects with status
// 404 for unknown types and missing records and 400 for invalid usage.
package api
