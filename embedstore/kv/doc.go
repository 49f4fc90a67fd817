// Package kv is the SQLite key-value backend for embedstore: a single
// database holding word -> serialized vector rows, written one transaction
// per ingestion chunk.
//
// Values use the same record encoding as the blob file (see package blob),
// so a vector read from either backend decodes identically.
package kv
