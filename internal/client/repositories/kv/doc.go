// Package kv provides the key/value persistence used by the client cache.
//
// Each key maps to one opaque blob (a JSON snapshot in practice). Get on an
// absent key returns (nil, nil); all other failures are returned wrapped.
// The SQLite implementation accepts any dbx.DBTX so it can run inside a
// transaction opened with dbx.WithTx.
package kv
