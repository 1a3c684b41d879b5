// Package store persists conversion records as an append-only JSON array
// file.
//
// Every Append rewrites the whole array into a temporary file in the same
// directory, syncs it, and renames it over the original, so a reader sees
// either the old sequence or the new one and never a partial write. Appends
// to the same file are serialized across goroutines by a mutex keyed by the
// file's absolute path and across processes by an flock on "<file>.lock",
// so a running server and a CLI invocation can share one store. Records are
// never updated or deleted.
package store
