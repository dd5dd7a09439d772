// Package cache provides the name-keyed cache capability used by the catalog's
// hot-path reads.
//
// A Store holds encoded payloads under (cache name, key). Two backends exist: a
// redis-backed store shared across instances, and an in-process sturdyc store.
// ReadThrough layers condition-gated read-through semantics on top of a Store:
// when the caller's condition does not hold the cache is neither read nor
// written. Entries are never invalidated on write; staleness is bounded by the
// backend TTL.
package cache
