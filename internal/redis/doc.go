// Package redis implements the Redis-backed article board repository.
//
// Provides BoardRepo (article registry, vote ledger, global ranking indexes,
// group membership, and the TTL-bounded group ranking cache) plus client
// hooks for metrics and circuit breaking. All mutations rely on atomic Redis
// primitives (INCR, SADD, ZINCRBY, HINCRBY); there is no in-process state.
package redis
