// Package redis implements store.Store using Redis, for deployments where
// several processes share the session and workflow registries or where
// registry state must survive restarts. Sessions and workflows are stored
// as Redis Hashes; workflow history is a Redis List, whose RPUSH gives the
// append-only, per-key-serialized ordering the history contract requires.
package redis
