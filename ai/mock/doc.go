// Package mock provides deterministic test doubles for the ai interfaces.
//
// The mock embedder produces stable FNV-seeded vectors so that tests over
// semantic search get repeatable distances without a running embedding
// service. Behavior can be overridden per test via function fields.
package mock
