// Package aggregates contains infrastructure implementations of domain aggregate contracts.
//
// Implementations in this package compose table-level repos from internal/data/repos.
// The contact store lets the caller own write transactions through InTx; a
// multi-statement write called without one opens its own.
package aggregates
