// Package aggregates defines domain-facing aggregate contracts.
//
// Contracts avoid persistence/transport details and describe the write
// boundaries where contact aggregate invariants are enforced atomically.
package aggregates
