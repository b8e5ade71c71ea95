// internal/structure/errors.go
//
// Fault taxonomy shared by the graph engine and the mutation protocol.
//
// Context
// -------
// Every rejection a caller can see maps onto one of four shapes:
//
//   - ValidationError     – a malformed field value (actionable per field).
//   - InvariantViolation  – the mutation would corrupt the graph (cycle,
//     duplicate address, zero or multiple mains).
//   - ErrNotFound         – the referenced network or entry does not exist.
//   - MalformedGraph      – stored data already violates the single-main
//     invariant; a read-time integrity fault, never a user error.
//
// All mutation failures are raised before any write, so callers never need
// compensation logic.  MalformedGraph is logged loudly at detection sites
// because it implies a prior bypassed write.
package structure

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a network or entry id resolves to nothing.
var ErrNotFound = errors.New("structure: not found")

// ValidationError reports a malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// InvariantViolation reports a mutation that would break a structural rule.
// Rule is a stable machine-readable slug (e.g., "cycle", "duplicate_address",
// "single_main"); Detail is human-readable context.
type InvariantViolation struct {
	Rule   string
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant %s: %s", e.Rule, e.Detail)
}

// MalformedGraph reports stored data with more than one main node.  Callers
// must treat this as data corruption, never silently pick a main.
type MalformedGraph struct {
	NetworkID uint64
	Mains     []uint64
}

func (e *MalformedGraph) Error() string {
	return fmt.Sprintf("malformed graph: network %d has %d main nodes %v",
		e.NetworkID, len(e.Mains), e.Mains)
}
