// Package orchestrator wires the snapshot → model builder → decorators →
// renderer pipeline, providing dependency injection friendly helpers for
// consumers that prefer a single entry point.
package orchestrator
