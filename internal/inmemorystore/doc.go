// Package inmemorystore provides a thread-safe, in-memory implementation
// of the accumulator.Accumulator interface. It is suitable for any fold whose
// results do not need to outlive the process.
package inmemorystore
