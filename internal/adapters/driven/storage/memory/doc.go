// Package memory provides in-memory implementations of the driven ports.
// They back tests and stand in for the SQLite history when history is disabled.
package memory
