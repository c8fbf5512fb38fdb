// Package types defines the Store interface, entity types, and standard
// errors for the tally task tracker. Both storage backends (JSON file and
// SQLite) implement Store; everything above the interface is backend-agnostic.
package types
