// Package tally holds build-level metadata for the tally CLI.
package tally

const Version = "0.1.0"
