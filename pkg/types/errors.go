package types

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors. Recoverable: the caller can correct the input and retry.
var (
	ErrEmptyTitle         = errors.New("task title cannot be empty")
	ErrEmptyName          = errors.New("category name cannot be empty")
	ErrInvalidPriority    = errors.New("invalid priority value")
	ErrInvalidStorageType = errors.New("invalid storage type")
	ErrUnknownConfigKey   = errors.New("unknown configuration key")
	ErrInvalidConfigValue = errors.New("invalid configuration value")
)

// Entity lookup and uniqueness errors.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrDuplicateName     = errors.New("category name already exists")
	ErrDuplicateTask     = errors.New("a live task with this title already exists in the category")
	ErrReservedCategory  = errors.New("category 0 is reserved and cannot be modified")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrInvalidCategoryID = errors.New("invalid category ID")
)

// Candidate identifies one entity matched by an ambiguous name lookup.
type Candidate struct {
	TaskID     uint64
	CategoryID uint64
	Category   string
	Title      string
}

// AmbiguousError reports that a name matched more than one live entity.
// The caller decides how to narrow the search; the resolver never prompts.
type AmbiguousError struct {
	Input      string
	Candidates []Candidate
}

func (e *AmbiguousError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = fmt.Sprintf("%q in %s (id %d)", c.Title, c.Category, c.TaskID)
	}
	return fmt.Sprintf("%q matches multiple tasks: %s", e.Input, strings.Join(names, ", "))
}

// CorruptionError reports unreadable or malformed persisted data.
// Fatal: the store is never repaired or rewritten after corruption.
type CorruptionError struct {
	Path string
	Err  error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("storage corrupted at %s: %v", e.Path, e.Err)
}

func (e *CorruptionError) Unwrap() error { return e.Err }

// MigrationError reports a failed schema migration step. Fatal to the open
// attempt; the store remains at the last committed schema version.
type MigrationError struct {
	Version int
	Err     error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration to version %d failed: %v", e.Version, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }
