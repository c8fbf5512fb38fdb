package types

import (
	"strings"
	"time"
)

// Storage backend names accepted in the CLI config file.
const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

// ParseStorageType validates a backend name.
// Returns ErrInvalidStorageType for anything outside the closed set.
func ParseStorageType(s string) (string, error) {
	switch s {
	case StorageJSON, StorageSQLite:
		return s, nil
	default:
		return "", ErrInvalidStorageType
	}
}

// TaskFilter selects tasks for ListTasks. Zero-valued fields do not filter.
// Soft-deleted tasks are excluded unless DeletedOnly is set.
type TaskFilter struct {
	// Search matches tasks whose title contains the substring,
	// case-insensitively.
	Search string
	// Completed, when non-nil, matches tasks with that completed flag.
	Completed *bool
	// Priority, when non-empty, matches tasks with that priority.
	Priority string
	// CategoryID, when non-nil, scopes the listing to one category.
	// A value of 0 selects the uncategorized scope.
	CategoryID *uint64
	// DeletedOnly selects soft-deleted tasks instead of live ones.
	DeletedOnly bool
}

// MatchesSearch reports whether a title satisfies the Search substring.
// Case folding happens here so every backend agrees on non-ASCII titles.
func (f TaskFilter) MatchesSearch(title string) bool {
	if f.Search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(f.Search))
}

// Store is the uniform contract both persistence backends implement.
//
// Every mutation is atomic from the caller's point of view: it either fully
// applies or fails with no partial visible effect. ListTasks and
// ListCategories return finished, deterministic snapshots, never live
// cursors. Tasks are ordered by category ID ascending then task ID
// ascending; categories by ID ascending.
type Store interface {
	// CreateTask assigns the next task ID and persists the task.
	// Returns ErrDuplicateTask when a live task with the same title
	// already exists in the same category.
	CreateTask(t *Task) (uint64, error)

	// GetTask retrieves a task by ID, including soft-deleted tasks.
	// Returns ErrNotFound when no task has that ID.
	GetTask(id uint64) (*Task, error)

	// UpdateTask persists the given task over the stored one.
	// A soft-deleted task must remain in the reserved category;
	// otherwise ErrInvalidCategoryID is returned. Returns ErrNotFound
	// when the ID is unknown and ErrDuplicateTask when the update
	// would collide with another live task.
	UpdateTask(t *Task) error

	// ListTasks returns all tasks matching the filter.
	ListTasks(f TaskFilter) ([]*Task, error)

	// SoftDeleteTask moves a task to the Deleted category, marks it
	// deleted, and stamps the deletion time.
	SoftDeleteTask(id uint64, at time.Time) error

	// PurgeDeletedBefore permanently removes soft-deleted tasks whose
	// deletion time is before cutoff. Returns the number removed.
	PurgeDeletedBefore(cutoff time.Time) (int, error)

	// CreateCategory assigns an ID (reusing the smallest freed ID before
	// advancing the counter) and persists the category.
	// Returns ErrDuplicateName when a live category has the same name.
	CreateCategory(c *Category) (uint64, error)

	// GetCategory retrieves a category by ID, including the reserved
	// Deleted category. Returns ErrNotFound when the ID is unknown.
	GetCategory(id uint64) (*Category, error)

	// RenameCategory renames a category. Returns ErrReservedCategory for
	// category 0, ErrNotFound for unknown IDs, and ErrDuplicateName on
	// collision.
	RenameCategory(id uint64, name string) error

	// DeleteCategory removes a category, reassigning its live tasks to
	// reassignTo when given or to the uncategorized scope otherwise.
	// The freed ID returns to the pool only after reassignment commits.
	// Returns ErrReservedCategory for category 0.
	DeleteCategory(id uint64, reassignTo *uint64) error

	// ListCategories returns all categories, including the reserved
	// Deleted category, ordered by ID.
	ListCategories() ([]*Category, error)

	// GetConfig returns the persisted settings map. Absent keys mean
	// defaults apply.
	GetConfig() (Settings, error)

	// SetConfig validates and persists one settings key.
	SetConfig(key, value string) error

	// UnsetConfig removes a settings key so its default applies again.
	// Unsetting an absent key is a no-op.
	UnsetConfig(key string) error

	// Close releases backend resources. Idempotent.
	Close() error
}
