package types

import (
	"strings"
	"time"
)

// DeletedCategoryID is the reserved category holding soft-deleted tasks.
// A task with CategoryID 0 and Deleted false is uncategorized instead.
const DeletedCategoryID uint64 = 0

// Task is a single tracked item. IDs are assigned by the storage layer and
// are never reused while the task is live.
type Task struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CategoryID  uint64     `json:"categoryId"`
	Completed   bool       `json:"completed"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Deleted     bool       `json:"deleted"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTask constructs a live task with the given title, category, and priority.
// The ID is zero until the storage layer assigns one.
// Returns ErrEmptyTitle if the title is empty after trimming, or
// ErrInvalidPriority for an unrecognized priority.
func NewTask(title string, categoryID uint64, priority string) (*Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	if _, err := ParsePriority(priority); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Task{
		Title:      title,
		CategoryID: categoryID,
		Priority:   priority,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Uncategorized reports whether the task is live in the top-level scope.
func (t *Task) Uncategorized() bool {
	return t.CategoryID == DeletedCategoryID && !t.Deleted
}

// SetTitle replaces the task title.
// Returns ErrEmptyTitle if the new title is empty after trimming.
func (t *Task) SetTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	t.Title = title
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// SetPriority replaces the task priority.
// Returns ErrInvalidPriority for values outside the closed set.
func (t *Task) SetPriority(priority string) error {
	if _, err := ParsePriority(priority); err != nil {
		return err
	}
	t.Priority = priority
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// SetCompleted sets the completed flag.
func (t *Task) SetCompleted(done bool) {
	t.Completed = done
	t.UpdatedAt = time.Now().UTC()
}

// MoveTo reassigns the task to another category. Moving a soft-deleted
// task restores it: a deleted task lives only in the reserved category.
func (t *Task) MoveTo(categoryID uint64) {
	t.CategoryID = categoryID
	t.Deleted = false
	t.DeletedAt = nil
	t.UpdatedAt = time.Now().UTC()
}

// SetDueDate sets or clears the optional due date.
func (t *Task) SetDueDate(due *time.Time) {
	t.DueDate = due
	t.UpdatedAt = time.Now().UTC()
}
