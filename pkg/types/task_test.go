package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		priority string
		wantErr  error
	}{
		{name: "valid task", title: "Buy milk", priority: PriorityMedium},
		{name: "empty title", title: "", priority: PriorityMedium, wantErr: ErrEmptyTitle},
		{name: "whitespace title", title: "   ", priority: PriorityHigh, wantErr: ErrEmptyTitle},
		{name: "unknown priority", title: "Buy milk", priority: "urgent", wantErr: ErrInvalidPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := NewTask(tt.title, 1, tt.priority)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.title, task.Title)
			assert.Equal(t, uint64(1), task.CategoryID)
			assert.False(t, task.Completed)
			assert.False(t, task.Deleted)
			assert.Zero(t, task.ID, "ID is assigned by the storage layer")
			assert.False(t, task.CreatedAt.IsZero())
		})
	}
}

func TestTaskMutators(t *testing.T) {
	task, err := NewTask("Write report", 2, PriorityLow)
	require.NoError(t, err)

	require.Error(t, task.SetTitle(" "))
	require.NoError(t, task.SetTitle("Write quarterly report"))
	assert.Equal(t, "Write quarterly report", task.Title)

	assert.ErrorIs(t, task.SetPriority("critical"), ErrInvalidPriority)
	require.NoError(t, task.SetPriority(PriorityHigh))
	assert.Equal(t, PriorityHigh, task.Priority)

	task.SetCompleted(true)
	assert.True(t, task.Completed)

	due := time.Now().UTC().Add(48 * time.Hour)
	task.SetDueDate(&due)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, due, *task.DueDate)

	task.MoveTo(5)
	assert.Equal(t, uint64(5), task.CategoryID)

	when := time.Now().UTC()
	task.Deleted = true
	task.DeletedAt = &when
	task.MoveTo(2)
	assert.Equal(t, uint64(2), task.CategoryID)
	assert.False(t, task.Deleted, "moving a deleted task restores it")
	assert.Nil(t, task.DeletedAt)
}

func TestTaskUncategorized(t *testing.T) {
	task, err := NewTask("Loose end", DeletedCategoryID, PriorityMedium)
	require.NoError(t, err)
	assert.True(t, task.Uncategorized(), "live task in category 0 is uncategorized")

	now := time.Now().UTC()
	task.Deleted = true
	task.DeletedAt = &now
	assert.False(t, task.Uncategorized(), "soft-deleted task is not uncategorized")
}

func TestCategoryRename(t *testing.T) {
	cat, err := NewCategory("Work", "Work tasks")
	require.NoError(t, err)
	assert.False(t, cat.Reserved(), "unpersisted category is not the reserved bucket")
	require.NoError(t, cat.Rename("Office"))
	assert.Equal(t, "Office", cat.Name)
	assert.ErrorIs(t, cat.Rename(""), ErrEmptyName)

	deleted := &Category{ID: DeletedCategoryID, Name: DeletedCategoryName}
	assert.True(t, deleted.Reserved())
	assert.ErrorIs(t, deleted.Rename("Trash"), ErrReservedCategory)
}

func TestNewCategoryEmptyName(t *testing.T) {
	_, err := NewCategory("  ", "")
	assert.ErrorIs(t, err, ErrEmptyName)
}
