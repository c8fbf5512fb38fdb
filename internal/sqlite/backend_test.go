package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tally/pkg/types"
)

func mustCreateCategory(t *testing.T, s types.Store, name string) uint64 {
	t.Helper()
	cat, err := types.NewCategory(name, "")
	require.NoError(t, err)
	id, err := s.CreateCategory(cat)
	require.NoError(t, err)
	return id
}

func mustCreateTask(t *testing.T, s types.Store, title string, categoryID uint64) uint64 {
	t.Helper()
	task, err := types.NewTask(title, categoryID, types.PriorityMedium)
	require.NoError(t, err)
	id, err := s.CreateTask(task)
	require.NoError(t, err)
	return id
}

func TestFreshStoreSeedsDeletedCategory(t *testing.T) {
	s := newTestStore(t)

	cats, err := s.ListCategories()
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, types.DeletedCategoryID, cats[0].ID)
	assert.Equal(t, types.DeletedCategoryName, cats[0].Name)
}

func TestTaskCRUD(t *testing.T) {
	s := newTestStore(t)
	home := mustCreateCategory(t, s, "Home")

	id := mustCreateTask(t, s, "Buy milk", home)
	assert.Equal(t, uint64(1), id)

	got, err := s.GetTask(id)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, home, got.CategoryID)
	assert.Equal(t, types.PriorityMedium, got.Priority)
	assert.Nil(t, got.DueDate)

	got.SetCompleted(true)
	due := time.Now().Add(48 * time.Hour)
	got.SetDueDate(&due)
	require.NoError(t, s.UpdateTask(got))

	got, err = s.GetTask(id)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, fmtTime(due), fmtTime(*got.DueDate))

	_, err = s.GetTask(999)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestCreateTaskValidation(t *testing.T) {
	s := newTestStore(t)
	home := mustCreateCategory(t, s, "Home")
	work := mustCreateCategory(t, s, "Work")
	mustCreateTask(t, s, "Buy milk", home)

	t.Run("duplicate live title in same category", func(t *testing.T) {
		task, err := types.NewTask("Buy milk", home, types.PriorityLow)
		require.NoError(t, err)
		_, err = s.CreateTask(task)
		assert.ErrorIs(t, err, types.ErrDuplicateTask)
	})

	t.Run("same title allowed in another category", func(t *testing.T) {
		task, err := types.NewTask("Buy milk", work, types.PriorityLow)
		require.NoError(t, err)
		_, err = s.CreateTask(task)
		assert.NoError(t, err)
	})

	t.Run("unknown category", func(t *testing.T) {
		task, err := types.NewTask("Orphan", 42, types.PriorityLow)
		require.NoError(t, err)
		_, err = s.CreateTask(task)
		assert.ErrorIs(t, err, types.ErrCategoryNotFound)
	})
}

func TestDataSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.db")
	s, err := Open(path)
	require.NoError(t, err)
	home := mustCreateCategory(t, s, "Home")
	id := mustCreateTask(t, s, "Buy milk", home)
	require.NoError(t, s.SetConfig(types.KeyDefaultPriority, types.PriorityHigh))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetTask(id)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)

	cfg, err := s.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, types.PriorityHigh, cfg.Get(types.KeyDefaultPriority))
}

func TestSoftDeleteAndPurge(t *testing.T) {
	s := newTestStore(t)
	home := mustCreateCategory(t, s, "Home")
	old := mustCreateTask(t, s, "Old chore", home)
	fresh := mustCreateTask(t, s, "Fresh chore", home)

	now := time.Now()
	require.NoError(t, s.SoftDeleteTask(old, now.Add(-48*time.Hour)))
	require.NoError(t, s.SoftDeleteTask(fresh, now.Add(-time.Hour)))

	got, err := s.GetTask(old)
	require.NoError(t, err)
	assert.True(t, got.Deleted)
	assert.Equal(t, types.DeletedCategoryID, got.CategoryID)
	require.NotNil(t, got.DeletedAt)

	n, err := s.PurgeDeletedBefore(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.GetTask(old)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = s.GetTask(fresh)
	assert.NoError(t, err)
}

func TestSoftDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	home := mustCreateCategory(t, s, "Home")
	id := mustCreateTask(t, s, "Buy milk", home)

	first := time.Now().Add(-time.Hour)
	require.NoError(t, s.SoftDeleteTask(id, first))
	require.NoError(t, s.SoftDeleteTask(id, time.Now()))

	got, err := s.GetTask(id)
	require.NoError(t, err)
	require.NotNil(t, got.DeletedAt)
	assert.Equal(t, fmtTime(first), fmtTime(*got.DeletedAt))

	assert.ErrorIs(t, s.SoftDeleteTask(999, time.Now()), types.ErrNotFound)
}

func TestMoveRestoresDeletedTask(t *testing.T) {
	s := newTestStore(t)
	home := mustCreateCategory(t, s, "Home")
	id := mustCreateTask(t, s, "Buy milk", home)
	require.NoError(t, s.SoftDeleteTask(id, time.Now().Add(-time.Hour)))

	got, err := s.GetTask(id)
	require.NoError(t, err)
	got.MoveTo(home)
	require.NoError(t, s.UpdateTask(got))

	restored, err := s.GetTask(id)
	require.NoError(t, err)
	assert.False(t, restored.Deleted)
	assert.Nil(t, restored.DeletedAt)
	assert.Equal(t, home, restored.CategoryID)

	n, err := s.PurgeDeletedBefore(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n, "restored task is no longer purgeable")

	// A deleted task cannot be written into a live category.
	now := time.Now().UTC()
	restored.Deleted = true
	restored.DeletedAt = &now
	assert.ErrorIs(t, s.UpdateTask(restored), types.ErrInvalidCategoryID)
}

func TestSoftDeleteFreesTitleForReuse(t *testing.T) {
	s := newTestStore(t)
	home := mustCreateCategory(t, s, "Home")
	id := mustCreateTask(t, s, "Buy milk", home)
	require.NoError(t, s.SoftDeleteTask(id, time.Now()))

	// The title only collides among live tasks.
	mustCreateTask(t, s, "Buy milk", home)
}

func TestCategoryIDReuse(t *testing.T) {
	s := newTestStore(t)
	home := mustCreateCategory(t, s, "Home")
	work := mustCreateCategory(t, s, "Work")
	errands := mustCreateCategory(t, s, "Errands")
	assert.Equal(t, uint64(1), home)
	assert.Equal(t, uint64(2), work)
	assert.Equal(t, uint64(3), errands)

	orphan := mustCreateTask(t, s, "Loose end", errands)
	require.NoError(t, s.DeleteCategory(errands, nil))

	// The orphaned task is uncategorized, not deleted.
	got, err := s.GetTask(orphan)
	require.NoError(t, err)
	assert.True(t, got.Uncategorized())
	assert.False(t, got.Deleted)

	// The freed ID is handed out before the counter advances.
	assert.Equal(t, uint64(3), mustCreateCategory(t, s, "Chores"))
	assert.Equal(t, uint64(4), mustCreateCategory(t, s, "Garden"))
}

func TestDeleteCategoryWithReassign(t *testing.T) {
	s := newTestStore(t)
	home := mustCreateCategory(t, s, "Home")
	work := mustCreateCategory(t, s, "Work")
	id := mustCreateTask(t, s, "File report", work)

	require.NoError(t, s.DeleteCategory(work, &home))

	got, err := s.GetTask(id)
	require.NoError(t, err)
	assert.Equal(t, home, got.CategoryID)

	t.Run("reassign target must exist", func(t *testing.T) {
		extra := mustCreateCategory(t, s, "Extra")
		missing := uint64(42)
		assert.ErrorIs(t, s.DeleteCategory(extra, &missing), types.ErrCategoryNotFound)
	})

	t.Run("reassign to reserved category is rejected", func(t *testing.T) {
		extra := mustCreateCategory(t, s, "Spare")
		reserved := types.DeletedCategoryID
		assert.ErrorIs(t, s.DeleteCategory(extra, &reserved), types.ErrInvalidCategoryID)
	})
}

func TestDeleteCategoryClearsCurrentContext(t *testing.T) {
	s := newTestStore(t)
	home := mustCreateCategory(t, s, "Home")
	require.NoError(t, s.SetConfig(types.KeyCurrentCategory, "1"))

	require.NoError(t, s.DeleteCategory(home, nil))

	cfg, err := s.GetConfig()
	require.NoError(t, err)
	assert.NotContains(t, cfg, types.KeyCurrentCategory)
}

func TestReservedCategoryProtections(t *testing.T) {
	s := newTestStore(t)

	assert.ErrorIs(t, s.DeleteCategory(types.DeletedCategoryID, nil), types.ErrReservedCategory)
	assert.ErrorIs(t, s.RenameCategory(types.DeletedCategoryID, "Trash"), types.ErrReservedCategory)

	cat, err := types.NewCategory("deleted", "")
	require.NoError(t, err)
	_, err = s.CreateCategory(cat)
	assert.ErrorIs(t, err, types.ErrDuplicateName)
}

func TestRenameCategory(t *testing.T) {
	s := newTestStore(t)
	home := mustCreateCategory(t, s, "Home")
	mustCreateCategory(t, s, "Work")

	require.NoError(t, s.RenameCategory(home, "House"))
	got, err := s.GetCategory(home)
	require.NoError(t, err)
	assert.Equal(t, "House", got.Name)

	assert.ErrorIs(t, s.RenameCategory(home, "work"), types.ErrDuplicateName)
	assert.ErrorIs(t, s.RenameCategory(999, "Ghost"), types.ErrNotFound)
}

func TestCategoryNameUniqueness(t *testing.T) {
	s := newTestStore(t)
	mustCreateCategory(t, s, "Home")

	dup, err := types.NewCategory("home", "")
	require.NoError(t, err)
	_, err = s.CreateCategory(dup)
	assert.ErrorIs(t, err, types.ErrDuplicateName)

	work := mustCreateCategory(t, s, "Work")
	require.NoError(t, s.RenameCategory(work, "Work"),
		"renaming a category to its current name is not a collision")
}

func TestListTasksFilters(t *testing.T) {
	s := newTestStore(t)
	home := mustCreateCategory(t, s, "Home")
	work := mustCreateCategory(t, s, "Work")

	milk, err := types.NewTask("Buy milk", home, types.PriorityHigh)
	require.NoError(t, err)
	_, err = s.CreateTask(milk)
	require.NoError(t, err)

	report := mustCreateTask(t, s, "File report", work)
	done, err := s.GetTask(report)
	require.NoError(t, err)
	done.SetCompleted(true)
	require.NoError(t, s.UpdateTask(done))

	gone := mustCreateTask(t, s, "Old task", home)
	require.NoError(t, s.SoftDeleteTask(gone, time.Now()))

	t.Run("default excludes deleted", func(t *testing.T) {
		tasks, err := s.ListTasks(types.TaskFilter{})
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		// Ordered by category then ID.
		assert.Equal(t, "Buy milk", tasks[0].Title)
		assert.Equal(t, "File report", tasks[1].Title)
	})

	t.Run("deleted only", func(t *testing.T) {
		tasks, err := s.ListTasks(types.TaskFilter{DeletedOnly: true})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Old task", tasks[0].Title)
	})

	t.Run("search substring", func(t *testing.T) {
		tasks, err := s.ListTasks(types.TaskFilter{Search: "milk"})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Buy milk", tasks[0].Title)
	})

	t.Run("search treats wildcards literally", func(t *testing.T) {
		tasks, err := s.ListTasks(types.TaskFilter{Search: "%"})
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("search folds non-ASCII case", func(t *testing.T) {
		id := mustCreateTask(t, s, "Überweisung senden", home)
		tasks, err := s.ListTasks(types.TaskFilter{Search: "überweisung"})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, id, tasks[0].ID)
	})

	t.Run("completed", func(t *testing.T) {
		completed := true
		tasks, err := s.ListTasks(types.TaskFilter{Completed: &completed})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "File report", tasks[0].Title)
	})

	t.Run("priority", func(t *testing.T) {
		tasks, err := s.ListTasks(types.TaskFilter{Priority: types.PriorityHigh})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Buy milk", tasks[0].Title)
	})

	t.Run("category", func(t *testing.T) {
		tasks, err := s.ListTasks(types.TaskFilter{CategoryID: &work})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "File report", tasks[0].Title)
	})
}

func TestConfigRoundTrip(t *testing.T) {
	s := newTestStore(t)

	cfg, err := s.GetConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg)

	require.NoError(t, s.SetConfig(types.KeyDeletedTaskLifespan, "14"))
	require.NoError(t, s.SetConfig(types.KeyDeletedTaskLifespan, "30"))

	cfg, err = s.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "30", cfg.Get(types.KeyDeletedTaskLifespan))

	require.NoError(t, s.UnsetConfig(types.KeyDeletedTaskLifespan))
	cfg, err = s.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.DeletedTaskLifespanDays(), "default applies after unset")

	assert.ErrorIs(t, s.SetConfig("no-such-key", "1"), types.ErrUnknownConfigKey)
	assert.ErrorIs(t, s.SetConfig(types.KeyDeletedTaskLifespan, "soon"), types.ErrInvalidConfigValue)
	assert.ErrorIs(t, s.UnsetConfig("no-such-key"), types.ErrUnknownConfigKey)
}

func TestAllocationStateIsHiddenFromConfig(t *testing.T) {
	s := newTestStore(t)
	mustCreateCategory(t, s, "Home")

	cfg, err := s.GetConfig()
	require.NoError(t, err)
	for key := range cfg {
		assert.True(t, types.KnownSettingKey(key), "unexpected config key %q", key)
	}

	assert.ErrorIs(t, s.SetConfig(metaNextTaskID, "100"), types.ErrUnknownConfigKey)
	assert.ErrorIs(t, s.UnsetConfig(metaNextCategoryID), types.ErrUnknownConfigKey)
}

func TestTaskIDsNeverReused(t *testing.T) {
	s := newTestStore(t)
	home := mustCreateCategory(t, s, "Home")

	first := mustCreateTask(t, s, "First", home)
	require.NoError(t, s.SoftDeleteTask(first, time.Now().Add(-time.Hour)))
	n, err := s.PurgeDeletedBefore(time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	second := mustCreateTask(t, s, "Second", home)
	assert.Greater(t, second, first)
}
