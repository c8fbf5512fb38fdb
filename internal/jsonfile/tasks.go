package jsonfile

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// CreateTask assigns the next task ID and appends the task to the snapshot.
func (s *Store) CreateTask(t *types.Task) (uint64, error) {
	if strings.TrimSpace(t.Title) == "" {
		return 0, types.ErrEmptyTitle
	}
	if _, err := types.ParsePriority(t.Priority); err != nil {
		return 0, err
	}

	var id uint64
	err := s.update(func(data *storeData) error {
		if t.CategoryID != types.DeletedCategoryID && data.findCategory(t.CategoryID) == nil {
			return fmt.Errorf("%w: %d", types.ErrCategoryNotFound, t.CategoryID)
		}
		if data.liveTaskTitleTaken(t.Title, t.CategoryID, 0) {
			return types.ErrDuplicateTask
		}
		id = data.allocTaskID()
		cp := cloneTask(t)
		cp.ID = id
		data.Tasks = append(data.Tasks, cp)
		return nil
	})
	if err != nil {
		return 0, err
	}
	t.ID = id
	return id, nil
}

// GetTask retrieves a task by ID, soft-deleted tasks included.
func (s *Store) GetTask(id uint64) (*types.Task, error) {
	var task *types.Task
	err := s.view(func(data *storeData) error {
		t := data.findTask(id)
		if t == nil {
			return types.ErrNotFound
		}
		task = cloneTask(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask replaces the stored task with the given one.
func (s *Store) UpdateTask(t *types.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return types.ErrEmptyTitle
	}
	if _, err := types.ParsePriority(t.Priority); err != nil {
		return err
	}
	if t.Deleted && t.CategoryID != types.DeletedCategoryID {
		return types.ErrInvalidCategoryID
	}

	return s.update(func(data *storeData) error {
		stored := data.findTask(t.ID)
		if stored == nil {
			return types.ErrNotFound
		}
		if t.CategoryID != types.DeletedCategoryID && data.findCategory(t.CategoryID) == nil {
			return fmt.Errorf("%w: %d", types.ErrCategoryNotFound, t.CategoryID)
		}
		if !t.Deleted && data.liveTaskTitleTaken(t.Title, t.CategoryID, t.ID) {
			return types.ErrDuplicateTask
		}
		*stored = *cloneTask(t)
		return nil
	})
}

// ListTasks returns all tasks matching the filter, ordered by category ID
// then task ID.
func (s *Store) ListTasks(f types.TaskFilter) ([]*types.Task, error) {
	var out []*types.Task
	err := s.view(func(data *storeData) error {
		for _, t := range data.Tasks {
			if matchesFilter(t, f) {
				out = append(out, cloneTask(t))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortTasks(out)
	return out, nil
}

// SoftDeleteTask moves a task to the Deleted category and stamps the
// deletion time. Deleting an already-deleted task is a no-op.
func (s *Store) SoftDeleteTask(id uint64, at time.Time) error {
	return s.update(func(data *storeData) error {
		t := data.findTask(id)
		if t == nil {
			return types.ErrNotFound
		}
		if t.Deleted {
			return nil
		}
		at := at.UTC()
		t.CategoryID = types.DeletedCategoryID
		t.Deleted = true
		t.DeletedAt = &at
		t.UpdatedAt = at
		return nil
	})
}

// PurgeDeletedBefore permanently removes soft-deleted tasks older than the
// cutoff. Returns the number removed.
func (s *Store) PurgeDeletedBefore(cutoff time.Time) (int, error) {
	var removed int
	err := s.update(func(data *storeData) error {
		kept := data.Tasks[:0]
		for _, t := range data.Tasks {
			if t.Deleted && t.DeletedAt != nil && t.DeletedAt.Before(cutoff) {
				removed++
				continue
			}
			kept = append(kept, t)
		}
		data.Tasks = kept
		return nil
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.log.WithField("removed", removed).Debug("purged deleted tasks")
	}
	return removed, nil
}
