// Package lifecycle orchestrates the store mutations that span entities:
// soft-deleting tasks, sweeping expired deleted tasks, and removing
// categories with task reassignment.
package lifecycle

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// Manager drives soft-delete and purge against a store.
type Manager struct {
	store types.Store
	log   *logrus.Entry
}

// New returns a manager for the given store.
func New(store types.Store) *Manager {
	return &Manager{
		store: store,
		log:   logrus.WithField("component", "lifecycle"),
	}
}

// DeleteTask soft-deletes a task: it moves to the reserved Deleted
// category with its deletion time stamped at now. The task stays
// addressable by ID until a sweep or flush removes it.
func (m *Manager) DeleteTask(id uint64, now time.Time) error {
	return m.store.SoftDeleteTask(id, now)
}

// Sweep purges soft-deleted tasks older than the configured lifespan.
// A lifespan of zero days means deleted tasks are kept forever; the sweep
// then removes nothing.
func (m *Manager) Sweep(now time.Time) (int, error) {
	cfg, err := m.store.GetConfig()
	if err != nil {
		return 0, err
	}
	days := cfg.DeletedTaskLifespanDays()
	if days == 0 {
		return 0, nil
	}

	cutoff := now.AddDate(0, 0, -days)
	n, err := m.store.PurgeDeletedBefore(cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		m.log.WithFields(logrus.Fields{"removed": n, "lifespan_days": days}).
			Debug("swept expired deleted tasks")
	}
	return n, nil
}

// Flush purges every soft-deleted task regardless of the configured
// lifespan. The cutoff sits just past now so tasks deleted this instant
// are included despite second-precision deletion stamps.
func (m *Manager) Flush(now time.Time) (int, error) {
	return m.store.PurgeDeletedBefore(now.Add(time.Second))
}

// DeleteCategory removes a category, reassigning its live tasks to
// reassignTo, or to the uncategorized scope when reassignTo is nil. The
// reserved Deleted category is rejected here as well as in the backends;
// its protection does not rest on caller discipline.
func (m *Manager) DeleteCategory(id uint64, reassignTo *uint64) error {
	if id == types.DeletedCategoryID {
		return types.ErrReservedCategory
	}
	if reassignTo != nil && *reassignTo == types.DeletedCategoryID {
		return types.ErrInvalidCategoryID
	}
	return m.store.DeleteCategory(id, reassignTo)
}
