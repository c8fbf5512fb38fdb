package jsonfile

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// snapshotVersion identifies the JSON document layout.
const snapshotVersion = 1

// storeData is the whole-store snapshot persisted as one JSON document.
type storeData struct {
	Version         int               `json:"version"`
	Tasks           []*types.Task     `json:"tasks"`
	Categories      []*types.Category `json:"categories"`
	Config          types.Settings    `json:"config"`
	NextTaskID      uint64            `json:"nextTaskId"`
	NextCategoryID  uint64            `json:"nextCategoryId"`
	FreeCategoryIDs []uint64          `json:"freeCategoryIds"`
	LastSync        time.Time         `json:"lastSync"`
	LastWriteID     string            `json:"lastWriteId"`
}

// newStoreData returns a fresh snapshot seeded with the reserved Deleted
// category and empty allocation state.
func newStoreData() *storeData {
	return &storeData{
		Version: snapshotVersion,
		Categories: []*types.Category{{
			ID:        types.DeletedCategoryID,
			Name:      types.DeletedCategoryName,
			CreatedAt: time.Now().UTC(),
		}},
		Config:         types.DefaultSettings(),
		NextTaskID:     1,
		NextCategoryID: 1,
	}
}

// stamp records the write time and a fresh write ID before serialization.
func (d *storeData) stamp() {
	d.Version = snapshotVersion
	d.LastSync = time.Now().UTC()
	d.LastWriteID = newWriteID()
}

// newWriteID generates a UUID v7 identifying one snapshot write.
func newWriteID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// validate checks snapshot invariants. A violation means the file was
// edited or corrupted outside tally; it is never repaired.
func (d *storeData) validate() error {
	live := make(map[uint64]bool, len(d.Categories))
	for _, c := range d.Categories {
		if live[c.ID] {
			return fmt.Errorf("duplicate category ID %d", c.ID)
		}
		live[c.ID] = true
	}
	for _, t := range d.Tasks {
		if t.CategoryID != types.DeletedCategoryID && !live[t.CategoryID] {
			return fmt.Errorf("task %d references missing category %d", t.ID, t.CategoryID)
		}
	}
	for _, id := range d.FreeCategoryIDs {
		if live[id] {
			return fmt.Errorf("category ID %d is both free and in use", id)
		}
		if id == 0 || id >= d.NextCategoryID {
			return fmt.Errorf("free category ID %d outside allocated range", id)
		}
	}
	return nil
}

// allocCategoryID pops the smallest free ID, or advances the high-water
// counter when the pool is empty.
func (d *storeData) allocCategoryID() uint64 {
	if len(d.FreeCategoryIDs) > 0 {
		sort.Slice(d.FreeCategoryIDs, func(i, j int) bool {
			return d.FreeCategoryIDs[i] < d.FreeCategoryIDs[j]
		})
		id := d.FreeCategoryIDs[0]
		d.FreeCategoryIDs = d.FreeCategoryIDs[1:]
		return id
	}
	id := d.NextCategoryID
	d.NextCategoryID++
	return id
}

// freeCategoryID returns a deleted category's ID to the pool.
func (d *storeData) freeCategoryID(id uint64) {
	d.FreeCategoryIDs = append(d.FreeCategoryIDs, id)
}

// allocTaskID advances the task counter. Task IDs are never recycled.
func (d *storeData) allocTaskID() uint64 {
	id := d.NextTaskID
	d.NextTaskID++
	return id
}

// findTask returns the task with the given ID, or nil.
func (d *storeData) findTask(id uint64) *types.Task {
	for _, t := range d.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// findCategory returns the category with the given ID, or nil.
func (d *storeData) findCategory(id uint64) *types.Category {
	for _, c := range d.Categories {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// noExclusion is an excludeID that matches no category, for uniqueness
// checks on create.
const noExclusion = ^uint64(0)

// categoryNameTaken reports whether a category other than excludeID already
// uses the name. Comparison is case-insensitive so near-duplicate names
// cannot coexist.
func (d *storeData) categoryNameTaken(name string, excludeID uint64) bool {
	for _, c := range d.Categories {
		if c.ID != excludeID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

// liveTaskTitleTaken reports whether another live task in the category has
// the same title. Duplicate titles across categories are allowed.
func (d *storeData) liveTaskTitleTaken(title string, categoryID, excludeID uint64) bool {
	for _, t := range d.Tasks {
		if t.ID != excludeID && !t.Deleted && t.CategoryID == categoryID && t.Title == title {
			return true
		}
	}
	return false
}

// sortTasks orders a listing by category ID ascending, then task ID
// ascending.
func sortTasks(tasks []*types.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CategoryID != tasks[j].CategoryID {
			return tasks[i].CategoryID < tasks[j].CategoryID
		}
		return tasks[i].ID < tasks[j].ID
	})
}

// sortCategories orders a listing by category ID ascending.
func sortCategories(cats []*types.Category) {
	sort.Slice(cats, func(i, j int) bool {
		return cats[i].ID < cats[j].ID
	})
}

// matchesFilter reports whether a task satisfies the filter.
func matchesFilter(t *types.Task, f types.TaskFilter) bool {
	if f.DeletedOnly != t.Deleted {
		return false
	}
	if !f.MatchesSearch(t.Title) {
		return false
	}
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.CategoryID != nil && t.CategoryID != *f.CategoryID {
		return false
	}
	return true
}

// cloneTask copies a task so callers cannot mutate the snapshot in place.
func cloneTask(t *types.Task) *types.Task {
	cp := *t
	if t.DueDate != nil {
		d := *t.DueDate
		cp.DueDate = &d
	}
	if t.DeletedAt != nil {
		d := *t.DeletedAt
		cp.DeletedAt = &d
	}
	return &cp
}

// cloneCategory copies a category.
func cloneCategory(c *types.Category) *types.Category {
	cp := *c
	return &cp
}
