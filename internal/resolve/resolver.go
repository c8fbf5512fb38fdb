// Package resolve turns user-supplied names or numeric IDs into concrete
// task and category references.
//
// Numeric input is authoritative: it is looked up directly by ID and never
// ambiguous. Name input is matched case-sensitively against live entities;
// soft-deleted tasks and the reserved Deleted category are excluded, so
// operations on deleted items must use explicit IDs. A name shared by
// several live tasks in different categories yields an AmbiguousError
// carrying every candidate; prompting the user to pick one is the caller's
// job.
package resolve

import (
	"strconv"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// Resolver resolves names and IDs against a store's read API.
type Resolver struct {
	store types.Store
}

// New returns a resolver backed by the given store.
func New(store types.Store) *Resolver {
	return &Resolver{store: store}
}

// Task resolves input to exactly one task. When scope is non-nil, both ID
// and name lookups are confined to that category.
func (r *Resolver) Task(input string, scope *uint64) (*types.Task, error) {
	if id, ok := parseID(input); ok {
		task, err := r.store.GetTask(id)
		if err != nil {
			return nil, err
		}
		if scope != nil && task.CategoryID != *scope {
			return nil, types.ErrNotFound
		}
		return task, nil
	}

	filter := types.TaskFilter{CategoryID: scope}
	tasks, err := r.store.ListTasks(filter)
	if err != nil {
		return nil, err
	}

	var matches []*types.Task
	for _, t := range tasks {
		if t.Title == input {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return nil, types.ErrNotFound
	case 1:
		return matches[0], nil
	}

	candidates, err := r.describe(matches)
	if err != nil {
		return nil, err
	}
	return nil, &types.AmbiguousError{Input: input, Candidates: candidates}
}

// Category resolves input to exactly one category. Category names are
// unique, so name lookup is never ambiguous. The reserved Deleted category
// is not resolvable; it is never a valid target for user commands.
func (r *Resolver) Category(input string) (*types.Category, error) {
	if id, ok := parseID(input); ok {
		if id == types.DeletedCategoryID {
			return nil, types.ErrReservedCategory
		}
		return r.store.GetCategory(id)
	}

	cats, err := r.store.ListCategories()
	if err != nil {
		return nil, err
	}
	for _, c := range cats {
		if c.ID == types.DeletedCategoryID {
			continue
		}
		if c.Name == input {
			return c, nil
		}
	}
	return nil, types.ErrNotFound
}

// describe builds the candidate list for an ambiguous match, annotating
// each task with its category name.
func (r *Resolver) describe(matches []*types.Task) ([]types.Candidate, error) {
	cats, err := r.store.ListCategories()
	if err != nil {
		return nil, err
	}
	names := make(map[uint64]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	out := make([]types.Candidate, 0, len(matches))
	for _, t := range matches {
		name := names[t.CategoryID]
		if t.Uncategorized() {
			name = ""
		}
		out = append(out, types.Candidate{
			TaskID:     t.ID,
			CategoryID: t.CategoryID,
			Category:   name,
			Title:      t.Title,
		})
	}
	return out, nil
}

// parseID reports whether input is a bare numeric ID.
func parseID(input string) (uint64, bool) {
	id, err := strconv.ParseUint(input, 10, 64)
	return id, err == nil
}
