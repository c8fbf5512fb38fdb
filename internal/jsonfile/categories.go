package jsonfile

import (
	"strings"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// CreateCategory assigns an ID from the free pool (or the counter) and
// appends the category.
func (s *Store) CreateCategory(c *types.Category) (uint64, error) {
	if strings.TrimSpace(c.Name) == "" {
		return 0, types.ErrEmptyName
	}

	var id uint64
	err := s.update(func(data *storeData) error {
		if data.categoryNameTaken(c.Name, noExclusion) {
			return types.ErrDuplicateName
		}
		id = data.allocCategoryID()
		cp := cloneCategory(c)
		cp.ID = id
		data.Categories = append(data.Categories, cp)
		return nil
	})
	if err != nil {
		return 0, err
	}
	c.ID = id
	return id, nil
}

// GetCategory retrieves a category by ID, the reserved Deleted category
// included.
func (s *Store) GetCategory(id uint64) (*types.Category, error) {
	var cat *types.Category
	err := s.view(func(data *storeData) error {
		c := data.findCategory(id)
		if c == nil {
			return types.ErrNotFound
		}
		cat = cloneCategory(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// RenameCategory renames a category. The reserved Deleted category cannot
// be renamed.
func (s *Store) RenameCategory(id uint64, name string) error {
	if id == types.DeletedCategoryID {
		return types.ErrReservedCategory
	}
	if strings.TrimSpace(name) == "" {
		return types.ErrEmptyName
	}

	return s.update(func(data *storeData) error {
		c := data.findCategory(id)
		if c == nil {
			return types.ErrNotFound
		}
		if data.categoryNameTaken(name, id) {
			return types.ErrDuplicateName
		}
		c.Name = name
		return nil
	})
}

// DeleteCategory removes a category, reassigning its live tasks and
// returning the ID to the free pool after reassignment.
func (s *Store) DeleteCategory(id uint64, reassignTo *uint64) error {
	if id == types.DeletedCategoryID {
		return types.ErrReservedCategory
	}

	return s.update(func(data *storeData) error {
		if data.findCategory(id) == nil {
			return types.ErrNotFound
		}

		// Live tasks go to the replacement category, or to the
		// uncategorized scope when none is given.
		target := types.DeletedCategoryID
		if reassignTo != nil {
			if *reassignTo == types.DeletedCategoryID {
				return types.ErrInvalidCategoryID
			}
			if data.findCategory(*reassignTo) == nil {
				return types.ErrCategoryNotFound
			}
			target = *reassignTo
		}
		for _, t := range data.Tasks {
			if !t.Deleted && t.CategoryID == id {
				t.CategoryID = target
			}
		}

		kept := data.Categories[:0]
		for _, c := range data.Categories {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		data.Categories = kept
		data.freeCategoryID(id)

		// A deleted category cannot remain the active context.
		if data.Config.CurrentCategory() == id {
			delete(data.Config, types.KeyCurrentCategory)
		}
		return nil
	})
}

// ListCategories returns all categories ordered by ID, the reserved Deleted
// category first.
func (s *Store) ListCategories() ([]*types.Category, error) {
	var out []*types.Category
	err := s.view(func(data *storeData) error {
		for _, c := range data.Categories {
			out = append(out, cloneCategory(c))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortCategories(out)
	return out, nil
}
