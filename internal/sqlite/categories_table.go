package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// CreateCategory assigns an ID from the free pool (or the counter) and
// inserts the category, all in one transaction with the pool update.
func (s *Store) CreateCategory(c *types.Category) (uint64, error) {
	if strings.TrimSpace(c.Name) == "" {
		return 0, types.ErrEmptyName
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := categoryNameFreeTx(tx, c.Name, noExclusion); err != nil {
		return 0, err
	}

	id, err := allocCategoryIDTx(tx)
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(
		"INSERT INTO categories (id, name, description, created_at) VALUES (?, ?, ?, ?)",
		id, c.Name, c.Description, fmtTime(c.CreatedAt),
	); err != nil {
		return 0, fmt.Errorf("inserting category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing category: %w", err)
	}
	c.ID = id
	return id, nil
}

// GetCategory retrieves a category by ID, the reserved Deleted category
// included.
func (s *Store) GetCategory(id uint64) (*types.Category, error) {
	row := s.db.QueryRow(
		"SELECT id, name, description, created_at FROM categories WHERE id = ?", id,
	)
	c, err := hydrateCategory(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting category %d: %w", id, err)
	}
	return c, nil
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

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := categoryNameFreeTx(tx, name, int64(id)); err != nil {
		return err
	}

	res, err := tx.Exec("UPDATE categories SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return fmt.Errorf("renaming category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rename result: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}

	return tx.Commit()
}

// DeleteCategory removes a category, reassigning its live tasks to the
// replacement (or the uncategorized scope), then returns the ID to the
// free pool. The whole operation is one transaction, so the ID is freed
// only if the reassignment commits.
func (s *Store) DeleteCategory(id uint64, reassignTo *uint64) error {
	if id == types.DeletedCategoryID {
		return types.ErrReservedCategory
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := categoryExistsTx(tx, id); err != nil {
		return types.ErrNotFound
	}

	target := types.DeletedCategoryID
	if reassignTo != nil {
		if *reassignTo == types.DeletedCategoryID {
			return types.ErrInvalidCategoryID
		}
		if err := categoryExistsTx(tx, *reassignTo); err != nil {
			return err
		}
		target = *reassignTo
	}

	if _, err := tx.Exec(
		"UPDATE tasks SET category_id = ? WHERE category_id = ? AND deleted = 0",
		target, id,
	); err != nil {
		return fmt.Errorf("reassigning tasks: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM categories WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	if err := pushFreeCategoryIDTx(tx, id); err != nil {
		return err
	}

	// A deleted category cannot remain the active context.
	current, ok, err := getConfigValueTx(tx, types.KeyCurrentCategory)
	if err != nil {
		return err
	}
	if ok && current == strconv.FormatUint(id, 10) {
		if _, err := tx.Exec("DELETE FROM config WHERE key = ?", types.KeyCurrentCategory); err != nil {
			return fmt.Errorf("clearing category context: %w", err)
		}
	}

	return tx.Commit()
}

// ListCategories returns all categories ordered by ID, the reserved
// Deleted category first.
func (s *Store) ListCategories() ([]*types.Category, error) {
	rows, err := s.db.Query("SELECT id, name, description, created_at FROM categories ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var out []*types.Category
	for rows.Next() {
		c, err := hydrateCategory(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("hydrating category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}
	return out, nil
}

// hydrateCategory scans one category row.
func hydrateCategory(scan func(...any) error) (*types.Category, error) {
	var (
		c         types.Category
		createdAt string
	)
	if err := scan(&c.ID, &c.Name, &c.Description, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &c, nil
}

// noExclusion is an excludeID that matches no category, for uniqueness
// checks on create. It is negative because 0 is the reserved category and
// database/sql rejects uint64 values with the high bit set.
const noExclusion int64 = -1

// categoryNameFreeTx returns ErrDuplicateName when a category other than
// excludeID already uses the name, case-insensitively.
func categoryNameFreeTx(tx *sql.Tx, name string, excludeID int64) error {
	var one int
	err := tx.QueryRow(
		"SELECT 1 FROM categories WHERE name = ? COLLATE NOCASE AND id != ?",
		name, excludeID,
	).Scan(&one)
	if err == nil {
		return types.ErrDuplicateName
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking name uniqueness: %w", err)
	}
	return nil
}

// allocCategoryIDTx pops the smallest free category ID, or advances the
// high-water counter when the pool is empty.
func allocCategoryIDTx(tx *sql.Tx) (uint64, error) {
	free, err := readFreeListTx(tx)
	if err != nil {
		return 0, err
	}
	if len(free) > 0 {
		sort.Slice(free, func(i, j int) bool { return free[i] < free[j] })
		id := free[0]
		if err := writeFreeListTx(tx, free[1:]); err != nil {
			return 0, err
		}
		return id, nil
	}
	return nextIDTx(tx, metaNextCategoryID)
}

// pushFreeCategoryIDTx returns a deleted category's ID to the pool.
func pushFreeCategoryIDTx(tx *sql.Tx, id uint64) error {
	free, err := readFreeListTx(tx)
	if err != nil {
		return err
	}
	return writeFreeListTx(tx, append(free, id))
}

// readFreeListTx decodes the free-ID pool from its config row.
func readFreeListTx(tx *sql.Tx) ([]uint64, error) {
	raw, err := getMetaTx(tx, metaFreeCategoryIDs)
	if err != nil {
		return nil, err
	}
	var free []uint64
	if err := json.Unmarshal([]byte(raw), &free); err != nil {
		return nil, fmt.Errorf("decoding free category IDs: %w", err)
	}
	return free, nil
}

// writeFreeListTx encodes the free-ID pool back to its config row.
func writeFreeListTx(tx *sql.Tx, free []uint64) error {
	if free == nil {
		free = []uint64{}
	}
	raw, err := json.Marshal(free)
	if err != nil {
		return fmt.Errorf("encoding free category IDs: %w", err)
	}
	return setMetaTx(tx, metaFreeCategoryIDs, string(raw))
}
