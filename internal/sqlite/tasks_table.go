package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/tally/pkg/types"
)

const taskColumns = "id, title, description, category_id, completed, priority, due_date, deleted, deleted_at, created_at, updated_at"

// CreateTask assigns the next task ID and inserts the task, all in one
// transaction with the counter update.
func (s *Store) CreateTask(t *types.Task) (uint64, error) {
	if strings.TrimSpace(t.Title) == "" {
		return 0, types.ErrEmptyTitle
	}
	if _, err := types.ParsePriority(t.Priority); err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := categoryExistsTx(tx, t.CategoryID); err != nil {
		return 0, err
	}
	if err := liveTitleFreeTx(tx, t.Title, t.CategoryID, 0); err != nil {
		return 0, err
	}

	id, err := nextIDTx(tx, metaNextTaskID)
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, t.Title, t.Description, t.CategoryID, t.Completed, t.Priority,
		fmtTimePtr(t.DueDate), t.Deleted, fmtTimePtr(t.DeletedAt),
		fmtTime(t.CreatedAt), fmtTime(t.UpdatedAt),
	); err != nil {
		return 0, fmt.Errorf("inserting task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing task: %w", err)
	}
	t.ID = id
	return id, nil
}

// GetTask retrieves a task by ID, soft-deleted tasks included.
func (s *Store) GetTask(id uint64) (*types.Task, error) {
	row := s.db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	t, err := hydrateTask(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting task %d: %w", id, err)
	}
	return t, nil
}

// UpdateTask replaces the stored row with the given task.
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

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := categoryExistsTx(tx, t.CategoryID); err != nil {
		return err
	}
	if !t.Deleted {
		if err := liveTitleFreeTx(tx, t.Title, t.CategoryID, t.ID); err != nil {
			return err
		}
	}

	res, err := tx.Exec(
		`UPDATE tasks SET title = ?, description = ?, category_id = ?, completed = ?,
		    priority = ?, due_date = ?, deleted = ?, deleted_at = ?, updated_at = ?
		 WHERE id = ?`,
		t.Title, t.Description, t.CategoryID, t.Completed, t.Priority,
		fmtTimePtr(t.DueDate), t.Deleted, fmtTimePtr(t.DeletedAt),
		fmtTime(t.UpdatedAt), t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}

	return tx.Commit()
}

// ListTasks queries tasks matching the filter, ordered by category ID
// ascending then task ID ascending.
func (s *Store) ListTasks(f types.TaskFilter) ([]*types.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks"
	conditions := []string{"deleted = ?"}
	args := []any{f.DeletedOnly}

	if f.Completed != nil {
		conditions = append(conditions, "completed = ?")
		args = append(args, *f.Completed)
	}
	if f.Priority != "" {
		conditions = append(conditions, "priority = ?")
		args = append(args, f.Priority)
	}
	if f.CategoryID != nil {
		conditions = append(conditions, "category_id = ?")
		args = append(args, *f.CategoryID)
	}

	query += " WHERE " + strings.Join(conditions, " AND ")
	query += " ORDER BY category_id ASC, id ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	// The title search folds case in Go rather than with LIKE: SQLite's
	// built-in folding is ASCII-only, and the JSON backend folds Unicode.
	var out []*types.Task
	for rows.Next() {
		t, err := hydrateTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("hydrating task: %w", err)
		}
		if !f.MatchesSearch(t.Title) {
			continue
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return out, nil
}

// SoftDeleteTask moves a task to the Deleted category and stamps the
// deletion time. Deleting an already-deleted task is a no-op.
func (s *Store) SoftDeleteTask(id uint64, at time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var deleted bool
	err = tx.QueryRow("SELECT deleted FROM tasks WHERE id = ?", id).Scan(&deleted)
	if err == sql.ErrNoRows {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking task %d: %w", id, err)
	}
	if deleted {
		return nil
	}

	stamp := fmtTime(at)
	if _, err := tx.Exec(
		"UPDATE tasks SET category_id = ?, deleted = 1, deleted_at = ?, updated_at = ? WHERE id = ?",
		types.DeletedCategoryID, stamp, stamp, id,
	); err != nil {
		return fmt.Errorf("soft-deleting task: %w", err)
	}

	return tx.Commit()
}

// PurgeDeletedBefore permanently removes soft-deleted tasks whose deletion
// time is before the cutoff. Returns the number removed.
func (s *Store) PurgeDeletedBefore(cutoff time.Time) (int, error) {
	res, err := s.db.Exec(
		"DELETE FROM tasks WHERE deleted = 1 AND deleted_at IS NOT NULL AND deleted_at < ?",
		fmtTime(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("purging tasks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting purged tasks: %w", err)
	}
	if n > 0 {
		s.log.WithField("removed", n).Debug("purged deleted tasks")
	}
	return int(n), nil
}

// hydrateTask scans one task row. The scan argument abstracts over sql.Row
// and sql.Rows.
func hydrateTask(scan func(...any) error) (*types.Task, error) {
	var (
		t                    types.Task
		dueDate, deletedAt   sql.NullString
		createdAt, updatedAt string
	)
	if err := scan(
		&t.ID, &t.Title, &t.Description, &t.CategoryID, &t.Completed, &t.Priority,
		&dueDate, &t.Deleted, &deletedAt, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if t.DueDate, err = parseTimePtr(dueDate); err != nil {
		return nil, fmt.Errorf("parsing due_date: %w", err)
	}
	if t.DeletedAt, err = parseTimePtr(deletedAt); err != nil {
		return nil, fmt.Errorf("parsing deleted_at: %w", err)
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &t, nil
}

// categoryExistsTx returns ErrCategoryNotFound when the category ID has no
// row. The reserved category 0 is seeded at open, so uncategorized tasks
// pass this check too.
func categoryExistsTx(tx *sql.Tx, id uint64) error {
	var one int
	err := tx.QueryRow("SELECT 1 FROM categories WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %d", types.ErrCategoryNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("checking category %d: %w", id, err)
	}
	return nil
}

// liveTitleFreeTx returns ErrDuplicateTask when another live task in the
// category already has the title.
func liveTitleFreeTx(tx *sql.Tx, title string, categoryID, excludeID uint64) error {
	var one int
	err := tx.QueryRow(
		"SELECT 1 FROM tasks WHERE deleted = 0 AND category_id = ? AND title = ? AND id != ?",
		categoryID, title, excludeID,
	).Scan(&one)
	if err == nil {
		return types.ErrDuplicateTask
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking title uniqueness: %w", err)
	}
	return nil
}

// nextIDTx reads an allocation counter, advances it, and returns the
// allocated ID.
func nextIDTx(tx *sql.Tx, key string) (uint64, error) {
	raw, err := getMetaTx(tx, key)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	if err := setMetaTx(tx, key, strconv.FormatUint(id+1, 10)); err != nil {
		return 0, err
	}
	return id, nil
}
