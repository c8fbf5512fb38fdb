package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tally/pkg/types"
)

var _ types.Store = (*Store)(nil)

// Reserved config-table keys holding ID allocation state. They are filtered
// out of GetConfig and rejected by SetConfig, which only accepts the
// settings keys in pkg/types.
const (
	metaNextTaskID      = "internal.next-task-id"
	metaNextCategoryID  = "internal.next-category-id"
	metaFreeCategoryIDs = "internal.free-category-ids"
)

// Store is the SQLite backend. Cross-process safety comes from the engine's
// transaction isolation; every Store operation runs in one transaction.
type Store struct {
	db  *sql.DB
	log *logrus.Entry
}

// Open opens (creating if needed) the database at path, brings the schema
// to the head version, and seeds the reserved Deleted category. A failed
// migration aborts the open and leaves the store at the last committed
// version; it never auto-downgrades a store from a newer build.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:  db,
		log: logrus.WithField("backend", "sqlite"),
	}

	if err := bootstrapVersionTable(db); err != nil {
		db.Close()
		return nil, err
	}

	current, err := s.CurrentVersion()
	if err != nil {
		db.Close()
		return nil, err
	}
	if current < HeadVersion() {
		s.log.WithFields(logrus.Fields{"from": current, "to": HeadVersion()}).
			Debug("upgrading schema")
		if err := s.MigrateTo(HeadVersion()); err != nil {
			db.Close()
			return nil, err
		}
	}

	if err := s.seed(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle. Idempotent.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// seed inserts the reserved Deleted category and the allocation counters on
// first use. Re-running is a no-op.
func (s *Store) seed() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT OR IGNORE INTO categories (id, name, description, created_at) VALUES (?, ?, '', ?)",
		types.DeletedCategoryID, types.DeletedCategoryName, fmtTime(time.Now()),
	); err != nil {
		return fmt.Errorf("seeding Deleted category: %w", err)
	}

	for key, value := range map[string]string{
		metaNextTaskID:      "1",
		metaNextCategoryID:  "1",
		metaFreeCategoryIDs: "[]",
	} {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO config (key, value) VALUES (?, ?)", key, value,
		); err != nil {
			return fmt.Errorf("seeding %s: %w", key, err)
		}
	}

	return tx.Commit()
}

// fmtTime serializes a timestamp as second-precision UTC RFC 3339, a fixed
// width so lexicographic comparison in SQL matches time order.
func fmtTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// fmtTimePtr serializes an optional timestamp, NULL when nil.
func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

// parseTime deserializes a fmtTime value.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// parseTimePtr deserializes an optional timestamp column.
func parseTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
