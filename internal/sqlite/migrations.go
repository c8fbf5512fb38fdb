package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// bootstrapVersionTable creates schema_version if absent and seeds it with
// version 0, meaning "no migrations applied".
func bootstrapVersionTable(db *sql.DB) error {
	if _, err := db.Exec(bootstrapDDL); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&n); err != nil {
		return fmt.Errorf("reading schema_version: %w", err)
	}
	if n == 0 {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (0)"); err != nil {
			return fmt.Errorf("seeding schema_version: %w", err)
		}
	}
	return nil
}

// CurrentVersion returns the recorded schema version. It always equals the
// highest successfully committed migration: the version row is updated
// inside each migration's transaction, so a partially applied migration is
// never reflected.
func (s *Store) CurrentVersion() (int, error) {
	var v int
	if err := s.db.QueryRow("SELECT version FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// MigrateTo brings the store to the target version, upgrading or
// downgrading as needed. Each step runs in its own transaction that also
// rewrites schema_version before committing; a failed step rolls back in
// full and halts the sequence with a MigrationError naming the step.
func (s *Store) MigrateTo(target int) error {
	current, err := s.CurrentVersion()
	if err != nil {
		return err
	}

	switch {
	case target > current:
		for _, m := range migrations {
			if m.Version <= current || m.Version > target {
				continue
			}
			if err := s.applyStep(m.Version, m.Up, m.Version); err != nil {
				return err
			}
			s.log.WithField("version", m.Version).Debug("applied migration")
		}
	case target < current:
		for i := len(migrations) - 1; i >= 0; i-- {
			m := migrations[i]
			if m.Version > current || m.Version <= target {
				continue
			}
			if err := s.applyStep(m.Version, m.Down, m.Version-1); err != nil {
				return err
			}
			s.log.WithField("version", m.Version).Debug("reverted migration")
		}
	}
	return nil
}

// applyStep executes one migration direction and records the resulting
// version inside a single transaction.
func (s *Store) applyStep(version int, stmts string, resulting int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &types.MigrationError{Version: version, Err: fmt.Errorf("beginning transaction: %w", err)}
	}
	defer tx.Rollback()

	if _, err := tx.Exec(stmts); err != nil {
		return &types.MigrationError{Version: version, Err: err}
	}
	if _, err := tx.Exec("UPDATE schema_version SET version = ?", resulting); err != nil {
		return &types.MigrationError{Version: version, Err: fmt.Errorf("updating schema version: %w", err)}
	}
	if err := tx.Commit(); err != nil {
		return &types.MigrationError{Version: version, Err: fmt.Errorf("committing: %w", err)}
	}
	return nil
}
