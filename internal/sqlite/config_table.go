package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// GetConfig returns the persisted settings map. Reserved allocation rows
// are filtered out.
func (s *Store) GetConfig() (types.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM config")
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	defer rows.Close()

	out := types.Settings{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning config row: %w", err)
		}
		if types.KnownSettingKey(key) {
			out[key] = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating config: %w", err)
	}
	return out, nil
}

// SetConfig validates and upserts one settings key.
func (s *Store) SetConfig(key, value string) error {
	if err := types.ValidateSetting(key, value); err != nil {
		return err
	}
	if _, err := s.db.Exec(
		"INSERT INTO config (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	); err != nil {
		return fmt.Errorf("writing config %s: %w", key, err)
	}
	return nil
}

// UnsetConfig deletes a settings key so its hard-coded default applies.
func (s *Store) UnsetConfig(key string) error {
	if !types.KnownSettingKey(key) {
		return types.ErrUnknownConfigKey
	}
	if _, err := s.db.Exec("DELETE FROM config WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting config %s: %w", key, err)
	}
	return nil
}

// getMetaTx reads a reserved config row inside a transaction.
func getMetaTx(tx *sql.Tx, key string) (string, error) {
	var value string
	err := tx.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return value, nil
}

// setMetaTx upserts a reserved config row inside a transaction.
func setMetaTx(tx *sql.Tx, key, value string) error {
	if _, err := tx.Exec(
		"INSERT INTO config (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// getConfigValueTx reads any config row inside a transaction, reporting
// whether the key was present.
func getConfigValueTx(tx *sql.Tx, key string) (string, bool, error) {
	var value string
	err := tx.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, true, nil
}
