// Package sqlite implements the relational storage backend for tally and
// owns the schema migration engine.
package sqlite

// Migration is one reversible, versioned schema change. Down is the exact
// structural inverse of Up. Versions are strictly increasing and each step
// runs in its own transaction together with the schema_version update.
type Migration struct {
	Version int
	Up      string
	Down    string
}

// bootstrapDDL creates the version table itself. It is not a migration:
// it must exist before the engine can read the current version.
const bootstrapDDL = `CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER NOT NULL
);`

// migrations is the ordered, statically registered schema history.
// A fresh store starts at version 0 and is upgraded to the head on open.
var migrations = []Migration{
	{
		Version: 1,
		Up: `CREATE TABLE categories (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    created_at TEXT NOT NULL
);
CREATE TABLE tasks (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    category_id INTEGER NOT NULL,
    completed INTEGER NOT NULL DEFAULT 0,
    priority TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (category_id) REFERENCES categories(id)
);
CREATE TABLE config (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`,
		Down: `DROP TABLE tasks;
DROP TABLE config;
DROP TABLE categories;`,
	},
	{
		Version: 2,
		Up:      `ALTER TABLE tasks ADD COLUMN due_date TEXT;`,
		Down:    `ALTER TABLE tasks DROP COLUMN due_date;`,
	},
	{
		Version: 3,
		Up: `ALTER TABLE tasks ADD COLUMN deleted INTEGER NOT NULL DEFAULT 0;
ALTER TABLE tasks ADD COLUMN deleted_at TEXT;`,
		Down: `ALTER TABLE tasks DROP COLUMN deleted_at;
ALTER TABLE tasks DROP COLUMN deleted;`,
	},
}

// HeadVersion returns the highest migration version known to this build.
func HeadVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
