// Shared helpers for tally CLI commands.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/tally/internal/jsonfile"
	"github.com/mesh-intelligence/tally/internal/lifecycle"
	"github.com/mesh-intelligence/tally/internal/paths"
	"github.com/mesh-intelligence/tally/internal/resolve"
	"github.com/mesh-intelligence/tally/internal/sqlite"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// defaultCategories are seeded when a brand-new store is created.
var defaultCategories = []string{"Home", "Work"}

// openStore selects and opens the backend named in the config file. On
// first run (no store file yet) it seeds the default categories.
func openStore(cfg *viper.Viper) (types.Store, error) {
	storageType, err := types.ParseStorageType(cfg.GetString(cfgKeyStorageType))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, cfg.GetString(cfgKeyStorageType))
	}

	path := cfg.GetString(cfgKeyStoragePath)
	if path == "" {
		dataDir, err := paths.ResolveDataDir(flagDataDir, cfg.GetString(cfgKeyDataDir))
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		name := paths.JSONStoreFileName
		if storageType == types.StorageSQLite {
			name = paths.SQLiteStoreFileName
		}
		path = filepath.Join(dataDir, name)
	}

	storePath = path
	_, statErr := os.Stat(path)
	firstRun := os.IsNotExist(statErr)

	var s types.Store
	switch storageType {
	case types.StorageJSON:
		s, err = jsonfile.Open(path)
	case types.StorageSQLite:
		s, err = sqlite.Open(path)
	}
	if err != nil {
		return nil, err
	}

	if firstRun {
		if err := seedDefaultCategories(s); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// resetStore discards the store file and reopens a fresh one, reseeding
// the default categories. Settings stored in the file are lost with it.
func resetStore() error {
	if err := store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	if err := os.Remove(storePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing store: %w", err)
	}
	s, err := openStore(fileCfg)
	if err != nil {
		return err
	}
	store = s
	resolver = resolve.New(s)
	manager = lifecycle.New(s)
	return nil
}

// seedDefaultCategories creates the starter categories in a fresh store.
func seedDefaultCategories(s types.Store) error {
	for _, name := range defaultCategories {
		cat, err := types.NewCategory(name, "")
		if err != nil {
			return err
		}
		if _, err := s.CreateCategory(cat); err != nil {
			return fmt.Errorf("seed category %s: %w", name, err)
		}
	}
	return nil
}

// categoryScope resolves the --category flag, falling back to the
// current-category context. Returns nil when neither is set, meaning the
// operation is unscoped.
func categoryScope(flagValue string) (*uint64, error) {
	if flagValue != "" {
		cat, err := resolver.Category(flagValue)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", flagValue, err)
		}
		return &cat.ID, nil
	}

	cfg, err := store.GetConfig()
	if err != nil {
		return nil, err
	}
	if id := cfg.CurrentCategory(); id != types.DeletedCategoryID {
		return &id, nil
	}
	return nil, nil
}

// resolveTask wraps the resolver with user-facing candidate listing on
// ambiguity.
func resolveTask(input string, scope *uint64) (*types.Task, error) {
	task, err := resolver.Task(input, scope)
	var ambErr *types.AmbiguousError
	if errors.As(err, &ambErr) {
		fmt.Printf("%q matches multiple tasks:\n", ambErr.Input)
		for _, c := range ambErr.Candidates {
			fmt.Printf("  [%d] %s (%s)\n", c.TaskID, c.Title, candidateCategory(c))
		}
		return nil, fmt.Errorf("ambiguous name %q: rerun with a task ID or --category", input)
	}
	return task, err
}

func candidateCategory(c types.Candidate) string {
	if c.Category == "" {
		return "uncategorized"
	}
	return c.Category
}

// printTask renders one task as a single line.
func printTask(t *types.Task, categoryName string) {
	check := " "
	if t.Completed {
		check = "x"
	}
	line := fmt.Sprintf("[%s] %d  %-8s %s", check, t.ID, t.Priority, t.Title)
	if categoryName != "" {
		line += "  (" + categoryName + ")"
	}
	if t.DueDate != nil {
		line += "  due " + t.DueDate.Format("2006-01-02")
	}
	fmt.Println(line)
}

// categoryNames maps category IDs to display names. Live tasks in the
// reserved scope show as uncategorized.
func categoryNames() (map[uint64]string, error) {
	cats, err := store.ListCategories()
	if err != nil {
		return nil, err
	}
	names := make(map[uint64]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	return names, nil
}

func displayCategory(t *types.Task, names map[uint64]string) string {
	if t.Uncategorized() {
		return ""
	}
	return names[t.CategoryID]
}

// parseDueDate accepts a YYYY-MM-DD due date.
func parseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q (expected YYYY-MM-DD)", s)
	}
	return &d, nil
}

// formatID renders an entity ID for display.
func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
