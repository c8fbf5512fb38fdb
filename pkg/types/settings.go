package types

import (
	"fmt"
	"strconv"
)

// Configuration keys stored in the Store. Backend selection keys
// (storage.type, storage.path) live in the CLI config file instead and are
// read once at startup.
const (
	KeyDeletedTaskLifespan = "deleted-task-lifespan"
	KeyDefaultPriority     = "default-priority"
	KeyDefaultCategory     = "default-category"
	KeyCurrentCategory     = "current-category"
)

// settingsDefaults maps each key to its hard-coded default. A key absent
// from the store means "use default".
var settingsDefaults = map[string]string{
	KeyDeletedTaskLifespan: "0",
	KeyDefaultPriority:     PriorityMedium,
	KeyDefaultCategory:     "",
	KeyCurrentCategory:     "0",
}

// SettingsKeys lists the recognized store configuration keys.
var SettingsKeys = []string{
	KeyDeletedTaskLifespan,
	KeyDefaultPriority,
	KeyDefaultCategory,
	KeyCurrentCategory,
}

// Settings is the store-persisted configuration map. Only explicitly set
// keys are present; Get applies defaults for absent keys.
type Settings map[string]string

// DefaultSettings returns an empty settings map, meaning every key reads
// its default.
func DefaultSettings() Settings {
	return Settings{}
}

// Get returns the effective value for key, falling back to the hard-coded
// default when the key is unset.
func (s Settings) Get(key string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return settingsDefaults[key]
}

// DeletedTaskLifespanDays returns the purge lifespan in days. 0 means
// deleted tasks are never purged automatically.
func (s Settings) DeletedTaskLifespanDays() int {
	n, err := strconv.Atoi(s.Get(KeyDeletedTaskLifespan))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// DefaultPriority returns the priority assigned to new tasks when none is
// given on the command line.
func (s Settings) DefaultPriority() string {
	return s.Get(KeyDefaultPriority)
}

// CurrentCategory returns the active category context, or 0 when no
// context is set.
func (s Settings) CurrentCategory() uint64 {
	n, err := strconv.ParseUint(s.Get(KeyCurrentCategory), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// KnownSettingKey reports whether key is a recognized settings key.
func KnownSettingKey(key string) bool {
	_, ok := settingsDefaults[key]
	return ok
}

// ValidateSetting checks a key/value pair before it is persisted.
// Returns ErrUnknownConfigKey for unrecognized keys and ErrInvalidConfigValue
// (or ErrInvalidPriority) for out-of-range values.
func ValidateSetting(key, value string) error {
	switch key {
	case KeyDeletedTaskLifespan:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", ErrInvalidConfigValue, key)
		}
	case KeyDefaultPriority:
		if _, err := ParsePriority(value); err != nil {
			return err
		}
	case KeyDefaultCategory:
		// Any string; existence is checked against live categories by the CLI.
	case KeyCurrentCategory:
		if _, err := strconv.ParseUint(value, 10, 64); err != nil {
			return fmt.Errorf("%w: %s must be a category ID", ErrInvalidConfigValue, key)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownConfigKey, key)
	}
	return nil
}
