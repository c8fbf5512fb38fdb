package jsonfile

import "github.com/mesh-intelligence/tally/pkg/types"

// GetConfig returns the persisted settings map.
func (s *Store) GetConfig() (types.Settings, error) {
	var out types.Settings
	err := s.view(func(data *storeData) error {
		out = make(types.Settings, len(data.Config))
		for k, v := range data.Config {
			out[k] = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetConfig validates and persists one settings key.
func (s *Store) SetConfig(key, value string) error {
	if err := types.ValidateSetting(key, value); err != nil {
		return err
	}
	return s.update(func(data *storeData) error {
		data.Config[key] = value
		return nil
	})
}

// UnsetConfig removes a settings key so its hard-coded default applies.
func (s *Store) UnsetConfig(key string) error {
	if !types.KnownSettingKey(key) {
		return types.ErrUnknownConfigKey
	}
	return s.update(func(data *storeData) error {
		delete(data.Config, key)
		return nil
	})
}
