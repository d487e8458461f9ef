package bootkit

import (
	"sort"
	"strconv"
	"time"
)

// Well-known setting keys understood by the pipeline itself. Collaborating
// services are free to define their own keys.
const (
	// SettingDefaultSchema is the schema applied to entities that do not
	// declare one. MetadataBuilder.ApplyDefaultSchema overrides it.
	SettingDefaultSchema = "bootkit.default_schema"

	// SettingNamingStrategy is the short name of the naming strategy to use
	// when the MetadataBuilder is not given one explicitly. Resolved through
	// the StrategySelector service.
	SettingNamingStrategy = "bootkit.naming_strategy"

	// SettingResourceBase is the base directory the default ResourceLoader
	// resolves relative locators against. Empty means the process working
	// directory.
	SettingResourceBase = "bootkit.resource_base"
)

// Settings is an immutable snapshot of merged configuration values.
//
// Merge order is last-write-wins and strictly deterministic: values applied
// later on a builder overwrite earlier values with the same key, regardless
// of whether a layer arrived via ApplySetting, LoadProperties, or Configure.
// Settings is safe for unsynchronized concurrent reads.
type Settings struct {
	values map[string]string
}

// newSettings copies values into an immutable snapshot.
func newSettings(values map[string]string) Settings {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return Settings{values: copied}
}

// Get returns the raw value for key and whether it is present.
func (s Settings) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// GetDefault returns the value for key, or fallback if absent.
func (s Settings) GetDefault(key, fallback string) string {
	if v, ok := s.values[key]; ok {
		return v
	}
	return fallback
}

// GetBool returns the value for key parsed as a bool, or fallback if the key
// is absent or unparsable.
func (s Settings) GetBool(key string, fallback bool) bool {
	v, ok := s.values[key]
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// GetInt returns the value for key parsed as an int, or fallback if the key
// is absent or unparsable.
func (s Settings) GetInt(key string, fallback int) int {
	v, ok := s.values[key]
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// GetDuration returns the value for key parsed as a time.Duration, or
// fallback if the key is absent or unparsable.
func (s Settings) GetDuration(key string, fallback time.Duration) time.Duration {
	v, ok := s.values[key]
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// Has reports whether key is present.
func (s Settings) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns all keys in sorted order.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of settings.
func (s Settings) Len() int {
	return len(s.values)
}
