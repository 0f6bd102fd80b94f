package config

import "sync"

// The process-wide snapshot cache. Guarded by a mutex so Reload and Reset
// stay race-free against concurrent Get calls.
var (
	settingsMu sync.Mutex
	settings   *Config
)

// Get returns the cached snapshot, resolving it from the current
// environment on first access.
func Get() (*Config, error) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	if settings != nil {
		return settings, nil
	}
	cfg, err := Resolve("")
	if err != nil {
		return nil, err
	}
	settings = cfg
	return settings, nil
}

// Reload re-resolves settings from the given file and the environment and
// replaces the cached snapshot. It fails when the file extension is
// unsupported or the file is missing.
func Reload(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	settingsMu.Lock()
	settings = cfg
	settingsMu.Unlock()
	return cfg, nil
}

// Reset drops the cached snapshot; the next Get performs a fresh
// resolution against the then-current environment.
func Reset() {
	settingsMu.Lock()
	settings = nil
	settingsMu.Unlock()
}
