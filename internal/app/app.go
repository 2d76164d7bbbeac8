package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/almahoozi/deckpanel/internal/deck"
)

const appName = "deckpanel"

// SettingsFile holds the panel's tunables, next to buttons.json.
const SettingsFile = "settings.json"

// ConfigDir resolves the per-user directory holding buttons, icons and
// settings. DECKPANEL_CONFIG_DIR wins over the platform default.
func ConfigDir() (string, error) {
	if dir := os.Getenv("DECKPANEL_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("AppData"); appData != "" {
			return filepath.Join(appData, appName), nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate a config directory: %w", err)
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", appName), nil
	}
	return filepath.Join(home, ".config", appName), nil
}

// AssetsDir is where bundled icons live: an assets folder beside the executable.
func AssetsDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Join(filepath.Dir(exe), "assets")
}

func SettingsFilePath(dir string) string {
	return filepath.Join(dir, SettingsFile)
}

const (
	defaultShowHints               = true
	defaultStatusMessageDurationMs = 2000
	defaultColumns                 = 3
	defaultSwipeThresholdCells     = deck.DefaultSwipeThreshold
	defaultCommandMarker           = "cmd "
	defaultLaunchCooldownMs        = 1000
)

var defaultSettingsMarkers = map[string]any{
	"_showHints":               defaultShowHints,
	"_statusMessageDurationMs": float64(defaultStatusMessageDurationMs),
	"_columns":                 float64(defaultColumns),
	"_swipeThresholdCells":     float64(defaultSwipeThresholdCells),
	"_commandMarker":           defaultCommandMarker,
	"_launchCooldownMs":        float64(defaultLaunchCooldownMs),
}

// Settings are optional overrides; nil means the built-in default.
type Settings struct {
	ShowHints               *bool   `json:"showHints,omitempty"`
	StatusMessageDurationMs *int    `json:"statusMessageDurationMs,omitempty"`
	Columns                 *int    `json:"columns,omitempty"`
	SwipeThresholdCells     *int    `json:"swipeThresholdCells,omitempty"`
	CommandMarker           *string `json:"commandMarker,omitempty"`
	LaunchCooldownMs        *int    `json:"launchCooldownMs,omitempty"`
}

func (s *Settings) ensureDefaults() {
	for _, p := range []**int{&s.StatusMessageDurationMs, &s.Columns, &s.SwipeThresholdCells, &s.LaunchCooldownMs} {
		if *p != nil && **p <= 0 {
			*p = nil
		}
	}
	if s.CommandMarker != nil && strings.TrimSpace(*s.CommandMarker) == "" {
		s.CommandMarker = nil
	}
}

func (s Settings) HintsEnabled() bool {
	if s.ShowHints == nil {
		return defaultShowHints
	}
	return *s.ShowHints
}

func (s Settings) StatusMessageDuration() time.Duration {
	ms := defaultStatusMessageDurationMs
	if s.StatusMessageDurationMs != nil && *s.StatusMessageDurationMs > 0 {
		ms = *s.StatusMessageDurationMs
	}
	return time.Duration(ms) * time.Millisecond
}

// GridColumns is clamped to 1..PageSize.
func (s Settings) GridColumns() int {
	cols := defaultColumns
	if s.Columns != nil && *s.Columns > 0 {
		cols = *s.Columns
	}
	if cols > deck.PageSize {
		cols = deck.PageSize
	}
	return cols
}

func (s Settings) SwipeThreshold() int {
	if s.SwipeThresholdCells != nil && *s.SwipeThresholdCells > 0 {
		return *s.SwipeThresholdCells
	}
	return defaultSwipeThresholdCells
}

func (s Settings) Marker() string {
	if s.CommandMarker != nil && strings.TrimSpace(*s.CommandMarker) != "" {
		return *s.CommandMarker
	}
	return defaultCommandMarker
}

func (s Settings) LaunchCooldown() time.Duration {
	ms := defaultLaunchCooldownMs
	if s.LaunchCooldownMs != nil && *s.LaunchCooldownMs > 0 {
		ms = *s.LaunchCooldownMs
	}
	return time.Duration(ms) * time.Millisecond
}

// LoadSettings reads settings.json, creating it when absent. A broken file
// yields defaults together with the parse error.
func LoadSettings(dir string) (Settings, error) {
	path := SettingsFilePath(dir)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		var s Settings
		return s, writeSettings(path, s)
	}
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, err
	}
	s.ensureDefaults()

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err == nil {
		if applyDefaultMarkers(raw) {
			if err := writeSettingsMap(path, raw); err != nil {
				return s, err
			}
		}
	}
	return s, nil
}

func SaveSettings(dir string, s Settings) error {
	return writeSettings(SettingsFilePath(dir), s)
}

func writeSettings(path string, s Settings) error {
	s.ensureDefaults()
	raw, err := readSettingsMap(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		raw = make(map[string]any)
	}
	setOptional(raw, "showHints", s.ShowHints)
	setOptional(raw, "statusMessageDurationMs", s.StatusMessageDurationMs)
	setOptional(raw, "columns", s.Columns)
	setOptional(raw, "swipeThresholdCells", s.SwipeThresholdCells)
	setOptional(raw, "commandMarker", s.CommandMarker)
	setOptional(raw, "launchCooldownMs", s.LaunchCooldownMs)
	applyDefaultMarkers(raw)
	return writeSettingsMap(path, raw)
}

func readSettingsMap(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func writeSettingsMap(path string, raw map[string]any) error {
	if err := deck.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	return deck.WriteFileAtomic(path, data, 0o644)
}

func setOptional[T any](raw map[string]any, key string, value *T) {
	if value == nil {
		delete(raw, key)
		return
	}
	raw[key] = *value
}

// applyDefaultMarkers records the built-in defaults as "_key" entries so a
// hand-editing user can see them.
func applyDefaultMarkers(raw map[string]any) bool {
	changed := false
	for key, value := range defaultSettingsMarkers {
		if current, ok := raw[key]; ok && settingsValuesEqual(current, value) {
			continue
		}
		raw[key] = value
		changed = true
	}
	return changed
}

func settingsValuesEqual(a, b any) bool {
	switch av := a.(type) {
	case float64:
		switch bv := b.(type) {
		case float64:
			return av == bv
		case int:
			return av == float64(bv)
		}
	case int:
		switch bv := b.(type) {
		case int:
			return av == bv
		case float64:
			return float64(av) == bv
		}
	}
	return reflect.DeepEqual(a, b)
}

func boolPtr(v bool) *bool {
	b := v
	return &b
}

func intPtr(v int) *int {
	i := v
	return &i
}
