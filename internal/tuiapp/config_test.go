package tuiapp

import (
	"encoding/json"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/almahoozi/deckpanel/internal/app"
)

func newTestConfigModel(t *testing.T) (*configModel, string) {
	t.Helper()
	dir := t.TempDir()
	settings, err := app.LoadSettings(dir)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	return newConfigModel(dir, settings), dir
}

func pressConfig(m *configModel, keys ...string) {
	for _, k := range keys {
		m.Update(keyMsg(k))
	}
}

func selectConfigRow(t *testing.T, m *configModel, field configField) {
	t.Helper()
	for i, row := range configRows {
		if row.field == field {
			m.selected = i
			return
		}
	}
	t.Fatalf("no row for field %d", field)
}

func TestConfigToggleBool(t *testing.T) {
	m, _ := newTestConfigModel(t)
	selectConfigRow(t, m, cfgFieldShowHints)
	pressConfig(m, "enter")
	if m.values.HintsEnabled() || !m.isDirty() {
		t.Fatalf("expected hints off and dirty, got %+v", m.values)
	}
	pressConfig(m, "enter")
	if !m.values.HintsEnabled() {
		t.Fatal("second toggle should turn hints back on")
	}
}

func TestConfigEditIntAndRejectGarbage(t *testing.T) {
	m, _ := newTestConfigModel(t)
	selectConfigRow(t, m, cfgFieldColumns)
	pressConfig(m, "enter", "4", "enter")
	if m.editing {
		t.Fatal("valid input should finish editing")
	}
	if m.values.GridColumns() != 4 {
		t.Fatalf("expected 4 columns, got %d", m.values.GridColumns())
	}

	pressConfig(m, "enter", "x", "enter")
	if !m.editing {
		t.Fatal("invalid input should keep the editor open")
	}
	if m.status != "Enter a positive whole number." {
		t.Fatalf("unexpected status %q", m.status)
	}
	if m.values.GridColumns() != 4 {
		t.Fatalf("rejected input changed the value to %d", m.values.GridColumns())
	}
	pressConfig(m, "esc")
	if m.editing {
		t.Fatal("escape should cancel the edit")
	}

	pressConfig(m, "enter", "9", "enter")
	if m.values.Columns == nil || *m.values.Columns != 4 {
		t.Fatal("more columns than a page holds should be rejected")
	}
}

func TestConfigResetToDefault(t *testing.T) {
	m, _ := newTestConfigModel(t)
	selectConfigRow(t, m, cfgFieldSwipeThreshold)
	pressConfig(m, "enter", "15", "enter")
	if m.values.SwipeThreshold() != 15 {
		t.Fatalf("expected 15, got %d", m.values.SwipeThreshold())
	}
	pressConfig(m, "d")
	if m.values.SwipeThresholdCells != nil || m.values.SwipeThreshold() != 8 {
		t.Fatalf("expected default threshold, got %+v", m.values.SwipeThresholdCells)
	}
	if m.isDirty() {
		t.Fatal("back at the saved value should not be dirty")
	}
}

func TestConfigSaveWritesFile(t *testing.T) {
	m, dir := newTestConfigModel(t)
	selectConfigRow(t, m, cfgFieldShowHints)
	pressConfig(m, "enter")
	selectConfigRow(t, m, cfgFieldCommandMarker)
	pressConfig(m, "enter", "run:", "enter", "w")

	if m.err != nil {
		t.Fatalf("save failed: %v", m.err)
	}
	if m.isDirty() {
		t.Fatal("saved values should not be dirty")
	}

	data, err := os.ReadFile(app.SettingsFilePath(dir))
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["showHints"] != false || raw["commandMarker"] != "run:" {
		t.Fatalf("unexpected settings file %s", data)
	}
	if raw["_showHints"] != true || raw["_commandMarker"] != "cmd " {
		t.Fatalf("default markers missing from %s", data)
	}
	if _, ok := raw["columns"]; ok {
		t.Fatalf("untouched option was written: %s", data)
	}
}

func TestConfigReloadDiscardsChanges(t *testing.T) {
	m, _ := newTestConfigModel(t)
	selectConfigRow(t, m, cfgFieldLaunchCooldown)
	pressConfig(m, "enter", "250", "enter")
	if !m.isDirty() {
		t.Fatal("expected dirty")
	}
	pressConfig(m, "r")
	if m.isDirty() || m.values.LaunchCooldownMs != nil {
		t.Fatalf("reload should restore the file, got %+v", m.values.LaunchCooldownMs)
	}
}

func TestConfigQuitConfirmsWhenDirty(t *testing.T) {
	m, _ := newTestConfigModel(t)
	if cmd := m.handleKey(keyMsg("q")); cmd == nil {
		t.Fatal("clean editor should quit at once")
	}

	selectConfigRow(t, m, cfgFieldShowHints)
	pressConfig(m, "enter")
	if cmd := m.handleKey(keyMsg("q")); cmd != nil {
		t.Fatal("dirty editor should ask before quitting")
	}
	if !m.confirmExit {
		t.Fatal("expected exit confirmation")
	}
	cmd := m.handleKey(keyMsg("q"))
	if cmd == nil {
		t.Fatal("second q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected a quit command")
	}
}

func TestCloneSettingsDoesNotAlias(t *testing.T) {
	marker := "x "
	orig := app.Settings{Columns: intPtr(2), CommandMarker: &marker}
	clone := cloneSettings(orig)
	*clone.Columns = 5
	*clone.CommandMarker = "y "
	if *orig.Columns != 2 || *orig.CommandMarker != "x " {
		t.Fatal("clone shares pointers with the original")
	}
	if !settingsEqual(orig, cloneSettings(orig)) {
		t.Fatal("a fresh clone should compare equal")
	}
}
