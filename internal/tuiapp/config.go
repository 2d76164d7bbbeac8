package tuiapp

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/almahoozi/deckpanel/internal/app"
	"github.com/almahoozi/deckpanel/internal/deck"
)

type cfgRowKind int

const (
	cfgRowBool cfgRowKind = iota
	cfgRowInt
	cfgRowText
)

type configField int

const (
	cfgFieldShowHints configField = iota
	cfgFieldStatusDuration
	cfgFieldColumns
	cfgFieldSwipeThreshold
	cfgFieldLaunchCooldown
	cfgFieldCommandMarker
)

type configRow struct {
	kind  cfgRowKind
	field configField
	title string
}

var configRows = []configRow{
	{cfgRowBool, cfgFieldShowHints, "Show hints"},
	{cfgRowInt, cfgFieldStatusDuration, "Status duration (ms)"},
	{cfgRowInt, cfgFieldColumns, "Grid columns"},
	{cfgRowInt, cfgFieldSwipeThreshold, "Swipe threshold (cells)"},
	{cfgRowInt, cfgFieldLaunchCooldown, "Launch cooldown (ms)"},
	{cfgRowText, cfgFieldCommandMarker, "Command marker"},
}

// cloneSettings deep-copies the pointer fields so edits never alias the
// original.
func cloneSettings(s app.Settings) app.Settings {
	out := app.Settings{}
	if s.ShowHints != nil {
		out.ShowHints = boolPtr(*s.ShowHints)
	}
	if s.StatusMessageDurationMs != nil {
		out.StatusMessageDurationMs = intPtr(*s.StatusMessageDurationMs)
	}
	if s.Columns != nil {
		out.Columns = intPtr(*s.Columns)
	}
	if s.SwipeThresholdCells != nil {
		out.SwipeThresholdCells = intPtr(*s.SwipeThresholdCells)
	}
	if s.LaunchCooldownMs != nil {
		out.LaunchCooldownMs = intPtr(*s.LaunchCooldownMs)
	}
	if s.CommandMarker != nil {
		marker := *s.CommandMarker
		out.CommandMarker = &marker
	}
	return out
}

func settingsEqual(a, b app.Settings) bool {
	return eqPtr(a.ShowHints, b.ShowHints) &&
		eqPtr(a.StatusMessageDurationMs, b.StatusMessageDurationMs) &&
		eqPtr(a.Columns, b.Columns) &&
		eqPtr(a.SwipeThresholdCells, b.SwipeThresholdCells) &&
		eqPtr(a.LaunchCooldownMs, b.LaunchCooldownMs) &&
		eqPtr(a.CommandMarker, b.CommandMarker)
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (f configField) intRef(s *app.Settings) **int {
	switch f {
	case cfgFieldStatusDuration:
		return &s.StatusMessageDurationMs
	case cfgFieldColumns:
		return &s.Columns
	case cfgFieldSwipeThreshold:
		return &s.SwipeThresholdCells
	case cfgFieldLaunchCooldown:
		return &s.LaunchCooldownMs
	}
	return nil
}

// configModel edits settings.json. Nothing is written until the user saves.
type configModel struct {
	dir      string
	values   app.Settings
	original app.Settings
	selected int

	editing bool
	input   textinput.Model

	status         string
	statusSeq      int
	statusTimeout  time.Duration
	statusTimerCmd tea.Cmd
	confirmExit    bool

	err    error
	width  int
	height int
}

func newConfigModel(dir string, settings app.Settings) *configModel {
	ti := textinput.New()
	ti.CharLimit = 0
	return &configModel{
		dir:           dir,
		values:        cloneSettings(settings),
		original:      cloneSettings(settings),
		input:         ti,
		statusTimeout: settings.StatusMessageDuration(),
	}
}

func (m *configModel) Init() tea.Cmd {
	return nil
}

func (m *configModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.editing {
		var inputCmd tea.Cmd
		m.input, inputCmd = m.input.Update(msg)
		if inputCmd != nil {
			cmds = append(cmds, inputCmd)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(20, m.width-4)
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case statusTimeoutMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
	case externalOpenResultMsg:
		if msg.kind == openKindSettings {
			m.handleConfigFileResult(msg.err)
		}
	}

	if m.statusTimerCmd != nil {
		cmds = append(cmds, m.statusTimerCmd)
		m.statusTimerCmd = nil
	}

	return m, tea.Batch(cmds...)
}

func (m *configModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if m.editing {
		switch key {
		case "enter":
			m.commitEdit()
		case "esc", "ctrl+c":
			m.finishEditing()
		}
		return nil
	}

	switch key {
	case "ctrl+c":
		return tea.Quit
	case "q":
		return m.handleQuit()
	case "up", "k":
		m.moveSelection(-1)
	case "down", "j":
		m.moveSelection(1)
	case "enter", " ":
		m.activateSelection()
	case "d":
		m.resetSelection()
	case "w":
		m.saveChanges()
	case "r":
		m.reloadFromDisk()
	case "e":
		return m.openConfigJSON()
	}
	return nil
}

func (m *configModel) handleQuit() tea.Cmd {
	if !m.isDirty() || m.confirmExit {
		return tea.Quit
	}
	m.confirmExit = true
	m.setStatus("Unsaved changes. Press q again to exit without saving.")
	return nil
}

func (m *configModel) moveSelection(delta int) {
	m.selected = min(max(m.selected+delta, 0), len(configRows)-1)
}

func (m *configModel) activateSelection() {
	row := configRows[m.selected]
	switch row.kind {
	case cfgRowBool:
		m.values.ShowHints = boolPtr(!m.values.HintsEnabled())
		m.confirmExit = false
	case cfgRowInt:
		value := ""
		if p := *row.field.intRef(&m.values); p != nil {
			value = strconv.Itoa(*p)
		}
		m.startEdit(row.title, value)
	case cfgRowText:
		value := ""
		if m.values.CommandMarker != nil {
			value = *m.values.CommandMarker
		}
		m.startEdit(row.title, value)
	}
}

func (m *configModel) startEdit(placeholder, value string) {
	m.editing = true
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

// commitEdit applies the input. An empty value returns the option to its
// default.
func (m *configModel) commitEdit() {
	row := configRows[m.selected]
	raw := m.input.Value()
	switch row.kind {
	case cfgRowInt:
		ref := row.field.intRef(&m.values)
		if strings.TrimSpace(raw) == "" {
			*ref = nil
			break
		}
		val, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || val <= 0 {
			m.setStatus("Enter a positive whole number.")
			return
		}
		if row.field == cfgFieldColumns && val > deck.PageSize {
			m.setStatus(fmt.Sprintf("A page holds %d buttons; use at most %d columns.", deck.PageSize, deck.PageSize))
			return
		}
		*ref = intPtr(val)
	case cfgRowText:
		if strings.TrimSpace(raw) == "" {
			m.values.CommandMarker = nil
		} else {
			m.values.CommandMarker = &raw
		}
	}
	m.finishEditing()
	m.confirmExit = false
}

func (m *configModel) finishEditing() {
	m.editing = false
	m.input.Blur()
}

func (m *configModel) resetSelection() {
	row := configRows[m.selected]
	switch row.kind {
	case cfgRowBool:
		m.values.ShowHints = nil
	case cfgRowInt:
		*row.field.intRef(&m.values) = nil
	case cfgRowText:
		m.values.CommandMarker = nil
	}
	m.confirmExit = false
	m.setStatus("Option reset to default.")
}

func (m *configModel) isDirty() bool {
	return !settingsEqual(m.values, m.original)
}

func (m *configModel) saveChanges() {
	if err := app.SaveSettings(m.dir, m.values); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.original = cloneSettings(m.values)
	m.confirmExit = false
	m.setStatus("Settings saved.")
}

func (m *configModel) reloadFromDisk() {
	if err := m.loadConfigFromDisk(); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.setStatus("Changes discarded.")
}

func (m *configModel) loadConfigFromDisk() error {
	settings, err := app.LoadSettings(m.dir)
	if err != nil {
		return err
	}
	m.values = cloneSettings(settings)
	m.original = cloneSettings(settings)
	m.confirmExit = false
	return nil
}

func (m *configModel) openConfigJSON() tea.Cmd {
	if m.isDirty() {
		m.setStatus("Save or discard changes before opening the settings file.")
		return nil
	}
	m.setStatus("Opened settings file in editor.")
	return openFileInEditorCmd(app.SettingsFilePath(m.dir), openKindSettings)
}

func (m *configModel) handleConfigFileResult(err error) {
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	if loadErr := m.loadConfigFromDisk(); loadErr != nil {
		m.err = loadErr
		return
	}
	m.setStatus("Settings reloaded from disk.")
}

func (m *configModel) rowValue(row configRow) string {
	switch row.field {
	case cfgFieldShowHints:
		return optionLabel(fmt.Sprintf("%t", m.values.HintsEnabled()), m.values.ShowHints == nil)
	case cfgFieldStatusDuration:
		return optionLabel(fmt.Sprintf("%d", m.values.StatusMessageDuration().Milliseconds()), m.values.StatusMessageDurationMs == nil)
	case cfgFieldColumns:
		return optionLabel(strconv.Itoa(m.values.GridColumns()), m.values.Columns == nil)
	case cfgFieldSwipeThreshold:
		return optionLabel(strconv.Itoa(m.values.SwipeThreshold()), m.values.SwipeThresholdCells == nil)
	case cfgFieldLaunchCooldown:
		return optionLabel(fmt.Sprintf("%d", m.values.LaunchCooldown().Milliseconds()), m.values.LaunchCooldownMs == nil)
	case cfgFieldCommandMarker:
		return optionLabel(strconv.Quote(m.values.Marker()), m.values.CommandMarker == nil)
	}
	return ""
}

func (m *configModel) View() string {
	var b strings.Builder
	b.WriteString("Settings")
	if m.isDirty() {
		b.WriteString(" *")
	}
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("Error: %v\n\n", m.err))
	}

	for idx, row := range configRows {
		marker := " "
		if idx == m.selected {
			marker = ">"
		}
		b.WriteString(fmt.Sprintf("%s  %s: %s\n", marker, row.title, m.rowValue(row)))
	}

	b.WriteString("\nCommands: Enter edit/toggle • d default • w write • r reload • e edit file • q quit\n")
	if m.editing {
		b.WriteString("\n" + m.input.View() + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status))
	}
	return b.String()
}

func (m *configModel) setStatus(text string) {
	m.status = text
	m.statusSeq++
	if text == "" || m.statusTimeout <= 0 {
		m.statusTimerCmd = nil
		return
	}
	seq := m.statusSeq
	m.statusTimerCmd = tea.Tick(m.statusTimeout, func(time.Time) tea.Msg {
		return statusTimeoutMsg{seq: seq}
	})
}

func optionLabel(value string, isDefault bool) string {
	if isDefault {
		return value + " (default)"
	}
	return value
}

func intPtr(v int) *int {
	i := v
	return &i
}

// RunConfigEditor opens the settings editor for the panel's config directory.
func RunConfigEditor() error {
	dir, err := app.ConfigDir()
	if err != nil {
		return err
	}
	if err := deck.EnsureDir(dir); err != nil {
		return err
	}
	settings, err := app.LoadSettings(dir)
	if err != nil {
		return fmt.Errorf("cannot load settings: %w", err)
	}
	return runProgram(newConfigModel(dir, settings))
}
