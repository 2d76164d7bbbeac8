package tuiapp

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	zone "github.com/lrstanley/bubblezone"

	"github.com/almahoozi/deckpanel/internal/app"
	"github.com/almahoozi/deckpanel/internal/deck"
	"github.com/almahoozi/deckpanel/internal/launch"
)

var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

type statusTimeoutMsg struct {
	seq int
}

type launchResultMsg struct {
	target string
	label  string
	err    error
}

type voiceResultMsg struct {
	active bool
	err    error
}

type model struct {
	dir       string
	assetsDir string
	settings  app.Settings
	logger    *log.Logger

	store    *deck.FileStore
	ctrl     *deck.Controller
	launcher *launch.Launcher
	zones    *zone.Manager
	watcher  *fsnotify.Watcher

	form    formState
	picker  filepicker.Model
	picking bool

	selected  int
	hover     int
	pressing  bool
	pressX    int
	showHints bool

	status         string
	statusSeq      int
	statusTimeout  time.Duration
	statusTimerCmd tea.Cmd

	width  int
	height int
}

func newModel(dir string, settings app.Settings, logger *log.Logger) (*model, error) {
	if logger == nil {
		logger = log.Default()
	}
	env, err := launch.LoadEnv(dir)
	if err != nil {
		logger.Warn("ignoring launch environment file", "err", err)
	}

	store := deck.NewFileStore(dir, logger)
	ctrl := deck.NewController(store, deck.NewIconAssigner(dir), deck.Options{
		SwipeThreshold: settings.SwipeThreshold(),
		Logger:         logger,
	})

	m := &model{
		dir:       dir,
		assetsDir: app.AssetsDir(),
		settings:  settings,
		logger:    logger,
		store:     store,
		ctrl:      ctrl,
		launcher: launch.New(launch.Options{
			Marker:   settings.Marker(),
			Env:      env,
			Cooldown: settings.LaunchCooldown(),
			Logger:   logger,
		}),
		zones:         zone.New(),
		form:          newFormState(),
		picker:        newIconPicker(),
		hover:         -1,
		showHints:     settings.HintsEnabled(),
		statusTimeout: settings.StatusMessageDuration(),
	}

	watcher, err := newButtonsWatcher(dir)
	if err != nil {
		logger.Warn("not watching buttons file for external edits", "err", err)
	} else {
		m.watcher = watcher
	}
	return m, nil
}

func (m *model) close() {
	if m.watcher != nil {
		m.watcher.Close()
	}
	m.zones.Close()
}

func (m *model) Init() tea.Cmd {
	if m.watcher != nil {
		return watchButtons(m.watcher)
	}
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.picking {
		if cmd := m.updatePicker(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		// Input belongs to the picker even when it just closed it.
		switch msg.(type) {
		case tea.KeyMsg, tea.MouseMsg:
			return m, m.flush(cmds)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.form.resize(m.width)
		if !m.picking {
			m.picker, _ = m.picker.Update(msg)
		}
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case tea.MouseMsg:
		if cmd := m.handleMouse(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case buttonsChangedMsg:
		m.reloadFromDisk()
		cmds = append(cmds, watchButtons(m.watcher))
	case watchErrorMsg:
		m.logger.Warn("buttons watcher error", "err", msg.err)
		cmds = append(cmds, watchButtons(m.watcher))
	case externalOpenResultMsg:
		if msg.kind == openKindButtons {
			m.handleButtonsFileResult(msg.err)
		}
	case launchResultMsg:
		m.handleLaunchResult(msg)
	case voiceResultMsg:
		if msg.err != nil && !errors.Is(msg.err, errors.ErrUnsupported) {
			m.logger.Error("voice access toggle failed", "err", msg.err)
		}
	case statusTimeoutMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
	}

	return m, m.flush(cmds)
}

// flush appends a pending status timer to cmds and batches them.
func (m *model) flush(cmds []tea.Cmd) tea.Cmd {
	if m.statusTimerCmd != nil {
		cmds = append(cmds, m.statusTimerCmd)
		m.statusTimerCmd = nil
	}
	return tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.picking {
		if msg.String() == "ctrl+c" {
			return tea.Quit
		}
		return nil
	}

	if msg.Paste {
		return m.handleDrop(string(msg.Runes))
	}

	if m.ctrl.Session().Open() {
		return m.handleFormKey(msg)
	}

	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		return tea.Quit
	case "h", "?":
		m.toggleHints()
	case "left":
		m.moveSelection(-1)
	case "right":
		m.moveSelection(1)
	case "up":
		m.moveSelection(-m.settings.GridColumns())
	case "down":
		m.moveSelection(m.settings.GridColumns())
	case "pgdown", "]", "n":
		return m.dispatch(deck.Event{Kind: deck.EventNextPage})
	case "pgup", "[", "p":
		return m.dispatch(deck.Event{Kind: deck.EventPrevPage})
	case "enter", " ":
		return m.dispatch(deck.Event{Kind: deck.EventActivate, Slot: m.selected})
	case "e":
		return m.dispatch(deck.Event{Kind: deck.EventEdit, Slot: m.selected})
	case "m", "+":
		return m.dispatch(deck.Event{Kind: deck.EventToggleMenu})
	case "b":
		return m.dispatch(deck.Event{Kind: deck.EventBackgroundTap, At: time.Now()})
	case "o":
		return m.openButtonsJSON()
	}
	return nil
}

func (m *model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		return m.dispatch(deck.Event{Kind: deck.EventToggleMenu})
	case "enter":
		return m.dispatch(deck.Event{Kind: deck.EventSubmit})
	case "ctrl+d":
		return m.dispatch(deck.Event{Kind: deck.EventDelete})
	case "ctrl+o":
		return m.openPicker()
	case "tab", "down":
		m.form.focusNext(1)
		return nil
	case "shift+tab", "up":
		m.form.focusNext(-1)
		return nil
	}

	cmd, changed := m.form.update(msg)
	if changed {
		field, value := m.form.focusedValue()
		m.dispatch(deck.Event{Kind: deck.EventSetField, Field: field, Value: value})
	}
	return cmd
}

// handleDrop treats pasted text as a dropped file. While editing, an image
// goes to the button being edited and anything else (or anything pasted into
// the add form) is typed into the focused field. With the form closed the
// drop goes to the button under the pointer, falling back to the keyboard
// selection.
func (m *model) handleDrop(text string) tea.Cmd {
	path, ok := parseDroppedPath(text)
	session := m.ctrl.Session()
	if session.Open() {
		if session.State() == deck.SessionEditing && ok && isExistingFile(path) && deck.IsIconFile(path) {
			return m.dispatch(deck.Event{Kind: deck.EventDropOnForm, Path: path})
		}
		if ok && isExistingFile(path) {
			text = path
		}
		cmd, changed := m.form.paste(text)
		if changed {
			field, value := m.form.focusedValue()
			m.dispatch(deck.Event{Kind: deck.EventSetField, Field: field, Value: value})
		}
		return cmd
	}
	if !ok {
		return nil
	}
	slot := m.selected
	if m.hover >= 0 {
		slot = m.hover
	}
	return m.dispatch(deck.Event{Kind: deck.EventDropOnButton, Slot: slot, Path: path})
}

// dispatch sends ev to the controller and turns UI effects into commands.
func (m *model) dispatch(ev deck.Event) tea.Cmd {
	wasOpen := m.ctrl.Session().Open()
	effects, err := m.ctrl.Dispatch(ev)
	if err != nil {
		m.setStatus(describeError(err))
	}

	var cmds []tea.Cmd
	for _, eff := range effects {
		switch eff.Kind {
		case deck.EffectLaunch:
			cmds = append(cmds, m.launchCmd(eff.Target, m.labelFor(ev.Slot)))
		case deck.EffectVoiceToggle:
			cmds = append(cmds, m.voiceCmd(eff.Active))
			if eff.Active {
				m.setStatus("Voice access on.")
			} else {
				m.setStatus("Voice access off.")
			}
		case deck.EffectSave:
			if err == nil {
				m.setStatus(savedStatus(ev.Kind))
			}
		}
	}

	switch ev.Kind {
	case deck.EventEdit, deck.EventToggleMenu, deck.EventDropOnButton, deck.EventDropOnForm,
		deck.EventSubmit, deck.EventDelete, deck.EventReload:
		session := m.ctrl.Session()
		if session.Open() {
			m.form.load(session.Fields, !wasOpen || ev.Kind == deck.EventEdit || ev.Kind == deck.EventToggleMenu)
		} else {
			m.form.blur()
		}
	}
	m.clampSelection()
	return tea.Batch(cmds...)
}

func savedStatus(kind deck.EventKind) string {
	switch kind {
	case deck.EventSubmit:
		return "Button saved."
	case deck.EventDelete:
		return "Button deleted."
	case deck.EventDropOnButton, deck.EventDropOnForm:
		return "Icon assigned."
	}
	return ""
}

func describeError(err error) string {
	switch {
	case errors.Is(err, deck.ErrInvalidFileType):
		return "Only .png, .jpg and .jpeg files can be used as icons."
	case errors.Is(err, deck.ErrOutOfRange):
		return "That button changed in the meantime; nothing was saved."
	case errors.Is(err, deck.ErrIO):
		return "Could not copy the icon."
	}
	return err.Error()
}

func (m *model) labelFor(slot int) string {
	visible := m.ctrl.Visible()
	if slot < 0 || slot >= len(visible) {
		return ""
	}
	return visible[slot].Label
}

func (m *model) launchCmd(target, label string) tea.Cmd {
	l := m.launcher
	return func() tea.Msg {
		return launchResultMsg{target: target, label: label, err: l.Launch(target)}
	}
}

func (m *model) voiceCmd(active bool) tea.Cmd {
	l := m.launcher
	return func() tea.Msg {
		return voiceResultMsg{active: active, err: l.ToggleVoiceAccess(active)}
	}
}

// handleLaunchResult only reports successes; failures are already logged by
// the launcher and never shown on the grid.
func (m *model) handleLaunchResult(msg launchResultMsg) {
	if msg.err != nil {
		return
	}
	name := msg.label
	if strings.TrimSpace(name) == "" {
		name = msg.target
	}
	m.setStatus(fmt.Sprintf("Launched %s", name))
}

// reloadFromDisk picks up external edits of buttons.json. Our own saves come
// back through the watcher too; those compare equal and are ignored.
func (m *model) reloadFromDisk() {
	buttons, err := m.store.ReadButtons()
	if err != nil {
		m.logger.Warn("ignoring unreadable buttons file change", "err", err)
		return
	}
	if buttonsEqual(buttons, m.ctrl.Buttons()) {
		return
	}
	m.logger.Info("buttons file changed on disk, reloading", "count", len(buttons))
	m.dispatch(deck.Event{Kind: deck.EventReload, Buttons: buttons})
	m.setStatus("Buttons reloaded from disk.")
}

func buttonsEqual(a, b []deck.Button) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (m *model) moveSelection(delta int) {
	m.selected += delta
	m.clampSelection()
}

func (m *model) clampSelection() {
	count := len(m.ctrl.Visible())
	if count == 0 {
		m.selected = 0
		return
	}
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected >= count {
		m.selected = count - 1
	}
}

func (m *model) toggleHints() {
	m.showHints = !m.showHints
	m.settings.ShowHints = boolPtr(m.showHints)
	if err := app.SaveSettings(m.dir, m.settings); err != nil {
		m.logger.Error("failed to save settings", "err", err)
	}
	if m.showHints {
		m.setStatus("Hints enabled.")
	} else {
		m.setStatus("Hints hidden.")
	}
}

func (m *model) setStatus(text string) {
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

func boolPtr(v bool) *bool {
	b := v
	return &b
}
