package tuiapp

import (
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/almahoozi/deckpanel/internal/deck"
)

// The popup's icon drop zone: a file picker limited to supported images. A
// pick is handled exactly like a file dropped on the open form.
func newIconPicker() filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".png", ".jpg", ".jpeg", ".PNG", ".JPG", ".JPEG"}
	fp.ShowHidden = false
	if home, err := os.UserHomeDir(); err == nil {
		fp.CurrentDirectory = home
	}
	return fp
}

func (m *model) openPicker() tea.Cmd {
	if _, ok := m.ctrl.Session().Index(); !ok {
		m.setStatus("Save the new button before choosing an icon.")
		return nil
	}
	m.picking = true
	return m.picker.Init()
}

func (m *model) updatePicker(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.picking = false
		return nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		return tea.Batch(cmd, m.dispatch(deck.Event{Kind: deck.EventDropOnForm, Path: path}))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.picking = false
		return tea.Batch(cmd, m.dispatch(deck.Event{Kind: deck.EventDropOnForm, Path: path}))
	}
	return cmd
}
