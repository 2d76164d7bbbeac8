package tuiapp

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/almahoozi/deckpanel/internal/deck"
)

// handleMouse maps pointer input onto panel events. A left press/release pair
// is either a tap (on a button, a nav control or the background) or, when it
// travelled far enough sideways, a swipe.
func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.picking {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Action == tea.MouseActionPress && !m.ctrl.Session().Open() {
			return m.dispatch(deck.Event{Kind: deck.EventPrevPage})
		}
		return nil
	case tea.MouseButtonWheelDown:
		if msg.Action == tea.MouseActionPress && !m.ctrl.Session().Open() {
			return m.dispatch(deck.Event{Kind: deck.EventNextPage})
		}
		return nil
	case tea.MouseButtonRight:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		if slot, ok := m.slotAt(msg); ok {
			return m.dispatch(deck.Event{Kind: deck.EventEdit, Slot: slot})
		}
		return nil
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		if slot, ok := m.slotAt(msg); ok {
			m.hover = slot
		} else {
			m.hover = -1
		}
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.pressing = true
			m.pressX = msg.X
		}
	case tea.MouseActionRelease:
		if !m.pressing {
			return nil
		}
		m.pressing = false
		delta := msg.X - m.pressX
		if !m.ctrl.Session().Open() && abs(delta) > m.settings.SwipeThreshold() {
			return m.dispatch(deck.Event{Kind: deck.EventSwipe, Delta: delta})
		}
		return m.handleTap(msg)
	}
	return nil
}

func (m *model) handleTap(msg tea.MouseMsg) tea.Cmd {
	if m.ctrl.Session().Open() {
		return m.handleFormTap(msg)
	}
	if slot, ok := m.slotAt(msg); ok {
		m.selected = slot
		return m.dispatch(deck.Event{Kind: deck.EventActivate, Slot: slot})
	}
	switch {
	case m.inZone(zonePrev, msg):
		return m.dispatch(deck.Event{Kind: deck.EventPrevPage})
	case m.inZone(zoneNext, msg):
		return m.dispatch(deck.Event{Kind: deck.EventNextPage})
	case m.inZone(zoneMenu, msg):
		return m.dispatch(deck.Event{Kind: deck.EventToggleMenu})
	}
	return m.dispatch(deck.Event{Kind: deck.EventBackgroundTap, At: time.Now()})
}

func (m *model) handleFormTap(msg tea.MouseMsg) tea.Cmd {
	switch {
	case m.inZone(zoneSubmit, msg):
		return m.dispatch(deck.Event{Kind: deck.EventSubmit})
	case m.inZone(zoneDelete, msg):
		return m.dispatch(deck.Event{Kind: deck.EventDelete})
	case m.inZone(zoneCancel, msg):
		return m.dispatch(deck.Event{Kind: deck.EventToggleMenu})
	case m.inZone(zoneDropZone, msg):
		return m.openPicker()
	}
	for i := range m.form.inputs {
		if m.inZone(fieldZone(i), msg) {
			m.form.focus(i)
			return nil
		}
	}
	return nil
}

// slotAt returns the grid position under the pointer, if it holds a button.
func (m *model) slotAt(msg tea.MouseMsg) (int, bool) {
	if m.ctrl.Session().Open() {
		return 0, false
	}
	for i := range m.ctrl.Visible() {
		if m.inZone(slotZone(i), msg) {
			return i, true
		}
	}
	return 0, false
}

func (m *model) inZone(id string, msg tea.MouseMsg) bool {
	info := m.zones.Get(id)
	return info != nil && info.InBounds(msg)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
