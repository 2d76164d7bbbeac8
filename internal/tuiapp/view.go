package tuiapp

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/almahoozi/deckpanel/internal/deck"
)

const (
	zonePrev     = "nav-prev"
	zoneNext     = "nav-next"
	zoneMenu     = "nav-menu"
	zoneSubmit   = "form-submit"
	zoneDelete   = "form-delete"
	zoneCancel   = "form-cancel"
	zoneDropZone = "form-drop"
)

func slotZone(i int) string {
	return fmt.Sprintf("slot-%d", i)
}

func fieldZone(i int) string {
	return fmt.Sprintf("field-%d", i)
}

const (
	cellWidth  = 22
	cellHeight = 5
)

var (
	cellStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Height(cellHeight).
			Align(lipgloss.Center, lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	selectedCellStyle = cellStyle.BorderForeground(lipgloss.Color("212"))
	hoverCellStyle    = cellStyle.BorderForeground(lipgloss.Color("117"))
	emptyCellStyle    = cellStyle.BorderForeground(lipgloss.Color("236"))

	navStyle    = lipgloss.NewStyle().Padding(0, 2).Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true)
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	buttonStyle = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder())
	dangerStyle = buttonStyle.Foreground(lipgloss.Color("203"))
	dropStyle   = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("117"))
)

func (m *model) View() string {
	var b strings.Builder
	if m.ctrl.Session().Open() {
		b.WriteString(m.renderForm())
	} else {
		b.WriteString(m.renderGrid())
	}

	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status))
	}

	out := b.String() + "\n"
	if bg := m.ctrl.Background(); bg != "" {
		style := lipgloss.NewStyle().Background(lipgloss.Color(bg))
		if m.width > 0 && m.height > 0 {
			style = style.Width(m.width).Height(m.height)
		}
		out = style.Render(out)
	}
	return m.zones.Scan(out)
}

func (m *model) renderGrid() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Page %d/%d", m.ctrl.Page()+1, m.ctrl.PageCount())))
	if m.ctrl.VoiceActive() {
		b.WriteString("  " + labelStyle.Render("voice access on"))
	}
	b.WriteString("\n\n")
	if m.showHints {
		b.WriteString("click/enter launch • right-click/e edit • m add • swipe/[ ] page • double-click background recolor\n")
		b.WriteString("drop an image on a button to set its icon • o open buttons.json • h/? toggle hints • q quit\n\n")
	}

	visible := m.ctrl.Visible()
	if len(visible) == 0 {
		b.WriteString("No buttons yet. Press m to add one.\n\n")
	} else {
		cols := m.settings.GridColumns()
		var rows []string
		var row []string
		for i := 0; i < deck.PageSize; i++ {
			row = append(row, m.renderCell(i, visible))
			if len(row) == cols {
				rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
				row = nil
			}
		}
		if len(row) > 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
		}
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n\n")
	}

	nav := lipgloss.JoinHorizontal(lipgloss.Top,
		m.zones.Mark(zonePrev, navStyle.Render("◀ prev")),
		m.zones.Mark(zoneMenu, navStyle.Render("☰ menu")),
		m.zones.Mark(zoneNext, navStyle.Render("next ▶")),
	)
	b.WriteString(nav + "\n")
	return b.String()
}

// renderCell draws slot i. Terminals cannot show images, so a button with an
// icon shows the icon's file name, and its label otherwise.
func (m *model) renderCell(i int, visible []deck.Button) string {
	if i >= len(visible) {
		return emptyCellStyle.Render("")
	}
	btn := visible[i]
	text := btn.Label
	if icon := m.ctrl.IconFor(btn); icon != "" {
		if _, ok := deck.ResolveIcon(m.dir, m.assetsDir, icon); ok {
			text = "▣ " + strings.TrimSuffix(filepath.Base(icon), filepath.Ext(icon))
		} else if text == "" {
			text = "? " + filepath.Base(icon)
		}
	}
	if strings.TrimSpace(text) == "" {
		text = labelStyle.Render("(untitled)")
	}

	style := cellStyle
	switch {
	case i == m.hover:
		style = hoverCellStyle
	case i == m.selected:
		style = selectedCellStyle
	}
	return m.zones.Mark(slotZone(i), style.Render(text))
}

func (m *model) renderForm() string {
	session := m.ctrl.Session()
	var b strings.Builder
	title := "Add button"
	if idx, ok := session.Index(); ok {
		title = fmt.Sprintf("Edit button %d", idx+1)
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")

	for i, f := range formFields {
		line := labelStyle.Render(f.title) + "\n" + m.form.inputs[i].View()
		b.WriteString(m.zones.Mark(fieldZone(i), line) + "\n\n")
	}

	buttons := []string{m.zones.Mark(zoneSubmit, buttonStyle.Render("Submit"))}
	if session.State() == deck.SessionEditing {
		buttons = append(buttons, m.zones.Mark(zoneDelete, dangerStyle.Render("Delete")))
	}
	buttons = append(buttons, m.zones.Mark(zoneCancel, buttonStyle.Render("Cancel")))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons...) + "\n\n")

	if session.State() == deck.SessionEditing {
		if m.picking {
			b.WriteString("Choose an icon (esc to cancel)\n")
			b.WriteString(m.picker.View() + "\n")
		} else {
			b.WriteString(m.zones.Mark(zoneDropZone, dropStyle.Render("Drop an image here or click to browse")) + "\n")
		}
	}

	if m.showHints {
		b.WriteString("\nenter submit • tab next field • ctrl+d delete • ctrl+o browse icons • esc close\n")
	}
	return b.String()
}
