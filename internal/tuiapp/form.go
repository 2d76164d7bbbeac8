package tuiapp

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/almahoozi/deckpanel/internal/deck"
)

var formFields = []struct {
	field       deck.Field
	title       string
	placeholder string
}{
	{deck.FieldLabel, "Label", "Shown when there is no icon"},
	{deck.FieldTarget, "Target", "Path, \"cmd <command>\" or voice_command_trigger"},
	{deck.FieldIcon, "Icon", "images/name.png"},
}

// formState holds the popup's inputs. The edit session owns the values; the
// inputs only mirror them.
type formState struct {
	inputs  []textinput.Model
	focused int
}

func newFormState() formState {
	inputs := make([]textinput.Model, len(formFields))
	for i, f := range formFields {
		ti := textinput.New()
		ti.Prompt = "→ "
		ti.Placeholder = f.placeholder
		ti.CharLimit = 0
		ti.Width = 60
		inputs[i] = ti
	}
	return formState{inputs: inputs}
}

func (f *formState) resize(width int) {
	for i := range f.inputs {
		f.inputs[i].Width = max(20, width-12)
	}
}

// load copies session fields into the inputs. resetFocus puts the cursor back
// on the first field, used when the form (re)opens.
func (f *formState) load(fields deck.Fields, resetFocus bool) {
	values := []string{fields.Label, fields.Target, fields.Icon}
	for i := range f.inputs {
		f.inputs[i].SetValue(values[i])
		f.inputs[i].CursorEnd()
	}
	if resetFocus {
		f.focus(0)
	}
}

func (f *formState) focus(idx int) {
	if idx < 0 || idx >= len(f.inputs) {
		return
	}
	f.focused = idx
	for i := range f.inputs {
		if i == idx {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *formState) focusNext(delta int) {
	n := len(f.inputs)
	f.focus(((f.focused+delta)%n + n) % n)
}

func (f *formState) blur() {
	for i := range f.inputs {
		f.inputs[i].Blur()
		f.inputs[i].SetValue("")
	}
	f.focused = 0
}

// update feeds msg to the focused input and reports whether its value changed.
func (f *formState) update(msg tea.Msg) (tea.Cmd, bool) {
	before := f.inputs[f.focused].Value()
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd, f.inputs[f.focused].Value() != before
}

// paste inserts text that was not a file drop into the focused input.
func (f *formState) paste(text string) (tea.Cmd, bool) {
	return f.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text), Paste: true})
}

func (f *formState) focusedValue() (deck.Field, string) {
	return formFields[f.focused].field, f.inputs[f.focused].Value()
}

func (f *formState) value(field deck.Field) string {
	for i, ff := range formFields {
		if ff.field == field {
			return f.inputs[i].Value()
		}
	}
	return ""
}
