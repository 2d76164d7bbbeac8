package deck

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// memStore records every save so tests can assert on persistence.
type memStore struct {
	buttons    []Button
	color      string
	hasColor   bool
	saves      int
	colorSaves []string
	failSave   bool
}

func (s *memStore) Load() []Button {
	return append([]Button(nil), s.buttons...)
}

func (s *memStore) Save(buttons []Button) error {
	if s.failSave {
		return errors.New("disk full")
	}
	s.saves++
	s.buttons = append([]Button(nil), buttons...)
	return nil
}

func (s *memStore) LoadColor() (string, bool) {
	return s.color, s.hasColor
}

func (s *memStore) SaveColor(hex string) error {
	s.colorSaves = append(s.colorSaves, hex)
	s.color = hex
	s.hasColor = true
	return nil
}

func numbered(n int) []Button {
	buttons := make([]Button, n)
	for i := range buttons {
		buttons[i] = Button{Label: string(rune('A' + i)), Target: "/bin/app" + string(rune('A'+i))}
	}
	return buttons
}

func newTestController(t *testing.T, store *memStore) *Controller {
	t.Helper()
	return NewController(store, NewIconAssigner(t.TempDir()), Options{Logger: quietLogger()})
}

func equalButtons(a, b []Button) bool {
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
