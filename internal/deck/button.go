package deck

import (
	"fmt"
	"strings"
)

// Button is one grid cell. Target is persisted as "path" to stay compatible
// with hand-edited buttons.json files.
type Button struct {
	Label  string `json:"label"`
	Target string `json:"path"`
	Icon   string `json:"icon"`
}

// HasIcon reports whether the button shows an icon instead of its label.
func (b Button) HasIcon() bool {
	return strings.TrimSpace(b.Icon) != ""
}

// ButtonList is the ordered set of buttons. Position is identity, so every
// mutation bumps the revision and anything holding an index can tell the list
// moved underneath it.
type ButtonList struct {
	items []Button
	rev   uint64
}

func NewButtonList(items []Button) *ButtonList {
	return &ButtonList{items: append([]Button(nil), items...)}
}

func (l *ButtonList) Len() int {
	return len(l.items)
}

func (l *ButtonList) Revision() uint64 {
	return l.rev
}

func (l *ButtonList) Get(index int) (Button, error) {
	if err := l.check(index); err != nil {
		return Button{}, err
	}
	return l.items[index], nil
}

func (l *ButtonList) Append(b Button) {
	l.items = append(l.items, b)
	l.rev++
}

func (l *ButtonList) Replace(index int, b Button) error {
	if err := l.check(index); err != nil {
		return err
	}
	l.items[index] = b
	l.rev++
	return nil
}

func (l *ButtonList) RemoveAt(index int) error {
	if err := l.check(index); err != nil {
		return err
	}
	l.items = append(l.items[:index], l.items[index+1:]...)
	l.rev++
	return nil
}

// Slice returns a copy of up to count buttons starting at start. Out of range
// starts give an empty result rather than an error.
func (l *ButtonList) Slice(start, count int) []Button {
	if start < 0 {
		start = 0
	}
	if count <= 0 || start >= len(l.items) {
		return []Button{}
	}
	end := start + count
	if end > len(l.items) {
		end = len(l.items)
	}
	return append([]Button(nil), l.items[start:end]...)
}

// All returns a copy of every button in display order.
func (l *ButtonList) All() []Button {
	return l.Slice(0, len(l.items))
}

// Reset swaps in a new sequence, e.g. after an external edit of the file.
func (l *ButtonList) Reset(items []Button) {
	l.items = append([]Button(nil), items...)
	l.rev++
}

func (l *ButtonList) check(index int) error {
	if index < 0 || index >= len(l.items) {
		return fmt.Errorf("%w: %d (have %d)", ErrOutOfRange, index, len(l.items))
	}
	return nil
}
