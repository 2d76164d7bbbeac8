package deck

import "fmt"

type SessionState int

const (
	SessionClosed SessionState = iota
	SessionAdding
	SessionEditing
)

func (s SessionState) String() string {
	switch s {
	case SessionAdding:
		return "adding"
	case SessionEditing:
		return "editing"
	default:
		return "closed"
	}
}

// Field names a form input.
type Field int

const (
	FieldLabel Field = iota
	FieldTarget
	FieldIcon
)

// Fields mirrors the popup form.
type Fields struct {
	Label  string
	Target string
	Icon   string
}

func (f Fields) Button() Button {
	return Button{Label: f.Label, Target: f.Target, Icon: f.Icon}
}

func fieldsOf(b Button) Fields {
	return Fields{Label: b.Label, Target: b.Target, Icon: b.Icon}
}

// EditSession drives the add/edit/delete popup. While editing it remembers the
// list revision it was opened against; any other mutation of the list in the
// meantime invalidates the index and the submit is rejected.
type EditSession struct {
	state  SessionState
	index  int
	rev    uint64
	Fields Fields
}

func (s *EditSession) State() SessionState {
	return s.state
}

func (s *EditSession) Open() bool {
	return s.state != SessionClosed
}

// Index returns the button being edited.
func (s *EditSession) Index() (int, bool) {
	if s.state != SessionEditing {
		return 0, false
	}
	return s.index, true
}

// ToggleMenu opens a blank add form, or closes whatever form is open.
func (s *EditSession) ToggleMenu() {
	if s.state == SessionClosed {
		s.state = SessionAdding
		s.index = 0
		s.Fields = Fields{}
		return
	}
	s.Close()
}

// Edit opens the form for list[index], pre-populating every field so a submit
// is a full overwrite.
func (s *EditSession) Edit(list *ButtonList, index int) error {
	btn, err := list.Get(index)
	if err != nil {
		return err
	}
	s.state = SessionEditing
	s.index = index
	s.rev = list.Revision()
	s.Fields = fieldsOf(btn)
	return nil
}

func (s *EditSession) Set(field Field, value string) {
	switch field {
	case FieldLabel:
		s.Fields.Label = value
	case FieldTarget:
		s.Fields.Target = value
	case FieldIcon:
		s.Fields.Icon = value
	}
}

func (s *EditSession) Close() {
	s.state = SessionClosed
	s.index = 0
	s.rev = 0
	s.Fields = Fields{}
}

// Submit applies the form to list. It returns the index of the written button.
func (s *EditSession) Submit(list *ButtonList) (int, error) {
	switch s.state {
	case SessionAdding:
		list.Append(s.Fields.Button())
		s.Close()
		return list.Len() - 1, nil
	case SessionEditing:
		if err := s.validate(list); err != nil {
			return 0, err
		}
		idx := s.index
		if err := list.Replace(idx, s.Fields.Button()); err != nil {
			return 0, err
		}
		s.Close()
		return idx, nil
	default:
		return 0, fmt.Errorf("no form open")
	}
}

// Delete removes the button being edited. It reports false when there is
// nothing to delete (closed or adding).
func (s *EditSession) Delete(list *ButtonList) (bool, error) {
	if s.state != SessionEditing {
		return false, nil
	}
	if err := s.validate(list); err != nil {
		return false, err
	}
	if err := list.RemoveAt(s.index); err != nil {
		return false, err
	}
	s.Close()
	return true, nil
}

// Rebase accepts the current list revision, used after the session itself
// caused the mutation (e.g. an icon dropped on the open form).
func (s *EditSession) Rebase(list *ButtonList) {
	if s.state == SessionEditing {
		s.rev = list.Revision()
	}
}

func (s *EditSession) validate(list *ButtonList) error {
	if s.index < 0 || s.index >= list.Len() {
		return fmt.Errorf("%w: %d (have %d)", ErrOutOfRange, s.index, list.Len())
	}
	if s.rev != list.Revision() {
		return fmt.Errorf("%w: button %d moved since the form was opened", ErrOutOfRange, s.index)
	}
	return nil
}
