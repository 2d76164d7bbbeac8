package deck

import (
	"errors"
	"testing"
)

func TestSessionMenuToggle(t *testing.T) {
	var s EditSession
	s.ToggleMenu()
	if s.State() != SessionAdding {
		t.Fatalf("expected adding, got %s", s.State())
	}
	if s.Fields != (Fields{}) {
		t.Errorf("add form should start blank, got %+v", s.Fields)
	}
	s.ToggleMenu()
	if s.State() != SessionClosed {
		t.Fatalf("expected closed, got %s", s.State())
	}
}

func TestSessionEditPopulatesFields(t *testing.T) {
	list := NewButtonList(numbered(5))
	var s EditSession
	s.ToggleMenu()
	s.Set(FieldLabel, "typed")

	if err := s.Edit(list, 3); err != nil {
		t.Fatal(err)
	}
	if s.State() != SessionEditing {
		t.Fatalf("expected editing, got %s", s.State())
	}
	want := fieldsOf(numbered(5)[3])
	if s.Fields != want {
		t.Errorf("fields = %+v, want %+v", s.Fields, want)
	}
	if idx, ok := s.Index(); !ok || idx != 3 {
		t.Errorf("Index() = %d, %t", idx, ok)
	}
}

func TestSessionSubmitAddAppends(t *testing.T) {
	list := NewButtonList(numbered(2))
	var s EditSession
	s.ToggleMenu()
	s.Set(FieldLabel, "New")
	s.Set(FieldTarget, "cmd echo hi")

	idx, err := s.Submit(list)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 2 || list.Len() != 3 {
		t.Fatalf("expected append at 2, got idx %d len %d", idx, list.Len())
	}
	if b, _ := list.Get(2); b != (Button{Label: "New", Target: "cmd echo hi"}) {
		t.Errorf("appended %+v", b)
	}
	if s.State() != SessionClosed || s.Fields != (Fields{}) {
		t.Errorf("session should close and clear after submit, got %s %+v", s.State(), s.Fields)
	}
}

func TestSessionSubmitEditOverwrites(t *testing.T) {
	list := NewButtonList([]Button{{Label: "Old", Target: "/x", Icon: "images/x.png"}})
	var s EditSession
	if err := s.Edit(list, 0); err != nil {
		t.Fatal(err)
	}
	s.Set(FieldIcon, "")
	if _, err := s.Submit(list); err != nil {
		t.Fatal(err)
	}
	if b, _ := list.Get(0); b != (Button{Label: "Old", Target: "/x"}) {
		t.Errorf("expected a verbatim overwrite, got %+v", b)
	}
}

func TestSessionSubmitRejectsShiftedIndex(t *testing.T) {
	list := NewButtonList(numbered(5))
	var s EditSession
	if err := s.Edit(list, 3); err != nil {
		t.Fatal(err)
	}
	s.Set(FieldLabel, "edited")

	// Another code path removes an earlier button; index 3 now names what was 4.
	if err := list.RemoveAt(1); err != nil {
		t.Fatal(err)
	}
	snapshot := list.All()

	if _, err := s.Submit(list); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if !equalButtons(list.All(), snapshot) {
		t.Errorf("rejected submit wrote into the list: %v", list.All())
	}
}

func TestSessionSubmitRejectsTruncatedList(t *testing.T) {
	list := NewButtonList(numbered(5))
	var s EditSession
	if err := s.Edit(list, 4); err != nil {
		t.Fatal(err)
	}
	list.Reset(numbered(2))
	if _, err := s.Submit(list); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestSessionDelete(t *testing.T) {
	list := NewButtonList(numbered(3))
	var s EditSession

	s.ToggleMenu()
	if removed, err := s.Delete(list); removed || err != nil {
		t.Fatalf("delete while adding should be a no-op, got %t %v", removed, err)
	}
	if s.State() != SessionAdding {
		t.Errorf("delete while adding changed state to %s", s.State())
	}

	if err := s.Edit(list, 1); err != nil {
		t.Fatal(err)
	}
	removed, err := s.Delete(list)
	if err != nil || !removed {
		t.Fatalf("expected removal, got %t %v", removed, err)
	}
	if list.Len() != 2 || s.State() != SessionClosed {
		t.Errorf("len %d state %s", list.Len(), s.State())
	}
	if b, _ := list.Get(1); b.Label != "C" {
		t.Errorf("expected C to shift into slot 1, got %+v", b)
	}
}

func TestSessionSubmitWhenClosed(t *testing.T) {
	var s EditSession
	if _, err := s.Submit(NewButtonList(nil)); err == nil {
		t.Fatal("expected an error submitting a closed form")
	}
}
