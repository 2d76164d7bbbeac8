package deck

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func hasEffect(effects []Effect, kind EffectKind) bool {
	for _, e := range effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func TestControllerAddMovesToLastPageAndSaves(t *testing.T) {
	store := &memStore{buttons: numbered(6)}
	c := newTestController(t, store)

	if _, err := c.Dispatch(Event{Kind: EventToggleMenu}); err != nil {
		t.Fatal(err)
	}
	c.Dispatch(Event{Kind: EventSetField, Field: FieldLabel, Value: "Seventh"})
	c.Dispatch(Event{Kind: EventSetField, Field: FieldTarget, Value: "/bin/seven"})
	effects, err := c.Dispatch(Event{Kind: EventSubmit})
	if err != nil {
		t.Fatal(err)
	}
	if !hasEffect(effects, EffectSave) || store.saves != 1 {
		t.Errorf("expected one save, got %d", store.saves)
	}
	if c.Page() != 1 || c.PageCount() != 2 {
		t.Errorf("expected page 1 of 2, got %d of %d", c.Page(), c.PageCount())
	}
	visible := c.Visible()
	if len(visible) != 1 || visible[0].Label != "Seventh" {
		t.Errorf("new button not visible: %v", visible)
	}
	if len(store.buttons) != 7 {
		t.Errorf("store holds %d buttons", len(store.buttons))
	}
}

func TestControllerEditUsesPageOffset(t *testing.T) {
	store := &memStore{buttons: numbered(8)}
	c := newTestController(t, store)
	c.Dispatch(Event{Kind: EventNextPage})

	if _, err := c.Dispatch(Event{Kind: EventEdit, Slot: 1}); err != nil {
		t.Fatal(err)
	}
	if idx, ok := c.Session().Index(); !ok || idx != 7 {
		t.Fatalf("expected editing 7, got %d %t", idx, ok)
	}
	if c.Session().Fields.Label != "H" {
		t.Errorf("fields not populated: %+v", c.Session().Fields)
	}
	if _, err := c.Dispatch(Event{Kind: EventEdit, Slot: 2}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("editing an empty slot should fail, got %v", err)
	}
}

func TestControllerDeleteClampsPage(t *testing.T) {
	store := &memStore{buttons: numbered(7)}
	c := newTestController(t, store)
	c.Dispatch(Event{Kind: EventNextPage})
	c.Dispatch(Event{Kind: EventEdit, Slot: 0})

	if _, err := c.Dispatch(Event{Kind: EventDelete}); err != nil {
		t.Fatal(err)
	}
	if c.Page() != 0 {
		t.Errorf("page should clamp to 0, got %d", c.Page())
	}
	if c.Len() != 6 || store.saves != 1 {
		t.Errorf("len %d saves %d", c.Len(), store.saves)
	}
	if c.Session().Open() {
		t.Error("delete should close the form")
	}
}

func TestControllerDeleteWhileAddingIsNoop(t *testing.T) {
	store := &memStore{buttons: numbered(2)}
	c := newTestController(t, store)
	c.Dispatch(Event{Kind: EventToggleMenu})
	effects, err := c.Dispatch(Event{Kind: EventDelete})
	if err != nil || len(effects) != 0 || c.Len() != 2 || store.saves != 0 {
		t.Errorf("expected no-op, got %v %v len %d saves %d", effects, err, c.Len(), store.saves)
	}
}

func TestControllerStaleSubmitAfterExternalMutation(t *testing.T) {
	store := &memStore{buttons: numbered(5)}
	c := newTestController(t, store)
	c.Dispatch(Event{Kind: EventEdit, Slot: 3})
	c.Dispatch(Event{Kind: EventSetField, Field: FieldLabel, Value: "edited"})

	if err := c.Mutate(func(list *ButtonList) error { return list.RemoveAt(1) }); err != nil {
		t.Fatal(err)
	}
	saves := store.saves

	if _, err := c.Dispatch(Event{Kind: EventSubmit}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if store.saves != saves {
		t.Error("a rejected submit must not save")
	}
	for _, b := range c.Buttons() {
		if b.Label == "edited" {
			t.Fatalf("rejected submit leaked into %v", c.Buttons())
		}
	}
	if c.Session().Open() {
		t.Error("a stale form should be closed")
	}
}

func TestControllerReloadInvalidatesOpenForm(t *testing.T) {
	store := &memStore{buttons: numbered(5)}
	c := newTestController(t, store)
	c.Dispatch(Event{Kind: EventEdit, Slot: 2})
	c.Dispatch(Event{Kind: EventReload, Buttons: numbered(5)})

	if _, err := c.Dispatch(Event{Kind: EventSubmit}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if store.saves != 0 {
		t.Error("reload must not write the file back")
	}
}

func TestControllerSaveFailureKeepsMemoryState(t *testing.T) {
	store := &memStore{buttons: numbered(1), failSave: true}
	c := newTestController(t, store)
	c.Dispatch(Event{Kind: EventToggleMenu})
	c.Dispatch(Event{Kind: EventSetField, Field: FieldLabel, Value: "x"})
	if _, err := c.Dispatch(Event{Kind: EventSubmit}); err != nil {
		t.Fatalf("save failures are not reported to the caller, got %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("in-memory list lost the change: %v", c.Buttons())
	}
}

func TestControllerActivate(t *testing.T) {
	store := &memStore{buttons: []Button{
		{Label: "App", Target: "  /usr/bin/app  "},
		{Label: "Inert"},
		{Label: "Voice", Target: VoiceAccessTarget},
	}}
	c := newTestController(t, store)

	effects, _ := c.Dispatch(Event{Kind: EventActivate, Slot: 0})
	if len(effects) != 1 || effects[0].Kind != EffectLaunch || effects[0].Target != "/usr/bin/app" {
		t.Errorf("expected a trimmed launch, got %+v", effects)
	}
	if effects, _ := c.Dispatch(Event{Kind: EventActivate, Slot: 1}); len(effects) != 0 {
		t.Errorf("an empty target is inert, got %+v", effects)
	}

	voice := c.Visible()[2]
	if c.IconFor(voice) != VoiceIconOff {
		t.Errorf("voice button should start with the off icon, got %q", c.IconFor(voice))
	}
	effects, _ = c.Dispatch(Event{Kind: EventActivate, Slot: 2})
	if !hasEffect(effects, EffectVoiceToggle) || !c.VoiceActive() {
		t.Fatalf("expected voice toggle on, got %+v", effects)
	}
	if c.IconFor(voice) != VoiceIconOn {
		t.Errorf("expected the on icon, got %q", c.IconFor(voice))
	}
	if store.saves != 0 {
		t.Error("voice toggle is not persisted")
	}
}

func TestControllerSwipe(t *testing.T) {
	c := newTestController(t, &memStore{buttons: numbered(13)})
	c.Dispatch(Event{Kind: EventSwipe, Delta: -3})
	if c.Page() != 0 {
		t.Fatalf("short drags should not page, got %d", c.Page())
	}
	c.Dispatch(Event{Kind: EventSwipe, Delta: -20})
	if c.Page() != 1 {
		t.Fatalf("left swipe should go to the next page, got %d", c.Page())
	}
	c.Dispatch(Event{Kind: EventSwipe, Delta: 20})
	if c.Page() != 0 {
		t.Fatalf("right swipe should go back, got %d", c.Page())
	}
	c.Dispatch(Event{Kind: EventSwipe, Delta: 20})
	if c.Page() != 0 {
		t.Fatalf("right swipe on the first page is a no-op, got %d", c.Page())
	}
}

func TestControllerDropOnButton(t *testing.T) {
	store := &memStore{buttons: numbered(3)}
	configDir := t.TempDir()
	c := NewController(store, NewIconAssigner(configDir), Options{Logger: quietLogger()})
	src := filepath.Join(t.TempDir(), "photo.JPG")
	writeFile(t, src, "img")

	effects, err := c.Dispatch(Event{Kind: EventDropOnButton, Slot: 2, Path: src})
	if err != nil {
		t.Fatal(err)
	}
	if !hasEffect(effects, EffectSave) || store.saves != 1 {
		t.Errorf("expected a save, got %d", store.saves)
	}
	if b := store.buttons[2]; b.Icon != "images/photo.JPG" || b.Label != "" {
		t.Errorf("persisted button %+v", b)
	}
	if _, err := os.Stat(filepath.Join(configDir, "images", "photo.JPG")); err != nil {
		t.Errorf("icon not copied: %v", err)
	}

	pdf := filepath.Join(t.TempDir(), "report.pdf")
	writeFile(t, pdf, "pdf")
	if _, err := c.Dispatch(Event{Kind: EventDropOnButton, Slot: 1, Path: pdf}); !errors.Is(err, ErrInvalidFileType) {
		t.Fatalf("expected ErrInvalidFileType, got %v", err)
	}
	if store.saves != 1 {
		t.Error("a rejected drop must not save")
	}
}

func TestControllerDropOnButtonKeepsOpenFormValid(t *testing.T) {
	store := &memStore{buttons: numbered(3)}
	c := newTestController(t, store)
	src := filepath.Join(t.TempDir(), "a.png")
	writeFile(t, src, "img")

	c.Dispatch(Event{Kind: EventEdit, Slot: 1})
	if _, err := c.Dispatch(Event{Kind: EventDropOnButton, Slot: 1, Path: src}); err != nil {
		t.Fatal(err)
	}
	if f := c.Session().Fields; f.Icon != "images/a.png" || f.Label != "" {
		t.Errorf("open form not refreshed: %+v", f)
	}
	if _, err := c.Dispatch(Event{Kind: EventSubmit}); err != nil {
		t.Fatalf("form should still submit, got %v", err)
	}
	if b := c.Buttons()[1]; b.Icon != "images/a.png" {
		t.Errorf("submit dropped the new icon: %+v", b)
	}
}

func TestControllerDropOnForm(t *testing.T) {
	store := &memStore{buttons: numbered(3)}
	c := newTestController(t, store)
	src := filepath.Join(t.TempDir(), "zone.png")
	writeFile(t, src, "img")

	if _, err := c.Dispatch(Event{Kind: EventDropOnForm, Path: src}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("zone drop without an open button should fail, got %v", err)
	}
	c.Dispatch(Event{Kind: EventToggleMenu})
	if _, err := c.Dispatch(Event{Kind: EventDropOnForm, Path: src}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("zone drop on the add form should fail, got %v", err)
	}

	c.Dispatch(Event{Kind: EventEdit, Slot: 0})
	if _, err := c.Dispatch(Event{Kind: EventDropOnForm, Path: src}); err != nil {
		t.Fatal(err)
	}
	if b := c.Buttons()[0]; b.Icon != "images/zone.png" || b.Label != "" {
		t.Errorf("button 0 = %+v", b)
	}
	if c.Session().Open() {
		t.Error("zone drop closes the form")
	}
}

func TestControllerBackgroundTaps(t *testing.T) {
	store := &memStore{color: "#001f1f", hasColor: true}
	c := newTestController(t, store)
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	c.Dispatch(Event{Kind: EventBackgroundTap, At: now})
	effects, _ := c.Dispatch(Event{Kind: EventBackgroundTap, At: now.Add(150 * time.Millisecond)})
	if !hasEffect(effects, EffectApplyColor) {
		t.Fatalf("expected a color change, got %+v", effects)
	}
	if len(store.colorSaves) != 1 || store.colorSaves[0] != "#222222" {
		t.Errorf("expected #222222 persisted once, got %v", store.colorSaves)
	}

	later := now.Add(2 * time.Second)
	c.Dispatch(Event{Kind: EventBackgroundTap, At: later})
	c.Dispatch(Event{Kind: EventBackgroundTap, At: later.Add(500 * time.Millisecond)})
	if len(store.colorSaves) != 1 || c.Background() != "#222222" {
		t.Errorf("slow taps changed the color: %v %s", store.colorSaves, c.Background())
	}
}

func TestControllerMutatePersistsAndReportsSaveFailure(t *testing.T) {
	store := &memStore{buttons: numbered(8)}
	c := newTestController(t, store)
	c.Dispatch(Event{Kind: EventNextPage})

	if err := c.Mutate(func(list *ButtonList) error { return list.RemoveAt(7) }); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if store.saves != 1 || len(store.buttons) != 7 {
		t.Fatalf("expected one save of 7 buttons, got %d saves of %d", store.saves, len(store.buttons))
	}
	if c.Page() != 1 {
		t.Fatalf("page should still hold a button, got %d", c.Page())
	}

	if err := c.Mutate(func(list *ButtonList) error { return list.RemoveAt(20) }); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if store.saves != 1 {
		t.Error("a rejected mutation must not save")
	}

	store.failSave = true
	if err := c.Mutate(func(list *ButtonList) error { return list.RemoveAt(6) }); err == nil {
		t.Fatal("expected the save failure to be returned")
	}
	if c.Len() != 6 {
		t.Errorf("in-memory list lost the change: %v", c.Buttons())
	}
}
