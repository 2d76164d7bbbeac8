package deck

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// VoiceAccessTarget is the sentinel target that toggles voice access instead
// of launching anything.
const VoiceAccessTarget = "voice_command_trigger"

// Bundled icons shown for the voice access toggle.
const (
	VoiceIconOn  = "images/voice control on.png"
	VoiceIconOff = "images/voice control off.png"
)

// DefaultSwipeThreshold is the horizontal travel, in cells, that turns a
// press/release pair into a page swipe.
const DefaultSwipeThreshold = 8

type EventKind int

const (
	EventActivate EventKind = iota
	EventEdit
	EventToggleMenu
	EventSetField
	EventSubmit
	EventDelete
	EventNextPage
	EventPrevPage
	EventSwipe
	EventDropOnButton
	EventDropOnForm
	EventBackgroundTap
	EventReload
)

// Event is one user gesture or external change. Slot is the position on the
// current page; the controller maps it onto the list.
type Event struct {
	Kind    EventKind
	Slot    int
	Field   Field
	Value   string
	Path    string
	Delta   int
	At      time.Time
	Buttons []Button
}

type EffectKind int

const (
	EffectRender EffectKind = iota
	EffectSave
	EffectSaveColor
	EffectApplyColor
	EffectLaunch
	EffectVoiceToggle
)

// Effect is a side effect requested by a handler. Persistence effects are run
// by the controller; the rest are for the UI.
type Effect struct {
	Kind   EffectKind
	Target string
	Color  string
	Active bool
}

type handler func(c *Controller, ev Event) ([]Effect, error)

var handlers = map[EventKind]handler{
	EventActivate:      (*Controller).activate,
	EventEdit:          (*Controller).edit,
	EventToggleMenu:    (*Controller).toggleMenu,
	EventSetField:      (*Controller).setField,
	EventSubmit:        (*Controller).submit,
	EventDelete:        (*Controller).delete,
	EventNextPage:      (*Controller).nextPage,
	EventPrevPage:      (*Controller).prevPage,
	EventSwipe:         (*Controller).swipe,
	EventDropOnButton:  (*Controller).dropOnButton,
	EventDropOnForm:    (*Controller).dropOnForm,
	EventBackgroundTap: (*Controller).backgroundTap,
	EventReload:        (*Controller).reload,
}

// Options tune a Controller.
type Options struct {
	SwipeThreshold int
	Logger         *log.Logger
}

// Controller owns all panel state. It is not safe for concurrent use; the UI
// loop is its only writer.
type Controller struct {
	buttons *ButtonList
	pager   Pager
	session EditSession
	cycler  *BackgroundCycler
	voice   bool

	store  Store
	icons  *IconAssigner
	logger *log.Logger

	swipeThreshold int
}

// NewController loads the buttons and color preference from store.
func NewController(store Store, icons *IconAssigner, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	threshold := opts.SwipeThreshold
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}
	hex, _ := store.LoadColor()
	return &Controller{
		buttons:        NewButtonList(store.Load()),
		pager:          NewPager(),
		cycler:         NewBackgroundCycler(hex),
		store:          store,
		icons:          icons,
		logger:         logger,
		swipeThreshold: threshold,
	}
}

// Dispatch runs the handler for ev, performs the persistence it asked for and
// returns every effect. Errors are logged here and returned for display; none
// of them leave the state half-applied.
func (c *Controller) Dispatch(ev Event) ([]Effect, error) {
	h, ok := handlers[ev.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown event kind %d", ev.Kind)
	}
	effects, err := h(c, ev)
	if err != nil {
		c.logFailure(ev, err)
	}
	for _, eff := range effects {
		switch eff.Kind {
		case EffectSave:
			if saveErr := c.store.Save(c.buttons.All()); saveErr != nil {
				c.logger.Error("failed to save buttons, keeping changes in memory", "err", saveErr)
			}
		case EffectSaveColor:
			if saveErr := c.store.SaveColor(eff.Color); saveErr != nil {
				c.logger.Error("failed to save background color", "err", saveErr)
			}
		}
	}
	return effects, err
}

func (c *Controller) logFailure(ev Event, err error) {
	switch {
	case errors.Is(err, ErrInvalidFileType):
		c.logger.Warn("dropped file is not a supported image", "path", ev.Path)
	case errors.Is(err, ErrIO):
		c.logger.Error("icon copy failed", "path", ev.Path, "err", err)
	default:
		c.logger.Warn("event rejected", "event", ev.Kind, "err", err)
	}
}

func (c *Controller) Buttons() []Button {
	return c.buttons.All()
}

func (c *Controller) Len() int {
	return c.buttons.Len()
}

// Visible returns the buttons on the current page.
func (c *Controller) Visible() []Button {
	return c.pager.Visible(c.buttons)
}

func (c *Controller) Page() int {
	return c.pager.Page
}

func (c *Controller) PageCount() int {
	return c.pager.Count(c.buttons.Len())
}

// Session exposes the popup state for rendering.
func (c *Controller) Session() *EditSession {
	return &c.session
}

func (c *Controller) Background() string {
	return c.cycler.Color()
}

// Icons is the assigner used for drops, for callers going through Mutate.
func (c *Controller) Icons() *IconAssigner {
	return c.icons
}

func (c *Controller) VoiceActive() bool {
	return c.voice
}

// IconFor returns the icon to draw for b, taking the voice toggle into account.
func (c *Controller) IconFor(b Button) string {
	if strings.TrimSpace(b.Target) == VoiceAccessTarget {
		if c.voice {
			return VoiceIconOn
		}
		if !b.HasIcon() {
			return VoiceIconOff
		}
	}
	return b.Icon
}

func (c *Controller) absolute(slot int) (int, error) {
	if slot < 0 || slot >= c.pager.size() {
		return 0, fmt.Errorf("%w: slot %d", ErrOutOfRange, slot)
	}
	idx := c.pager.Start() + slot
	if idx >= c.buttons.Len() {
		return 0, fmt.Errorf("%w: %d (have %d)", ErrOutOfRange, idx, c.buttons.Len())
	}
	return idx, nil
}

func (c *Controller) activate(ev Event) ([]Effect, error) {
	idx, err := c.absolute(ev.Slot)
	if err != nil {
		return nil, err
	}
	btn, _ := c.buttons.Get(idx)
	target := strings.TrimSpace(btn.Target)
	switch {
	case target == VoiceAccessTarget:
		c.voice = !c.voice
		return []Effect{{Kind: EffectVoiceToggle, Active: c.voice}, {Kind: EffectRender}}, nil
	case target == "":
		return nil, nil
	default:
		return []Effect{{Kind: EffectLaunch, Target: target}}, nil
	}
}

func (c *Controller) edit(ev Event) ([]Effect, error) {
	idx, err := c.absolute(ev.Slot)
	if err != nil {
		return nil, err
	}
	if err := c.session.Edit(c.buttons, idx); err != nil {
		return nil, err
	}
	return []Effect{{Kind: EffectRender}}, nil
}

func (c *Controller) toggleMenu(Event) ([]Effect, error) {
	c.session.ToggleMenu()
	return []Effect{{Kind: EffectRender}}, nil
}

func (c *Controller) setField(ev Event) ([]Effect, error) {
	if !c.session.Open() {
		return nil, nil
	}
	c.session.Set(ev.Field, ev.Value)
	return nil, nil
}

func (c *Controller) submit(Event) ([]Effect, error) {
	adding := c.session.State() == SessionAdding
	if _, err := c.session.Submit(c.buttons); err != nil {
		// A stale form can never succeed; drop it.
		c.session.Close()
		return []Effect{{Kind: EffectRender}}, err
	}
	if adding {
		c.pager.Last(c.buttons.Len())
	}
	return []Effect{{Kind: EffectSave}, {Kind: EffectRender}}, nil
}

func (c *Controller) delete(Event) ([]Effect, error) {
	removed, err := c.session.Delete(c.buttons)
	if err != nil {
		c.session.Close()
		return []Effect{{Kind: EffectRender}}, err
	}
	if !removed {
		return nil, nil
	}
	c.pager.Clamp(c.buttons.Len())
	return []Effect{{Kind: EffectSave}, {Kind: EffectRender}}, nil
}

func (c *Controller) nextPage(Event) ([]Effect, error) {
	if c.pager.Next(c.buttons.Len()) {
		return []Effect{{Kind: EffectRender}}, nil
	}
	return nil, nil
}

func (c *Controller) prevPage(Event) ([]Effect, error) {
	if c.pager.Prev() {
		return []Effect{{Kind: EffectRender}}, nil
	}
	return nil, nil
}

// swipe pages by direction of travel: a drag to the right shows the previous
// page, to the left the next one.
func (c *Controller) swipe(ev Event) ([]Effect, error) {
	switch {
	case ev.Delta > c.swipeThreshold:
		return c.prevPage(ev)
	case ev.Delta < -c.swipeThreshold:
		return c.nextPage(ev)
	}
	return nil, nil
}

func (c *Controller) dropOnButton(ev Event) ([]Effect, error) {
	idx, err := c.absolute(ev.Slot)
	if err != nil {
		return nil, err
	}
	return c.assignIcon(idx, ev.Path)
}

func (c *Controller) dropOnForm(ev Event) ([]Effect, error) {
	idx, ok := c.session.Index()
	if !ok {
		return nil, fmt.Errorf("%w: no button open for editing", ErrOutOfRange)
	}
	if err := c.session.validate(c.buttons); err != nil {
		c.session.Close()
		return []Effect{{Kind: EffectRender}}, err
	}
	effects, err := c.assignIcon(idx, ev.Path)
	if err != nil {
		return effects, err
	}
	c.session.Close()
	return effects, nil
}

func (c *Controller) assignIcon(idx int, source string) ([]Effect, error) {
	editing, wasEditing := c.session.Index()
	wasCurrent := wasEditing && c.session.rev == c.buttons.Revision()
	if _, err := c.icons.Assign(c.buttons, idx, source); err != nil {
		return nil, err
	}
	if wasCurrent {
		// Replace does not shift positions, so an open form stays valid.
		c.session.Rebase(c.buttons)
		if editing == idx {
			btn, _ := c.buttons.Get(idx)
			c.session.Set(FieldIcon, btn.Icon)
			c.session.Set(FieldLabel, btn.Label)
		}
	}
	return []Effect{{Kind: EffectSave}, {Kind: EffectRender}}, nil
}

func (c *Controller) backgroundTap(ev Event) ([]Effect, error) {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	hex, cycled := c.cycler.Tap(at)
	if !cycled {
		return nil, nil
	}
	return []Effect{{Kind: EffectApplyColor, Color: hex}, {Kind: EffectSaveColor, Color: hex}, {Kind: EffectRender}}, nil
}

// reload replaces the list after buttons.json changed on disk. An open edit
// form is left alone and will be rejected on submit.
func (c *Controller) reload(ev Event) ([]Effect, error) {
	c.buttons.Reset(ev.Buttons)
	c.pager.Clamp(c.buttons.Len())
	return []Effect{{Kind: EffectRender}}, nil
}

// Mutate changes the list outside the event table, as deckpanel-cli does.
// The change is persisted like any other mutation; unlike an event, a failed
// save is returned so a one-shot caller can report it.
func (c *Controller) Mutate(fn func(list *ButtonList) error) error {
	if err := fn(c.buttons); err != nil {
		return err
	}
	c.pager.Clamp(c.buttons.Len())
	if err := c.store.Save(c.buttons.All()); err != nil {
		c.logger.Error("failed to save buttons, keeping changes in memory", "err", err)
		return err
	}
	return nil
}
