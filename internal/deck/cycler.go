package deck

import (
	"strings"
	"time"
)

// DoubleTapWindow is the longest gap between two taps that still counts as a
// double tap.
const DoubleTapWindow = 300 * time.Millisecond

// Palette is the fixed background cycle.
var Palette = []string{"#001f1f", "#222222", "#2d0033", "#331100", "#000000", "#003300", "#330000"}

// BackgroundCycler advances through Palette on double taps.
type BackgroundCycler struct {
	palette []string
	window  time.Duration
	index   int
	current string
	lastTap time.Time
}

// NewBackgroundCycler starts from a persisted color. A hex that is not in the
// palette is still shown, but cycling resumes from the first entry.
func NewBackgroundCycler(hex string) *BackgroundCycler {
	c := &BackgroundCycler{
		palette: Palette,
		window:  DoubleTapWindow,
		current: hex,
	}
	for i, candidate := range c.palette {
		if strings.EqualFold(candidate, hex) {
			c.index = i
			break
		}
	}
	return c
}

// Color is the color to paint, empty for no override.
func (c *BackgroundCycler) Color() string {
	return c.current
}

func (c *BackgroundCycler) Index() int {
	return c.index
}

// Tap records a tap at now. It returns the new color and true when the tap
// completed a double tap.
func (c *BackgroundCycler) Tap(now time.Time) (string, bool) {
	last := c.lastTap
	c.lastTap = now
	if last.IsZero() || now.Sub(last) >= c.window || now.Before(last) {
		return "", false
	}
	c.index = (c.index + 1) % len(c.palette)
	c.current = c.palette[c.index]
	return c.current, true
}
