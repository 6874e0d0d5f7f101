package input

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// DefaultHoldTicks covers the usual terminal auto-repeat delay at 60 ticks/s.
const DefaultHoldTicks = 32

// Tracker turns terminal key presses into a held-key state. Terminals do not
// report key release, so a press keeps its key down for HoldTicks ticks and
// each auto-repeat refreshes it.
//
// Press is called from the event poller goroutine; Tick and IsDown from the
// game loop.
type Tracker struct {
	mu        sync.Mutex
	keymap    *Keymap
	holdTicks int
	held      map[Key]int
}

var _ KeyState = (*Tracker)(nil)

func NewTracker(keymap *Keymap, holdTicks int) *Tracker {
	if keymap == nil {
		keymap = DefaultKeymap()
	}
	if holdTicks <= 0 {
		holdTicks = DefaultHoldTicks
	}
	return &Tracker{
		keymap:    keymap,
		holdTicks: holdTicks,
		held:      make(map[Key]int),
	}
}

// HandleEvent records a key event. It returns the action the event mapped to,
// if any. Non-key events are ignored.
func (t *Tracker) HandleEvent(ev tcell.Event) (Key, bool) {
	kev, ok := ev.(*tcell.EventKey)
	if !ok {
		return KeyNone, false
	}
	k, ok := t.keymap.Lookup(kev)
	if !ok {
		return KeyNone, false
	}
	t.Press(k)
	return k, true
}

// Press marks k as held for the configured number of ticks. Opposite
// directions cancel each other so a quick reversal does not leave both held.
func (t *Tracker) Press(k Key) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.held[k] = t.holdTicks
	if o := opposite(k); o != KeyNone {
		delete(t.held, o)
	}
}

// Tick ages every held key by one tick.
func (t *Tracker) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, n := range t.held {
		if n <= 1 {
			delete(t.held, k)
			continue
		}
		t.held[k] = n - 1
	}
}

func (t *Tracker) IsDown(k Key) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.held[k] > 0
}

// Release drops every held key.
func (t *Tracker) Release() {
	t.mu.Lock()
	clear(t.held)
	t.mu.Unlock()
}

func opposite(k Key) Key {
	switch k {
	case KeyForward:
		return KeyBackward
	case KeyBackward:
		return KeyForward
	case KeyLeft:
		return KeyRight
	case KeyRight:
		return KeyLeft
	default:
		return KeyNone
	}
}
