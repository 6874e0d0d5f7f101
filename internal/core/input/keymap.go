package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Keymap binds terminal keys and runes to driving actions.
type Keymap struct {
	// Special keys (arrows, Esc, Ctrl+*)
	SpecialKeys map[tcell.Key]Key
	// Printable keys, matched case-insensitively
	Runes map[rune]Key
}

// DefaultKeymap binds WASD and the arrow keys to the same actions. Esc, Ctrl-C
// and q quit.
func DefaultKeymap() *Keymap {
	return &Keymap{
		SpecialKeys: map[tcell.Key]Key{
			tcell.KeyUp:     KeyForward,
			tcell.KeyDown:   KeyBackward,
			tcell.KeyLeft:   KeyLeft,
			tcell.KeyRight:  KeyRight,
			tcell.KeyEscape: KeyQuit,
			tcell.KeyCtrlC:  KeyQuit,
		},
		Runes: map[rune]Key{
			'w': KeyForward,
			's': KeyBackward,
			'a': KeyLeft,
			'd': KeyRight,
			'q': KeyQuit,
		},
	}
}

// Lookup resolves a key event to an action.
func (m *Keymap) Lookup(ev *tcell.EventKey) (Key, bool) {
	if ev.Key() == tcell.KeyRune {
		k, ok := m.Runes[unicode.ToLower(ev.Rune())]
		return k, ok
	}
	k, ok := m.SpecialKeys[ev.Key()]
	return k, ok
}
