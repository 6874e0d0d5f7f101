package input

// Key is a driving action a keyboard can hold down.
type Key uint8

const (
	KeyNone Key = iota
	KeyForward
	KeyBackward
	KeyLeft
	KeyRight
	KeyQuit
)

func (k Key) String() string {
	switch k {
	case KeyForward:
		return "forward"
	case KeyBackward:
		return "backward"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyQuit:
		return "quit"
	default:
		return "none"
	}
}

// KeyState answers whether a key is currently held.
type KeyState interface {
	IsDown(k Key) bool
}

// StaticKeys is a fixed key state, useful for scripted drivers.
type StaticKeys map[Key]bool

func (s StaticKeys) IsDown(k Key) bool { return s[k] }

// NoKeys never reports a key as held.
var NoKeys KeyState = StaticKeys(nil)
