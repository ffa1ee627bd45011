package loop

type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyF3
	KeyEqual
	KeyMinus
)

type Action int

const (
	Release Action = iota
	Press
	Repeat
)

type KeyEvent struct {
	Key    Key
	Action Action
}

// IsEscapePress is the only event the loop itself reacts to.
func (e KeyEvent) IsEscapePress() bool {
	return e.Key == KeyEscape && e.Action == Press
}
