package dispatch

import (
	"voxfolio/internal/screen"
)

// History is the screen navigation stack. It is append-only except for Pop,
// and Pop never removes the base screen, so "go back" on the first screen is
// a harmless no-op. Mutated screens are pushed as new entries, which is what
// makes go-back undo a mutation.
//
// History is not safe for concurrent use; the dispatcher's mutex guards it.
type History struct {
	stack []screen.Screen
}

// NewHistory seeds the stack with the base screen.
func NewHistory(base screen.Screen) *History {
	return &History{stack: []screen.Screen{base}}
}

// Current returns the screen on top of the stack.
func (h *History) Current() screen.Screen {
	return h.stack[len(h.stack)-1]
}

// Push makes s the current screen.
func (h *History) Push(s screen.Screen) {
	h.stack = append(h.stack, s)
}

// Pop removes the current screen and returns the one beneath it. On the base
// screen it returns the base screen unchanged.
func (h *History) Pop() screen.Screen {
	if len(h.stack) > 1 {
		h.stack = h.stack[:len(h.stack)-1]
	}
	return h.Current()
}

// Screens returns a copy of the stack, oldest first, for service payloads.
func (h *History) Screens() []screen.Screen {
	return append([]screen.Screen(nil), h.stack...)
}

// Len returns the stack depth.
func (h *History) Len() int {
	return len(h.stack)
}
