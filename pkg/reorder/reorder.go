// Package reorder implements pointer-drag reordering over an ordered list.
// One Controller owns at most one drag session at a time; a drop reinserts
// the dragged element before or after the hovered target depending on which
// half of the target the pointer is over, then fires the collection's
// post-drop hook (index renumbering or remote persistence).
package reorder

import (
	"errors"
	"fmt"
)

// List is the ordered collection a controller reorders. Move detaches the
// element at from and reinserts it at to, interpreted after the removal.
type List interface {
	Len() int
	Move(from, to int) error
}

// ErrDragActive is returned when a drag starts while another session is
// still open.
var ErrDragActive = errors.New("reorder: drag session already active")

// ErrNoDrag is returned when a drop arrives without an open session.
var ErrNoDrag = errors.New("reorder: no drag session active")

// Session is the transient state of one in-flight drag. It exists only
// between DragStart and the following Drop or DragEnd.
type Session struct {
	// Index is the dragged element's position when the drag started.
	Index int
}

// Target describes the geometry of the hovered drop candidate: its display
// position, its top edge and height in the page's vertical axis, and the
// pointer's current vertical position.
type Target struct {
	Position int
	Top      float64
	Height   float64
	PointerY float64
}

// below reports whether the pointer sits below the target's vertical
// midpoint, the tie-break deciding before/after insertion.
func (t Target) below() bool {
	return t.PointerY > t.Top+t.Height/2
}

// Controller drives the drag lifecycle for one collection. The same state
// machine serves free-form item cards and table rows; only the caller's
// container wiring differs.
type Controller struct {
	list    List
	session *Session
	targets map[int]struct{}
	onDrop  func(from, to int)
}

// Option customises a Controller.
type Option func(*Controller)

// WithDropHook registers a callback fired after every successful
// reinsertion, with the dragged element's original and final positions.
func WithDropHook(hook func(from, to int)) Option {
	return func(c *Controller) {
		c.onDrop = hook
	}
}

// NewController builds a controller over list.
func NewController(list List, opts ...Option) *Controller {
	c := &Controller{list: list, targets: make(map[int]struct{})}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DragStart opens a session for the element at index.
func (c *Controller) DragStart(index int) error {
	if c.session != nil {
		return ErrDragActive
	}
	if index < 0 || index >= c.list.Len() {
		return fmt.Errorf("reorder: drag source %d out of range [0,%d)", index, c.list.Len())
	}
	c.session = &Session{Index: index}
	return nil
}

// Dragging returns the open session's source position.
func (c *Controller) Dragging() (int, bool) {
	if c.session == nil {
		return 0, false
	}
	return c.session.Index, true
}

// DragEnter marks position as a highlighted drop target. Entering the
// dragged element itself is skipped.
func (c *Controller) DragEnter(position int) {
	if c.session == nil || position == c.session.Index {
		return
	}
	c.targets[position] = struct{}{}
}

// DragLeave clears the highlight on position.
func (c *Controller) DragLeave(position int) {
	delete(c.targets, position)
}

// IsDropTarget reports whether position is currently highlighted.
func (c *Controller) IsDropTarget(position int) bool {
	_, ok := c.targets[position]
	return ok
}

// Drop reinserts the dragged element relative to target: below the target's
// vertical midpoint inserts immediately after it, above inserts immediately
// before. Dropping on the dragged element itself is a no-op. The session
// stays open until DragEnd, which the platform fires after every drop.
func (c *Controller) Drop(target Target) error {
	if c.session == nil {
		return ErrNoDrag
	}
	from := c.session.Index
	if target.Position == from {
		return nil
	}
	if target.Position < 0 || target.Position >= c.list.Len() {
		return fmt.Errorf("reorder: drop target %d out of range [0,%d)", target.Position, c.list.Len())
	}

	to := target.Position
	if target.below() {
		to++
	}
	if from < to {
		to--
	}
	if err := c.list.Move(from, to); err != nil {
		return err
	}
	if c.onDrop != nil {
		c.onDrop(from, to)
	}
	return nil
}

// DragEnd closes the session and clears every highlight. It is safe to call
// without an open session; the platform fires it on drop and abort alike.
func (c *Controller) DragEnd() {
	c.session = nil
	for position := range c.targets {
		delete(c.targets, position)
	}
}
