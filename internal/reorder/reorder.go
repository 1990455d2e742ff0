package reorder

import (
	"errors"
	"fmt"
)

// ErrNoDrag is returned when a hover or end arrives without a drag in progress
var ErrNoDrag = errors.New("no drag in progress")

// Rect is the vertical extent of a hovered element in client coordinates
type Rect struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Command moves the element at From to To
type Command struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Mover applies reorder commands to an ordered list
type Mover interface {
	Move(from, to int) error
}

// MoverFunc adapts a function to the Mover interface
type MoverFunc func(from, to int) error

func (f MoverFunc) Move(from, to int) error {
	return f(from, to)
}

// Controller tracks a single drag gesture and turns hover events into
// reorder commands.
type Controller struct {
	dragging bool
	index    int
	name     string
}

// Begin starts dragging the element currently at index.
func (c *Controller) Begin(index int, name string) {
	c.dragging = true
	c.index = index
	c.name = name
}

// End finishes the current drag.
func (c *Controller) End() {
	c.dragging = false
	c.name = ""
}

// Dragging reports the dragged element's current index and name.
func (c *Controller) Dragging() (int, string, bool) {
	return c.index, c.name, c.dragging
}

// Hover computes whether hovering target at pointerY should move the dragged
// element. Moving down commits only once the pointer reaches the lower half
// of the target; moving up only once it reaches the upper half. This keeps
// the pointer from flipping the pair back and forth near the boundary.
func (c *Controller) Hover(target int, rect Rect, pointerY float64) (Command, bool) {
	if !c.dragging || target == c.index {
		return Command{}, false
	}

	middle := (rect.Bottom - rect.Top) / 2
	offset := pointerY - rect.Top

	if c.index < target && offset < middle {
		return Command{}, false
	}
	if c.index > target && offset > middle {
		return Command{}, false
	}
	return Command{From: c.index, To: target}, true
}

// Apply runs cmd against m and, on success, tracks the dragged element at
// its new index.
func (c *Controller) Apply(m Mover, cmd Command) error {
	if !c.dragging {
		return ErrNoDrag
	}
	if err := m.Move(cmd.From, cmd.To); err != nil {
		return fmt.Errorf("apply move %d -> %d: %w", cmd.From, cmd.To, err)
	}
	c.index = cmd.To
	return nil
}

// HoverAndApply combines Hover and Apply. It reports the command that was
// applied, if any.
func (c *Controller) HoverAndApply(m Mover, target int, rect Rect, pointerY float64) (Command, bool, error) {
	cmd, ok := c.Hover(target, rect, pointerY)
	if !ok {
		return Command{}, false, nil
	}
	if err := c.Apply(m, cmd); err != nil {
		return Command{}, false, err
	}
	return cmd, true, nil
}
