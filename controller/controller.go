// Package controller turns held input actions into pawn commands once per
// frame.
package controller

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/pawnctl/input"
)

// Controller translates input state into commands for a single Pawn.
// It must be used from one goroutine: event delivery and Update are
// expected on the game loop thread.
type Controller struct {
	pawn      Pawn
	cfg       Config
	state     input.State
	sub       *input.Subscription
	destroyed bool
}

// New creates a controller for pawn and subscribes it to src right away.
// A nil src leaves only the manual override calls as inputs.
func New(pawn Pawn, src input.Source, opts ...Option) *Controller {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	c := &Controller{pawn: pawn, cfg: cfg}
	if src != nil {
		c.sub = src.Subscribe(c.handleEvent)
	}
	return c
}

// Destroy detaches from the event source and releases every held action.
// Further events and Update calls have no effect.
func (c *Controller) Destroy() {
	if c == nil || c.destroyed {
		return
	}
	c.destroyed = true
	c.sub.Unsubscribe()
	c.sub = nil
	c.state.Reset()
}

// Destroyed reports whether Destroy has been called.
func (c *Controller) Destroyed() bool {
	return c == nil || c.destroyed
}

// Configure swaps trigger mode and bindings, e.g. after a prefab reload.
// Every held action is released: a key held across the swap may map to a
// different action by the time it comes back up.
func (c *Controller) Configure(cfg Config) {
	if cfg.Bindings == nil {
		cfg.Bindings = input.DefaultBindings()
	}
	c.cfg = cfg
	c.state.Reset()
}

// Config returns the active configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// State returns a copy of the current input state.
func (c *Controller) State() input.State {
	return c.state
}

func (c *Controller) handleEvent(evt input.Event) {
	if c.destroyed {
		return
	}
	action, ok := c.cfg.Bindings.Lookup(evt.Key)
	if !ok {
		return
	}
	if evt.Down {
		c.state.SetKeyDown(action)
	} else {
		c.state.SetKeyUp(action)
	}
}

// Update resolves the current input into at most one move, one jump
// attempt and one shoot attempt. dt is seconds since the previous call;
// negative values are treated as zero.
func (c *Controller) Update(dt float64) {
	if c == nil || c.destroyed || c.pawn == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}

	if dir := Direction(c.state); dir.X != 0 || dir.Y != 0 {
		speed := c.pawn.MoveSpeed()
		if !c.pawn.IsOnGround() {
			speed *= c.pawn.AirControl()
		}
		c.pawn.Move(dir.Normalize(), speed, dt)
	}

	if c.fire(input.ActionJump) {
		c.Jump()
	}
	if c.fire(input.ActionShoot) {
		c.Shoot()
	}
}

func (c *Controller) fire(a input.Action) bool {
	pressed := c.state.Consume(a)
	if c.cfg.Trigger == TriggerEdge {
		return pressed
	}
	return c.state.Held(a)
}

// Direction sums the held movement actions into an unnormalized vector:
// X is lateral (right positive), Y is forward (forward positive).
// Opposite actions cancel.
func Direction(s input.State) cp.Vector {
	var dir cp.Vector
	if s.Forward {
		dir.Y++
	}
	if s.Backward {
		dir.Y--
	}
	if s.Right {
		dir.X++
	}
	if s.Left {
		dir.X--
	}
	return dir
}

// Jump asks the pawn to jump if it is eligible and reports whether it did.
func (c *Controller) Jump() bool {
	if c.destroyed || c.pawn == nil || !c.pawn.CanJump() {
		return false
	}
	c.pawn.Jump()
	return true
}

// Shoot fires if the pawn is eligible. The bool is false when no shot was
// taken; a taken shot may still report HitResult.Hit == false.
func (c *Controller) Shoot() (HitResult, bool) {
	if c.destroyed || c.pawn == nil || !c.pawn.CanShoot() {
		return HitResult{}, false
	}
	return c.pawn.Shoot(), true
}

// MoveForward latches forward as held. Keyboard release events still clear
// it; otherwise use Release.
func (c *Controller) MoveForward() { c.Press(input.ActionForward) }

// MoveBackward latches backward as held.
func (c *Controller) MoveBackward() { c.Press(input.ActionBackward) }

// MoveLeft latches left as held.
func (c *Controller) MoveLeft() { c.Press(input.ActionLeft) }

// MoveRight latches right as held.
func (c *Controller) MoveRight() { c.Press(input.ActionRight) }

// Press marks a as held, as if its key went down.
func (c *Controller) Press(a input.Action) {
	if c.destroyed {
		return
	}
	c.state.SetKeyDown(a)
}

// Release marks a as released, as if its key went up.
func (c *Controller) Release(a input.Action) {
	if c.destroyed {
		return
	}
	c.state.SetKeyUp(a)
}

// ReleaseAll releases every action.
func (c *Controller) ReleaseAll() {
	if c.destroyed {
		return
	}
	c.state.Reset()
}
