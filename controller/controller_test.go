package controller

import (
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/pawnctl/input"
	"github.com/milk9111/pawnctl/prefabs"
)

type moveCall struct {
	dir   cp.Vector
	speed float64
	dt    float64
}

type fakePawn struct {
	grounded   bool
	canJump    bool
	canShoot   bool
	moveSpeed  float64
	airControl float64
	hit        HitResult

	moves  []moveCall
	jumps  int
	shots  int
	checks int
}

func newFakePawn() *fakePawn {
	return &fakePawn{grounded: true, canJump: true, canShoot: true, moveSpeed: 5, airControl: 0.5}
}

func (p *fakePawn) IsOnGround() bool    { return p.grounded }
func (p *fakePawn) CanJump() bool       { p.checks++; return p.canJump }
func (p *fakePawn) Jump()               { p.jumps++ }
func (p *fakePawn) CanShoot() bool      { return p.canShoot }
func (p *fakePawn) Shoot() HitResult    { p.shots++; return p.hit }
func (p *fakePawn) MoveSpeed() float64  { return p.moveSpeed }
func (p *fakePawn) AirControl() float64 { return p.airControl }
func (p *fakePawn) Move(dir cp.Vector, speed, dt float64) {
	p.moves = append(p.moves, moveCall{dir: dir, speed: speed, dt: dt})
}

func (p *fakePawn) reset() {
	p.moves = nil
	p.jumps = 0
	p.shots = 0
	p.checks = 0
}

const eps = 1e-9

func TestDirectionAllCombinations(t *testing.T) {
	for mask := 0; mask < 16; mask++ {
		s := input.State{
			Forward:  mask&1 != 0,
			Backward: mask&2 != 0,
			Left:     mask&4 != 0,
			Right:    mask&8 != 0,
		}

		var wantX, wantY float64
		if s.Forward {
			wantY++
		}
		if s.Backward {
			wantY--
		}
		if s.Right {
			wantX++
		}
		if s.Left {
			wantX--
		}

		dir := Direction(s)
		if dir.X != wantX || dir.Y != wantY {
			t.Fatalf("mask %04b: Direction = %v, want (%v, %v)", mask, dir, wantX, wantY)
		}

		pawn := newFakePawn()
		c := New(pawn, nil)
		c.state = s
		c.Update(1.0 / 60)

		if wantX == 0 && wantY == 0 {
			if len(pawn.moves) != 0 {
				t.Fatalf("mask %04b: expected no move, got %v", mask, pawn.moves)
			}
			continue
		}
		if len(pawn.moves) != 1 {
			t.Fatalf("mask %04b: expected 1 move, got %d", mask, len(pawn.moves))
		}
		if l := pawn.moves[0].dir.Length(); math.Abs(l-1) > eps {
			t.Fatalf("mask %04b: move direction length = %v, want 1", mask, l)
		}
	}
}

func TestUpdateOppositeKeysCancel(t *testing.T) {
	cases := []struct {
		name string
		keys []input.Key
	}{
		{"forward_backward", []input.Key{input.KeyW, input.KeyS}},
		{"left_right", []input.Key{input.KeyA, input.KeyD}},
		{"all_four", []input.Key{input.KeyW, input.KeyS, input.KeyArrowLeft, input.KeyArrowRight}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			bus := input.NewBus()
			pawn := newFakePawn()
			ctrl := New(pawn, bus)
			for _, k := range c.keys {
				bus.Publish(input.Event{Key: k, Down: true})
			}
			ctrl.Update(0.016)
			if len(pawn.moves) != 0 {
				t.Fatalf("expected no move command, got %v", pawn.moves)
			}
		})
	}
}

func TestUpdateDiagonalIsUnitLength(t *testing.T) {
	bus := input.NewBus()
	pawn := newFakePawn()
	ctrl := New(pawn, bus)
	bus.Publish(input.Event{Key: input.KeyW, Down: true})
	bus.Publish(input.Event{Key: input.KeyD, Down: true})
	ctrl.Update(0.1)

	if len(pawn.moves) != 1 {
		t.Fatalf("expected 1 move, got %d", len(pawn.moves))
	}
	got := pawn.moves[0].dir
	want := 1 / math.Sqrt2
	if math.Abs(got.X-want) > eps || math.Abs(got.Y-want) > eps {
		t.Fatalf("diagonal direction = %v, want (%v, %v)", got, want, want)
	}
}

func TestKeyPressReleaseLeavesOthersUntouched(t *testing.T) {
	bus := input.NewBus()
	ctrl := New(newFakePawn(), bus)

	bus.Publish(input.Event{Key: input.KeyD, Down: true})
	bus.Publish(input.Event{Key: input.KeyW, Down: true})
	if !ctrl.State().Forward {
		t.Fatalf("forward should be held after KeyW down")
	}
	bus.Publish(input.Event{Key: input.KeyW, Down: false})

	s := ctrl.State()
	if s.Forward {
		t.Fatalf("forward should be released after KeyW up")
	}
	if !s.Right {
		t.Fatalf("right should still be held")
	}
	if s.Backward || s.Left || s.Jump || s.Shoot {
		t.Fatalf("unexpected flags set: %+v", s)
	}
}

func TestUnknownKeysIgnored(t *testing.T) {
	bus := input.NewBus()
	pawn := newFakePawn()
	ctrl := New(pawn, bus)

	before := ctrl.State()
	for _, k := range []input.Key{"KeyQ", "keyw", "", "Escape"} {
		bus.Publish(input.Event{Key: k, Down: true})
	}
	if ctrl.State() != before {
		t.Fatalf("unknown keys changed state: %+v", ctrl.State())
	}
	ctrl.Update(1)
	if len(pawn.moves) != 0 || pawn.jumps != 0 || pawn.shots != 0 {
		t.Fatalf("unknown keys issued commands")
	}
}

func TestUpdateZeroDtHasNoDisplacement(t *testing.T) {
	for _, dt := range []float64{0, -0.5} {
		pawn := newFakePawn()
		ctrl := New(pawn, nil)
		ctrl.MoveForward()
		ctrl.MoveRight()
		ctrl.Update(dt)

		for _, m := range pawn.moves {
			if d := m.speed * m.dt; d != 0 {
				t.Fatalf("dt=%v produced displacement %v", dt, d)
			}
		}
	}
}

func TestUpdateAirControl(t *testing.T) {
	cases := []struct {
		name     string
		grounded bool
		want     float64
	}{
		{"grounded", true, 5.0},
		{"airborne", false, 2.5},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pawn := newFakePawn()
			pawn.grounded = c.grounded
			ctrl := New(pawn, nil)
			ctrl.MoveForward()
			ctrl.Update(0.016)

			if len(pawn.moves) != 1 {
				t.Fatalf("expected 1 move, got %d", len(pawn.moves))
			}
			if got := pawn.moves[0].speed; math.Abs(got-c.want) > eps {
				t.Fatalf("speed = %v, want %v", got, c.want)
			}
			if got := pawn.moves[0].dt; got != 0.016 {
				t.Fatalf("dt = %v, want 0.016", got)
			}
		})
	}
}

func TestJumpGating(t *testing.T) {
	pawn := newFakePawn()
	ctrl := New(pawn, nil)

	pawn.canJump = false
	if ctrl.Jump() {
		t.Fatalf("Jump should report false when pawn cannot jump")
	}
	if pawn.jumps != 0 {
		t.Fatalf("expected no jump command, got %d", pawn.jumps)
	}

	pawn.canJump = true
	if !ctrl.Jump() {
		t.Fatalf("Jump should report true when pawn can jump")
	}
	if pawn.jumps != 1 {
		t.Fatalf("expected exactly 1 jump command, got %d", pawn.jumps)
	}
}

func TestShootGating(t *testing.T) {
	pawn := newFakePawn()
	ctrl := New(pawn, nil)

	pawn.canShoot = false
	if _, ok := ctrl.Shoot(); ok {
		t.Fatalf("Shoot should report absent when pawn cannot shoot")
	}
	if pawn.shots != 0 {
		t.Fatalf("expected no shot, got %d", pawn.shots)
	}

	pawn.canShoot = true
	res, ok := ctrl.Shoot()
	if !ok || res.Hit {
		t.Fatalf("Shoot = (%+v, %v), want a shot with no hit", res, ok)
	}

	pawn.hit = HitResult{Hit: true, Target: "dummy", Distance: 3}
	res, ok = ctrl.Shoot()
	if !ok || res.Target != "dummy" {
		t.Fatalf("Shoot = (%+v, %v), want hit on dummy", res, ok)
	}
	if pawn.shots != 2 {
		t.Fatalf("expected 2 shots, got %d", pawn.shots)
	}
}

func TestLevelTriggeredActions(t *testing.T) {
	bus := input.NewBus()
	pawn := newFakePawn()
	ctrl := New(pawn, bus)

	bus.Publish(input.Event{Key: input.KeySpace, Down: true})
	bus.Publish(input.Event{Key: input.MouseLeft, Down: true})
	for i := 0; i < 3; i++ {
		ctrl.Update(0.016)
	}
	if pawn.jumps != 3 || pawn.shots != 3 {
		t.Fatalf("level trigger: jumps=%d shots=%d, want 3 each", pawn.jumps, pawn.shots)
	}

	pawn.reset()
	pawn.canJump = false
	ctrl.Update(0.016)
	if pawn.jumps != 0 || pawn.checks != 1 {
		t.Fatalf("ineligible pawn: jumps=%d checks=%d, want 0 and 1", pawn.jumps, pawn.checks)
	}

	pawn.reset()
	bus.Publish(input.Event{Key: input.KeySpace, Down: false})
	bus.Publish(input.Event{Key: input.MouseLeft, Down: false})
	ctrl.Update(0.016)
	if pawn.checks != 0 || pawn.shots != 0 {
		t.Fatalf("released keys still attempted actions")
	}
}

func TestEdgeTriggeredActions(t *testing.T) {
	bus := input.NewBus()
	pawn := newFakePawn()
	ctrl := New(pawn, bus, WithTrigger(TriggerEdge))

	bus.Publish(input.Event{Key: input.KeySpace, Down: true})
	bus.Publish(input.Event{Key: input.KeySpace, Down: true})
	for i := 0; i < 3; i++ {
		ctrl.Update(0.016)
	}
	if pawn.jumps != 1 {
		t.Fatalf("held key fired %d jumps, want 1", pawn.jumps)
	}

	bus.Publish(input.Event{Key: input.KeySpace, Down: false})
	bus.Publish(input.Event{Key: input.KeySpace, Down: true})
	ctrl.Update(0.016)
	if pawn.jumps != 2 {
		t.Fatalf("re-press fired total %d jumps, want 2", pawn.jumps)
	}

	// press and release between frames still counts once
	bus.Publish(input.Event{Key: input.KeyEnter, Down: true})
	bus.Publish(input.Event{Key: input.KeyEnter, Down: false})
	ctrl.Update(0.016)
	ctrl.Update(0.016)
	if pawn.shots != 1 {
		t.Fatalf("tap fired %d shots, want 1", pawn.shots)
	}
}

func TestUpdateIssuesAtMostOneOfEach(t *testing.T) {
	bus := input.NewBus()
	pawn := newFakePawn()
	ctrl := New(pawn, bus)

	for _, k := range []input.Key{input.KeyW, input.KeyArrowUp, input.KeyD, input.KeySpace, input.MouseLeft, input.KeyEnter} {
		bus.Publish(input.Event{Key: k, Down: true})
	}
	ctrl.Update(0.016)
	if len(pawn.moves) != 1 || pawn.jumps != 1 || pawn.shots != 1 {
		t.Fatalf("moves=%d jumps=%d shots=%d, want 1 each", len(pawn.moves), pawn.jumps, pawn.shots)
	}
}

func TestDestroyDetachesListeners(t *testing.T) {
	bus := input.NewBus()
	pawn := newFakePawn()
	ctrl := New(pawn, bus)
	if bus.Len() != 1 {
		t.Fatalf("expected controller to subscribe on construction")
	}

	ctrl.Destroy()
	ctrl.Destroy()
	if bus.Len() != 0 {
		t.Fatalf("expected no subscribers after Destroy, got %d", bus.Len())
	}

	bus.Publish(input.Event{Key: input.KeyW, Down: true})
	bus.Publish(input.Event{Key: input.KeySpace, Down: true})
	ctrl.MoveLeft()
	ctrl.Update(0.016)

	if len(pawn.moves) != 0 || pawn.jumps != 0 || pawn.shots != 0 {
		t.Fatalf("commands issued after Destroy: moves=%d jumps=%d shots=%d", len(pawn.moves), pawn.jumps, pawn.shots)
	}
	if ctrl.State() != (input.State{}) {
		t.Fatalf("state changed after Destroy: %+v", ctrl.State())
	}
}

func TestDestroyReleasesHeldKeys(t *testing.T) {
	bus := input.NewBus()
	pawn := newFakePawn()
	ctrl := New(pawn, bus)
	bus.Publish(input.Event{Key: input.KeyW, Down: true})
	ctrl.Destroy()
	ctrl.Update(0.016)
	if len(pawn.moves) != 0 {
		t.Fatalf("held key moved pawn after Destroy")
	}
}

func TestManualOverrides(t *testing.T) {
	bus := input.NewBus()
	pawn := newFakePawn()
	ctrl := New(pawn, bus)

	ctrl.MoveForward()
	ctrl.MoveLeft()
	ctrl.Update(0.016)
	ctrl.Update(0.016)
	if len(pawn.moves) != 2 {
		t.Fatalf("latched overrides should move every frame, got %d moves", len(pawn.moves))
	}

	ctrl.Release(input.ActionLeft)
	if s := ctrl.State(); !s.Forward || s.Left {
		t.Fatalf("Release(left) state = %+v", s)
	}

	bus.Publish(input.Event{Key: input.KeyW, Down: false})
	if ctrl.State().Forward {
		t.Fatalf("keyboard release should clear a latched override")
	}

	ctrl.MoveBackward()
	ctrl.MoveRight()
	ctrl.ReleaseAll()
	pawn.reset()
	ctrl.Update(0.016)
	if len(pawn.moves) != 0 {
		t.Fatalf("ReleaseAll left movement held")
	}
}

func TestConfigure(t *testing.T) {
	bus := input.NewBus()
	pawn := newFakePawn()
	ctrl := New(pawn, bus, WithBindings(input.Bindings{"KeyI": input.ActionForward}))

	bus.Publish(input.Event{Key: input.KeyW, Down: true})
	if ctrl.State().Forward {
		t.Fatalf("custom bindings should not contain KeyW")
	}
	bus.Publish(input.Event{Key: "KeyI", Down: true})
	if !ctrl.State().Forward {
		t.Fatalf("KeyI should map to forward")
	}

	ctrl.Configure(Config{Trigger: TriggerEdge})
	if ctrl.Config().Trigger != TriggerEdge {
		t.Fatalf("Configure did not apply trigger")
	}
	if _, ok := ctrl.Config().Bindings.Lookup(input.KeyW); !ok {
		t.Fatalf("Configure with nil bindings should restore defaults")
	}
	if ctrl.State() != (input.State{}) {
		t.Fatalf("Configure should release held actions, got %+v", ctrl.State())
	}
}

func TestConfigureRebindWhileHeld(t *testing.T) {
	bus := input.NewBus()
	pawn := newFakePawn()
	ctrl := New(pawn, bus)

	bus.Publish(input.Event{Key: input.KeyW, Down: true})
	ctrl.Configure(Config{Bindings: input.Bindings{input.KeyW: input.ActionLeft}})
	bus.Publish(input.Event{Key: input.KeyW, Down: false})
	ctrl.Update(0.016)

	if s := ctrl.State(); s.Forward || s.Left {
		t.Fatalf("action stuck after rebind: %+v", s)
	}
	if len(pawn.moves) != 0 {
		t.Fatalf("pawn moved with no key held: %v", pawn.moves)
	}
}

func TestJumpShootAfterDestroy(t *testing.T) {
	pawn := newFakePawn()
	ctrl := New(pawn, nil)
	ctrl.Destroy()

	if ctrl.Jump() {
		t.Fatalf("Jump should report false after Destroy")
	}
	if _, ok := ctrl.Shoot(); ok {
		t.Fatalf("Shoot should report absent after Destroy")
	}
	if pawn.jumps != 0 || pawn.shots != 0 || pawn.checks != 0 {
		t.Fatalf("pawn touched after Destroy: jumps=%d shots=%d checks=%d", pawn.jumps, pawn.shots, pawn.checks)
	}
}

func TestParseTrigger(t *testing.T) {
	cases := []struct {
		in      string
		want    Trigger
		wantErr bool
	}{
		{"", TriggerLevel, false},
		{"level", TriggerLevel, false},
		{"edge", TriggerEdge, false},
		{"Edge", TriggerLevel, true},
	}
	for _, c := range cases {
		got, err := ParseTrigger(c.in)
		if (err != nil) != c.wantErr {
			t.Fatalf("ParseTrigger(%q) err = %v, wantErr %v", c.in, err, c.wantErr)
		}
		if got != c.want {
			t.Fatalf("ParseTrigger(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestConfigFromSpec(t *testing.T) {
	spec, err := prefabs.LoadControllerSpec()
	if err != nil {
		t.Fatalf("LoadControllerSpec: %v", err)
	}
	cfg, err := ConfigFromSpec(spec)
	if err != nil {
		t.Fatalf("ConfigFromSpec: %v", err)
	}
	if cfg.Trigger != TriggerLevel {
		t.Fatalf("trigger = %v, want level", cfg.Trigger)
	}
	def := input.DefaultBindings()
	if len(cfg.Bindings) != len(def) {
		t.Fatalf("prefab bindings have %d keys, defaults have %d", len(cfg.Bindings), len(def))
	}
	for k, a := range def {
		if got, ok := cfg.Bindings.Lookup(k); !ok || got != a {
			t.Fatalf("prefab binding %q = (%v, %v), want %v", k, got, ok, a)
		}
	}

	if _, err := ConfigFromSpec(&prefabs.ControllerSpec{Trigger: "sometimes"}); err == nil {
		t.Fatalf("expected error for bad trigger")
	}
	if _, err := ConfigFromSpec(&prefabs.ControllerSpec{Bindings: map[string][]string{"fly": {"KeyF"}}}); !errors.Is(err, input.ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
	if cfg, err := ConfigFromSpec(nil); err != nil || cfg.Trigger != TriggerLevel {
		t.Fatalf("nil spec = (%v, %v), want defaults", cfg, err)
	}
}
