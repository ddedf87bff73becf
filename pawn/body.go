package pawn

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/pawnctl/controller"
	"github.com/milk9111/pawnctl/prefabs"
)

var _ controller.Pawn = (*Body)(nil)

// Shot records the most recent hitscan for rendering.
type Shot struct {
	From, To cp.Vector
	Result   controller.HitResult
}

// Body is a pawn in a World. Planar motion goes through Chipmunk; height
// above the ground plane is integrated here.
type Body struct {
	world  *World
	spec   prefabs.PawnSpec
	body   *cp.Body
	shape  *cp.Shape
	filter cp.ShapeFilter

	facing  cp.Vector
	pending cp.Vector

	height   float64
	vz       float64
	cooldown float64

	lastShot *Shot
}

// Name is the prefab name the body was spawned with.
func (b *Body) Name() string { return b.spec.Name }

// Position is the planar position.
func (b *Body) Position() cp.Vector { return b.body.Position() }

// Height is the distance above the ground plane.
func (b *Body) Height() float64 { return b.height }

// Facing is the unit direction of the last move.
func (b *Body) Facing() cp.Vector { return b.facing }

// Radius is the collision radius fixed at spawn.
func (b *Body) Radius() float64 { return b.spec.Radius }

// LastShot returns the most recent shot, or nil if none was fired.
func (b *Body) LastShot() *Shot { return b.lastShot }

// Retune applies new tuning values. Radius and spawn point only take
// effect on the next Spawn.
func (b *Body) Retune(spec prefabs.PawnSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	spec.Radius = b.spec.Radius
	b.spec = spec
	return nil
}

func (b *Body) MoveSpeed() float64  { return b.spec.MoveSpeed }
func (b *Body) AirControl() float64 { return b.spec.AirControl }

func (b *Body) IsOnGround() bool {
	return b.height <= 0 && b.vz <= 0
}

func (b *Body) CanJump() bool {
	return b.IsOnGround()
}

func (b *Body) Jump() {
	b.vz = b.spec.JumpSpeed
}

func (b *Body) CanShoot() bool {
	return b.cooldown <= 0
}

// Shoot casts a segment along the facing direction and reports the first
// wall or target it touches. The pawn's own shape is never hit.
func (b *Body) Shoot() controller.HitResult {
	b.cooldown = b.spec.ShootCooldown

	from := b.body.Position()
	to := from.Add(b.facing.Mult(b.spec.ShootRange))
	info := b.world.space.SegmentQueryFirst(from, to, 0, b.filter)

	res := controller.HitResult{}
	if info.Shape != nil {
		res = controller.HitResult{
			Hit:      true,
			Target:   b.world.nameOf(info.Shape),
			Point:    info.Point,
			Distance: info.Alpha * b.spec.ShootRange,
		}
		to = info.Point
	}
	b.lastShot = &Shot{From: from, To: to, Result: res}
	return res
}

// Move queues planar displacement dir*speed*dt for the next World.Step.
func (b *Body) Move(dir cp.Vector, speed, dt float64) {
	if dir.Length() > 0 {
		b.facing = dir.Normalize()
	}
	if dt <= 0 || speed == 0 {
		return
	}
	b.pending = b.pending.Add(dir.Mult(speed * dt))
}

func (b *Body) beforeStep(dt float64) {
	if dt <= 0 {
		b.body.SetVelocityVector(cp.Vector{})
		return
	}
	b.body.SetVelocityVector(b.pending.Mult(1 / dt))
}

func (b *Body) afterStep(dt float64) {
	b.pending = cp.Vector{}
	b.body.SetVelocityVector(cp.Vector{})
	if dt <= 0 {
		return
	}

	if b.cooldown > 0 {
		b.cooldown -= dt
	}

	if b.height > 0 || b.vz > 0 {
		b.vz -= b.spec.Gravity * dt
		b.height += b.vz * dt
		if b.height <= 0 {
			b.height = 0
			b.vz = 0
		}
	}
}
