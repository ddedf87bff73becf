package controller

import "github.com/jakecoffman/cp"

// Pawn is the entity a Controller drives. Implementations own physics,
// eligibility rules and hit detection; the controller only asks and commands.
type Pawn interface {
	IsOnGround() bool
	CanJump() bool
	Jump()
	CanShoot() bool
	Shoot() HitResult
	// Move requests displacement along dir (unit length) at speed for dt
	// seconds.
	Move(dir cp.Vector, speed, dt float64)
	// MoveSpeed is the grounded base speed.
	MoveSpeed() float64
	// AirControl scales MoveSpeed while airborne. Expected in (0, 1].
	AirControl() float64
}

// HitResult is the outcome of a hitscan shot.
type HitResult struct {
	Hit      bool
	Target   string
	Point    cp.Vector
	Distance float64
}
