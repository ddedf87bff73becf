// Package pawn provides a Chipmunk backed controller.Pawn living on a flat
// ground plane with a simulated vertical axis for jumps.
package pawn

import (
	"fmt"
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/pawnctl/prefabs"
)

const (
	collisionTypeWall cp.CollisionType = iota + 1
	collisionTypeTarget
	collisionTypePawn
)

// WallName is reported as HitResult.Target when a shot stops on a wall.
const WallName = "wall"

// Target is a named hitscan target.
type Target struct {
	Name   string
	Pos    cp.Vector
	Radius float64
}

// Wall is a static segment.
type Wall struct {
	A, B   cp.Vector
	Radius float64
}

// World owns the Chipmunk space and every static shape in it.
type World struct {
	space *cp.Space

	shapeNames map[*cp.Shape]string
	targets    []Target
	walls      []Wall
	pawns      []*Body
	nextGroup  uint
}

// NewWorld creates an empty world with no planar gravity.
func NewWorld() *World {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{})

	return &World{
		space:      space,
		shapeNames: make(map[*cp.Shape]string),
	}
}

// NewWorldFromSpec builds walls, bounds and targets from an arena prefab.
func NewWorldFromSpec(spec *prefabs.ArenaSpec) *World {
	w := NewWorld()
	if spec == nil {
		return w
	}

	b := spec.Bounds
	if b.MaxX > b.MinX && b.MaxY > b.MinY {
		corners := []cp.Vector{
			{X: b.MinX, Y: b.MinY},
			{X: b.MaxX, Y: b.MinY},
			{X: b.MaxX, Y: b.MaxY},
			{X: b.MinX, Y: b.MaxY},
		}
		for i := range corners {
			w.AddWall(corners[i], corners[(i+1)%len(corners)], 0.1)
		}
	}
	for _, ws := range spec.Walls {
		w.AddWall(cp.Vector{X: ws.AX, Y: ws.AY}, cp.Vector{X: ws.BX, Y: ws.BY}, ws.Radius)
	}
	for _, ts := range spec.Targets {
		w.AddTarget(ts.Name, cp.Vector{X: ts.X, Y: ts.Y}, ts.Radius)
	}
	return w
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// AddWall adds a static segment from a to b.
func (w *World) AddWall(a, b cp.Vector, radius float64) {
	shape := cp.NewSegment(w.space.StaticBody, a, b, radius)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeWall)
	w.space.AddShape(shape)
	w.shapeNames[shape] = WallName
	w.walls = append(w.walls, Wall{A: a, B: b, Radius: radius})
}

// AddTarget adds a static circular target. Shots that hit it report name.
func (w *World) AddTarget(name string, pos cp.Vector, radius float64) {
	if radius <= 0 {
		radius = 0.5
	}
	shape := cp.NewCircle(w.space.StaticBody, radius, pos)
	shape.SetCollisionType(collisionTypeTarget)
	w.space.AddShape(shape)
	w.shapeNames[shape] = name
	w.targets = append(w.targets, Target{Name: name, Pos: pos, Radius: radius})
}

// Targets returns the targets in insertion order.
func (w *World) Targets() []Target {
	return append([]Target(nil), w.targets...)
}

// Walls returns the walls in insertion order.
func (w *World) Walls() []Wall {
	return append([]Wall(nil), w.walls...)
}

// Spawn creates a pawn body at its prefab spawn point.
func (w *World) Spawn(spec prefabs.PawnSpec) (*Body, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("pawn: spawn %s: %w", spec.Name, err)
	}

	w.nextGroup++
	// infinite moment keeps the body upright
	body := cp.NewBody(1, math.Inf(1))
	body.SetPosition(cp.Vector{X: spec.Spawn.X, Y: spec.Spawn.Y})
	shape := cp.NewCircle(body, spec.Radius, cp.Vector{})
	shape.SetFriction(0)
	shape.SetCollisionType(collisionTypePawn)
	filter := cp.NewShapeFilter(w.nextGroup, cp.ALL_CATEGORIES, cp.ALL_CATEGORIES)
	shape.SetFilter(filter)

	w.space.AddBody(body)
	w.space.AddShape(shape)
	w.shapeNames[shape] = spec.Name

	facing := cp.Vector{X: spec.Facing.X, Y: spec.Facing.Y}
	if facing.Length() == 0 {
		facing = cp.Vector{Y: 1}
	}

	b := &Body{
		world:  w,
		spec:   spec,
		body:   body,
		shape:  shape,
		filter: filter,
		facing: facing.Normalize(),
	}
	w.pawns = append(w.pawns, b)
	log.Printf("pawn: spawned %s at (%.2f, %.2f) group=%d", spec.Name, spec.Spawn.X, spec.Spawn.Y, w.nextGroup)
	return b, nil
}

// Step advances the simulation by dt seconds. Planar displacement requested
// through Move since the last Step is applied here; dt <= 0 applies none.
func (w *World) Step(dt float64) {
	if w == nil || w.space == nil {
		return
	}
	for _, p := range w.pawns {
		p.beforeStep(dt)
	}
	if dt > 0 {
		w.space.Step(dt)
	}
	for _, p := range w.pawns {
		p.afterStep(dt)
	}
}

func (w *World) nameOf(shape *cp.Shape) string {
	if shape == nil {
		return ""
	}
	return w.shapeNames[shape]
}
