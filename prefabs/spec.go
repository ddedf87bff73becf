package prefabs

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// ControllerSpec configures the input controller.
type ControllerSpec struct {
	Name    string `yaml:"name"`
	Trigger string `yaml:"trigger"`
	// Bindings maps action names to key identifiers.
	Bindings map[string][]string `yaml:"bindings"`
}

func LoadControllerSpec() (*ControllerSpec, error) {
	spec, err := LoadSpec[ControllerSpec]("controller.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type PawnSpec struct {
	Name          string  `yaml:"name"`
	MoveSpeed     float64 `yaml:"move_speed"`
	AirControl    float64 `yaml:"air_control"`
	JumpSpeed     float64 `yaml:"jump_speed"`
	Gravity       float64 `yaml:"gravity"`
	Radius        float64 `yaml:"radius"`
	ShootRange    float64 `yaml:"shoot_range"`
	ShootCooldown float64 `yaml:"shoot_cooldown"`
	Spawn         PointXY `yaml:"spawn"`
	Facing        PointXY `yaml:"facing"`
}

// Validate rejects tunings the pawn cannot run with.
func (s *PawnSpec) Validate() error {
	switch {
	case s.MoveSpeed < 0:
		return fmt.Errorf("%w: %s: move_speed %v < 0", ErrInvalidSpec, s.Name, s.MoveSpeed)
	case s.AirControl < 0 || s.AirControl > 1:
		return fmt.Errorf("%w: %s: air_control %v not in [0, 1]", ErrInvalidSpec, s.Name, s.AirControl)
	case s.Gravity <= 0:
		return fmt.Errorf("%w: %s: gravity must be positive", ErrInvalidSpec, s.Name)
	case s.Radius <= 0:
		return fmt.Errorf("%w: %s: radius must be positive", ErrInvalidSpec, s.Name)
	case s.ShootRange <= 0:
		return fmt.Errorf("%w: %s: shoot_range must be positive", ErrInvalidSpec, s.Name)
	}
	return nil
}

func LoadPawnSpec() (*PawnSpec, error) {
	spec, err := LoadSpec[PawnSpec]("pawn.yaml")
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

type ArenaSpec struct {
	Name    string       `yaml:"name"`
	Bounds  BoundsSpec   `yaml:"bounds"`
	Walls   []WallSpec   `yaml:"walls"`
	Targets []TargetSpec `yaml:"targets"`
}

func LoadArenaSpec() (*ArenaSpec, error) {
	spec, err := LoadSpec[ArenaSpec]("arena.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type PointXY struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type BoundsSpec struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

type WallSpec struct {
	AX     float64 `yaml:"ax"`
	AY     float64 `yaml:"ay"`
	BX     float64 `yaml:"bx"`
	BY     float64 `yaml:"by"`
	Radius float64 `yaml:"radius"`
}

type TargetSpec struct {
	Name   string  `yaml:"name"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
}
