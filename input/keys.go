package input

import (
	"errors"
	"fmt"
)

// Key is a logical, platform independent key identifier. Identifiers are
// case sensitive: "KeyW" is bound, "keyw" is not.
type Key string

const (
	KeyW          Key = "KeyW"
	KeyA          Key = "KeyA"
	KeyS          Key = "KeyS"
	KeyD          Key = "KeyD"
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeySpace      Key = "Space"
	KeyEnter      Key = "Enter"
	// MouseLeft is the primary click.
	MouseLeft Key = "MouseLeft"
)

// Action is a logical control the pawn responds to.
type Action uint8

const (
	ActionNone Action = iota
	ActionForward
	ActionBackward
	ActionLeft
	ActionRight
	ActionJump
	ActionShoot
)

var (
	ErrUnknownAction = errors.New("input: unknown action")
	ErrDuplicateKey  = errors.New("input: key bound to more than one action")
)

var actionNames = [...]string{
	ActionNone:     "none",
	ActionForward:  "forward",
	ActionBackward: "backward",
	ActionLeft:     "left",
	ActionRight:    "right",
	ActionJump:     "jump",
	ActionShoot:    "shoot",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// ParseAction maps an action name as written in prefabs back to an Action.
func ParseAction(name string) (Action, error) {
	for i, n := range actionNames {
		if i == int(ActionNone) {
			continue
		}
		if n == name {
			return Action(i), nil
		}
	}
	return ActionNone, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Bindings maps keys to actions. Several keys may share one action.
type Bindings map[Key]Action

// DefaultBindings returns the stock WASD/arrows layout.
func DefaultBindings() Bindings {
	return Bindings{
		KeyW:          ActionForward,
		KeyArrowUp:    ActionForward,
		KeyS:          ActionBackward,
		KeyArrowDown:  ActionBackward,
		KeyA:          ActionLeft,
		KeyArrowLeft:  ActionLeft,
		KeyD:          ActionRight,
		KeyArrowRight: ActionRight,
		KeySpace:      ActionJump,
		MouseLeft:     ActionShoot,
		KeyEnter:      ActionShoot,
	}
}

// Lookup returns the action bound to key. Unbound keys report false.
func (b Bindings) Lookup(key Key) (Action, bool) {
	a, ok := b[key]
	if !ok || a == ActionNone {
		return ActionNone, false
	}
	return a, true
}

// ParseBindings builds Bindings from an action name -> keys table. A key
// listed under two different actions is an error.
func ParseBindings(table map[string][]string) (Bindings, error) {
	b := make(Bindings)
	for name, keys := range table {
		a, err := ParseAction(name)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			if k == "" {
				continue
			}
			if prev, ok := b[Key(k)]; ok && prev != a {
				return nil, fmt.Errorf("%w: %q bound to both %s and %s", ErrDuplicateKey, k, prev, a)
			}
			b[Key(k)] = a
		}
	}
	return b, nil
}
