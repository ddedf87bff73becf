package input

// State holds which actions are currently held. Each flag reflects only the
// most recent down/up observed for it.
type State struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Jump     bool
	Shoot    bool

	// pressed latches a false->true transition until Consume clears it.
	pressed [len(actionNames)]bool
}

// SetKeyDown marks action as held. Repeated calls are no-ops.
func (s *State) SetKeyDown(a Action) {
	flag := s.flag(a)
	if flag == nil {
		return
	}
	if !*flag {
		s.pressed[a] = true
	}
	*flag = true
}

// SetKeyUp marks action as released. Repeated calls are no-ops.
func (s *State) SetKeyUp(a Action) {
	if flag := s.flag(a); flag != nil {
		*flag = false
	}
}

// Held reports whether action is currently held.
func (s *State) Held(a Action) bool {
	flag := s.flag(a)
	return flag != nil && *flag
}

// Consume reports whether action went from released to held since the last
// Consume for it, and clears the latch.
func (s *State) Consume(a Action) bool {
	if s.flag(a) == nil {
		return false
	}
	p := s.pressed[a]
	s.pressed[a] = false
	return p
}

// Reset releases every action and drops pending presses.
func (s *State) Reset() {
	*s = State{}
}

func (s *State) flag(a Action) *bool {
	switch a {
	case ActionForward:
		return &s.Forward
	case ActionBackward:
		return &s.Backward
	case ActionLeft:
		return &s.Left
	case ActionRight:
		return &s.Right
	case ActionJump:
		return &s.Jump
	case ActionShoot:
		return &s.Shoot
	}
	return nil
}
