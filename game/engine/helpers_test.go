package engine

import "testing"

// scriptedRand returns its values in order, falling back to lo when a
// value is out of range or the script is exhausted
type scriptedRand struct {
	vals []int
	i    int
}

func (s *scriptedRand) IntRange(lo, hi int) int {
	if s.i >= len(s.vals) {
		return lo
	}
	v := s.vals[s.i]
	s.i++
	if v < lo || v >= hi {
		return lo
	}
	return v
}

func newTestState(t *testing.T, width, height int, vals ...int) *GameState {
	t.Helper()
	gs, err := NewGameState(width, height, &scriptedRand{vals: vals})
	if err != nil {
		t.Fatalf("Failed to create game state: %v", err)
	}
	return gs
}

func setFood(gs *GameState, p Position) {
	for i := range gs.Entities {
		if gs.Entities[i].Kind == Food {
			gs.Entities[i].Position = p
		}
	}
}

func isWall(gs *GameState, p Position) bool {
	for _, e := range gs.Entities {
		if e.Kind == Wall && e.Position == p {
			return true
		}
	}
	return false
}
