package engine

import "strings"

// IsNone reports whether no direction has been chosen yet
func (d Direction) IsNone() bool {
	return d == DirNone || d == ""
}

// Delta returns the unit offset of the direction
func (d Direction) Delta() (int, int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

// Opposite returns the reverse heading; none has no opposite
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	}
	return DirNone
}

// Direction maps a directional input to its heading
func (in Input) Direction() Direction {
	switch in {
	case InputUp:
		return DirUp
	case InputDown:
		return DirDown
	case InputLeft:
		return DirLeft
	case InputRight:
		return DirRight
	}
	return DirNone
}

// IsValid reports whether in is one of the known inputs
func (in Input) IsValid() bool {
	switch in {
	case InputNone, InputQuit, InputRestart, InputUp, InputDown, InputLeft, InputRight:
		return true
	}
	return false
}

// ParseInput converts user supplied text into an Input. Unknown text maps
// to InputNone and ok=false.
func ParseInput(s string) (Input, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none", "wait":
		return InputNone, true
	case "quit", "exit", "esc":
		return InputQuit, true
	case "restart", "r":
		return InputRestart, true
	case "up", "w", "north":
		return InputUp, true
	case "down", "s", "south":
		return InputDown, true
	case "left", "a", "west":
		return InputLeft, true
	case "right", "d", "east":
		return InputRight, true
	}
	return InputNone, false
}

// HeadSymbol returns the symbol drawn for the head in direction d
func HeadSymbol(d Direction) Symbol {
	switch d {
	case DirUp:
		return SymbolHeadUp
	case DirDown:
		return SymbolHeadDown
	case DirLeft:
		return SymbolHeadLeft
	case DirRight:
		return SymbolHeadRight
	}
	return SymbolHeadIdle
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

// CountEntities counts entities of the given kind
func CountEntities(entities []Entity, kind EntityKind) int {
	count := 0
	for _, e := range entities {
		if e.Kind == kind {
			count++
		}
	}
	return count
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
