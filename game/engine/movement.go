package engine

// Advance shifts the snake one cell in the current direction and returns
// the segment removed from the tail. With no direction the tail is put
// back and nothing moves. No bounds or collision checks happen here.
func (gs *GameState) Advance() Position {
	head := gs.Snake.Head()
	tail := gs.Snake.PopFront()

	if gs.Direction.IsNone() {
		gs.Snake.PushFront(tail)
		return tail
	}

	dx, dy := gs.Direction.Delta()
	gs.Snake.PushBack(Position{X: head.X + dx, Y: head.Y + dy})
	return tail
}

// Tick applies one input and, while alive, one simulation step
func (gs *GameState) Tick(input Input) {
	gs.Ticks++
	gs.applyInput(input)

	if !gs.Alive {
		return
	}

	tail := gs.Advance()
	head := gs.Snake.Head()

	grow := false
	for i := range gs.Entities {
		e := &gs.Entities[i]
		if e.Position != head {
			continue
		}
		switch e.Kind {
		case Food:
			e.Position = gs.randomFoodPosition()
			grow = true
		case Wall:
			gs.Alive = false
			return
		}
	}

	for _, part := range gs.Snake.Body() {
		if part == head {
			gs.Alive = false
			return
		}
	}

	if grow {
		gs.Snake.PushFront(tail)
	}
}

// CanTurn reports whether a directional request would be accepted
func (gs *GameState) CanTurn(d Direction) bool {
	return gs.Alive && d != gs.Direction.Opposite()
}

func (gs *GameState) applyInput(input Input) {
	switch input {
	case InputQuit:
		gs.Running = false
	case InputRestart:
		if !gs.Alive {
			gs.Reset()
		}
	case InputUp, InputDown, InputLeft, InputRight:
		d := input.Direction()
		if gs.CanTurn(d) {
			gs.Direction = d
		}
	}
}
