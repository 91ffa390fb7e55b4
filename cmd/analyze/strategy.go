package main

import "github.com/wricardo/terminal-snake/game/engine"

var directions = []engine.Direction{engine.DirUp, engine.DirDown, engine.DirLeft, engine.DirRight}

var inputFor = map[engine.Direction]engine.Input{
	engine.DirUp:    engine.InputUp,
	engine.DirDown:  engine.InputDown,
	engine.DirLeft:  engine.InputLeft,
	engine.DirRight: engine.InputRight,
}

// Autopilot steers along the shortest free path to the food. With no path
// it turns toward the neighbour with the most open space.
type Autopilot struct{}

// NextInput picks the input for the next tick
func (a *Autopilot) NextInput(gs *engine.GameState) engine.Input {
	if !gs.Alive {
		return engine.InputRestart
	}

	blocked := a.blockedCells(gs)
	head := gs.Snake.Head()

	if food, ok := gs.FoodPosition(); ok {
		if d, found := a.BFS(head, food, gs, blocked); found {
			return inputFor[d]
		}
	}
	return a.exploreMove(gs, blocked)
}

// blockedCells marks every snake segment except the tail, which moves
// out of the way on the next tick
func (a *Autopilot) blockedCells(gs *engine.GameState) map[engine.Position]bool {
	blocked := make(map[engine.Position]bool, gs.Snake.Len())
	for i, part := range gs.Snake {
		if i == 0 && gs.Snake.Len() > 1 {
			continue
		}
		blocked[part] = true
	}
	return blocked
}

// BFS returns the first step of a shortest path from start to goal
func (a *Autopilot) BFS(start, goal engine.Position, gs *engine.GameState, blocked map[engine.Position]bool) (engine.Direction, bool) {
	type node struct {
		pos   engine.Position
		first engine.Direction
	}

	visited := map[engine.Position]bool{start: true}
	var queue []node
	for _, d := range a.firstSteps(gs) {
		next := a.getNewPosition(start, d)
		if a.isValidPosition(next, gs, blocked) {
			visited[next] = true
			queue = append(queue, node{pos: next, first: d})
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current.pos == goal {
			return current.first, true
		}
		for _, d := range directions {
			next := a.getNewPosition(current.pos, d)
			if visited[next] || !a.isValidPosition(next, gs, blocked) {
				continue
			}
			visited[next] = true
			queue = append(queue, node{pos: next, first: current.first})
		}
	}
	return engine.DirNone, false
}

// exploreMove picks the safe neighbour with the largest reachable area
func (a *Autopilot) exploreMove(gs *engine.GameState, blocked map[engine.Position]bool) engine.Input {
	head := gs.Snake.Head()
	best, bestArea := engine.InputNone, 0
	for _, d := range a.firstSteps(gs) {
		next := a.getNewPosition(head, d)
		if !a.isValidPosition(next, gs, blocked) {
			continue
		}
		if area := a.openArea(next, gs, blocked); area > bestArea {
			best, bestArea = inputFor[d], area
		}
	}
	return best
}

func (a *Autopilot) openArea(from engine.Position, gs *engine.GameState, blocked map[engine.Position]bool) int {
	visited := map[engine.Position]bool{from: true}
	queue := []engine.Position{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, d := range directions {
			next := a.getNewPosition(current, d)
			if visited[next] || !a.isValidPosition(next, gs, blocked) {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return len(visited)
}

// firstSteps excludes reversing, which the engine ignores
func (a *Autopilot) firstSteps(gs *engine.GameState) []engine.Direction {
	steps := make([]engine.Direction, 0, len(directions))
	for _, d := range directions {
		if d != gs.Direction.Opposite() {
			steps = append(steps, d)
		}
	}
	return steps
}

func (a *Autopilot) isValidPosition(pos engine.Position, gs *engine.GameState, blocked map[engine.Position]bool) bool {
	if pos.X <= 0 || pos.Y <= 0 || pos.X >= gs.Width-1 || pos.Y >= gs.Height-1 {
		return false
	}
	return !blocked[pos]
}

func (a *Autopilot) getNewPosition(pos engine.Position, d engine.Direction) engine.Position {
	dx, dy := d.Delta()
	return engine.Position{X: pos.X + dx, Y: pos.Y + dy}
}
