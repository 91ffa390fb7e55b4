package engine

import (
	"fmt"
	"strings"
)

// View is a read-only snapshot of the board for display
type View struct {
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Cells     [][]Symbol `json:"cells"`
	Score     int        `json:"score"`
	Alive     bool       `json:"alive"`
	Running   bool       `json:"running"`
	Direction Direction  `json:"direction"`
	Head      Position   `json:"head"`
}

// View renders the current state. Entities are stamped first so the
// snake wins when it overlaps one.
func (gs *GameState) View() *View {
	cells := make([][]Symbol, gs.Height)
	for y := range cells {
		row := make([]Symbol, gs.Width)
		for x := range row {
			row[x] = SymbolEmpty
		}
		cells[y] = row
	}

	stamp := func(p Position, s Symbol) {
		if p.Y >= 0 && p.Y < gs.Height && p.X >= 0 && p.X < gs.Width {
			cells[p.Y][p.X] = s
		}
	}

	for _, e := range gs.Entities {
		switch e.Kind {
		case Wall:
			stamp(e.Position, SymbolWall)
		case Food:
			stamp(e.Position, SymbolFood)
		}
	}
	for _, part := range gs.Snake.Body() {
		stamp(part, SymbolBody)
	}
	head := gs.Snake.Head()
	stamp(head, HeadSymbol(gs.Direction))

	return &View{
		Width:     gs.Width,
		Height:    gs.Height,
		Cells:     cells,
		Score:     gs.Score(),
		Alive:     gs.Alive,
		Running:   gs.Running,
		Direction: gs.Direction,
		Head:      head,
	}
}

// At returns the symbol at (x, y), or SymbolWall outside the grid
func (v *View) At(x, y int) Symbol {
	if y < 0 || y >= len(v.Cells) || x < 0 || x >= len(v.Cells[y]) {
		return SymbolWall
	}
	return v.Cells[y][x]
}

// Rows renders the grid through the config's glyphs, one string per row
func (v *View) Rows(config *GameConfig) []string {
	glyphs := DefaultConfig().Glyphs
	if config != nil && len(config.Glyphs) > 0 {
		glyphs = config.Glyphs
	}

	rows := make([]string, len(v.Cells))
	var b strings.Builder
	for y, row := range v.Cells {
		b.Reset()
		for _, s := range row {
			g, ok := glyphs[s]
			if !ok {
				g = "?"
			}
			b.WriteString(g)
		}
		rows[y] = b.String()
	}
	return rows
}

// Status returns the status lines shown under the board
func (v *View) Status(config *GameConfig) []string {
	if config == nil {
		config = DefaultConfig()
	}
	lines := []string{fmt.Sprintf(config.Messages.Score, v.Score)}
	if !v.Alive {
		lines = append(lines, config.Messages.Died)
	}
	return lines
}

// Lines returns the full screen: grid rows, a blank line and the status
func (v *View) Lines(config *GameConfig) []string {
	lines := v.Rows(config)
	lines = append(lines, "")
	return append(lines, v.Status(config)...)
}

// String renders the view with the default theme
func (v *View) String() string {
	return strings.Join(v.Lines(nil), "\n") + "\n"
}
