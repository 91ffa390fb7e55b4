package engine

// Direction is the heading of the snake's head
type Direction string

const (
	DirNone  Direction = "none"
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// Input is a single discrete event consumed by Tick
type Input string

const (
	InputNone    Input = "none"
	InputQuit    Input = "quit"
	InputRestart Input = "restart"
	InputUp      Input = "up"
	InputDown    Input = "down"
	InputLeft    Input = "left"
	InputRight   Input = "right"
)

// EntityKind distinguishes static walls from food
type EntityKind string

const (
	Wall EntityKind = "wall"
	Food EntityKind = "food"
)

// Symbol is the printable class of a rendered cell
type Symbol string

const (
	SymbolEmpty     Symbol = "empty"
	SymbolWall      Symbol = "wall"
	SymbolFood      Symbol = "food"
	SymbolBody      Symbol = "body"
	SymbolHeadUp    Symbol = "head_up"
	SymbolHeadDown  Symbol = "head_down"
	SymbolHeadLeft  Symbol = "head_left"
	SymbolHeadRight Symbol = "head_right"
	SymbolHeadIdle  Symbol = "head_idle"
)

// AllSymbols lists every symbol a theme must provide a glyph for
var AllSymbols = []Symbol{
	SymbolEmpty,
	SymbolWall,
	SymbolFood,
	SymbolBody,
	SymbolHeadUp,
	SymbolHeadDown,
	SymbolHeadLeft,
	SymbolHeadRight,
	SymbolHeadIdle,
}

const (
	// Grid constants. The playing field is fixed; only tests and
	// embedders construct other sizes.
	DefaultWidth  = 40
	DefaultHeight = 20
	MinGridSize   = 5

	// FoodMargin is the distance kept between food and the border
	FoodMargin = 2

	MaxBulkTicks        = 100
	WebSocketBufferSize = 256
)

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Entity is a wall or food item occupying one cell
type Entity struct {
	Kind     EntityKind `json:"kind"`
	Position Position   `json:"position"`
}

// GameConfig is a theme: how the board is drawn, which keys map to
// which inputs and the status texts. Grid geometry is not part of it.
type GameConfig struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Glyphs      map[Symbol]string `json:"glyphs" yaml:"glyphs"`
	Keys        map[string]Input  `json:"keys" yaml:"keys"`
	Messages    struct {
		Welcome string `json:"welcome" yaml:"welcome"`
		Score   string `json:"score" yaml:"score"`
		Died    string `json:"died" yaml:"died"`
	} `json:"messages" yaml:"messages"`
}

// TickHistoryEntry records the outcome of a single tick
type TickHistoryEntry struct {
	Input      Input     `json:"input"`
	Direction  Direction `json:"direction"`
	From       Position  `json:"from"`
	To         Position  `json:"to"`
	Length     int       `json:"length"`
	Ate        bool      `json:"ate,omitempty"`
	Died       bool      `json:"died,omitempty"`
	Restarted  bool      `json:"restarted,omitempty"`
	Timestamp  int64     `json:"timestamp"`
	TickNumber int       `json:"tick_number"`
}
