package terminal

import (
	"fmt"
	"log"

	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"

	"github.com/wricardo/terminal-snake/game/engine"
)

// Driver is the terminal surface the play loop draws on and reads keys from
type Driver interface {
	Init() error
	Close()
	// PollKey returns the next pending key without blocking
	PollKey() (string, bool)
	Paint(lines []string) error
}

// TermboxDriver draws with termbox and reads keys on a background goroutine
type TermboxDriver struct {
	events chan termbox.Event
	quit   chan struct{}
	fg, bg termbox.Attribute
}

// NewTermboxDriver returns a driver that paints white on the default background
func NewTermboxDriver() *TermboxDriver {
	return &TermboxDriver{
		events: make(chan termbox.Event, 16),
		quit:   make(chan struct{}),
		fg:     termbox.ColorWhite,
		bg:     termbox.ColorDefault,
	}
}

// Init takes over the terminal and starts reading events
func (d *TermboxDriver) Init() error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("termbox init: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)

	go func() {
		for {
			ev := termbox.PollEvent()
			if ev.Type == termbox.EventInterrupt {
				return
			}
			select {
			case d.events <- ev:
			case <-d.quit:
				return
			}
		}
	}()
	return nil
}

// Close stops the event reader and restores the terminal
func (d *TermboxDriver) Close() {
	close(d.quit)
	termbox.Interrupt()
	termbox.Close()
}

// PollKey returns the oldest unread key press, if any
func (d *TermboxDriver) PollKey() (string, bool) {
	for {
		select {
		case ev := <-d.events:
			switch ev.Type {
			case termbox.EventKey:
				if key, ok := keyName(ev); ok {
					return key, true
				}
			case termbox.EventError:
				log.Printf("[TERM] event error: %v", ev.Err)
			}
		default:
			return "", false
		}
	}
}

// Paint replaces the screen with lines, advancing by each rune's display width
func (d *TermboxDriver) Paint(lines []string) error {
	if err := termbox.Clear(d.bg, d.bg); err != nil {
		return err
	}
	for y, line := range lines {
		for _, c := range layoutLine(line) {
			termbox.SetCell(c.x, y, c.r, d.fg, d.bg)
		}
	}
	return termbox.Flush()
}

type cell struct {
	x int
	r rune
}

// layoutLine assigns each rune its starting column. Wide runes take two
// columns; zero-width runes still take one so nothing overdraws.
func layoutLine(line string) []cell {
	cells := make([]cell, 0, len(line))
	x := 0
	for _, r := range line {
		cells = append(cells, cell{x: x, r: r})
		w := runewidth.RuneWidth(r)
		if w < 1 {
			w = 1
		}
		x += w
	}
	return cells
}

func keyName(ev termbox.Event) (string, bool) {
	switch {
	case ev.Key == termbox.KeyEsc, ev.Key == termbox.KeyCtrlC:
		return engine.KeyEscape, true
	case ev.Ch != 0:
		return string(ev.Ch), true
	case ev.Key == termbox.KeySpace:
		return " ", true
	}
	return "", false
}
