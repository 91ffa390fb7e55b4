package terminal

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/wricardo/terminal-snake/game/engine"
)

// DefaultTickInterval is the pause between ticks in terminal play
const DefaultTickInterval = 200 * time.Millisecond

// Run plays eng on driver until the player quits or ctx is cancelled. Each
// iteration reads at most one key, advances one tick and repaints.
func Run(ctx context.Context, eng *engine.GameEngine, driver Driver, keymap Keymap, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if err := driver.Init(); err != nil {
		return err
	}
	defer driver.Close()

	config := eng.GetConfig()
	first := append(eng.View().Lines(config), config.Messages.Welcome)
	if err := driver.Paint(first); err != nil {
		return fmt.Errorf("paint: %w", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for eng.IsRunning() {
		key, ok := driver.PollKey()
		entry := eng.Tick(keymap.Translate(key, ok))
		if entry.Died {
			log.Printf("[PLAY] died at tick %d with score %d", entry.TickNumber, entry.Length-1)
		}
		if entry.Restarted {
			log.Printf("[PLAY] restarted at tick %d", entry.TickNumber)
		}

		if err := driver.Paint(eng.View().Lines(config)); err != nil {
			return fmt.Errorf("paint: %w", err)
		}

		select {
		case <-ctx.Done():
			log.Printf("[PLAY] interrupted: %v", ctx.Err())
			return nil
		case <-ticker.C:
		}
	}

	log.Printf("[PLAY] quit after %d ticks with score %d", eng.GetState().Ticks, eng.GetScore())
	return nil
}
