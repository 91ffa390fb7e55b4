// Package terminal plays snake in a terminal.
//
// A Driver owns the screen and keyboard. TermboxDriver is the real one; it
// reads events on a background goroutine so PollKey never blocks. Run is
// the play loop: once per interval it takes at most one pending key, maps
// it through the theme's Keymap, advances the engine one tick and repaints
// the themed board with its status lines. The loop ends when the player
// quits or the context is cancelled.
//
// Usage:
//
//	eng := engine.NewEngineWithDefaults()
//	km := terminal.NewKeymap(eng.GetConfig())
//	if err := terminal.Run(ctx, eng, terminal.NewTermboxDriver(), km, 0); err != nil {
//		log.Fatal(err)
//	}
package terminal
