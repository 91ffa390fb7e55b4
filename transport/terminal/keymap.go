package terminal

import "github.com/wricardo/terminal-snake/game/engine"

// Keymap translates key names into game inputs
type Keymap map[string]engine.Input

// NewKeymap builds the keymap for a theme
func NewKeymap(config *engine.GameConfig) Keymap {
	km := make(Keymap, len(config.Keys))
	for key, in := range config.Keys {
		km[key] = in
	}
	return km
}

// Translate returns the input bound to key. Unbound keys, and no key at
// all, are InputNone.
func (k Keymap) Translate(key string, ok bool) engine.Input {
	if !ok {
		return engine.InputNone
	}
	if in, bound := k[key]; bound {
		return in
	}
	return engine.InputNone
}
