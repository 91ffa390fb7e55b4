package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// KeyEscape is the keymap name of the escape key
const KeyEscape = "esc"

// ValidateGameConfig validates a theme for completeness
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Every symbol needs exactly one printable character so rows stay aligned
	for _, s := range AllSymbols {
		g, ok := config.Glyphs[s]
		if !ok {
			return fmt.Errorf("config validation: glyphs['%s'] is required", s)
		}
		if utf8.RuneCountInString(g) != 1 {
			return fmt.Errorf("config validation: glyphs['%s'] must be a single character, got %q", s, g)
		}
	}
	for s := range config.Glyphs {
		if !isKnownSymbol(s) {
			return fmt.Errorf("config validation: unknown glyph symbol '%s'", s)
		}
	}

	bound := make(map[Input]bool)
	for key, in := range config.Keys {
		if key != KeyEscape && utf8.RuneCountInString(key) != 1 {
			return fmt.Errorf("config validation: key '%s' must be a single character or '%s'", key, KeyEscape)
		}
		if !in.IsValid() || in == InputNone {
			return fmt.Errorf("config validation: key '%s' maps to invalid input '%s'", key, in)
		}
		bound[in] = true
	}
	for _, in := range []Input{InputQuit, InputRestart, InputUp, InputDown, InputLeft, InputRight} {
		if !bound[in] {
			return fmt.Errorf("config validation: no key bound to '%s'", in)
		}
	}

	if !strings.Contains(config.Messages.Score, "%d") {
		return fmt.Errorf("config validation: messages.score must contain %%d for score")
	}
	if verbs := scoreVerbs(config.Messages.Score); verbs != 1 {
		return fmt.Errorf("config validation: messages.score must format exactly one value, found %d verbs in %q", verbs, config.Messages.Score)
	}
	if config.Messages.Died == "" {
		return fmt.Errorf("config validation: messages.died is required")
	}

	return nil
}

// scoreVerbs counts formatting verbs, treating %% as a literal percent
func scoreVerbs(format string) int {
	return strings.Count(format, "%") - 2*strings.Count(format, "%%")
}

// LoadGameConfig loads a theme from a JSON or YAML file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config, err := ParseGameConfig(filepath.Ext(filename), data)
	if err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ParseGameConfig decodes a theme. ext selects the format: ".yaml" and
// ".yml" are YAML, anything else JSON.
func ParseGameConfig(ext string, data []byte) (*GameConfig, error) {
	var config GameConfig
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	}
	return &config, nil
}

// DefaultConfig returns the classic ASCII theme with WASD controls
func DefaultConfig() *GameConfig {
	config := &GameConfig{
		Name:        "classic",
		Description: "Plain ASCII board with WASD controls",
		Glyphs: map[Symbol]string{
			SymbolEmpty:     ".",
			SymbolWall:      "#",
			SymbolFood:      "@",
			SymbolBody:      "0",
			SymbolHeadUp:    "^",
			SymbolHeadDown:  "v",
			SymbolHeadLeft:  "<",
			SymbolHeadRight: ">",
			SymbolHeadIdle:  "0",
		},
		Keys: map[string]Input{
			KeyEscape: InputQuit,
			"r":       InputRestart, "R": InputRestart,
			"w": InputUp, "W": InputUp,
			"a": InputLeft, "A": InputLeft,
			"s": InputDown, "S": InputDown,
			"d": InputRight, "D": InputRight,
		},
	}
	config.Messages.Welcome = "Steer with WASD, eat the food, avoid walls and yourself. Esc quits."
	config.Messages.Score = "Score: %d"
	config.Messages.Died = "You died. Press 'R' to restart"
	return config
}

// KeyFor returns a key bound to in, preferring lower case, or "" if none
func (c *GameConfig) KeyFor(in Input) string {
	var keys []string
	for key, bound := range c.Keys {
		if bound == in {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	for _, key := range keys {
		if strings.ToLower(key) == key {
			return key
		}
	}
	return keys[0]
}

func isKnownSymbol(s Symbol) bool {
	for _, known := range AllSymbols {
		if known == s {
			return true
		}
	}
	return false
}
