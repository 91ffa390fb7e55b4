// Package config provides theme management for terminal snake.
//
// The config package handles:
//   - Loading themes from JSON or YAML files
//   - Theme validation
//   - Default theme selection
//   - Theme discovery and listing
//
// Theme Format:
//
// Themes are stored as .json, .yaml or .yml files in the configs directory.
// Each theme defines:
//   - One glyph per board symbol (empty, wall, food, body and the five heads)
//   - A keymap from single keys (or "esc") to inputs
//   - Messages for the score line, the death prompt and the welcome text
//
// The board itself is always 40x20; themes change presentation and
// controls, never the rules.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load a specific theme
//	theme, err := manager.LoadConfig("unicode")
//
//	// Get the default theme
//	defaultTheme := manager.GetDefault()
//
//	// List available themes
//	themes, err := manager.ListConfigs()
//
// When no classic theme exists on disk the first loadable theme becomes the
// default, and an empty directory falls back to engine.DefaultConfig.
package config
