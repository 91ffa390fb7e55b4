package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateGameConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *GameConfig)
		wantErr string
	}{
		{"valid default", func(c *GameConfig) {}, ""},
		{"missing name", func(c *GameConfig) { c.Name = "" }, "name is required"},
		{"missing description", func(c *GameConfig) { c.Description = "" }, "description is required"},
		{"missing glyph", func(c *GameConfig) { delete(c.Glyphs, SymbolFood) }, "glyphs['food'] is required"},
		{"wide glyph", func(c *GameConfig) { c.Glyphs[SymbolWall] = "##" }, "single character"},
		{"unknown glyph", func(c *GameConfig) { c.Glyphs[Symbol("tail")] = "~" }, "unknown glyph symbol"},
		{"long key name", func(c *GameConfig) { c.Keys["up"] = InputUp }, "single character"},
		{"bad input", func(c *GameConfig) { c.Keys["x"] = Input("jump") }, "invalid input"},
		{"unbound quit", func(c *GameConfig) { delete(c.Keys, KeyEscape) }, "no key bound to 'quit'"},
		{"score without verb", func(c *GameConfig) { c.Messages.Score = "Score" }, "messages.score"},
		{"two score verbs", func(c *GameConfig) { c.Messages.Score = "%d of %d" }, "exactly one value"},
		{"score with literal percent", func(c *GameConfig) { c.Messages.Score = "Score: %d (100%%)" }, ""},
		{"missing died", func(c *GameConfig) { c.Messages.Died = "" }, "messages.died"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := ValidateGameConfig(config)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected valid config, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateGameConfig_Nil(t *testing.T) {
	if err := ValidateGameConfig(nil); err == nil {
		t.Error("Expected error for nil config")
	}
}

func TestLoadGameConfig_JSON(t *testing.T) {
	dir := t.TempDir()
	config := DefaultConfig()
	config.Name = "json theme"

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}
	path := filepath.Join(dir, "theme.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	loaded, err := LoadGameConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if loaded.Name != "json theme" {
		t.Errorf("Expected name 'json theme', got %q", loaded.Name)
	}
	if loaded.Keys["w"] != InputUp {
		t.Errorf("Expected 'w' bound to up, got %q", loaded.Keys["w"])
	}
}

func TestLoadGameConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	yamlTheme := `name: blocks
description: Block glyphs
glyphs:
  empty: " "
  wall: "#"
  food: "*"
  body: "o"
  head_up: "A"
  head_down: "V"
  head_left: "<"
  head_right: ">"
  head_idle: "O"
keys:
  esc: quit
  r: restart
  i: up
  k: down
  j: left
  l: right
messages:
  welcome: hi
  score: "Points: %d"
  died: "Dead. R restarts"
`
	path := filepath.Join(dir, "blocks.yaml")
	if err := os.WriteFile(path, []byte(yamlTheme), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	loaded, err := LoadGameConfig(path)
	if err != nil {
		t.Fatalf("Failed to load YAML config: %v", err)
	}
	if loaded.Glyphs[SymbolFood] != "*" {
		t.Errorf("Expected food glyph '*', got %q", loaded.Glyphs[SymbolFood])
	}
	if loaded.Keys["i"] != InputUp {
		t.Errorf("Expected 'i' bound to up, got %q", loaded.Keys["i"])
	}
	if loaded.Messages.Score != "Points: %d" {
		t.Errorf("Unexpected score message %q", loaded.Messages.Score)
	}
}

func TestLoadGameConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadGameConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte("{not json"), 0644)
	if _, err := LoadGameConfig(bad); err == nil {
		t.Error("Expected error for malformed JSON")
	}

	invalid := filepath.Join(dir, "invalid.json")
	os.WriteFile(invalid, []byte(`{"name":"x"}`), 0644)
	if _, err := LoadGameConfig(invalid); err == nil {
		t.Error("Expected validation error for incomplete config")
	}
}

func TestGameConfig_KeyFor(t *testing.T) {
	config := DefaultConfig()

	if k := config.KeyFor(InputRestart); k != "r" {
		t.Errorf("Expected 'r' for restart, got %q", k)
	}
	if k := config.KeyFor(InputQuit); k != KeyEscape {
		t.Errorf("Expected %q for quit, got %q", KeyEscape, k)
	}
	if k := config.KeyFor(InputNone); k != "" {
		t.Errorf("Expected no key for none, got %q", k)
	}
}
