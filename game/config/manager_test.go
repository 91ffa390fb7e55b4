package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/terminal-snake/game/engine"
)

func createValidConfig() *engine.GameConfig {
	return engine.DefaultConfig()
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.GameConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

const yamlTheme = `name: Blocks
description: Block glyphs with vim keys
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
  k: up
  j: down
  h: left
  l: right
messages:
  welcome: hjkl to steer
  score: "Points: %d"
  died: "Dead. r restarts"
`

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "classic", createValidConfig())

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.ConfigDir() != dir {
			t.Errorf("Expected config dir %s, got %s", dir, manager.ConfigDir())
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory falls back to built-in theme", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed without theme files, got error: %v", err)
		}

		defaultConfig := manager.GetDefault()
		if defaultConfig == nil {
			t.Fatal("Expected default config to be available")
		}
		if defaultConfig.Name != "classic" {
			t.Errorf("Expected built-in classic theme, got '%s'", defaultConfig.Name)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())

	fancy := createValidConfig()
	fancy.Name = "Fancy"
	fancy.Glyphs[engine.SymbolWall] = "█"
	writeConfigFile(t, dir, "fancy", fancy)

	if err := os.WriteFile(filepath.Join(dir, "blocks.yaml"), []byte(yamlTheme), 0644); err != nil {
		t.Fatalf("Failed to write YAML theme: %v", err)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing config", func(t *testing.T) {
		config, err := manager.LoadConfig("fancy")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Fancy" {
			t.Errorf("Expected config name 'Fancy', got '%s'", config.Name)
		}
		if config.Glyphs[engine.SymbolWall] != "█" {
			t.Errorf("Expected wall glyph '█', got '%s'", config.Glyphs[engine.SymbolWall])
		}
	})

	t.Run("load with .json extension", func(t *testing.T) {
		config, err := manager.LoadConfig("fancy.json")
		if err != nil {
			t.Fatalf("Failed to load config with extension: %v", err)
		}
		if config.Name != "Fancy" {
			t.Errorf("Expected config name 'Fancy', got '%s'", config.Name)
		}
	})

	t.Run("load yaml theme by id", func(t *testing.T) {
		config, err := manager.LoadConfig("blocks")
		if err != nil {
			t.Fatalf("Failed to load YAML config: %v", err)
		}
		if config.Keys["h"] != engine.InputLeft {
			t.Errorf("Expected 'h' bound to left, got '%s'", config.Keys["h"])
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		config1, _ := manager.LoadConfig("fancy")
		config2, err := manager.LoadConfig("fancy.json")
		if err != nil {
			t.Fatalf("Failed to load config from cache: %v", err)
		}
		if config1 != config2 {
			t.Error("Expected config to be loaded from cache")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := manager.LoadConfig("non-existent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load invalid config", func(t *testing.T) {
		err := os.WriteFile(filepath.Join(dir, "invalid.json"), []byte(`{"name": ""}`), 0644)
		if err != nil {
			t.Fatalf("Failed to write invalid config: %v", err)
		}

		_, err = manager.LoadConfig("invalid")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		err := os.WriteFile(filepath.Join(dir, "malformed.json"), []byte(`{"name": "Malformed", invalid json}`), 0644)
		if err != nil {
			t.Fatalf("Failed to write malformed config: %v", err)
		}

		_, err = manager.LoadConfig("malformed")
		if err == nil {
			t.Error("Expected error for malformed JSON")
		}
	})
}

func TestManager_GetDefault(t *testing.T) {
	t.Run("prefers classic", func(t *testing.T) {
		dir := t.TempDir()
		classic := createValidConfig()
		classic.Description = "On disk"
		writeConfigFile(t, dir, "classic", classic)
		other := createValidConfig()
		other.Name = "Another"
		writeConfigFile(t, dir, "another", other)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Description != "On disk" {
			t.Errorf("Expected classic.json as default, got '%s'", manager.GetDefault().Description)
		}
	})

	t.Run("first available theme", func(t *testing.T) {
		dir := t.TempDir()
		other := createValidConfig()
		other.Name = "Another"
		writeConfigFile(t, dir, "another", other)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Another" {
			t.Errorf("Expected 'Another' as default, got '%s'", manager.GetDefault().Name)
		}
	})

	t.Run("set default", func(t *testing.T) {
		dir := t.TempDir()
		other := createValidConfig()
		other.Name = "Another"
		writeConfigFile(t, dir, "another", other)
		writeConfigFile(t, dir, "classic", createValidConfig())

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if err := manager.SetDefault("another"); err != nil {
			t.Fatalf("Failed to set default: %v", err)
		}
		if manager.GetDefault().Name != "Another" {
			t.Errorf("Expected 'Another' as default, got '%s'", manager.GetDefault().Name)
		}
		if err := manager.SetDefault("missing"); err == nil {
			t.Error("Expected error for missing default")
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()

	for _, cfg := range []struct{ filename, name string }{
		{"classic", "Classic"},
		{"neon", "Neon"},
		{"mono", "Mono"},
	} {
		config := createValidConfig()
		config.Name = cfg.name
		writeConfigFile(t, dir, cfg.filename, config)
	}
	os.WriteFile(filepath.Join(dir, "blocks.yml"), []byte(yamlTheme), 0644)

	// Ignored: wrong extension, invalid content
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configList, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configList) != 4 {
		t.Fatalf("Expected 4 configs, got %d", len(configList))
	}

	expectedIDs := []string{"blocks", "classic", "mono", "neon"}
	for i, info := range configList {
		if info.ConfigID != expectedIDs[i] {
			t.Errorf("Expected config %d to be '%s', got '%s'", i, expectedIDs[i], info.ConfigID)
		}
	}
	if configList[0].Format != "yml" || configList[1].Format != "json" {
		t.Errorf("Unexpected formats: %s, %s", configList[0].Format, configList[1].Format)
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("json", func(t *testing.T) {
		config := createValidConfig()
		config.Name = "Saved"
		if err := manager.SaveConfig("saved", config); err != nil {
			t.Fatalf("Failed to save config: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
			t.Errorf("Expected saved.json on disk: %v", err)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		config := createValidConfig()
		config.Name = "Saved YAML"
		if err := manager.SaveConfig("saved-yaml.yaml", config); err != nil {
			t.Fatalf("Failed to save config: %v", err)
		}

		loaded, err := engine.LoadGameConfig(filepath.Join(dir, "saved-yaml.yaml"))
		if err != nil {
			t.Fatalf("Failed to read back YAML theme: %v", err)
		}
		if loaded.Name != "Saved YAML" {
			t.Errorf("Expected 'Saved YAML', got '%s'", loaded.Name)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		config := createValidConfig()
		config.Messages.Score = "no verb"
		err := manager.SaveConfig("bad", config)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
		if _, statErr := os.Stat(filepath.Join(dir, "bad.json")); statErr == nil {
			t.Error("Expected invalid theme not to be written")
		}
	})
}

func TestManager_ReloadConfig(t *testing.T) {
	dir := t.TempDir()

	config := createValidConfig()
	config.Name = "Changeable"
	writeConfigFile(t, dir, "changeable", config)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	loaded, _ := manager.LoadConfig("changeable")
	if loaded.Glyphs[engine.SymbolFood] != "@" {
		t.Errorf("Expected initial food glyph '@', got '%s'", loaded.Glyphs[engine.SymbolFood])
	}

	config.Glyphs[engine.SymbolFood] = "*"
	writeConfigFile(t, dir, "changeable", config)

	if err := manager.ReloadConfig("changeable"); err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}

	reloaded, _ := manager.LoadConfig("changeable")
	if reloaded.Glyphs[engine.SymbolFood] != "*" {
		t.Errorf("Expected reloaded food glyph '*', got '%s'", reloaded.Glyphs[engine.SymbolFood])
	}
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	manager.LoadConfig("classic")

	updated := createValidConfig()
	updated.Description = "Updated"
	writeConfigFile(t, dir, "classic", updated)

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("Failed to refresh cache: %v", err)
	}
	if manager.GetDefault().Description != "Updated" {
		t.Errorf("Expected refreshed default, got '%s'", manager.GetDefault().Description)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()

	for i := 1; i <= 5; i++ {
		config := createValidConfig()
		config.Name = "Config" + string(rune('0'+i))
		writeConfigFile(t, dir, "config"+string(rune('0'+i)), config)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			configName := "config" + string(rune('0'+((id%5)+1)))
			if _, err := manager.LoadConfig(configName); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	if manager.Count() != 5 {
		t.Errorf("Expected 5 configs in cache, got %d", manager.Count())
	}
}

// Test-only helpers on Manager

func (m *Manager) ReloadConfig(name string) error {
	m.mu.Lock()
	delete(m.configs, configID(name))
	m.mu.Unlock()

	_, err := m.LoadConfig(name)
	return err
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}
