// Package validate checks theme files before they are shipped. On top of
// the engine's own validation it checks:
//   - The file parses as JSON or YAML according to its extension
//   - No two cell classes share a glyph (the idle head may reuse the body glyph)
//   - Glyphs are printable
//   - The score message formats exactly one number
//
// Valid files report the bound keys and a one-row preview of the glyphs.
package validate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wricardo/terminal-snake/game/config"
	"github.com/wricardo/terminal-snake/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Errors is empty when Valid is true; Info holds the summary lines.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// ValidateFile loads and validates a single theme file
func ValidateFile(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	theme, err := engine.ParseGameConfig(ext, data)
	if err != nil {
		format := "JSON"
		if ext == ".yaml" || ext == ".yml" {
			format = "YAML"
		}
		result.fail("Invalid %s: %v", format, err)
		return result
	}

	if err := engine.ValidateGameConfig(theme); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), "config validation: "))
		return result
	}

	checkGlyphs(&result, theme)

	if !result.Valid {
		return result
	}

	result.Info = append(result.Info, fmt.Sprintf("✓ Name: %s", theme.Name))
	stem := strings.TrimSuffix(result.File, filepath.Ext(result.File))
	if theme.Name != stem {
		result.Info = append(result.Info, fmt.Sprintf("⚠ Name differs from file name; sessions select it as %q", stem))
	}
	result.Info = append(result.Info, fmt.Sprintf("✓ Keys: %s", describeKeys(theme)))
	result.Info = append(result.Info, fmt.Sprintf("✓ Preview: %s", preview(theme)))
	if theme.Messages.Welcome == "" {
		result.Info = append(result.Info, "⚠ No welcome message")
	}

	return result
}

// checkGlyphs reports glyphs shared between cell classes and unprintable glyphs
func checkGlyphs(result *ValidationResult, theme *engine.GameConfig) {
	owners := make(map[string][]engine.Symbol)
	for _, s := range engine.AllSymbols {
		g := theme.Glyphs[s]
		r, _ := utf8.DecodeRuneInString(g)
		if !unicode.IsPrint(r) {
			result.fail("Glyph for %s is not printable: %q", s, g)
		}
		owners[g] = append(owners[g], s)
	}

	glyphs := make([]string, 0, len(owners))
	for g := range owners {
		glyphs = append(glyphs, g)
	}
	sort.Strings(glyphs)

	for _, g := range glyphs {
		symbols := owners[g]
		if len(symbols) < 2 || isBodyAndIdleHead(symbols) {
			continue
		}
		names := make([]string, len(symbols))
		for i, s := range symbols {
			names[i] = string(s)
		}
		result.fail("Glyph %q shared by %s", g, strings.Join(names, ", "))
	}
}

func isBodyAndIdleHead(symbols []engine.Symbol) bool {
	if len(symbols) != 2 {
		return false
	}
	a, b := symbols[0], symbols[1]
	return (a == engine.SymbolBody && b == engine.SymbolHeadIdle) ||
		(a == engine.SymbolHeadIdle && b == engine.SymbolBody)
}

func describeKeys(theme *engine.GameConfig) string {
	inputs := []engine.Input{
		engine.InputUp, engine.InputDown, engine.InputLeft, engine.InputRight,
		engine.InputRestart, engine.InputQuit,
	}
	parts := make([]string, len(inputs))
	for i, in := range inputs {
		parts[i] = fmt.Sprintf("%s=%s", in, theme.KeyFor(in))
	}
	return strings.Join(parts, " ")
}

// preview draws a short corridor: wall, food, a three segment snake
// heading right, wall
func preview(theme *engine.GameConfig) string {
	cells := []engine.Symbol{
		engine.SymbolWall, engine.SymbolEmpty, engine.SymbolFood, engine.SymbolEmpty,
		engine.SymbolBody, engine.SymbolBody, engine.SymbolHeadRight, engine.SymbolEmpty,
		engine.SymbolWall,
	}
	var b strings.Builder
	for _, s := range cells {
		b.WriteString(theme.Glyphs[s])
	}
	return b.String()
}

// ValidateDir validates every theme file in dir, sorted by file name
func ValidateDir(dir string) ([]ValidationResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var results []ValidationResult
	for _, entry := range entries {
		if entry.IsDir() || !isThemeFile(entry.Name()) {
			continue
		}
		results = append(results, ValidateFile(filepath.Join(dir, entry.Name())))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })
	return results, nil
}

func isThemeFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range config.Extensions {
		if ext == known {
			return true
		}
	}
	return false
}

// Report prints a concise report of results to w and reports whether every
// file was valid
func Report(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
			continue
		}

		fmt.Fprintln(w, "❌ INVALID")
		allValid = false
		for _, err := range result.Errors {
			fmt.Fprintln(w, "  ❌ "+err)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	switch {
	case len(results) == 0:
		fmt.Fprintln(w, "⚠ No theme files found")
	case allValid:
		fmt.Fprintln(w, "✅ All themes are valid!")
	default:
		fmt.Fprintln(w, "❌ Some themes have errors")
	}
	return allValid
}
