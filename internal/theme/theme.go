// Package theme holds the light and dark UI palettes and the active mode.
package theme

import (
	"fmt"
	"sync"
)

type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Palette is the set of named colours a client renders with.
type Palette struct {
	Background    string `json:"background"`
	Card          string `json:"card"`
	Text          string `json:"text"`
	TextSecondary string `json:"textSecondary"`
	Border        string `json:"border"`
	Primary       string `json:"primary"`
	Accent        string `json:"accent"`
	Danger        string `json:"danger"`
}

var palettes = map[Mode]Palette{
	Light: {
		Background:    "#f2f2f2",
		Card:          "#ffffff",
		Text:          "#111111",
		TextSecondary: "#666666",
		Border:        "#dddddd",
		Primary:       "#4f46e5",
		Accent:        "#22c55e",
		Danger:        "#dc2626",
	},
	Dark: {
		Background:    "#050816",
		Card:          "#0f172a",
		Text:          "#e5e7eb",
		TextSecondary: "#9ca3af",
		Border:        "#1f2937",
		Primary:       "#6366f1",
		Accent:        "#10b981",
		Danger:        "#f97373",
	},
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if _, ok := palettes[m]; !ok {
		return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
	}
	return m, nil
}

// PaletteFor returns the palette of m, falling back to light.
func PaletteFor(m Mode) Palette {
	if p, ok := palettes[m]; ok {
		return p
	}
	return palettes[Light]
}

// State is the current theme record.
type State struct {
	Mode    Mode    `json:"mode"`
	Palette Palette `json:"palette"`
}

// Theme is the mutable active mode. It is safe for concurrent use.
type Theme struct {
	mu   sync.RWMutex
	mode Mode
}

// New creates a Theme starting in mode. Unknown modes start light.
func New(mode Mode) *Theme {
	if _, ok := palettes[mode]; !ok {
		mode = Light
	}
	return &Theme{mode: mode}
}

func (t *Theme) Current() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return State{Mode: t.mode, Palette: palettes[t.mode]}
}

// Toggle flips between light and dark and returns the new state.
func (t *Theme) Toggle() State {
	t.mu.Lock()
	if t.mode == Dark {
		t.mode = Light
	} else {
		t.mode = Dark
	}
	t.mu.Unlock()
	return t.Current()
}
