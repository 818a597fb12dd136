// Package theme owns the page's display mode and accent preference.
package theme

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidAccent      = errors.New("invalid accent")
	ErrStorageUnavailable = errors.New("preference storage unavailable")
)

// Storage keys, shared with the page's inline bootstrap script.
const (
	KeyDarkMode   = "dark-mode"
	KeyColorTheme = "color-theme"
)

type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

func (m Mode) Toggle() Mode {
	if m == ModeDark {
		return ModeLight
	}
	return ModeDark
}

// storageValue is the "true"/"false" literal persisted under KeyDarkMode.
func (m Mode) storageValue() string {
	if m == ModeDark {
		return "true"
	}
	return "false"
}

// ParseMode accepts "light" or "dark".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLight, ModeDark:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid mode %q", s)
}

func modeFromStorage(v string) Mode {
	if v == "true" {
		return ModeDark
	}
	return ModeLight
}

type Accent string

const (
	AccentBlue   Accent = "blue"
	AccentOrange Accent = "orange"
	AccentRose   Accent = "rose"
	AccentGreen  Accent = "green"
	AccentViolet Accent = "violet"
	AccentYellow Accent = "yellow"
	AccentZinc   Accent = "zinc"
	AccentSlate  Accent = "slate"
	AccentStone  Accent = "stone"
)

// DefaultAccent needs no marker in either mode.
const DefaultAccent = AccentZinc

// AccentInfo is what the header's swatch panel renders for one accent.
type AccentInfo struct {
	Accent  Accent
	Name    string
	Preview string
}

var accents = []AccentInfo{
	{AccentBlue, "Blue", "linear-gradient(135deg, #3b82f6, #1d4ed8)"},
	{AccentOrange, "Orange", "linear-gradient(135deg, #f97316, #ea580c)"},
	{AccentRose, "Rose", "linear-gradient(135deg, #f43f5e, #e11d48)"},
	{AccentGreen, "Green", "linear-gradient(135deg, #10b981, #059669)"},
	{AccentViolet, "Violet", "linear-gradient(135deg, #8b5cf6, #7c3aed)"},
	{AccentYellow, "Yellow", "linear-gradient(135deg, #eab308, #ca8a04)"},
	{AccentZinc, "Zinc", "linear-gradient(135deg, #71717a, #52525b)"},
	{AccentSlate, "Slate", "linear-gradient(135deg, #64748b, #475569)"},
	{AccentStone, "Stone", "linear-gradient(135deg, #78716c, #57534e)"},
}

// Accents returns the selectable accents in display order.
func Accents() []AccentInfo {
	out := make([]AccentInfo, len(accents))
	copy(out, accents)
	return out
}

// ParseAccent maps an identifier onto the enumerated accent set.
func ParseAccent(s string) (Accent, error) {
	for _, a := range accents {
		if string(a.Accent) == s {
			return a.Accent, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAccent, s)
}

// lightMarker is the class applied in light mode, e.g. "rose".
func (a Accent) lightMarker() string {
	return string(a)
}

// darkMarker is the class applied alongside "dark", e.g. "darkRose".
func (a Accent) darkMarker() string {
	s := string(a)
	if s == "" {
		return "dark"
	}
	return "dark" + strings.ToUpper(s[:1]) + s[1:]
}

// Preference is the persisted theme choice.
type Preference struct {
	Mode   Mode   `json:"mode"`
	Accent Accent `json:"accent"`
}

func DefaultPreference() Preference {
	return Preference{Mode: ModeLight, Accent: DefaultAccent}
}

// MarkersFor returns exactly the markers that must be active for p.
func MarkersFor(p Preference) []string {
	switch {
	case p.Mode == ModeDark && p.Accent == DefaultAccent:
		return []string{"dark"}
	case p.Mode == ModeDark:
		return []string{"dark", p.Accent.darkMarker()}
	case p.Accent == DefaultAccent:
		return nil
	default:
		return []string{p.Accent.lightMarker()}
	}
}

// allMarkers lists every marker any preference can produce.
func allMarkers() []string {
	out := []string{"dark"}
	for _, a := range accents {
		out = append(out, a.Accent.lightMarker(), a.Accent.darkMarker())
	}
	return out
}
