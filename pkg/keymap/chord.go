// Package keymap maps keyboard chords such as "Mod-b" to command names.
package keymap

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors.
var (
	ErrEmptyChord   = errors.New("empty chord")
	ErrInvalidChord = errors.New("invalid chord")
)

// Modifier is a set of modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModAlt is the Alt key (Option on macOS).
	ModAlt Modifier = 1 << (iota - 1)

	// ModCtrl is the Control key.
	ModCtrl

	// ModMeta is the Meta key (Cmd on macOS).
	ModMeta

	// ModShift is the Shift key.
	ModShift
)

// Has reports whether m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// String returns the canonical prefix, e.g. "Alt-Ctrl-".
func (m Modifier) String() string {
	var sb strings.Builder
	for _, mod := range []struct {
		mod  Modifier
		name string
	}{
		{ModAlt, "Alt"},
		{ModCtrl, "Ctrl"},
		{ModMeta, "Meta"},
		{ModShift, "Shift"},
	} {
		if m.Has(mod.mod) {
			sb.WriteString(mod.name)
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// Chord is a normalised key combination.
type Chord struct {
	Mods Modifier
	Key  string
}

// String returns the canonical form, modifiers in Alt, Ctrl, Meta, Shift
// order followed by the key.
func (c Chord) String() string {
	return c.Mods.String() + c.Key
}

// modFor returns the modifier that "Mod" stands for on goos.
func modFor(goos string) Modifier {
	if goos == "darwin" || goos == "ios" {
		return ModMeta
	}
	return ModCtrl
}

// Parse parses a chord like "Mod-b", "Shift-Mod-z" or "Ctrl-Alt-Delete" for
// the given operating system. "Mod" is Meta on darwin and Ctrl elsewhere.
// A single upper-case letter implies Shift and is stored lower-cased.
func Parse(spec, goos string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, ErrEmptyChord
	}

	// The last element is the key; a trailing "-" means the key is "-".
	parts := strings.Split(spec, "-")
	key := parts[len(parts)-1]
	modParts := parts[:len(parts)-1]
	if key == "" && len(parts) > 1 {
		key = "-"
		modParts = parts[:len(parts)-2]
	}
	if key == "" {
		return Chord{}, fmt.Errorf("%w: %q has no key", ErrInvalidChord, spec)
	}

	var mods Modifier
	for _, p := range modParts {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "mod":
			mods |= modFor(goos)
		case "ctrl", "control", "c":
			mods |= ModCtrl
		case "alt", "option", "a":
			mods |= ModAlt
		case "meta", "cmd", "command", "m":
			mods |= ModMeta
		case "shift", "s":
			mods |= ModShift
		default:
			return Chord{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidChord, p, spec)
		}
	}

	if r, size := utf8.DecodeRuneInString(key); size == len(key) && unicode.IsUpper(r) {
		mods |= ModShift
		key = string(unicode.ToLower(r))
	}

	return Chord{Mods: mods, Key: key}, nil
}
