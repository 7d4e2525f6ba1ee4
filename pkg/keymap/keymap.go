package keymap

import (
	"fmt"
	"runtime"
	"sync"
)

// Keymap binds chords to command names.
type Keymap struct {
	mu       sync.RWMutex
	goos     string
	bindings map[Chord]string
}

// New creates an empty keymap for the running operating system.
func New() *Keymap {
	return NewFor(runtime.GOOS)
}

// NewFor creates an empty keymap that resolves "Mod" for goos.
func NewFor(goos string) *Keymap {
	return &Keymap{
		goos:     goos,
		bindings: make(map[Chord]string),
	}
}

// Bind maps the chord spec to command, replacing any earlier binding.
func (k *Keymap) Bind(spec, command string) error {
	if command == "" {
		return fmt.Errorf("bind %q: empty command", spec)
	}
	chord, err := Parse(spec, k.goos)
	if err != nil {
		return fmt.Errorf("bind %q: %w", spec, err)
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.bindings[chord] = command
	return nil
}

// Lookup returns the command bound to the chord spec.
func (k *Keymap) Lookup(spec string) (string, bool) {
	chord, err := Parse(spec, k.goos)
	if err != nil {
		return "", false
	}

	k.mu.RLock()
	defer k.mu.RUnlock()
	command, ok := k.bindings[chord]
	return command, ok
}

// Bindings returns a copy of the table keyed by canonical chord.
func (k *Keymap) Bindings() map[string]string {
	k.mu.RLock()
	defer k.mu.RUnlock()

	out := make(map[string]string, len(k.bindings))
	for chord, command := range k.bindings {
		out[chord.String()] = command
	}
	return out
}
