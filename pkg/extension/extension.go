// Package extension bundles a mark with the commands and shortcuts that come
// with it, and keeps the table of extension factories that built-in
// extensions register into during init().
package extension

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/yaklabco/gomdmark/pkg/commands"
	"github.com/yaklabco/gomdmark/pkg/keymap"
	"github.com/yaklabco/gomdmark/pkg/mark"
)

// ErrUnknownExtension is returned when building a name with no factory.
var ErrUnknownExtension = errors.New("unknown extension")

// NamedCommand is a command an extension contributes.
type NamedCommand struct {
	Name        string
	Description string
	Command     commands.Command
}

// Extension is a built mark extension ready to install.
type Extension struct {
	// Name is the extension name, usually the mark name.
	Name string

	// Description is a one-line summary for listings.
	Description string

	// Spec is the mark registered on install.
	Spec mark.Spec

	// Commands are registered into the host's command set.
	Commands []NamedCommand

	// Shortcuts maps chords (e.g., "Mod-b") to command names.
	Shortcuts map[string]string

	// Options lists the option names the extension's factory accepts.
	Options []string
}

// ShortcutList returns the shortcuts sorted by chord.
func (e *Extension) ShortcutList() [][2]string {
	out := make([][2]string, 0, len(e.Shortcuts))
	for chord, command := range e.Shortcuts {
		out = append(out, [2]string{chord, command})
	}
	slices.SortFunc(out, func(a, b [2]string) int {
		return cmp.Compare(a[0], b[0])
	})
	return out
}

// Factory builds an extension from its configuration options. Malformed
// options are reported here, before anything is registered.
type Factory func(options map[string]any) (*Extension, error)

// Registry holds extension factories keyed by name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty factory table.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory. If one with the same name exists, it is replaced.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns the factory registered under name.
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

// Names returns the registered extension names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Build runs the factory registered under name.
func (r *Registry) Build(name string, options map[string]any) (*Extension, error) {
	factory, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExtension, name)
	}
	ext, err := factory(options)
	if err != nil {
		return nil, fmt.Errorf("build extension %q: %w", name, err)
	}
	return ext, nil
}

// DefaultRegistry is the global registry for built-in extensions.
// Extensions register themselves during init().
//
//nolint:gochecknoglobals // Global registry is intentional for extension registration
var DefaultRegistry = NewRegistry()

// Register adds a factory to DefaultRegistry.
func Register(name string, factory Factory) {
	DefaultRegistry.Register(name, factory)
}

// Build builds an extension from DefaultRegistry.
func Build(name string, options map[string]any) (*Extension, error) {
	return DefaultRegistry.Build(name, options)
}

// Names lists the extensions in DefaultRegistry.
func Names() []string {
	return DefaultRegistry.Names()
}

// Install registers the extension's mark, commands and shortcuts. Every
// shortcut must name a command the set knows after the extension's own
// commands are added.
func Install(ext *Extension, marks *mark.Registry, cmds *commands.Set, keys *keymap.Keymap) error {
	if ext == nil {
		return errors.New("install: nil extension")
	}

	if _, err := marks.Register(ext.Spec); err != nil {
		return fmt.Errorf("install %q: %w", ext.Name, err)
	}

	for _, nc := range ext.Commands {
		if err := cmds.Register(nc.Name, nc.Command); err != nil {
			return fmt.Errorf("install %q: %w", ext.Name, err)
		}
	}

	for _, pair := range ext.ShortcutList() {
		chord, command := pair[0], pair[1]
		if _, ok := cmds.Get(command); !ok {
			return fmt.Errorf("install %q: shortcut %s: %w: %q", ext.Name, chord, commands.ErrUnknownCommand, command)
		}
		if err := keys.Bind(chord, command); err != nil {
			return fmt.Errorf("install %q: %w", ext.Name, err)
		}
	}
	return nil
}
