package commands

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/yaklabco/gomdmark/pkg/edit"
)

// ErrUnknownCommand is returned when running a name nothing was registered
// under.
var ErrUnknownCommand = errors.New("unknown command")

// Set is a table of named commands.
type Set struct {
	mu     sync.RWMutex
	byName map[string]Command
}

// NewSet creates an empty command table.
func NewSet() *Set {
	return &Set{byName: make(map[string]Command)}
}

// Register adds cmd under name, replacing any command with the same name.
func (s *Set) Register(name string, cmd Command) error {
	if name == "" {
		return errors.New("register command: empty name")
	}
	if cmd == nil {
		return fmt.Errorf("register command %q: nil command", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byName[name] = cmd
	return nil
}

// Get returns the command registered under name.
func (s *Set) Get(name string) (Command, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cmd, ok := s.byName[name]
	return cmd, ok
}

// Names returns the registered command names in sorted order.
func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Run looks up name and runs it against ctx.
func (s *Set) Run(ctx Context, name string) (*edit.Edit, error) {
	cmd, ok := s.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return cmd(ctx)
}
