// Package commands provides the mark commands (add, remove, toggle) that
// shortcut dispatch and programmatic callers run against the selection.
//
// A command never mutates the document. It reads the state through an
// explicit Context and returns the Edit the host should commit.
package commands

import (
	"errors"
	"fmt"

	"github.com/yaklabco/gomdmark/pkg/doc"
	"github.com/yaklabco/gomdmark/pkg/edit"
	"github.com/yaklabco/gomdmark/pkg/mark"
)

// ErrNotEditable is returned when a command runs outside an editable context.
var ErrNotEditable = errors.New("document is not editable")

// Context is what a command may inspect.
type Context interface {
	// Editable reports whether the host accepts edits.
	Editable() bool

	// State returns the current document state.
	State() *doc.State
}

// Command computes the edit for one invocation.
type Command func(ctx Context) (*edit.Edit, error)

// AddMark attaches m over the selection. On an empty selection m becomes a
// stored mark for the next typed character. Adding a mark that is already
// present yields an edit that changes nothing.
func AddMark(m mark.Mark) Command {
	label := "addMark:" + m.Type
	return func(ctx Context) (*edit.Edit, error) {
		if err := checkEditable(ctx, label); err != nil {
			return nil, err
		}

		sel := ctx.State().Selection()
		b := edit.NewBuilder(label)
		if sel.Empty() {
			b.AddStoredMark(m)
		} else {
			b.AddMark(sel.From(), sel.To(), m)
		}
		return b.Build(), nil
	}
}

// RemoveMark detaches the mark named name from the selection, or from the
// stored marks on an empty selection.
func RemoveMark(name string) Command {
	label := "removeMark:" + name
	return func(ctx Context) (*edit.Edit, error) {
		if err := checkEditable(ctx, label); err != nil {
			return nil, err
		}

		sel := ctx.State().Selection()
		b := edit.NewBuilder(label)
		if sel.Empty() {
			b.RemoveStoredMark(name)
		} else {
			b.RemoveMark(sel.From(), sel.To(), name)
		}
		return b.Build(), nil
	}
}

// ToggleMark removes m when the whole selection already carries it and adds it
// otherwise. On an empty selection it toggles m in the stored marks, which
// start out as the marks active at the cursor.
func ToggleMark(m mark.Mark) Command {
	label := "toggleMark:" + m.Type
	return func(ctx Context) (*edit.Edit, error) {
		if err := checkEditable(ctx, label); err != nil {
			return nil, err
		}

		state := ctx.State()
		sel := state.Selection()
		b := edit.NewBuilder(label)

		if sel.Empty() {
			stored, ok := state.StoredMarks()
			if !ok {
				stored = state.MarksAt(sel.Head)
			}
			if mark.Contains(stored, m.Type) {
				b.RemoveStoredMark(m.Type)
			} else {
				b.AddStoredMark(m)
			}
			return b.Build(), nil
		}

		if state.RangeFullyHasMark(sel.From(), sel.To(), m.Type) {
			b.RemoveMark(sel.From(), sel.To(), m.Type)
		} else {
			b.AddMark(sel.From(), sel.To(), m)
		}
		return b.Build(), nil
	}
}

func checkEditable(ctx Context, label string) error {
	if ctx == nil || !ctx.Editable() {
		return fmt.Errorf("%s: %w", label, ErrNotEditable)
	}
	return nil
}
