package doc

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gomdmark/internal/logging"
	"github.com/yaklabco/gomdmark/pkg/edit"
)

// Change describes one committed edit. Listeners only ever see the state
// before and after the whole edit.
type Change struct {
	Before *State
	After  *State
	Edit   *edit.Edit
}

// Listener is notified once per committed edit.
type Listener func(Change)

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger used for commit diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(d *Document) {
		d.logger = logger
	}
}

// WithHistoryDepth bounds the number of undoable edits.
func WithHistoryDepth(depth int) Option {
	return func(d *Document) {
		d.history = NewHistory(depth)
	}
}

// WithEditable sets whether commands may modify the document.
func WithEditable(editable bool) Option {
	return func(d *Document) {
		d.editable = editable
	}
}

// Document owns the current state. Rules and commands only propose edits;
// Commit is the single place state changes. A Document is not safe for
// concurrent use.
type Document struct {
	state     *State
	history   *History
	listeners []Listener
	editable  bool
	logger    *log.Logger
}

// New creates an editable document holding content.
func New(content edit.Slice, opts ...Option) *Document {
	d := &Document{
		state:    NewState(content),
		history:  NewHistory(0),
		editable: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logging.Default()
	}
	return d
}

// State returns the current state.
func (d *Document) State() *State {
	return d.state
}

// Editable reports whether the document accepts edits from commands.
func (d *Document) Editable() bool {
	return d.editable
}

// SetEditable toggles whether commands may modify the document.
func (d *Document) SetEditable(editable bool) {
	d.editable = editable
}

// History returns the undo history.
func (d *Document) History() *History {
	return d.history
}

// OnChange registers a listener called after every committed edit.
func (d *Document) OnChange(l Listener) {
	d.listeners = append(d.listeners, l)
}

// Select replaces the selection. Selection changes are not undoable.
func (d *Document) Select(sel Selection) {
	d.state = d.state.WithSelection(sel)
}

// Commit applies e as one undoable unit. On error the document is unchanged
// and no listener is called. Edits that leave the state unchanged are
// committed without creating an undo step.
func (d *Document) Commit(e *edit.Edit) error {
	if e == nil {
		return nil
	}

	before := d.state
	after, err := before.Apply(e)
	if err != nil {
		return fmt.Errorf("commit %q: %w", e.Label, err)
	}

	if !after.Equal(before) && e.ChangesContent() {
		d.history.push(historyEntry{label: e.Label, before: before, after: after})
	}
	d.state = after

	d.logger.Debug("edit committed",
		logging.FieldEdit, e.Label,
		logging.FieldSteps, len(e.Steps),
	)

	d.notify(Change{Before: before, After: after, Edit: e})
	return nil
}

// Undo restores the state before the last committed edit.
func (d *Document) Undo() error {
	entry, ok := d.history.popUndo()
	if !ok {
		return ErrNothingToUndo
	}
	current := d.state
	d.state = entry.before
	d.notify(Change{Before: current, After: d.state})
	return nil
}

// Redo re-applies the last undone edit.
func (d *Document) Redo() error {
	entry, ok := d.history.popRedo()
	if !ok {
		return ErrNothingToRedo
	}
	current := d.state
	d.state = entry.after
	d.notify(Change{Before: current, After: d.state})
	return nil
}

func (d *Document) notify(c Change) {
	for _, l := range d.listeners {
		l(c)
	}
}
