// Package editor is a minimal host that wires a document to the rule engine,
// the command table and the keymap contributed by mark extensions.
package editor

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gomdmark/internal/logging"
	"github.com/yaklabco/gomdmark/pkg/commands"
	"github.com/yaklabco/gomdmark/pkg/doc"
	"github.com/yaklabco/gomdmark/pkg/edit"
	"github.com/yaklabco/gomdmark/pkg/extension"
	"github.com/yaklabco/gomdmark/pkg/keymap"
	"github.com/yaklabco/gomdmark/pkg/mark"
	"github.com/yaklabco/gomdmark/pkg/markdown"
	"github.com/yaklabco/gomdmark/pkg/markup"
	"github.com/yaklabco/gomdmark/pkg/rules"
)

// Option configures an Editor.
type Option func(*settings)

type settings struct {
	logger        *log.Logger
	extensions    []*extension.Extension
	extensionsSet bool
	content       edit.Slice
	inputRules    bool
	pasteRules    bool
	goos          string
	historyDepth  int
	flavor        string
}

// WithLogger sets the logger shared by the document and the rule engine.
func WithLogger(logger *log.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithExtensions installs exts, in order. Without this option every extension
// in extension.DefaultRegistry is built with default options. An empty list
// installs nothing.
func WithExtensions(exts ...*extension.Extension) Option {
	return func(s *settings) {
		s.extensions = append(s.extensions, exts...)
		s.extensionsSet = true
	}
}

// WithContent sets the initial document content.
func WithContent(content edit.Slice) Option {
	return func(s *settings) { s.content = content }
}

// WithInputRules enables or disables input rules.
func WithInputRules(enabled bool) Option {
	return func(s *settings) { s.inputRules = enabled }
}

// WithPasteRules enables or disables paste rules.
func WithPasteRules(enabled bool) Option {
	return func(s *settings) { s.pasteRules = enabled }
}

// WithGOOS sets the operating system "Mod" resolves for.
func WithGOOS(goos string) Option {
	return func(s *settings) { s.goos = goos }
}

// WithHistoryDepth bounds the undo history.
func WithHistoryDepth(depth int) Option {
	return func(s *settings) { s.historyDepth = depth }
}

// WithFlavor sets the Markdown flavor used by Markdown and PasteMarkdown.
func WithFlavor(flavor string) Option {
	return func(s *settings) { s.flavor = flavor }
}

// Editor is the reference host.
type Editor struct {
	logger     *log.Logger
	marks      *mark.Registry
	commands   *commands.Set
	keys       *keymap.Keymap
	engine     *rules.Engine
	doc        *doc.Document
	markdown   *markdown.Codec
	extensions []*extension.Extension
}

// New creates an editor and installs its extensions.
func New(opts ...Option) (*Editor, error) {
	s := settings{inputRules: true, pasteRules: true}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = logging.Default()
	}

	if !s.extensionsSet {
		for _, name := range extension.Names() {
			ext, err := extension.Build(name, nil)
			if err != nil {
				return nil, err
			}
			s.extensions = append(s.extensions, ext)
		}
	}

	ed := &Editor{
		logger:     s.logger,
		marks:      mark.NewRegistry(),
		commands:   commands.NewSet(),
		extensions: s.extensions,
	}
	if s.goos != "" {
		ed.keys = keymap.NewFor(s.goos)
	} else {
		ed.keys = keymap.New()
	}

	for _, ext := range s.extensions {
		if err := extension.Install(ext, ed.marks, ed.commands, ed.keys); err != nil {
			return nil, err
		}
		s.logger.Debug("installed extension",
			logging.FieldName, ext.Name,
			logging.FieldParseRules, len(ext.Spec.ParseRules),
			logging.FieldShortcuts, len(ext.Shortcuts),
		)
	}

	ed.engine = rules.New(ed.marks,
		rules.WithLogger(s.logger),
		rules.WithInputRules(s.inputRules),
		rules.WithPasteRules(s.pasteRules),
	)
	docOpts := []doc.Option{doc.WithLogger(s.logger)}
	if s.historyDepth > 0 {
		docOpts = append(docOpts, doc.WithHistoryDepth(s.historyDepth))
	}
	ed.doc = doc.New(s.content, docOpts...)
	ed.markdown = markdown.New(ed.marks, s.flavor)
	return ed, nil
}

// Document returns the underlying document.
func (ed *Editor) Document() *doc.Document { return ed.doc }

// State returns the current document state.
func (ed *Editor) State() *doc.State { return ed.doc.State() }

// Editable reports whether the document accepts edits.
func (ed *Editor) Editable() bool { return ed.doc.Editable() }

// SetEditable toggles the editable flag.
func (ed *Editor) SetEditable(editable bool) { ed.doc.SetEditable(editable) }

// Marks returns the mark registry.
func (ed *Editor) Marks() *mark.Registry { return ed.marks }

// Commands returns the command table.
func (ed *Editor) Commands() *commands.Set { return ed.commands }

// Keymap returns the shortcut table.
func (ed *Editor) Keymap() *keymap.Keymap { return ed.keys }

// Extensions returns the installed extensions.
func (ed *Editor) Extensions() []*extension.Extension { return ed.extensions }

// Type types s one rune at a time. Each rune is offered to the input rules;
// when none fires it is inserted with the stored marks, or the marks active
// at the cursor.
func (ed *Editor) Type(s string) error {
	for _, r := range s {
		if err := ed.typeRune(string(r)); err != nil {
			return err
		}
	}
	return nil
}

func (ed *Editor) typeRune(text string) error {
	if !ed.Editable() {
		return fmt.Errorf("type: %w", commands.ErrNotEditable)
	}

	state := ed.State()
	sel := state.Selection()

	e, ok := ed.engine.HandleTextInput(state, sel.From(), sel.To(), text)
	if !ok {
		marks, set := state.StoredMarks()
		if !set {
			marks = state.MarksAt(sel.From())
		}
		if text == "\n" {
			marks = nil
		}
		b := edit.NewBuilder("type")
		b.Replace(sel.From(), sel.To(), edit.Marked(text, marks...))
		e = b.Build()
	}
	return ed.doc.Commit(e)
}

// Paste inserts content over the selection, running paste rules over it.
func (ed *Editor) Paste(content edit.Slice) error {
	if !ed.Editable() {
		return fmt.Errorf("paste: %w", commands.ErrNotEditable)
	}

	sel := ed.State().Selection()
	e, ok := ed.engine.HandlePaste(sel.From(), sel.To(), content)
	if !ok {
		b := edit.NewBuilder("paste")
		b.Replace(sel.From(), sel.To(), content)
		e = b.Build()
	}
	return ed.doc.Commit(e)
}

// PasteText pastes plain text.
func (ed *Editor) PasteText(s string) error {
	return ed.Paste(edit.Plain(s))
}

// PasteHTML parses an HTML fragment with the registered parse rules and
// pastes the result.
func (ed *Editor) PasteHTML(src string) error {
	content, err := markup.ParseHTML(ed.marks, src)
	if err != nil {
		return err
	}
	return ed.Paste(content)
}

// PasteMarkdown imports Markdown and pastes the result.
func (ed *Editor) PasteMarkdown(ctx context.Context, src string) error {
	content, err := ed.markdown.Import(ctx, []byte(src))
	if err != nil {
		return err
	}
	return ed.Paste(content)
}

// Exec runs a named command and commits its edit.
func (ed *Editor) Exec(name string) error {
	e, err := ed.commands.Run(ed, name)
	if err != nil {
		return err
	}
	ed.logger.Debug("command", logging.FieldCommand, name)
	return ed.doc.Commit(e)
}

// Press runs the command bound to chord. It reports false when nothing is
// bound.
func (ed *Editor) Press(chord string) (bool, error) {
	name, ok := ed.keys.Lookup(chord)
	if !ok {
		return false, nil
	}
	ed.logger.Debug("shortcut", logging.FieldChord, chord, logging.FieldCommand, name)
	return true, ed.Exec(name)
}

// Select sets the selection.
func (ed *Editor) Select(anchor, head int) {
	ed.doc.Select(doc.Select(anchor, head))
}

// Undo reverts the last edit.
func (ed *Editor) Undo() error { return ed.doc.Undo() }

// Redo re-applies the last undone edit.
func (ed *Editor) Redo() error { return ed.doc.Redo() }

// HTML renders the document as HTML.
func (ed *Editor) HTML() (string, error) {
	return markup.RenderHTML(ed.marks, ed.State().Content())
}

// Markdown renders the document as Markdown.
func (ed *Editor) Markdown() (string, error) {
	return ed.markdown.Export(ed.State().Content())
}
