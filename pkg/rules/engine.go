// Package rules implements the rule engine that turns delimiter syntax into
// marks: input rules run after each typed character, paste rules run once over
// pasted text. The engine is stateless; it reads the document through View and
// proposes a single edit per event.
package rules

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/gomdmark/internal/logging"
	"github.com/yaklabco/gomdmark/pkg/edit"
	"github.com/yaklabco/gomdmark/pkg/mark"
)

// DefaultLookback is the maximum number of bytes before the cursor that input
// rules inspect.
const DefaultLookback = 500

// View is the read-only document access the engine needs.
type View interface {
	// BlockStart returns the offset where the block containing pos starts.
	BlockStart(pos int) int

	// TextBetween returns the text in [from, to).
	TextBetween(from, to int) string

	// MarkRanges returns the parts of [from, to) carrying a mark named name.
	MarkRanges(name string, from, to int) []edit.Range
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for match diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithInputRules enables or disables the input-rule regime.
func WithInputRules(enabled bool) Option {
	return func(e *Engine) {
		e.inputRules = enabled
	}
}

// WithPasteRules enables or disables the paste-rule regime.
func WithPasteRules(enabled bool) Option {
	return func(e *Engine) {
		e.pasteRules = enabled
	}
}

// WithLookback bounds how far before the cursor input rules look.
func WithLookback(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.lookback = n
		}
	}
}

// Engine evaluates the patterns registered in a mark registry.
type Engine struct {
	registry   *mark.Registry
	logger     *log.Logger
	lookback   int
	inputRules bool
	pasteRules bool
}

// New creates an engine over the patterns of reg. Patterns are tried in
// registration order: marks in the order they were registered, and each
// mark's patterns in the order they were declared.
func New(reg *mark.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry:   reg,
		lookback:   DefaultLookback,
		inputRules: true,
		pasteRules: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.Default()
	}
	return e
}

// match is a pattern match with offsets relative to the matched text.
type match struct {
	typ     *mark.Type
	pattern mark.Pattern
	order   int
	full    edit.Range
	span    edit.Range
	content edit.Range
}

// submatch extracts the span and content groups of loc. It reports false when
// the content group did not participate or is empty: empty marks are not
// allowed, so such a match counts as no match.
func submatch(p mark.Pattern, loc []int) (edit.Range, edit.Range, bool) {
	content := edit.Range{Start: loc[2*p.ContentGroup], End: loc[2*p.ContentGroup+1]}
	span := edit.Range{Start: loc[2*p.SpanGroup], End: loc[2*p.SpanGroup+1]}
	if content.Start < 0 || content.IsEmpty() || span.Start < 0 {
		return edit.Range{}, edit.Range{}, false
	}
	if content.Start < span.Start || content.End > span.End {
		return edit.Range{}, edit.Range{}, false
	}
	return span, content, true
}

// applyMatch adds the steps that strip a match's delimiters and mark its
// content. toDoc converts match-relative offsets to document positions in the
// builder's current coordinate space. Returns the marked range.
func applyMatch(b *edit.Builder, m match, toDoc func(int) int) edit.Range {
	spanStart := toDoc(m.span.Start)
	contentStart := toDoc(m.content.Start)
	contentEnd := toDoc(m.content.End)
	spanEnd := toDoc(m.span.End)

	// Closing delimiter first so the opening positions stay valid.
	b.Delete(contentEnd, spanEnd)
	b.Delete(spanStart, contentStart)

	marked := edit.Range{Start: spanStart, End: spanStart + (contentEnd - contentStart)}
	b.AddMark(marked.Start, marked.End, m.typ.Default())
	return marked
}
