package rules

import (
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/gomdmark/internal/logging"
	"github.com/yaklabco/gomdmark/pkg/edit"
)

// HandleTextInput evaluates input rules for text typed over [from, to).
// It returns the edit that inserts the text and applies the first matching
// rule, or false when no rule matched and the host should insert normally.
func (e *Engine) HandleTextInput(view View, from, to int, text string) (*edit.Edit, bool) {
	if !e.inputRules || utf8.RuneCountInString(text) != 1 || strings.ContainsRune(text, '\n') {
		return nil, false
	}

	blockStart := view.BlockStart(from)
	start := alignRune(view, max(blockStart, from-e.lookback), from)
	ctxStart := contextStart(view, blockStart, start)
	window := view.TextBetween(ctxStart, from) + text

	order := 0
	for _, typ := range e.registry.Types() {
		patterns := typ.InputPatterns()
		if len(patterns) == 0 {
			continue
		}

		edge := markEdge(view, typ.Name(), start, from)

		for _, p := range patterns {
			order++
			loc := p.Expr.FindStringSubmatchIndex(window)
			if loc == nil || loc[1] != len(window) {
				continue
			}
			span, content, ok := submatch(p, loc)
			if !ok || ctxStart+span.Start < edge {
				continue
			}

			m := match{
				typ:     typ,
				pattern: p,
				order:   order,
				full:    edit.Range{Start: loc[0], End: loc[1]},
				span:    span,
				content: content,
			}

			b := edit.NewBuilder("input-rule:" + p.Name)
			b.Replace(from, to, edit.Plain(text))
			marked := applyMatch(b, m, func(i int) int { return ctxStart + i })
			b.RemoveStoredMark(typ.Name())

			e.logger.Debug("input rule matched",
				logging.FieldMark, typ.Name(),
				logging.FieldPattern, p.Name,
				logging.FieldRange, marked.String(),
			)
			return b.Build(), true
		}
	}

	return nil, false
}

// alignRune moves pos forward to the next rune boundary before limit.
func alignRune(view View, pos, limit int) int {
	prefix := view.TextBetween(pos, limit)
	for i := 0; i < len(prefix) && !utf8.RuneStart(prefix[i]); i++ {
		pos++
	}
	return pos
}

// contextStart returns where the matched text begins. When the lookback cuts
// the block short, one rune before the cut is kept so that "^" in a pattern
// only ever matches at the real block start.
func contextStart(view View, blockStart, start int) int {
	if start <= blockStart {
		return blockStart
	}
	prev := view.TextBetween(max(blockStart, start-utf8.UTFMax), start)
	_, size := utf8.DecodeLastRuneInString(prev)
	return start - size
}

// markEdge returns the earliest position a match's delimiters may start at:
// start, or the end of the last text in [start, cursor) already carrying the
// mark. A match never spans marked text, so nested delimiters do not
// re-trigger.
func markEdge(view View, name string, start, cursor int) int {
	edge := start
	for _, r := range view.MarkRanges(name, start, cursor) {
		edge = max(edge, r.End)
	}
	return edge
}
