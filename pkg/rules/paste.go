package rules

import (
	"cmp"
	"slices"

	"github.com/yaklabco/gomdmark/internal/logging"
	"github.com/yaklabco/gomdmark/pkg/edit"
)

// HandlePaste evaluates paste rules over content pasted over [from, to).
// Every match is stripped of its delimiters and marked; all of it, including
// the insertion itself, is one edit. It returns false when nothing matched and
// the host should insert content as is.
func (e *Engine) HandlePaste(from, to int, content edit.Slice) (*edit.Edit, bool) {
	if !e.pasteRules || content.Len() == 0 {
		return nil, false
	}

	matches := filterOverlaps(e.pasteMatches(content.Text))
	if len(matches) == 0 {
		return nil, false
	}

	b := edit.NewBuilder("paste-rule")
	b.Replace(from, to, content)
	inserted := b.Len()

	for _, m := range matches {
		// Earlier matches shrank the buffer; map through their deletions.
		mapping := b.MappingSince(inserted)
		applyMatch(b, m, func(i int) int { return mapping.Map(from + i) })
	}

	e.logger.Debug("paste rules matched",
		logging.FieldMatches, len(matches),
		logging.FieldRange, edit.Range{Start: from, End: from + content.Len()}.String(),
	)
	return b.Build(), true
}

// pasteMatches collects the global, non-overlapping matches of every paste
// pattern over text, in registration order.
func (e *Engine) pasteMatches(text string) []match {
	var matches []match
	order := 0
	for _, typ := range e.registry.Types() {
		for _, p := range typ.PastePatterns() {
			order++
			for _, loc := range p.Expr.FindAllStringSubmatchIndex(text, -1) {
				span, content, ok := submatch(p, loc)
				if !ok {
					continue
				}
				matches = append(matches, match{
					typ:     typ,
					pattern: p,
					order:   order,
					full:    edit.Range{Start: loc[0], End: loc[1]},
					span:    span,
					content: content,
				})
			}
		}
	}
	return matches
}

// filterOverlaps orders matches leftmost-first, breaking ties at the same start
// offset by registration order, and greedily drops matches overlapping an
// accepted one.
func filterOverlaps(matches []match) []match {
	if len(matches) == 0 {
		return nil
	}

	slices.SortStableFunc(matches, func(a, b match) int {
		if c := cmp.Compare(a.full.Start, b.full.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.order, b.order)
	})

	accepted := make([]match, 0, len(matches))
	lastEnd := -1
	for _, m := range matches {
		if m.full.Start < lastEnd {
			continue
		}
		accepted = append(accepted, m)
		lastEnd = m.full.End
	}
	return accepted
}
