package doc

// Selection is an anchor/head pair of byte offsets. An empty selection is a caret.
type Selection struct {
	Anchor int
	Head   int
}

// Cursor returns an empty selection at pos.
func Cursor(pos int) Selection {
	return Selection{Anchor: pos, Head: pos}
}

// Select returns a selection from anchor to head.
func Select(anchor, head int) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// From returns the lower bound of the selection.
func (s Selection) From() int {
	return min(s.Anchor, s.Head)
}

// To returns the upper bound of the selection.
func (s Selection) To() int {
	return max(s.Anchor, s.Head)
}

// Empty reports whether the selection is a caret.
func (s Selection) Empty() bool {
	return s.Anchor == s.Head
}

func (s Selection) clamp(length int) Selection {
	return Selection{
		Anchor: max(0, min(s.Anchor, length)),
		Head:   max(0, min(s.Head, length)),
	}
}
