package edit

// StepMap records how one text step moved positions: Deleted bytes at Pos
// were replaced by Inserted bytes.
type StepMap struct {
	Pos      int
	Deleted  int
	Inserted int
}

// Map maps pos through the step. assoc decides which side a position at an
// insertion point sticks to: negative stays before, positive moves after.
func (sm StepMap) Map(pos, assoc int) int {
	end := sm.Pos + sm.Deleted
	switch {
	case pos < sm.Pos:
		return pos
	case pos > end:
		return pos + sm.Inserted - sm.Deleted
	}

	side := assoc
	if sm.Deleted > 0 {
		switch pos {
		case sm.Pos:
			side = -1
		case end:
			side = 1
		}
	}
	if side < 0 {
		return sm.Pos
	}
	return sm.Pos + sm.Inserted
}

// Mapping is an ordered list of step maps.
type Mapping struct {
	maps []StepMap
}

// Maps returns the recorded step maps.
func (m Mapping) Maps() []StepMap {
	return m.maps
}

// Map maps pos through every step, sticking to the right at insertion points.
func (m Mapping) Map(pos int) int {
	return m.MapAssoc(pos, 1)
}

// MapAssoc maps pos through every step with the given association.
func (m Mapping) MapAssoc(pos, assoc int) int {
	for _, sm := range m.maps {
		pos = sm.Map(pos, assoc)
	}
	return pos
}

func (m *Mapping) appendStep(s Step) {
	switch s.Op {
	case OpDeleteText:
		if !s.Range.IsEmpty() {
			m.maps = append(m.maps, StepMap{Pos: s.Range.Start, Deleted: s.Range.Len()})
		}
	case OpInsertText:
		if s.Content.Len() > 0 {
			m.maps = append(m.maps, StepMap{Pos: s.Range.Start, Inserted: s.Content.Len()})
		}
	case OpAddMark, OpRemoveMark, OpAddStoredMark, OpRemoveStoredMark:
		// Mark steps do not move positions.
	}
}
