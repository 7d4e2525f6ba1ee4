package edit

import "fmt"

// ValidationError describes a step that cannot be applied.
type ValidationError struct {
	Step    Step
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid step %s: %s", e.Step, e.Message)
}

// ValidateStep checks that a step's range fits a document of contentLen bytes.
func ValidateStep(step Step, contentLen int) error {
	if step.Op == OpAddStoredMark || step.Op == OpRemoveStoredMark {
		if step.Mark.Type == "" {
			return &ValidationError{Step: step, Message: "mark has no type"}
		}
		return nil
	}

	r := step.Range
	if r.Start < 0 {
		return &ValidationError{Step: step, Message: "start offset is negative"}
	}
	if r.End < r.Start {
		return &ValidationError{Step: step, Message: "end offset is before start offset"}
	}
	if r.End > contentLen {
		return &ValidationError{
			Step:    step,
			Message: fmt.Sprintf("end offset %d exceeds content length %d", r.End, contentLen),
		}
	}

	switch step.Op {
	case OpInsertText:
		for _, span := range step.Content.Spans {
			if span.Start < 0 || span.End > step.Content.Len() || span.End < span.Start {
				return &ValidationError{Step: step, Message: "content span " + span.Range.String() + " out of bounds"}
			}
		}
	case OpAddMark, OpRemoveMark:
		if step.Mark.Type == "" {
			return &ValidationError{Step: step, Message: "mark has no type"}
		}
	case OpDeleteText, OpAddStoredMark, OpRemoveStoredMark:
	}
	return nil
}

// ValidateEdit checks every step of e against a document whose length starts
// at contentLen and changes as text steps are applied.
// Returns nil if all steps are valid, or the first validation error encountered.
func ValidateEdit(e *Edit, contentLen int) error {
	if e == nil {
		return nil
	}
	length := contentLen
	for _, step := range e.Steps {
		if err := ValidateStep(step, length); err != nil {
			return err
		}
		switch step.Op {
		case OpDeleteText:
			length -= step.Range.Len()
		case OpInsertText:
			length += step.Content.Len()
		case OpAddMark, OpRemoveMark, OpAddStoredMark, OpRemoveStoredMark:
		}
	}
	return nil
}
