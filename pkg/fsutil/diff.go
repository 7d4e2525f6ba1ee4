package fsutil

import (
	"context"
	"fmt"
	"os"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffContextLines is the number of unchanged lines shown around each hunk.
const DiffContextLines = 3

// Diff is a unified diff between the current and proposed content of a file.
type Diff struct {
	Path      string
	Text      string
	Additions int
	Deletions int
}

// HasChanges reports whether the diff contains any hunks.
func (d *Diff) HasChanges() bool {
	return d != nil && d.Text != ""
}

// UnifiedDiff compares original and modified content for path. It returns
// nil when the two are identical.
func UnifiedDiff(path, original, modified string) (*Diff, error) {
	if original == modified {
		return nil, nil
	}

	var a, b []string
	if original != "" {
		a = difflib.SplitLines(original)
	}
	if modified != "" {
		b = difflib.SplitLines(modified)
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        a,
		B:        b,
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  DiffContextLines,
	})
	if err != nil {
		return nil, fmt.Errorf("diff %s: %w", path, err)
	}

	diff := &Diff{Path: path, Text: text}
	for _, group := range difflib.NewMatcher(a, b).GetGroupedOpCodes(DiffContextLines) {
		for _, op := range group {
			switch op.Tag {
			case 'r':
				diff.Deletions += op.I2 - op.I1
				diff.Additions += op.J2 - op.J1
			case 'd':
				diff.Deletions += op.I2 - op.I1
			case 'i':
				diff.Additions += op.J2 - op.J1
			}
		}
	}
	return diff, nil
}

// PreviewWrite returns the diff that writing content to path would produce.
// A missing file diffs against empty content.
func PreviewWrite(ctx context.Context, path, content string) (*Diff, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("preview %s: %w", path, err)
	}

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, classify(path, err)
	}
	return UnifiedDiff(path, string(existing), content)
}
