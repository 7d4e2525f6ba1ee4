package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/gomdmark/pkg/fsutil"
)

func TestUnifiedDiff(t *testing.T) {
	t.Parallel()

	t.Run("identical content", func(t *testing.T) {
		t.Parallel()

		diff, err := fsutil.UnifiedDiff("page.md", "a **b**\n", "a **b**\n")
		if err != nil {
			t.Fatalf("UnifiedDiff() error = %v", err)
		}
		if diff != nil || diff.HasChanges() {
			t.Errorf("expected no diff, got %+v", diff)
		}
	})

	t.Run("single line change", func(t *testing.T) {
		t.Parallel()

		diff, err := fsutil.UnifiedDiff("page.md", "title\nplain text\n", "title\n**plain** text\n")
		if err != nil {
			t.Fatalf("UnifiedDiff() error = %v", err)
		}
		if !diff.HasChanges() {
			t.Fatal("expected changes")
		}
		if diff.Additions != 1 || diff.Deletions != 1 {
			t.Errorf("additions/deletions = %d/%d, want 1/1", diff.Additions, diff.Deletions)
		}
		for _, want := range []string{"--- a/page.md", "+++ b/page.md", "-plain text", "+**plain** text", " title"} {
			if !strings.Contains(diff.Text, want) {
				t.Errorf("diff missing %q:\n%s", want, diff.Text)
			}
		}
	})

	t.Run("new file", func(t *testing.T) {
		t.Parallel()

		diff, err := fsutil.UnifiedDiff("out.html", "", "<p><strong>x</strong></p>\n")
		if err != nil {
			t.Fatalf("UnifiedDiff() error = %v", err)
		}
		if diff.Deletions != 0 || diff.Additions == 0 {
			t.Errorf("additions/deletions = %d/%d", diff.Additions, diff.Deletions)
		}
		if !strings.Contains(diff.Text, "+<p><strong>x</strong></p>") {
			t.Errorf("diff missing added line:\n%s", diff.Text)
		}
	})

	t.Run("distant changes produce separate hunks", func(t *testing.T) {
		t.Parallel()

		var before, after []string
		for i := range 20 {
			line := strings.Repeat("x", i+1)
			before = append(before, line)
			if i == 1 || i == 18 {
				line = "**" + line + "**"
			}
			after = append(after, line)
		}

		diff, err := fsutil.UnifiedDiff("long.md", strings.Join(before, "\n")+"\n", strings.Join(after, "\n")+"\n")
		if err != nil {
			t.Fatalf("UnifiedDiff() error = %v", err)
		}
		if got := strings.Count(diff.Text, "@@ -"); got != 2 {
			t.Errorf("expected 2 hunks, got %d:\n%s", got, diff.Text)
		}
		if diff.Additions != 2 || diff.Deletions != 2 {
			t.Errorf("additions/deletions = %d/%d, want 2/2", diff.Additions, diff.Deletions)
		}
	})
}

func TestPreviewWrite(t *testing.T) {
	t.Parallel()

	t.Run("missing file diffs against empty", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.md")
		diff, err := fsutil.PreviewWrite(context.Background(), path, "**new**\n")
		if err != nil {
			t.Fatalf("PreviewWrite() error = %v", err)
		}
		if !diff.HasChanges() {
			t.Fatal("expected changes")
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("PreviewWrite must not create the file")
		}
	})

	t.Run("unchanged file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.md")
		writeFile(t, path, "same\n")
		diff, err := fsutil.PreviewWrite(context.Background(), path, "same\n")
		if err != nil {
			t.Fatalf("PreviewWrite() error = %v", err)
		}
		if diff.HasChanges() {
			t.Errorf("expected no changes, got:\n%s", diff.Text)
		}
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, err := fsutil.PreviewWrite(context.Background(), t.TempDir(), "x")
		if err == nil {
			t.Fatal("expected error for directory")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fsutil.PreviewWrite(ctx, filepath.Join(t.TempDir(), "x.md"), "x")
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}
