package pretty

import (
	"strings"
	"testing"
)

const sampleDiff = `--- a/page.md
+++ b/page.md
@@ -1,2 +1,2 @@
 title
-plain text
+**plain** text
`

func TestFormatDiff_NoColorKeepsText(t *testing.T) {
	t.Parallel()

	styles := NewStyles(false)
	if got := styles.FormatDiff(sampleDiff); got != sampleDiff {
		t.Errorf("FormatDiff() = %q, want %q", got, sampleDiff)
	}
}

func TestFormatDiff_ColorKeepsLines(t *testing.T) {
	t.Parallel()

	styles := NewStyles(true)
	got := styles.FormatDiff(sampleDiff)

	if strings.Count(got, "\n") != strings.Count(sampleDiff, "\n") {
		t.Errorf("line count changed:\n%s", got)
	}
	for _, want := range []string{"title", "plain text", "**plain** text", "@@ -1,2 +1,2 @@"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}
