// Package langdetect guesses the markup language of a document so it can be
// pasted with the matching parser.
package langdetect

import (
	"bytes"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/go-enry/go-enry/v2"
)

// Format names accepted by the paste commands.
const (
	Text     = "text"
	HTML     = "html"
	Markdown = "markdown"
)

// leadingTag matches content that opens with an HTML tag, comment or doctype.
var leadingTag = regexp.MustCompile(`^<(!--|!doctype\s|[a-z][a-z0-9]*[\s/>])`)

// Detect returns the format of a document. The file extension decides when
// it names a known language; otherwise the content is sniffed for HTML.
// Anything else is plain text.
func Detect(path string, content []byte) string {
	if path != "" && filepath.Ext(path) != "" {
		if format, ok := byExtension(path); ok {
			return format
		}
	}
	if looksLikeHTML(content) {
		return HTML
	}
	return Text
}

// byExtension maps the languages enry associates with the file extension.
// An extension shared by several languages still resolves as long as one of
// them is a supported format.
func byExtension(path string) (string, bool) {
	langs := enry.GetLanguagesByExtension(path, nil, nil)
	switch {
	case slices.Contains(langs, "HTML"):
		return HTML, true
	case slices.Contains(langs, "Markdown"):
		return Markdown, true
	case slices.Contains(langs, "Text"):
		return Text, true
	default:
		return "", false
	}
}

func looksLikeHTML(content []byte) bool {
	trimmed := bytes.ToLower(bytes.TrimSpace(content))
	if len(trimmed) == 0 {
		return false
	}
	if leadingTag.Match(trimmed) {
		return true
	}
	return bytes.Contains(trimmed, []byte("<html")) ||
		bytes.Contains(trimmed, []byte("<body>"))
}
