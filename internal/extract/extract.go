package extract

import (
	"io"
	"strings"
)

// Package extract turns uploaded file content into plain text for
// classification. Unsupported or unreadable input yields an empty string,
// never an error the caller has to branch on: classification treats empty
// text as a normal failed outcome.

// maxTextBytes caps how much of a file is read for classification.
const maxTextBytes = 10 << 20

// Extractor extracts plain text from file content.
type Extractor interface {
	// Extract returns the text of the content, or "" when the format is
	// unsupported or the content is unreadable.
	Extract(r io.Reader, fileExt string) (string, error)
}

// textExtensions are the formats read as (possibly markup-wrapped) text.
var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".log":  true,
	".json": true,
	".xml":  true,
	".html": true,
	".htm":  true,
}

// markupExtensions additionally have their tags stripped.
var markupExtensions = map[string]bool{
	".xml":  true,
	".html": true,
	".htm":  true,
}

// plainText is the default Extractor. It handles text-based formats only;
// binary formats (PDF, office documents) are out of scope and yield "".
type plainText struct{}

// NewPlainText returns the text-format Extractor.
func NewPlainText() Extractor {
	return plainText{}
}

func (plainText) Extract(r io.Reader, fileExt string) (string, error) {
	ext := strings.ToLower(fileExt)
	if !textExtensions[ext] {
		return "", nil
	}

	b, err := io.ReadAll(io.LimitReader(r, maxTextBytes))
	if err != nil {
		return "", nil
	}

	text := string(b)
	if markupExtensions[ext] {
		text = stripTags(text)
	}
	return strings.TrimSpace(text), nil
}

// stripTags removes <...> markup, inserting spaces so adjacent element
// content does not run together.
func stripTags(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
			sb.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
