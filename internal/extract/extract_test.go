package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText_Extract(t *testing.T) {
	ex := NewPlainText()

	tests := []struct {
		name    string
		content string
		ext     string
		want    string
	}{
		{"plain text file", "hello world", ".txt", "hello world"},
		{"markdown", "# Title\nbody", ".md", "# Title\nbody"},
		{"uppercase extension", "data", ".TXT", "data"},
		{"unsupported binary format", "%PDF-1.4 ...", ".pdf", ""},
		{"no extension", "content", "", ""},
		{"html tags stripped", "<html><body>Invoice total</body></html>", ".html", "Invoice total"},
		{"whitespace trimmed", "  padded  ", ".txt", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ex.Extract(strings.NewReader(tt.content), tt.ext)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, " a  b ", stripTags("<p>a</p><p>b</p>"))
	assert.Equal(t, "no markup", stripTags("no markup"))
}
