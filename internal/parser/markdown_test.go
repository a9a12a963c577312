package parser

import (
	"strings"
	"testing"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "emphasis and links",
			input:    "Some **bold** and [a link](https://example.com) here.",
			contains: []string{"Some bold and a link here."},
			excludes: []string{"**", "https://example.com", "]("},
		},
		{
			name:     "headings and lists",
			input:    "# Title\n\n- first\n- second\n",
			contains: []string{"Title", "first", "second"},
			excludes: []string{"#", "- "},
		},
		{
			name:     "code block",
			input:    "```go\nfmt.Println(1)\n```\n",
			contains: []string{"fmt.Println(1)"},
			excludes: []string{"```"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlainText(tt.input)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("PlainText = %q, missing %q", got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("PlainText = %q, should not contain %q", got, bad)
				}
			}
		})
	}
}
