package parser

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/sift/internal/model"
)

// ParseEntity parses an entity file. Values missing from the front matter
// are taken from defaults, which may be nil.
func ParseEntity(content string, defaults *model.Entity) (*model.Entity, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	e := &model.Entity{Fields: map[string]string{}}
	if defaults != nil {
		e.Bag = defaults.Bag
		e.Title = defaults.Title
		e.Type = defaults.Type
		e.Modifier = defaults.Modifier
	}

	fm, err := ParseFrontmatter(content)
	if err != nil {
		return nil, err
	}

	body := content
	if fm != nil {
		lines := strings.Split(content, "\n")
		body = strings.Join(lines[fm.EndLine:], "\n")
		body = strings.TrimPrefix(body, "\n")

		if fm.Title != "" {
			e.Title = fm.Title
		}
		if fm.Bag != "" {
			e.Bag = fm.Bag
		}
		if fm.Type != "" {
			e.Type = fm.Type
		}
		if fm.Modifier != "" {
			e.Modifier = fm.Modifier
		}
		e.Modified = fm.Modified
		e.Tags = fm.Tags
		e.Fields = fm.Fields
	}
	e.Text = body

	if e.Title == "" {
		return nil, fmt.Errorf("entity has no title")
	}
	if e.Bag == "" {
		return nil, fmt.Errorf("entity %q has no bag", e.Title)
	}
	return e, nil
}

// IndexText returns the text to full-text index for e.
func IndexText(e *model.Entity) string {
	if e.IsMarkdown() {
		return PlainText(e.Text)
	}
	return e.Text
}
