package ui

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/sift/internal/model"
)

// RenderEntity formats an entity for the terminal: a header, its tags and
// fields, then the body. Markdown bodies are rendered through glamour.
func RenderEntity(e *model.Entity, width int) (string, error) {
	var sb strings.Builder

	sb.WriteString(Bold.Render(Accent.Render(e.Title)))
	sb.WriteString("\n")
	sb.WriteString(Muted.Render(entityMeta(e)))
	sb.WriteString("\n")

	if len(e.Tags) > 0 {
		tags := make([]string, len(e.Tags))
		for i, tag := range e.Tags {
			tags[i] = "#" + tag
		}
		sb.WriteString(Accent.Render(strings.Join(tags, " ")))
		sb.WriteString("\n")
	}

	if len(e.Fields) > 0 {
		sb.WriteString("\n")
		tbl := NewTable(2)
		tbl.SetIndent("  ")
		for _, name := range e.FieldNames() {
			tbl.AddRow(Muted.Render(name), e.Fields[name])
		}
		sb.WriteString(tbl.String())
	}

	if strings.TrimSpace(e.Text) == "" {
		return sb.String(), nil
	}
	if e.IsMarkdown() {
		body, err := RenderMarkdown(e.Text, width)
		if err != nil {
			return "", fmt.Errorf("render %s: %w", e.ID(), err)
		}
		sb.WriteString(body)
		return sb.String(), nil
	}

	sb.WriteString("\n")
	sb.WriteString(strings.TrimRight(e.Text, "\n"))
	sb.WriteString("\n")
	return sb.String(), nil
}

// entityMeta renders "bag · revision N · modifier · 2024-03-09 14:05".
func entityMeta(e *model.Entity) string {
	parts := []string{e.Bag}
	if e.Revision > 0 {
		parts = append(parts, fmt.Sprintf("revision %d", e.Revision))
	}
	if e.Modifier != "" {
		parts = append(parts, e.Modifier)
	}
	if t := e.ModifiedTime(); !t.IsZero() {
		parts = append(parts, t.Format("2006-01-02 15:04"))
	} else if e.Modified != "" {
		parts = append(parts, e.Modified)
	}
	return strings.Join(parts, " · ")
}
