// Package model holds the entity types shared by the store, search and CLI.
package model

import (
	"sort"
	"time"
)

// ModifiedLayout is the revision timestamp format, YYYYMMDDHHMMSS in UTC.
const ModifiedLayout = "20060102150405"

// Entity is one titled document in a bag, as of a single revision.
type Entity struct {
	// Bag is the container the entity lives in.
	Bag string `json:"bag"`

	// Title uniquely identifies the entity within its bag.
	Title string `json:"title"`

	// Revision is the 1-indexed revision number. Zero for entities that
	// have not been stored yet.
	Revision int `json:"revision,omitempty"`

	// Modifier names whoever wrote this revision.
	Modifier string `json:"modifier,omitempty"`

	// Modified is the revision timestamp in YYYYMMDDHHMMSS form (UTC).
	Modified string `json:"modified,omitempty"`

	// Type is the content type of Text, e.g. "text/x-markdown".
	Type string `json:"type,omitempty"`

	Tags   []string          `json:"tags,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`

	// Text is the raw body as written.
	Text string `json:"text,omitempty"`
}

// ID returns the "bag:title" identifier understood by the id: search field.
func (e *Entity) ID() string { return e.Bag + ":" + e.Title }

// FieldNames returns the entity's field names in sorted order.
func (e *Entity) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsMarkdown reports whether Text should be treated as markdown.
func (e *Entity) IsMarkdown() bool {
	switch e.Type {
	case "text/x-markdown", "text/markdown", "markdown":
		return true
	}
	return false
}

// ModifiedTime parses Modified. The zero time is returned when it is unset
// or malformed.
func (e *Entity) ModifiedTime() time.Time {
	t, err := time.Parse(ModifiedLayout, e.Modified)
	if err != nil {
		return time.Time{}
	}
	return t
}
