package parser

import (
	"testing"

	"github.com/aidanlsb/sift/internal/model"
)

func TestParseEntity(t *testing.T) {
	content := "---\ntitle: tiddler1\ntags: [apple, orange]\nhouse: cottage\n---\n\noh hello i chrisdent\n"
	e, err := ParseEntity(content, &model.Entity{Bag: "bag1", Title: "ignored"})
	if err != nil {
		t.Fatalf("ParseEntity: %v", err)
	}
	if e.Bag != "bag1" || e.Title != "tiddler1" {
		t.Errorf("identity = %s, want bag1:tiddler1", e.ID())
	}
	if e.Text != "oh hello i chrisdent\n" {
		t.Errorf("Text = %q", e.Text)
	}
	if e.Fields["house"] != "cottage" {
		t.Errorf("Fields = %v", e.Fields)
	}
	if len(e.Tags) != 2 {
		t.Errorf("Tags = %v", e.Tags)
	}
}

func TestParseEntityWithoutFrontmatter(t *testing.T) {
	e, err := ParseEntity("just text", &model.Entity{Bag: "b", Title: "t"})
	if err != nil {
		t.Fatalf("ParseEntity: %v", err)
	}
	if e.Text != "just text" || e.ID() != "b:t" {
		t.Errorf("unexpected entity %+v", e)
	}

	if _, err := ParseEntity("just text", nil); err == nil {
		t.Error("expected missing title error")
	}
	if _, err := ParseEntity("---\ntitle: x\n---\n", nil); err == nil {
		t.Error("expected missing bag error")
	}
}

func TestIndexText(t *testing.T) {
	md := &model.Entity{Type: "text/x-markdown", Text: "**hello** _world_"}
	if got := IndexText(md); got != "hello world" {
		t.Errorf("IndexText(markdown) = %q", got)
	}
	plain := &model.Entity{Text: "**hello**"}
	if got := IndexText(plain); got != "**hello**" {
		t.Errorf("IndexText(plain) = %q", got)
	}
}
