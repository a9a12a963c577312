package parser

import (
	"reflect"
	"testing"
)

func TestParseFrontmatter(t *testing.T) {
	content := `---
title: GettingStarted
bag: fnd_public
tags: [pear, apple]
modifier: fnd
type: text/x-markdown
house: treehouse
fields:
  geo.lat: 1.25
  geo.long: -45.243
  visited: 2025-02-01
---

# Getting started`

	fm, err := ParseFrontmatter(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fm == nil {
		t.Fatal("expected frontmatter")
	}
	if fm.Title != "GettingStarted" || fm.Bag != "fnd_public" || fm.Modifier != "fnd" {
		t.Errorf("unexpected header values: %+v", fm)
	}
	if !reflect.DeepEqual(fm.Tags, []string{"apple", "pear"}) {
		t.Errorf("Tags = %v", fm.Tags)
	}
	wantFields := map[string]string{
		"house":    "treehouse",
		"geo.lat":  "1.25",
		"geo.long": "-45.243",
		"visited":  "2025-02-01",
	}
	if !reflect.DeepEqual(fm.Fields, wantFields) {
		t.Errorf("Fields = %v, want %v", fm.Fields, wantFields)
	}
	if fm.EndLine != 12 {
		t.Errorf("EndLine = %d, want 12", fm.EndLine)
	}
}

func TestParseFrontmatterEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantNil bool
		wantErr bool
	}{
		{name: "no frontmatter", content: "# Just a heading\n\nSome content", wantNil: true},
		{name: "empty frontmatter", content: "---\n---\nbody"},
		{name: "unclosed", content: "---\ntitle: x\n", wantErr: true},
		{name: "bad yaml", content: "---\ntitle: [x\n---\n", wantErr: true},
		{name: "fields not a mapping", content: "---\nfields: 3\n---\n", wantErr: true},
		{name: "tags comma string", content: "---\ntags: a, b\n---\n"},
		{name: "tags mapping", content: "---\ntags: {a: 1}\n---\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, err := ParseFrontmatter(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil != (fm == nil) {
				t.Errorf("frontmatter nil = %v, want %v", fm == nil, tt.wantNil)
			}
		})
	}
}
