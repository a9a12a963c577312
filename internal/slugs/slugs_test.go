package slugs

import "testing"

func TestBagName(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"notes", "notes"},
		{"/home/me/My Notes/", "my-notes"},
		{"Café Recipes", "cafe-recipes"},
		{"fnd_public", "fnd_public"},
		{".", "default"},
		{"/", "default"},
		{"!!!", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			if got := BagName(tt.dir); got != tt.want {
				t.Errorf("BagName(%q) = %q, want %q", tt.dir, got, tt.want)
			}
		})
	}
}

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"docs/GettingStarted.md", "GettingStarted"},
		{"plain", "plain"},
		{"a/b/archive.tar.gz", "archive.tar"},
	}

	for _, tt := range tests {
		if got := TitleFromFilename(tt.path); got != tt.want {
			t.Errorf("TitleFromFilename(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
