package ui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func restoreTheme(t *testing.T) {
	t.Helper()
	origAccent, origColor := Accent, accentColor
	t.Cleanup(func() { Accent, accentColor = origAccent, origColor })
}

// Accent values come straight from [ui] accent in config.toml.
func TestConfigureThemeFromConfig(t *testing.T) {
	restoreTheme(t)

	tests := []struct {
		accent string
		want   string
	}{
		{"#7aa2f7", "#7aa2f7"},
		{"#7AA2F7", "#7aa2f7"},
		{"#abc", "#aabbcc"},
		{" 244 ", "244"},
		{"0", "0"},
		{"none", ""},
		{"OFF", ""},
		{"default", ""},
		{"256", ""},
		{"-1", ""},
		{"#12345", ""},
		{"#zzzzzz", ""},
		{"blue", ""},
	}
	for _, tt := range tests {
		ConfigureTheme(tt.accent)
		got, ok := AccentColor()
		require.Equal(t, tt.want, got, "accent %q", tt.accent)
		require.Equal(t, tt.want != "", ok, "accent %q", tt.accent)
	}
}

func TestMarkdownHeadingsFollowAccent(t *testing.T) {
	restoreTheme(t)

	ConfigureTheme("39")
	heading := markdownStyle().Heading.Color
	require.NotNil(t, heading)
	require.Equal(t, "39", *heading)

	ConfigureTheme("none")
	require.Nil(t, markdownStyle().Heading.Color)
}
