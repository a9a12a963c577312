package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadAnswer(t *testing.T) {
	tests := map[string]confirmation{
		"y\n":       confirmAccepted,
		"YES\n":     confirmAccepted,
		"  yes  ":   confirmAccepted,
		"n\n":       confirmDeclined,
		"\n":        confirmDeclined,
		"":          confirmDeclined,
		"yep\n":     confirmDeclined,
		"y\nmore\n": confirmAccepted,
	}
	for in, want := range tests {
		require.Equal(t, want, readAnswer(strings.NewReader(in)), "%q", in)
	}
}

func TestConfirm(t *testing.T) {
	prevInteractive, prevInput := interactive, confirmInput
	t.Cleanup(func() { interactive, confirmInput = prevInteractive, prevInput })

	interactive = func() bool { return false }
	require.Equal(t, confirmUnavailable, confirm("Delete?"))

	interactive = func() bool { return true }
	confirmInput = strings.NewReader("y\n")
	var got confirmation
	out := captureStdout(t, func() { got = confirm("Delete recipes/Pancakes?") })
	require.Equal(t, confirmAccepted, got)
	require.Contains(t, out, "Delete recipes/Pancakes?")

	confirmInput = strings.NewReader("no\n")
	out = captureStdout(t, func() { got = confirm("Delete?") })
	require.Equal(t, confirmDeclined, got)
}
