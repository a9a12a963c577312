package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/aidanlsb/sift/internal/ui"
)

type confirmation int

const (
	// confirmUnavailable means no question could be asked: JSON output or
	// no terminal on both ends.
	confirmUnavailable confirmation = iota
	confirmDeclined
	confirmAccepted
)

// Replaced in tests.
var (
	interactive = func() bool {
		if isJSONOutput() {
			return false
		}
		return isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())
	}
	confirmInput io.Reader = os.Stdin
)

// confirm asks a yes/no question. Anything but y or yes declines.
func confirm(question string) confirmation {
	if !interactive() {
		return confirmUnavailable
	}
	fmt.Printf("%s %s ", question, ui.Hint("[y/N]"))
	return readAnswer(confirmInput)
}

func readAnswer(r io.Reader) confirmation {
	line, _ := bufio.NewReader(r).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return confirmAccepted
	default:
		return confirmDeclined
	}
}
