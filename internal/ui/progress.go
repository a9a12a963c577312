package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// Progress displays a counter for batch operations such as imports. It only
// draws when its output is a terminal.
type Progress struct {
	out     io.Writer
	live    bool
	total   int
	current int
	message string
	mu      sync.Mutex
}

// NewProgress creates a progress indicator writing to out.
func NewProgress(out io.Writer, message string, total int) *Progress {
	live := false
	if f, ok := out.(*os.File); ok {
		live = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Progress{out: out, live: live, message: message, total: total}
}

// Increment advances the count by one and redraws.
func (p *Progress) Increment() {
	p.mu.Lock()
	p.current++
	current := p.current
	p.mu.Unlock()
	if p.live {
		fmt.Fprintf(p.out, "\r%s %s", p.message, Muted.Render(fmt.Sprintf("(%d/%d)", current, p.total)))
	}
}

// Current returns the number of completed steps.
func (p *Progress) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Done clears the progress line.
func (p *Progress) Done() {
	if p.live {
		fmt.Fprint(p.out, "\r\033[K")
	}
}
