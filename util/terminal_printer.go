package util

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

// TerminalPrinter redraws a block of status lines in place at a fixed
// frequency.
type TerminalPrinter struct {
	lines     []*StatusLine
	frequency time.Duration
	doneCh    chan struct{}
	stopOnce  *sync.Once
	printMu   *sync.Mutex

	writer  *uilive.Writer
	writers []io.Writer
}

func NewTerminalPrinter(out io.Writer, frequency time.Duration) *TerminalPrinter {
	writer := uilive.New()
	writer.Out = out
	return &TerminalPrinter{
		lines:     make([]*StatusLine, 0),
		frequency: frequency,
		doneCh:    make(chan struct{}),
		stopOnce:  new(sync.Once),
		printMu:   new(sync.Mutex),

		writer:  writer,
		writers: make([]io.Writer, 0),
	}
}

// NewLine adds a status line. Call before Start.
func (p *TerminalPrinter) NewLine() *StatusLine {
	line := NewStatusLine()
	if len(p.lines) == 0 {
		p.writers = append(p.writers, p.writer)
	} else {
		p.writers = append(p.writers, p.writer.Newline())
	}
	p.lines = append(p.lines, line)
	return line
}

func (p *TerminalPrinter) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-p.doneCh:
				return
			case <-ctx.Done():
				return
			case <-time.After(p.frequency):
				p.print()
			}
		}
	}()
}

// Stop prints the final state of every line once more.
func (p *TerminalPrinter) Stop() {
	p.stopOnce.Do(func() {
		close(p.doneCh)
		p.print()
	})
}

func (p *TerminalPrinter) print() {
	p.printMu.Lock()
	defer p.printMu.Unlock()
	for i, line := range p.lines {
		fmt.Fprintln(p.writers[i], line.Get())
	}
	p.writer.Flush()
}

// StatusLine holds the latest text of one printed line.
type StatusLine struct {
	mu        *sync.Mutex
	printable string
}

func NewStatusLine() *StatusLine {
	return &StatusLine{
		mu: new(sync.Mutex),
	}
}

// Set the output string (blocking)
func (s *StatusLine) Set(str string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.printable = str
}

// Get the output string (blocking)
func (s *StatusLine) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.printable
}
