package formatter

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// loadSpinner matches the dashboard's spinner so plain commands and the TUI
// animate alike.
var loadSpinner = spinner.Dot

// Spinner animates a status line on a writer (normally stderr) while a
// command waits on the backend outside the TUI.
type Spinner struct {
	out     io.Writer
	message string

	once sync.Once
	quit chan struct{}
	done chan struct{}
}

// NewSpinner creates a stopped spinner writing to out.
func NewSpinner(out io.Writer, message string) *Spinner {
	return &Spinner{
		out:     out,
		message: message,
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start draws frames until Stop is called.
func (s *Spinner) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(loadSpinner.FPS)
		defer ticker.Stop()

		for frame := 0; ; frame++ {
			glyph := loadSpinner.Frames[frame%len(loadSpinner.Frames)]
			fmt.Fprintf(s.out, "\r  %s %s", StyleHeader.Render(glyph), Dim(s.message))
			select {
			case <-s.quit:
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop clears the line and waits for the animation to end. It is safe to
// call more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.quit)
		<-s.done
	})
}

// StartSpinner starts a spinner and returns its Stop.
func StartSpinner(out io.Writer, message string) func() {
	s := NewSpinner(out, message)
	s.Start()
	return s.Stop
}
