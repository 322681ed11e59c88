package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerFrames is the braille animation cycle shown while a render is
// in flight.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// renderSpinner animates a progress indicator on stderr while an export
// render runs. Graphviz and the canvas rasterizer can take a noticeable
// moment on large flowcharts; the spinner keeps the terminal alive
// without adding log noise. It erases itself when the parent context is
// cancelled, so an interrupted export leaves a clean line.
type renderSpinner struct {
	mu       sync.Mutex
	message  string
	cancel   context.CancelFunc
	finished chan struct{}
	once     sync.Once
}

// startRenderSpinner begins animating "Rendering <format>..." and
// returns the running spinner. Callers must stop it before printing.
func startRenderSpinner(ctx context.Context, format string) *renderSpinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &renderSpinner{
		message:  fmt.Sprintf("Rendering %s...", format),
		cancel:   cancel,
		finished: make(chan struct{}),
	}
	go s.spin(ctx)
	return s
}

func (s *renderSpinner) spin(ctx context.Context) {
	defer close(s.finished)
	tick := time.NewTicker(80 * time.Millisecond)
	defer tick.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			s.erase()
			return
		case <-tick.C:
			s.mu.Lock()
			fmt.Fprintf(os.Stderr, "\r%s %s",
				styleIconSpinner.Render(spinnerFrames[frame%len(spinnerFrames)]),
				StyleDim.Render(s.message))
			s.mu.Unlock()
		}
	}
}

// stop halts the animation and clears the line. Safe to call more than
// once, and safe after the parent context has already been cancelled.
func (s *renderSpinner) stop() {
	s.once.Do(s.cancel)
	<-s.finished
	s.erase()
}

// fail stops the spinner and prints an error message in its place.
func (s *renderSpinner) fail(format string, args ...any) {
	s.stop()
	printError(format, args...)
}

func (s *renderSpinner) erase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}
