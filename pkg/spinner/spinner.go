// Package spinner shows progress for exports on the terminal. On a TTY it
// animates a single status line; elsewhere it prints one plain line per
// state change so logs stay readable.
package spinner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

const (
	hideCursor     = "\033[?25l"
	showCursor     = "\033[?25h"
	carriageReturn = "\r"

	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"

	symbolSuccess = "✓"
	symbolFailure = "✗"
)

// Frames is the animation cycle.
var Frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Config holds spinner options.
type Config struct {
	Message string

	// Total, when positive, adds a "[done/total]" counter.
	Total int

	// Interval between frames. Defaults to 80ms.
	Interval time.Duration

	// Writer defaults to os.Stderr.
	Writer io.Writer

	// IsTTY overrides terminal detection on Writer.
	IsTTY *bool
}

// Spinner reports the progress of one or more exports.
type Spinner struct {
	mu sync.Mutex

	cfg     Config
	isTTY   bool
	active  bool
	started time.Time
	frame   int
	done    int
	failed  int
	last    int

	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a spinner with the given message.
func New(message string) *Spinner {
	return NewWithConfig(Config{Message: message})
}

// NewWithConfig creates a spinner, filling in defaults.
func NewWithConfig(cfg Config) *Spinner {
	if cfg.Interval <= 0 {
		cfg.Interval = 80 * time.Millisecond
	}
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	isTTY := false
	if f, ok := cfg.Writer.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	if cfg.IsTTY != nil {
		isTTY = *cfg.IsTTY
	}
	return &Spinner{cfg: cfg, isTTY: isTTY}
}

// Start begins animating. Starting an active spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}
	s.active = true
	s.started = time.Now()
	s.frame = 0

	if !s.isTTY {
		fmt.Fprintf(s.cfg.Writer, "%s...\n", s.cfg.Message)
		return
	}

	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	fmt.Fprint(s.cfg.Writer, hideCursor)
	go s.spin(s.stopCh, s.doneCh)
}

func (s *Spinner) spin(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.render()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.render()
		}
	}
}

func (s *Spinner) render() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	frame := Frames[s.frame%len(Frames)]
	s.frame++
	s.write(fmt.Sprintf("%s %s", frame, s.status()))
}

// status is the message with counter and elapsed time. Caller holds mu.
func (s *Spinner) status() string {
	var sb strings.Builder
	sb.WriteString(s.cfg.Message)
	if s.cfg.Total > 0 {
		fmt.Fprintf(&sb, " [%d/%d]", s.done, s.cfg.Total)
	}
	if s.failed > 0 {
		fmt.Fprintf(&sb, " %d failed", s.failed)
	}
	if !s.started.IsZero() {
		sb.WriteString(" ")
		sb.WriteString(FormatElapsed(time.Since(s.started)))
	}
	return sb.String()
}

// write replaces the current line. Caller holds mu.
func (s *Spinner) write(line string) {
	s.clear()
	fmt.Fprint(s.cfg.Writer, line)
	s.last = len([]rune(line))
}

func (s *Spinner) clear() {
	if s.last > 0 {
		fmt.Fprint(s.cfg.Writer, carriageReturn+strings.Repeat(" ", s.last)+carriageReturn)
		s.last = 0
	}
}

// Update changes the message shown next to the spinner.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Message = message
}

// Step records one finished item. Non-TTY output gets a line per item.
func (s *Spinner) Step(label string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done++
	if err != nil {
		s.failed++
	}
	if s.isTTY || label == "" {
		return
	}
	symbol := symbolSuccess
	if err != nil {
		symbol = symbolFailure
	}
	fmt.Fprintf(s.cfg.Writer, "  %s %s\n", symbol, label)
}

// Counts returns the number of finished and failed items.
func (s *Spinner) Counts() (done, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done, s.failed
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.halt()
}

// Success stops the spinner with a green check and message.
func (s *Spinner) Success(message string) {
	s.finish(message, symbolSuccess, colorGreen)
}

// Fail stops the spinner with a red cross and message.
func (s *Spinner) Fail(message string) {
	s.finish(message, symbolFailure, colorRed)
}

func (s *Spinner) finish(message, symbol, color string) {
	s.halt()

	s.mu.Lock()
	defer s.mu.Unlock()
	if message == "" {
		message = s.cfg.Message
	}
	elapsed := ""
	if !s.started.IsZero() {
		elapsed = " " + FormatElapsed(time.Since(s.started))
	}
	if s.isTTY {
		fmt.Fprintf(s.cfg.Writer, "%s%s%s %s%s\n", color, symbol, colorReset, message, elapsed)
		return
	}
	fmt.Fprintf(s.cfg.Writer, "%s %s%s\n", symbol, message, elapsed)
}

// halt stops the animation goroutine, if any, and waits for it.
func (s *Spinner) halt() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	stop, done := s.stopCh, s.doneCh
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done

	s.mu.Lock()
	s.clear()
	fmt.Fprint(s.cfg.Writer, showCursor)
	s.stopCh, s.doneCh = nil, nil
	s.mu.Unlock()
}

// IsActive reports whether the spinner is running.
func (s *Spinner) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// FormatElapsed renders "(1.2s)" under a minute and "(1m 30s)" above.
func FormatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("(%.1fs)", d.Seconds())
	}
	return fmt.Sprintf("(%dm %ds)", int(d.Minutes()), int(d.Seconds())%60)
}
