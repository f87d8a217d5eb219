package utils

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const spinnerFrames = `⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏`

// Spinner is a progress indicator shared by concurrently running jobs.
// It keeps spinning until the last started job stops it.
type Spinner struct {
	mu         sync.Mutex
	delay      time.Duration
	writer     io.Writer
	message    string
	lastOutput string
	hideCursor bool

	active int
	stop   chan struct{}
	done   chan struct{}
}

// NewSpinner instantiates a new progress indicator writing to stderr.
func NewSpinner(msg string, d time.Duration, hideCursor bool) *Spinner {
	return newSpinner(os.Stderr, msg, d, hideCursor)
}

func newSpinner(w io.Writer, msg string, d time.Duration, hideCursor bool) *Spinner {
	return &Spinner{
		delay:      d,
		writer:     w,
		message:    msg,
		hideCursor: hideCursor,
	}
}

// SetMessage replaces the text shown next to the indicator.
func (s *Spinner) SetMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = msg
}

// Start registers a new job and starts the indicator if it isn't running.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active++
	if s.active > 1 {
		return
	}
	if s.hideCursor && runtime.GOOS != "windows" {
		// hides the cursor
		fmt.Fprint(s.writer, "\033[?25l")
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.spin(s.stop, s.done)
}

func (s *Spinner) spin(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()

	for {
		for _, r := range spinnerFrames {
			s.mu.Lock()
			select {
			case <-stop:
				s.mu.Unlock()
				return
			default:
			}
			output := fmt.Sprintf("\r%s%s %c%s", s.message, SuccessColor, r, DefaultColor)
			fmt.Fprint(s.writer, output)
			s.lastOutput = output
			s.mu.Unlock()

			select {
			case <-stop:
				return
			case <-ticker.C:
			}
		}
	}
}

// Stop finishes a job, printing msg in place of the indicator. The
// indicator itself stops once no job is left.
func (s *Spinner) Stop(msg string) {
	s.mu.Lock()
	if s.active == 0 {
		s.mu.Unlock()
		return
	}
	s.active--
	s.clear()
	if len(msg) > 0 {
		fmt.Fprint(s.writer, msg)
		if s.active > 0 {
			fmt.Fprintln(s.writer)
		}
	}
	if s.active > 0 {
		s.mu.Unlock()
		return
	}
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done
	s.RestoreCursor()
}

// RestoreCursor restores back the cursor visibility.
func (s *Spinner) RestoreCursor() {
	if s.hideCursor && runtime.GOOS != "windows" {
		// makes the cursor visible
		fmt.Fprint(s.writer, "\033[?25h")
	}
}

// clear deletes the last line. Caller must hold the lock.
func (s *Spinner) clear() {
	n := utf8.RuneCountInString(s.lastOutput)
	if runtime.GOOS == "windows" {
		clearString := "\r" + strings.Repeat(" ", n) + "\r"
		fmt.Fprint(s.writer, clearString)
		s.lastOutput = ""
		return
	}
	fmt.Fprint(s.writer, "\r\033[K") // clear line
	s.lastOutput = ""
}
