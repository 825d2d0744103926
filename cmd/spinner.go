package cmd

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// spinner shows progress on stdout while a long call runs.
type spinner struct {
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	active  bool
}

func newSpinner(message string) (s *spinner) {
	s = &spinner{
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	return s
}

func (s *spinner) start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}
	s.active = true

	go func() {
		frames := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		fmt.Printf("%s ", s.message)
		for i := 0; ; i++ {
			select {
			case <-s.stop:
				fmt.Printf("\r%s\r", strings.Repeat(" ", len(s.message)+2))
				close(s.done)
				return
			case <-ticker.C:
				fmt.Printf("\r%s %s", s.message, frames[i%len(frames)])
			}
		}
	}()
}

// halt stops the spinner and clears its line. Safe to call more than once.
func (s *spinner) halt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false
	close(s.stop)
	<-s.done
}

// withSpinner runs fn behind a spinner unless verbose output is on.
func withSpinner(message string, fn func()) {
	if getVerbose() {
		fmt.Println(message)
		fn()
		return
	}

	s := newSpinner(message)
	s.start()
	defer s.halt()
	fn()
}
