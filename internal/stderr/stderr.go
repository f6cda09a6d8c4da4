//go:build !windows

// Package stderr captures output written straight to file descriptor 2, such
// as the Redis client's internal logger, so it cannot corrupt the TUI layout.
// Captured lines are handed to a sink, usually the log file.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

var (
	mu         sync.Mutex
	origStderr = -1
	pipeRead   *os.File
	pipeWrite  *os.File
	drained    chan struct{}
)

// Start redirects stderr into a pipe and calls sink for every non-empty line.
// It must be called before the UI takes over the terminal. When capture
// cannot be set up the error is returned and stderr is left untouched.
func Start(sink func(line string)) error {
	mu.Lock()
	defer mu.Unlock()
	if origStderr >= 0 {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}

	orig, err := unix.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return err
	}

	if err := unix.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		unix.Close(orig)
		r.Close()
		w.Close()
		return err
	}

	origStderr = orig
	pipeRead = r
	pipeWrite = w
	drained = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				sink(line)
			}
		}
	}(drained)

	return nil
}

// WriteOriginal writes directly to the original stderr, bypassing capture.
// Fatal errors use it so they stay visible after the UI exits.
func WriteOriginal(msg string) {
	mu.Lock()
	fd := origStderr
	mu.Unlock()
	if fd < 0 {
		_, _ = os.Stderr.WriteString(msg)
		return
	}
	_, _ = unix.Write(fd, []byte(msg))
}

// Stop restores the original stderr and waits for the captured lines to reach
// the sink.
func Stop() {
	mu.Lock()
	defer mu.Unlock()
	if origStderr < 0 {
		return
	}

	_ = unix.Dup2(origStderr, int(os.Stderr.Fd()))
	_ = unix.Close(origStderr)
	origStderr = -1

	// fd 2 no longer refers to the pipe, so closing the write end ends the reader.
	pipeWrite.Close()
	<-drained
	pipeRead.Close()
}
