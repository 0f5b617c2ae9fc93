package testhelpers

import (
	"io"
	"strings"
	"sync/atomic"
	"testing"
)

// Writer sends every written line to t.Log so that logs only show up for failing tests.
type Writer struct {
	t    *testing.T
	done atomic.Bool
}

// NewWriter creates a Writer for t. Writes after the test has finished panic, since they point at a goroutine
// that outlived the test, such as an errgroup that was never waited for.
func NewWriter(t *testing.T) io.Writer {
	w := &Writer{t: t, done: atomic.Bool{}}
	t.Cleanup(func() {
		w.done.Store(true)
	})
	return w
}

func (w *Writer) Write(p []byte) (int, error) {
	if w.done.Load() {
		panic("testhelpers: write after test completion")
	}
	for line := range strings.Lines(string(p)) {
		if line = strings.TrimSuffix(line, "\n"); line != "" {
			w.t.Log(line)
		}
	}
	return len(p), nil
}
