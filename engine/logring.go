package engine

import (
	"bytes"
	"sync"
)

// DefaultLogLines is the log ring capacity used when none is configured
const DefaultLogLines = 256

// LogRing is an io.Writer keeping the most recent log lines in memory
// Overflow: oldest lines are overwritten when full
type LogRing struct {
	mu      sync.Mutex
	lines   []string
	next    int
	full    bool
	partial []byte
}

// NewLogRing creates a ring holding up to size lines
func NewLogRing(size int) *LogRing {
	if size <= 0 {
		size = DefaultLogLines
	}
	return &LogRing{lines: make([]string, size)}
}

// Write splits p into lines; a trailing fragment waits for its newline
func (r *LogRing) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := p
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			r.partial = append(r.partial, data...)
			break
		}
		line := string(r.partial) + string(data[:i])
		r.partial = r.partial[:0]
		r.push(line)
		data = data[i+1:]
	}
	return len(p), nil
}

func (r *LogRing) push(line string) {
	r.lines[r.next] = line
	r.next++
	if r.next == len(r.lines) {
		r.next = 0
		r.full = true
	}
}

// Lines returns the retained lines oldest first
func (r *LogRing) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]string(nil), r.lines[:r.next]...)
	}
	out := make([]string, 0, len(r.lines))
	out = append(out, r.lines[r.next:]...)
	return append(out, r.lines[:r.next]...)
}

// Len returns the number of retained lines
func (r *LogRing) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return len(r.lines)
	}
	return r.next
}
