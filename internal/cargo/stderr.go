package cargo

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
)

// DefaultStderrLimit is how much trailing stderr is kept for error reports.
const DefaultStderrLimit = 1 << 20

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu      sync.Mutex
	limit   int
	buf     []byte
	dropped bool
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(p)
	if n >= t.limit {
		t.buf = append(t.buf[:0], p[n-t.limit:]...)
		t.dropped = true
		return n, nil
	}
	if over := len(t.buf) + n - t.limit; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
		t.dropped = true
	}
	t.buf = append(t.buf, p...)
	return n, nil
}

// String returns the retained text.
func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}

// Truncated reports whether earlier output was discarded.
func (t *tailBuffer) Truncated() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dropped
}

// lineLogger emits each complete line written to it as a debug record.
type lineLogger struct {
	ctx     context.Context
	logger  *slog.Logger
	msg     string
	pending []byte
}

// maxPendingLine bounds a partial line held while waiting for its newline.
const maxPendingLine = 64 << 10

func (l *lineLogger) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			l.pending = append(l.pending, p...)
			if len(l.pending) > maxPendingLine {
				l.flush()
			}
			break
		}
		l.pending = append(l.pending, p[:i]...)
		l.flush()
		p = p[i+1:]
	}
	return n, nil
}

func (l *lineLogger) flush() {
	line := bytes.TrimRight(l.pending, "\r")
	if len(line) > 0 {
		l.logger.DebugContext(l.ctx, l.msg, slog.String("line", string(line)))
	}
	l.pending = l.pending[:0]
}

// Close logs any trailing partial line.
func (l *lineLogger) Close() error {
	l.flush()
	return nil
}
