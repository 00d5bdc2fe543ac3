// Package tail reads newly appended lines from a growing log file.
//
// A Tailer tracks a byte cursor into the watched file and returns, on each
// Poll, the complete lines written since the previous Poll. Truncation and
// replacement of the file are detected by a shrinking size, which resets the
// cursor to the start of the file. The game rewrites Game.log from scratch on
// every launch, so a reset deliberately re-delivers the whole current content
// rather than trying to diff it against what was seen before.
package tail

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tailer incrementally reads complete lines from a single append-only file.
// It is not safe for concurrent use; the monitor guarantees a single poller
// per file.
type Tailer struct {
	path string

	// offset is the byte position of the first unconsumed byte. It only
	// moves forward, except on truncation where it resets to zero.
	offset int64

	// lastSize is the file size observed at the end of the previous poll,
	// used to detect truncation. Invariant: offset <= lastSize.
	lastSize int64
}

// New creates a Tailer for the file at path with the cursor at the start.
// The file does not have to exist yet.
func New(path string) *Tailer {
	return &Tailer{path: path}
}

// Path returns the watched file path.
func (t *Tailer) Path() string {
	return t.path
}

// Offset returns the current byte cursor position.
func (t *Tailer) Offset() int64 {
	return t.offset
}

// Poll returns the complete lines appended since the previous poll, in file
// order. A missing file is not an error: the game may be mid-rotation, so
// Poll returns an empty batch and tries again next time. A trailing line with
// no terminator is held back until a later poll sees its newline; the cursor
// only ever advances past fully terminated lines.
func (t *Tailer) Poll() ([]string, error) {
	info, err := os.Stat(t.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tail: stat %s: %w", t.path, err)
	}

	size := info.Size()

	// Shrinking file means truncation or replacement. Restart from the top
	// and treat everything currently in the file as new.
	if size < t.lastSize {
		t.offset = 0
	}
	t.lastSize = size

	if size <= t.offset {
		return nil, nil
	}

	f, err := os.Open(t.path)
	if err != nil {
		return nil, fmt.Errorf("tail: open %s: %w", t.path, err)
	}
	defer f.Close()

	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("tail: seek %s to %d: %w", t.path, t.offset, err)
	}

	buf := make([]byte, size-t.offset)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("tail: read %s: %w", t.path, err)
	}
	buf = buf[:n]

	lines, consumed := splitCompleteLines(buf)
	t.offset += consumed
	return lines, nil
}

// splitCompleteLines splits buf into newline-terminated lines and reports how
// many bytes they cover, including terminators. Bytes after the last newline
// belong to a still-growing line and are not consumed. Invalid UTF-8
// sequences are dropped; a bad byte in the log must never stall the pipeline.
func splitCompleteLines(buf []byte) ([]string, int64) {
	var lines []string
	var consumed int64

	start := 0
	for i, b := range buf {
		if b != '\n' {
			continue
		}
		line := string(buf[start:i])
		line = strings.TrimSuffix(line, "\r")
		lines = append(lines, strings.ToValidUTF8(line, ""))
		start = i + 1
		consumed = int64(start)
	}
	return lines, consumed
}
