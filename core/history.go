package core

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/google/renameio/v2"
	"github.com/spf13/afero"
)

// HistoryLog holds the lines entered in a session, oldest first. Once it
// holds limit lines, appending drops the oldest one; entry numbers keep
// counting so a line's number never changes.
type HistoryLog struct {
	entries []string
	limit   int
	dropped int
}

// NewHistoryLog creates an empty log holding at most limit lines.
func NewHistoryLog(limit int) *HistoryLog {
	if limit < 1 {
		limit = 1
	}
	return &HistoryLog{limit: limit}
}

// Append adds a line to the end of the log.
func (h *HistoryLog) Append(line string) {
	h.entries = append(h.entries, line)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append(h.entries[:0:0], h.entries[over:]...)
		h.dropped += over
	}
}

// Entries returns a copy of the retained lines.
func (h *HistoryLog) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Len returns the number of retained lines.
func (h *HistoryLog) Len() int {
	return len(h.entries)
}

// Clear removes every line and restarts numbering from one.
func (h *HistoryLog) Clear() {
	h.entries = nil
	h.dropped = 0
}

// Dump writes the numbered listing shown by the history builtin.
func (h *HistoryLog) Dump(w io.Writer) error {
	for i, line := range h.entries {
		if _, err := fmt.Fprintf(w, "[%2d] %s\n", h.dropped+i+1, line); err != nil {
			return err
		}
	}
	return nil
}

// Load appends every line read from r.
func (h *HistoryLog) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		h.Append(scanner.Text())
	}
	return scanner.Err()
}

// WriteTo writes the retained lines one per line.
func (h *HistoryLog) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, line := range h.entries {
		n, err := fmt.Fprintln(w, line)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// LoadHistoryFile appends the lines saved in path on fsys. A missing file is
// not an error.
func LoadHistoryFile(fsys afero.Fs, h *HistoryLog, path string) error {
	fd, err := fsys.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer fd.Close()

	return h.Load(fd)
}

// SaveHistoryFile replaces the contents of path on fsys with the log. On the
// OS filesystem readers never see a partially written file.
func SaveHistoryFile(fsys afero.Fs, h *HistoryLog, path string) error {
	buf := &bytes.Buffer{}
	if _, err := h.WriteTo(buf); err != nil {
		return err
	}

	if _, ok := fsys.(*afero.OsFs); ok {
		return renameio.WriteFile(path, buf.Bytes(), 0600)
	}
	return afero.WriteFile(fsys, path, buf.Bytes(), 0600)
}
