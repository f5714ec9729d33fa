package tui

import "strings"

// history is a bounded command history. Navigating with a non-empty draft
// only visits entries that start with it, so "use 2" + Up finds the last
// "use 2 on ..." command.
type history struct {
	entries []string
	max     int
	cursor  int    // -1 = not navigating, 0..len-1 = position in entries
	prefix  string // draft typed before navigation started
}

func newHistory(max int) *history {
	return &history{
		entries: make([]string, 0, max),
		max:     max,
		cursor:  -1,
	}
}

// push records a command. Re-running an older command moves it to the end.
func (h *history) push(cmd string) {
	for i, e := range h.entries {
		if e == cmd {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
	}
}

// older steps back to the previous matching entry. draft is the current
// input and only matters when navigation starts.
func (h *history) older(draft string) (string, bool) {
	start := h.cursor - 1
	if h.cursor == -1 {
		h.prefix = draft
		start = len(h.entries) - 1
	}
	for i := start; i >= 0; i-- {
		if strings.HasPrefix(h.entries[i], h.prefix) {
			h.cursor = i
			return h.entries[i], true
		}
	}
	if h.cursor >= 0 {
		// Stay on the oldest match.
		return h.entries[h.cursor], true
	}
	return "", false
}

// newer steps forward to the next matching entry. It returns false once
// navigation runs past the newest match.
func (h *history) newer() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	for i := h.cursor + 1; i < len(h.entries); i++ {
		if strings.HasPrefix(h.entries[i], h.prefix) {
			h.cursor = i
			return h.entries[i], true
		}
	}
	h.cursor = -1
	return "", false
}

// draft is the input that was being typed when navigation started.
func (h *history) draft() string {
	return h.prefix
}

// reset ends navigation.
func (h *history) reset() {
	h.cursor = -1
	h.prefix = ""
}
