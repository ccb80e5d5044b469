package dashboard

import (
	"net/url"
	"sync"
)

// MemoryHistory is a browser-like history stack.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []url.Values
	index   int
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{index: -1}
}

// Push drops any forward entries and appends query, pushing the current
// entry again is a no-op.
func (h *MemoryHistory) Push(query url.Values) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.index >= 0 && h.entries[h.index].Encode() == query.Encode() {
		return
	}
	h.entries = append(h.entries[:h.index+1], query)
	h.index++
}

func (h *MemoryHistory) Back() (url.Values, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index <= 0 {
		return nil, false
	}
	h.index--
	return h.entries[h.index], true
}

func (h *MemoryHistory) Forward() (url.Values, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index >= len(h.entries)-1 {
		return nil, false
	}
	h.index++
	return h.entries[h.index], true
}

func (h *MemoryHistory) Current() (url.Values, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index < 0 {
		return nil, false
	}
	return h.entries[h.index], true
}

func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
