package progress

import "sync"

// Recorder keeps every entry in arrival order.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Emit appends e.
func (r *Recorder) Emit(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// Entries returns a copy of the recorded entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Filter returns the recorded entries of category c.
func (r *Recorder) Filter(c Category) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Entry
	for _, e := range r.entries {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many entries of category c were recorded.
func (r *Recorder) Count(c Category) int {
	return len(r.Filter(c))
}
