package zones

import "sync"

// Registry tracks the zone labels already handed out.
type Registry interface {
	// Reserve claims label and reports whether it was still free.
	Reserve(label string) bool
	Reset()
}

type runRegistry map[string]struct{}

// NewRunRegistry returns a registry owned by a single optimization run.
// It is not safe for concurrent use.
func NewRunRegistry() Registry {
	return runRegistry{}
}

func (r runRegistry) Reserve(label string) bool {
	if _, taken := r[label]; taken {
		return false
	}
	r[label] = struct{}{}
	return true
}

func (r runRegistry) Reset() {
	clear(r)
}

// SharedRegistry deduplicates labels across runs. It is safe for concurrent use;
// callers that need per-run uniqueness must serialize runs around Reset.
type SharedRegistry struct {
	mu   sync.Mutex
	used map[string]struct{}
}

func NewSharedRegistry() *SharedRegistry {
	return &SharedRegistry{used: map[string]struct{}{}}
}

func (r *SharedRegistry) Reserve(label string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.used[label]; taken {
		return false
	}
	r.used[label] = struct{}{}
	return true
}

func (r *SharedRegistry) Reset() {
	r.mu.Lock()
	clear(r.used)
	r.mu.Unlock()
}

// Len returns the number of reserved labels.
func (r *SharedRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.used)
}
