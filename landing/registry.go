package landing

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type registryEntry struct {
	view     *View
	lastSeen time.Time
}

// Registry owns the live views, one per page load
type Registry struct {
	opts  Options
	clock Clock

	mu     sync.Mutex
	views  map[string]*registryEntry
	closed bool

	// deliveries counts every in-flight delivery, including those of views already removed
	deliveries sync.WaitGroup
}

// NewRegistry creates a registry; every view it creates shares opts
func NewRegistry(opts Options) *Registry {
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	r := &Registry{
		clock: opts.Clock,
		views: make(map[string]*registryEntry),
	}
	opts.deliveries = &r.deliveries
	r.opts = opts
	return r
}

// Create allocates a new view in the hero state
func (r *Registry) Create() *View {
	view := NewView(uuid.New().String(), r.opts)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		view.Close()
		return view
	}
	r.views[view.ID()] = &registryEntry{view: view, lastSeen: r.clock.Now()}
	n := len(r.views)
	r.mu.Unlock()

	activeViews.Set(float64(n))
	return view
}

// Get returns a live view and marks it as seen
func (r *Registry) Get(id string) (*View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.views[id]
	if !ok {
		return nil, false
	}
	entry.lastSeen = r.clock.Now()
	return entry.view, true
}

// Remove unmounts a view. Unknown ids are ignored.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	entry, ok := r.views[id]
	if ok {
		delete(r.views, id)
	}
	n := len(r.views)
	r.mu.Unlock()

	if ok {
		entry.view.Close()
	}
	activeViews.Set(float64(n))
}

// Sweep unmounts views idle for longer than maxIdle and returns how many were removed
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.clock.Now().Add(-maxIdle)

	var stale []*View
	r.mu.Lock()
	for id, entry := range r.views {
		if entry.lastSeen.Before(cutoff) {
			stale = append(stale, entry.view)
			delete(r.views, id)
		}
	}
	n := len(r.views)
	r.mu.Unlock()

	for _, view := range stale {
		view.Close()
	}
	activeViews.Set(float64(n))
	return len(stale)
}

// Len returns the number of live views
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// CloseAll unmounts every view and waits for all in-flight deliveries,
// including those of views unmounted earlier. Views created afterwards start closed.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	r.closed = true
	views := make([]*View, 0, len(r.views))
	for id, entry := range r.views {
		views = append(views, entry.view)
		delete(r.views, id)
	}
	r.mu.Unlock()

	// Closed views refuse new submissions, so the count can only go down from here
	for _, view := range views {
		view.Close()
	}
	r.deliveries.Wait()
	activeViews.Set(0)
}
