package orchestrator

import (
	"sort"
	"sync"

	"github.com/timvw/pane-wrangler/internal/model"
)

// Registry is the in-process mapping from internal session ids to session
// metadata. It is the single source of truth for sessions this process
// believes it created. All access goes through the mutex: the lifecycle
// manager writes while monitors and cleanup read, possibly concurrently.
//
// The registry reflects intended/attempted state, not a transactionally
// consistent view of multiplexer reality: a session whose layout only
// partially applied stays registered.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*model.Session)}
}

// Put registers a session, replacing any previous entry with the same id.
func (r *Registry) Put(s model.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = &s
}

// Get returns a copy of the session with the given id.
func (r *Registry) Get(id string) (model.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return model.Session{}, false
	}
	return cloneSession(s), true
}

// Update applies fn to the session with the given id under the write lock.
// Returns false if the session is not registered.
func (r *Registry) Update(id string, fn func(*model.Session)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	fn(s)
	return true
}

// Remove deletes the session with the given id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// List returns copies of all registered sessions, ordered by creation time
// (name as tiebreaker) for stable output.
func (r *Registry) List() []model.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]model.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		result = append(result, cloneSession(s))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Name < result[j].Name
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// cloneSession deep-copies a session so callers never share the windows
// backing arrays with the registry.
func cloneSession(s *model.Session) model.Session {
	out := *s
	if s.Windows != nil {
		out.Windows = make([]model.Window, len(s.Windows))
		for i, w := range s.Windows {
			out.Windows[i] = w
			if w.Panes != nil {
				out.Windows[i].Panes = append([]model.Pane(nil), w.Panes...)
			}
		}
	}
	return out
}
