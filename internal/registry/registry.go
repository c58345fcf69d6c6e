package registry

import (
	"sync"

	"github.com/dandantas/hush/internal/model"
)

// Registry is the in-memory set of live downtime schedules the scheduler
// reconciles. Schedules are held in registration order, which makes every
// tick enumerate them deterministically.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*model.DowntimeSchedule
	order  []string
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		byName: make(map[string]*model.DowntimeSchedule),
	}
}

// Register adds a schedule under its composed name. Registering a name again
// replaces the entry but keeps its original position.
func (r *Registry) Register(schedule *model.DowntimeSchedule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[schedule.Name]; !exists {
		r.order = append(r.order, schedule.Name)
	}
	r.byName[schedule.Name] = schedule
}

// Unregister removes a schedule by name
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; !exists {
		return
	}
	delete(r.byName, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get retrieves a schedule by name
func (r *Registry) Get(name string) (*model.DowntimeSchedule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schedule, exists := r.byName[name]
	return schedule, exists
}

// All returns a snapshot of the registered schedules in registration order
func (r *Registry) All() []*model.DowntimeSchedule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schedules := make([]*model.DowntimeSchedule, 0, len(r.order))
	for _, name := range r.order {
		schedules = append(schedules, r.byName[name])
	}
	return schedules
}

// Len returns the number of registered schedules
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
