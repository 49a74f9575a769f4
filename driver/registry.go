package driver

import "sync"

// Registry maps execution contexts to their live drivers.
type Registry struct {
	drivers map[ExecutionID]Driver
	lock    sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{drivers: make(map[ExecutionID]Driver)}
}

// Put stores d for id and returns whatever was stored before, or nil.
func (r *Registry) Put(id ExecutionID, d Driver) Driver {
	r.lock.Lock()
	defer r.lock.Unlock()
	previous := r.drivers[id]
	r.drivers[id] = d
	return previous
}

func (r *Registry) Get(id ExecutionID) (Driver, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	d, ok := r.drivers[id]
	return d, ok
}

// Remove deletes and returns the driver for id, or nil if there was none.
func (r *Registry) Remove(id ExecutionID) Driver {
	r.lock.Lock()
	defer r.lock.Unlock()
	d := r.drivers[id]
	delete(r.drivers, id)
	return d
}

func (r *Registry) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.drivers)
}
