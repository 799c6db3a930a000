package services

import (
	"sync"
)

// ServerProcess is the registry's record of one running dev-server slot.
type ServerProcess struct {
	PID     int
	Port    int
	PIDFile string
}

// ProcessRegistry is the authoritative in-memory map of dev-server slots.
// Access to each slot is serialized by a per-key mutex, which removes the
// start/stop race a PID-file-only design has. PID files remain underneath as
// the durability layer, so orphans from a previous run can still be found
// and cleaned up.
type ProcessRegistry struct {
	mu    sync.Mutex
	slots map[string]*ServerProcess
	locks *ProjectLocks
}

func NewProcessRegistry() *ProcessRegistry {
	return &ProcessRegistry{
		slots: make(map[string]*ServerProcess),
		locks: NewProjectLocks(),
	}
}

// LockSlot serializes start/stop for one slot key.
func (r *ProcessRegistry) LockSlot(key string) func() {
	return r.locks.Lock(key)
}

func (r *ProcessRegistry) Track(key string, proc *ServerProcess) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[key] = proc
}

func (r *ProcessRegistry) Lookup(key string) (*ServerProcess, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	proc, ok := r.slots[key]
	return proc, ok
}

func (r *ProcessRegistry) Forget(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, key)
}

func (r *ProcessRegistry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.slots))
	for key := range r.slots {
		keys = append(keys, key)
	}
	return keys
}
