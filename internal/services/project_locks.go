package services

import "sync"

// ProjectLocks serializes mutating git and file operations per project.
// Without it two requests racing on the same tree interleave arbitrarily and
// surface as raw git index-lock failures.
type ProjectLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewProjectLocks() *ProjectLocks {
	return &ProjectLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *ProjectLocks) get(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}

// Lock acquires the project's mutex and returns the unlock function.
func (l *ProjectLocks) Lock(key string) func() {
	m := l.get(key)
	m.Lock()
	return m.Unlock
}
