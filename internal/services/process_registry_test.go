package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryTrackLookupForget(t *testing.T) {
	r := NewProcessRegistry()

	_, ok := r.Lookup("a.pid")
	assert.False(t, ok)

	r.Track("a.pid", &ServerProcess{PID: 100, Port: 8080, PIDFile: "a.pid"})

	proc, ok := r.Lookup("a.pid")
	assert.True(t, ok)
	assert.Equal(t, 100, proc.PID)
	assert.Equal(t, 8080, proc.Port)

	r.Forget("a.pid")
	_, ok = r.Lookup("a.pid")
	assert.False(t, ok)
}

func TestRegistryKeys(t *testing.T) {
	r := NewProcessRegistry()
	r.Track("a.pid", &ServerProcess{PID: 1})
	r.Track("b.pid", &ServerProcess{PID: 2})

	assert.ElementsMatch(t, []string{"a.pid", "b.pid"}, r.Keys())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewProcessRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			unlock := r.LockSlot("slot")
			defer unlock()
			r.Track("slot", &ServerProcess{PID: n})
			r.Lookup("slot")
		}(i)
	}
	wg.Wait()

	_, ok := r.Lookup("slot")
	assert.True(t, ok)
}

func TestProjectLocksSerialize(t *testing.T) {
	locks := NewProjectLocks()

	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("project")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}
