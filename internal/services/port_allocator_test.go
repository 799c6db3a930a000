package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testAllocator(busy ...int) *PortAllocator {
	return &PortAllocator{
		inUse:  func(port int) bool { return containsInt(busy, port) },
		logger: quietLogger(),
	}
}

func TestAllocateFirstFree(t *testing.T) {
	a := testAllocator()
	assert.Equal(t, 8080, a.Allocate(8080, 8100, nil))
}

func TestAllocateSkipsBusyPorts(t *testing.T) {
	a := testAllocator(8080, 8081)
	assert.Equal(t, 8082, a.Allocate(8080, 8100, nil))
}

func TestAllocateSkipsExcludedPorts(t *testing.T) {
	a := testAllocator()
	assert.Equal(t, 8001, a.Allocate(8000, 8100, []int{8000}))
}

func TestAllocateExhaustedFallsBackToStart(t *testing.T) {
	busy := make([]int, 0, 21)
	for port := 8080; port <= 8100; port++ {
		busy = append(busy, port)
	}
	a := testAllocator(busy...)

	// Every candidate busy: the allocator still terminates and hands back
	// the start of the range.
	assert.Equal(t, 8080, a.Allocate(8080, 8100, nil))
}

func TestAllocateAllExcludedFallsBackToStart(t *testing.T) {
	a := testAllocator()
	assert.Equal(t, 5173, a.Allocate(5173, 5175, []int{5173, 5174, 5175}))
}

func TestAllocateSingletonRange(t *testing.T) {
	a := testAllocator()
	assert.Equal(t, 8080, a.Allocate(8080, 8080, nil))
}
