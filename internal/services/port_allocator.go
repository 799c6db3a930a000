package services

import (
	"github.com/shirou/gopsutil/v4/net"
	"github.com/sirupsen/logrus"

	"github.com/rileyblackwell/Imagi-sub001/internal/config"
)

// PortAllocator picks dev-server ports by scanning listening sockets over a
// bounded candidate range. The inUse check is injectable for tests.
type PortAllocator struct {
	inUse  func(port int) bool
	logger *logrus.Logger
}

func NewPortAllocator(logger *logrus.Logger) *PortAllocator {
	return &PortAllocator{inUse: portInUse, logger: logger}
}

// Allocate returns the first port in [start, end] that is neither excluded
// nor observed in use. When the whole range is exhausted it falls back to the
// start port regardless of observed conflict; best effort, not a guarantee.
func (a *PortAllocator) Allocate(start, end int, excluded []int) int {
	for port := start; port <= end; port++ {
		if containsInt(excluded, port) {
			continue
		}
		if a.inUse(port) {
			continue
		}
		return port
	}

	a.logger.Warnf("no free port in range %d-%d, falling back to %d", start, end, start)
	return start
}

func (a *PortAllocator) AllocateBackend(cfg *config.PreviewConfig) int {
	return a.Allocate(cfg.BackendPortStart, cfg.BackendPortEnd, cfg.BackendExcluded)
}

func (a *PortAllocator) AllocateFrontend(cfg *config.PreviewConfig) int {
	return a.Allocate(cfg.FrontendPortStart, cfg.FrontendPortEnd, cfg.FrontendExcluded)
}

// portInUse reports whether any process holds a listening TCP socket on the
// port.
func portInUse(port int) bool {
	conns, err := net.Connections("tcp")
	if err != nil {
		return false
	}
	for _, conn := range conns {
		if conn.Status == "LISTEN" && int(conn.Laddr.Port) == port {
			return true
		}
	}
	return false
}

// pidsListeningOn returns the PIDs of processes bound to the port, for orphan
// cleanup when a PID file was lost.
func pidsListeningOn(port int) []int32 {
	conns, err := net.Connections("tcp")
	if err != nil {
		return nil
	}

	var pids []int32
	for _, conn := range conns {
		if conn.Status == "LISTEN" && int(conn.Laddr.Port) == port && conn.Pid > 0 {
			pids = append(pids, conn.Pid)
		}
	}
	return pids
}

func containsInt(slice []int, item int) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}
