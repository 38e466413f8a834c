package heap

import "github.com/latticehq/heapcore/internal/schedhost"

// criticalSection brackets a single free-list read-modify-write. Callers
// acquire it with enterCritical and call leave explicitly on every exit
// path of Malloc and Free, so each of them resumes the host scheduler.
// Malloc calls leave before invoking the failure callback, which therefore
// always runs outside the section.
type criticalSection struct {
	host schedhost.Host
}

func enterCritical(host schedhost.Host) criticalSection {
	host.Suspend()

	return criticalSection{host: host}
}

func (c criticalSection) leave() {
	c.host.Resume()
}
