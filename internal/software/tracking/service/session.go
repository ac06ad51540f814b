package service

import (
	"sync"

	"fleet-tracking/internal/domain/geo"
	"fleet-tracking/internal/domain/run"
	"fleet-tracking/internal/ports"
)

// runSession is the in-memory state of one tracked run. All mutation goes
// through mu, which serializes the update pipeline per run: two reports for
// the same run never interleave, while distinct runs proceed concurrently.
type runSession struct {
	mu sync.Mutex

	snapshot run.Snapshot
	journey  run.Journey

	// latestETA keeps only the most recent estimate; older ones are
	// overwritten, not accumulated.
	latestETA *run.ETA

	subscribers map[string]ports.Subscriber
}

func newRunSession(snapshot run.Snapshot, journey run.Journey) *runSession {
	return &runSession{
		snapshot:    snapshot,
		journey:     journey,
		subscribers: make(map[string]ports.Subscriber),
	}
}

// lastLocation returns the most recent path point. Callers must hold mu.
func (session *runSession) lastLocation() (geo.Location, bool) {
	if len(session.journey.Path) == 0 {
		return geo.Location{}, false
	}
	return session.journey.Path[len(session.journey.Path)-1], true
}

// snapshotSubscribers copies the subscriber set so notification can happen
// without holding mu across Notify calls. Callers must hold mu.
func (session *runSession) snapshotSubscribers() []ports.Subscriber {
	subs := make([]ports.Subscriber, 0, len(session.subscribers))
	for _, sub := range session.subscribers {
		subs = append(subs, sub)
	}
	return subs
}
