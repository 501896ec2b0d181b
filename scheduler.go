package hologram

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultUpdateInterval is how often holograms are refreshed unless configured
// otherwise.
const DefaultUpdateInterval = time.Second

// Scheduler periodically refreshes the text of all holograms of a manager so
// that dynamic placeholders stay current.
type Scheduler struct {
	manager *Manager

	// Execution state
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	// Tick tracking
	tickRate   time.Duration
	tickNumber atomic.Uint64
}

// newScheduler creates a new scheduler.
func newScheduler(manager *Manager) *Scheduler {
	return &Scheduler{
		manager:  manager,
		tickRate: DefaultUpdateInterval,
	}
}

// SetTickRate changes the refresh interval. A non-positive interval disables
// the scheduler. It takes effect on the next Start.
func (s *Scheduler) SetTickRate(d time.Duration) {
	s.mu.Lock()
	s.tickRate = d
	s.mu.Unlock()
}

// TickNumber returns the number of ticks executed so far.
func (s *Scheduler) TickNumber() uint64 {
	return s.tickNumber.Load()
}

// Running returns true if the tick loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start begins the scheduler's tick loop.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || s.tickRate <= 0 {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go s.tickLoop(s.tickRate, s.stopCh, s.doneCh)
}

// Stop shuts down the tick loop and waits for the running tick to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	close(stopCh)
	<-doneCh
}

// tickLoop is the main scheduler loop.
func (s *Scheduler) tickLoop(rate time.Duration, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick executes one scheduler tick.
func (s *Scheduler) tick() {
	s.tickNumber.Add(1)

	defer func() {
		if r := recover(); r != nil {
			s.manager.log.Error("hologram: panic during refresh",
				"tick", s.tickNumber.Load(),
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	s.manager.Refresh()
}
