package export

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Producer renders one export payload.
type Producer func(ctx context.Context) ([]byte, error)

// Scheduler runs periodic exports to one or more destinations.
type Scheduler struct {
	produce      Producer
	destinations []Destination
	interval     time.Duration
	log          logrus.FieldLogger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that renders with produce and writes to
// the given destinations at the specified interval.
func NewScheduler(produce Producer, destinations []Destination, interval time.Duration, log logrus.FieldLogger) *Scheduler {
	return &Scheduler{
		produce:      produce,
		destinations: destinations,
		interval:     interval,
		log:          log,
	}
}

// Start begins periodic export. It runs one export immediately, then on
// each tick, until ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current export (if any) to
// finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce renders one payload and writes it everywhere. Failures are logged.
func (s *Scheduler) RunOnce(ctx context.Context) {
	data, err := s.produce(ctx)
	if err != nil {
		s.log.WithError(err).Error("export render failed")
		return
	}
	if err := WriteAll(ctx, data, s.destinations...); err != nil {
		s.log.WithError(err).Error("export write failed")
		return
	}
	s.log.WithFields(logrus.Fields{
		"destinations": len(s.destinations),
		"bytes":        len(data),
	}).Info("export completed")
}
