package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/gofiber/fiber/v2/log"

	"github.com/i474232898/pincode-weather/internal/weather"
)

// StatsSource reports how many records are cached.
type StatsSource interface {
	Stats(ctx context.Context) (weather.Stats, error)
}

// Scheduler periodically collects cache statistics and keeps the latest snapshot.
type Scheduler struct {
	scheduler *gocron.Scheduler
	source    StatsSource
	interval  time.Duration

	mu     sync.RWMutex
	latest *weather.Stats
}

// New creates a new Scheduler.
func New(source StatsSource, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		source:    source,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first collection runs immediately.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Info("scheduler: stats interval disabled; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.collect)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// Latest returns the most recent snapshot, or nil before the first collection.
func (s *Scheduler) Latest() *weather.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return nil
	}
	st := *s.latest
	return &st
}

func (s *Scheduler) collect() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := s.source.Stats(ctx)
	if err != nil {
		log.Errorf("scheduler: stats collection failed: %v", err)
		return
	}

	s.mu.Lock()
	s.latest = &st
	s.mu.Unlock()

	log.Infof("scheduler: cache holds %d pincodes and %d weather records", st.Pincodes, st.WeatherRecords)
}
