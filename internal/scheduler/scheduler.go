package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bobby-s-dev/weather-report/internal/models"
	"github.com/bobby-s-dev/weather-report/internal/services"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const probeTimeout = 30 * time.Second

// ProbeStatus is the outcome of the most recent provider probe.
type ProbeStatus struct {
	LastRun   time.Time `json:"last_run"`
	Reachable bool      `json:"reachable"`
	Kind      string    `json:"kind,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// Scheduler periodically fetches one city to check that the provider is
// reachable. Only the latest outcome is kept.
type Scheduler struct {
	fetcher  services.WeatherFetcher
	logger   *zap.Logger
	city     string
	schedule string
	cron     *cron.Cron

	mu         sync.Mutex
	running    bool
	registered bool
	last       *ProbeStatus
}

func NewScheduler(fetcher services.WeatherFetcher, schedule, city string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		fetcher:  fetcher,
		logger:   logger,
		city:     city,
		schedule: schedule,
		cron:     cron.New(),
	}
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	// The job survives Stop, so a restart must not add it again.
	if !s.registered {
		if _, err := s.cron.AddFunc(s.schedule, s.RunProbe); err != nil {
			return fmt.Errorf("invalid probe schedule %q: %w", s.schedule, err)
		}
		s.registered = true
	}
	s.cron.Start()
	s.running = true

	s.logger.Info("Provider probe started",
		zap.String("schedule", s.schedule),
		zap.String("city", s.city))
	return nil
}

// Stop halts the scheduler and waits for a running probe to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Stopping provider probe")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) RunProbe() {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	result := s.fetcher.Fetch(ctx, s.city)

	status := &ProbeStatus{LastRun: time.Now(), Reachable: true}
	if f, ok := result.(models.Failure); ok {
		// The provider answered, so a rejected city still counts as reachable.
		status.Reachable = f.Kind == models.KindProvider
		status.Kind = string(f.Kind)
		status.Message = f.Message
		s.logger.Warn("Provider probe failed",
			zap.String("city", s.city),
			zap.String("kind", status.Kind))
	} else {
		s.logger.Debug("Provider probe succeeded", zap.String("city", s.city))
	}

	s.mu.Lock()
	s.last = status
	s.mu.Unlock()
}

// GetStatus returns a snapshot for the health endpoint.
func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running":  s.running,
		"schedule": s.schedule,
		"city":     s.city,
	}
	if s.last != nil {
		status["last_probe"] = *s.last
	}
	return status
}
