package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"weather-dashboard/internal/services/dashboard"
	"weather-dashboard/pkg/logger"
)

// Scheduler refreshes the city table on a fixed interval. An interval of
// zero disables it entirely, leaving the table populated once at startup.
type Scheduler struct {
	cron     *cron.Cron
	dash     *dashboard.Dashboard
	interval time.Duration
	l        *logger.Logger
}

func NewScheduler(dash *dashboard.Dashboard, interval time.Duration, l *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		dash:     dash,
		interval: interval,
		l:        l,
	}
}

func (s *Scheduler) Start() {
	if s.interval <= 0 {
		s.l.Info("city table refresh disabled, table is populated once")
		return
	}

	_, err := s.cron.AddFunc("@every "+s.interval.String(), s.refresh)
	if err != nil {
		s.l.Error(err, map[string]any{"interval": s.interval.String()})
		return
	}

	s.cron.Start()
	s.l.Info("city table refresh scheduled", map[string]any{"interval": s.interval.String()})
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	s.l.Info("refreshing city table")
	s.dash.LoadCities(ctx)
}
