package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/omarshaarawi/kickbot/internal/config"
	"github.com/robfig/cron/v3"
)

// LineupService is the part of the lineup service the scheduled reports use.
type LineupService interface {
	GetSquad(ctx context.Context) (string, error)
	Optimize(ctx context.Context) (string, error)
	GetPlayersToMonitor(ctx context.Context) (string, error)
}

type Pruner interface {
	Prune(ctx context.Context) (int, error)
}

type Scheduler struct {
	s             gocron.Scheduler
	lineupService LineupService
	pruner        Pruner
	sendMessage   func(string) error
	autoOptimize  bool
	monitorCron   string
	ctx           context.Context
}

func NewScheduler(cfg config.Scheduler, lineupService LineupService, pruner Pruner, sendMessage func(string) error) (*Scheduler, error) {
	if _, err := cron.ParseStandard(cfg.MonitorCron); err != nil {
		return nil, fmt.Errorf("invalid monitor schedule %q: %w", cfg.MonitorCron, err)
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		slog.Error("Failed to load location", "timezone", cfg.Timezone, "error", err)
		location = time.UTC
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:             s,
		lineupService: lineupService,
		pruner:        pruner,
		sendMessage:   sendMessage,
		autoOptimize:  cfg.AutoOptimize,
		monitorCron:   cfg.MonitorCron,
		ctx:           context.Background(),
	}, nil
}

// Start registers the jobs and starts the scheduler. ctx is handed to every
// job run, so cancelling it aborts in-flight lookups.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx = ctx
	var err error

	// Players to monitor - Friday 18:00 unless MONITOR_CRON says otherwise
	_, err = s.s.NewJob(
		gocron.CronJob(s.monitorCron, false),
		gocron.NewTask(s.sendPlayersToMonitor),
	)
	if err != nil {
		return fmt.Errorf("failed to create players to monitor job: %w", err)
	}

	// Matchday lineup - Saturday 12:00, before the 15:30 kickoffs
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Saturday), gocron.NewAtTimes(gocron.NewAtTime(12, 0, 0))),
		gocron.NewTask(s.matchdayLineup),
	)
	if err != nil {
		return fmt.Errorf("failed to create matchday lineup job: %w", err)
	}

	_, err = s.s.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(s.pruneAvailability),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create availability prune job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) sendPlayersToMonitor() {
	report, err := s.lineupService.GetPlayersToMonitor(s.ctx)
	if err != nil {
		slog.Error("Failed to get players to monitor", "error", err)
		return
	}
	s.send(report)
}

func (s *Scheduler) matchdayLineup() {
	if !s.autoOptimize {
		squad, err := s.lineupService.GetSquad(s.ctx)
		if err != nil {
			slog.Error("Failed to get squad", "error", err)
			return
		}
		s.send(squad)
		return
	}

	report, err := s.lineupService.Optimize(s.ctx)
	if err != nil {
		slog.Error("Failed to optimize lineup", "error", err)
		s.send(fmt.Sprintf("⚠️ Automatic lineup failed: %v", err))
		return
	}
	s.send(report)
}

func (s *Scheduler) pruneAvailability() {
	removed, err := s.pruner.Prune(s.ctx)
	if err != nil {
		slog.Error("Failed to prune availability cache", "error", err)
		return
	}
	slog.Debug("Pruned availability cache", "removed", removed)
}

func (s *Scheduler) send(text string) {
	if err := s.sendMessage(text); err != nil {
		slog.Error("Failed to send scheduled message", "error", err)
	}
}
