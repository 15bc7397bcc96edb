package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/omarshaarawi/kickbot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	optimizeErr error
	optimized   int
}

func (f *fakeService) GetSquad(context.Context) (string, error) {
	return "squad", nil
}

func (f *fakeService) Optimize(context.Context) (string, error) {
	f.optimized++
	if f.optimizeErr != nil {
		return "", f.optimizeErr
	}
	return "optimized", nil
}

func (f *fakeService) GetPlayersToMonitor(context.Context) (string, error) {
	return "monitor", nil
}

type fakePruner struct {
	calls int
}

func (f *fakePruner) Prune(context.Context) (int, error) {
	f.calls++
	return 3, nil
}

func newTestScheduler(t *testing.T, autoOptimize bool, svc *fakeService, pruner *fakePruner) (*Scheduler, *[]string) {
	t.Helper()
	var sent []string
	s, err := NewScheduler(
		config.Scheduler{Timezone: "Europe/Berlin", AutoOptimize: autoOptimize, MonitorCron: "0 18 * * 5"},
		svc,
		pruner,
		func(text string) error {
			sent = append(sent, text)
			return nil
		},
	)
	require.NoError(t, err)
	return s, &sent
}

func TestMatchdayLineup_ReportsSquadWithoutAutoOptimize(t *testing.T) {
	svc := &fakeService{}
	s, sent := newTestScheduler(t, false, svc, &fakePruner{})

	s.matchdayLineup()
	assert.Equal(t, []string{"squad"}, *sent)
	assert.Zero(t, svc.optimized)
}

func TestMatchdayLineup_Optimizes(t *testing.T) {
	svc := &fakeService{}
	s, sent := newTestScheduler(t, true, svc, &fakePruner{})

	s.matchdayLineup()
	assert.Equal(t, []string{"optimized"}, *sent)
	assert.Equal(t, 1, svc.optimized)
}

func TestMatchdayLineup_ReportsFailure(t *testing.T) {
	svc := &fakeService{optimizeErr: errors.New("saving 4-4-2 lineup: boom")}
	s, sent := newTestScheduler(t, true, svc, &fakePruner{})

	s.matchdayLineup()
	require.Len(t, *sent, 1)
	assert.Contains(t, (*sent)[0], "boom")
}

func TestJobs(t *testing.T) {
	pruner := &fakePruner{}
	s, sent := newTestScheduler(t, false, &fakeService{}, pruner)

	s.sendPlayersToMonitor()
	s.pruneAvailability()
	assert.Equal(t, []string{"monitor"}, *sent)
	assert.Equal(t, 1, pruner.calls)
}

func TestNewScheduler_UnknownTimezoneFallsBack(t *testing.T) {
	_, err := NewScheduler(config.Scheduler{Timezone: "Mars/Olympus", MonitorCron: "0 18 * * 5"}, &fakeService{}, &fakePruner{}, func(string) error { return nil })
	assert.NoError(t, err)
}

func TestNewScheduler_RejectsBadMonitorSchedule(t *testing.T) {
	_, err := NewScheduler(config.Scheduler{Timezone: "UTC", MonitorCron: "every friday"}, &fakeService{}, &fakePruner{}, func(string) error { return nil })
	assert.ErrorContains(t, err, "invalid monitor schedule")
}
