package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/omarshaarawi/kickbot/internal/formation"
	"github.com/omarshaarawi/kickbot/internal/lineup"
	"github.com/omarshaarawi/kickbot/internal/models"
	"github.com/omarshaarawi/kickbot/internal/repository/memory"
)

const playerMatchThreshold = 0.6

type RosterSource interface {
	GetRoster(ctx context.Context) (models.Roster, error)
}

type AvailabilityResolver interface {
	ResolveAll(ctx context.Context, players models.Roster) map[string]models.AvailabilityInfo
}

type LineupService struct {
	source     RosterSource
	resolver   AvailabilityResolver
	reconciler *lineup.Reconciler
	repo       *memory.Repository
	clock      clockwork.Clock
	rosterTTL  time.Duration

	// serializes lineup changes between chat commands and scheduled jobs
	mu sync.Mutex
}

func NewLineupService(
	source RosterSource,
	store lineup.Store,
	resolver AvailabilityResolver,
	repo *memory.Repository,
	clock clockwork.Clock,
	rosterTTL time.Duration,
) *LineupService {
	return &LineupService{
		source:     source,
		resolver:   resolver,
		reconciler: lineup.NewReconciler(store, slog.Default()),
		repo:       repo,
		clock:      clock,
		rosterTTL:  rosterTTL,
	}
}

func (s *LineupService) getRoster(ctx context.Context) (models.Roster, error) {
	snapshot := s.repo.GetRoster()
	if snapshot == nil || s.clock.Since(snapshot.LastUpdated) > s.rosterTTL {
		roster, err := s.source.GetRoster(ctx)
		if err != nil {
			return nil, err
		}
		roster = lineup.Arrange(roster)
		s.repo.SaveRoster(models.RosterSnapshot{Roster: roster, LastUpdated: s.clock.Now()})
		return roster, nil
	}
	return snapshot.Roster, nil
}

func (s *LineupService) GetSquad(ctx context.Context) (string, error) {
	roster, err := s.getRoster(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching squad: %w", err)
	}
	return formatSquad(roster), nil
}

// Optimize picks the best eleven for the coming matchday and saves it with
// the game. Local state only changes once the game accepted the lineup.
func (s *LineupService) Optimize(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.optimize(ctx)
	if err != nil {
		return "", err
	}
	return formatReport(report), nil
}

func (s *LineupService) optimize(ctx context.Context) (models.OptimizationReport, error) {
	roster, err := s.getRoster(ctx)
	if err != nil {
		return models.OptimizationReport{}, fmt.Errorf("error fetching squad: %w", err)
	}

	availability := s.resolver.ResolveAll(ctx, roster)
	sel, err := formation.Evaluate(formation.NewCandidates(roster, availability))
	if err != nil {
		return models.OptimizationReport{}, fmt.Errorf("error optimizing lineup: %w", err)
	}
	slog.Info("Best possible formation", "formation", sel.Formation.Name, "projected", sel.Score)

	next := lineup.Apply(roster, sel)
	if _, err := s.reconciler.Commit(ctx, next); err != nil {
		// the game may have applied part of the request, so reread it next time
		s.repo.Invalidate()
		return models.OptimizationReport{}, err
	}
	s.repo.SaveRoster(models.RosterSnapshot{Roster: next, LastUpdated: s.clock.Now()})

	report := models.OptimizationReport{
		Formation:      sel.Formation.Name,
		PreviousPoints: roster.ActivePoints(),
		NewPoints:      next.ActivePoints(),
		ProjectedScore: sel.Score,
		Starters:       next.Active(),
	}
	for _, p := range roster {
		if info, ok := availability[p.ID]; ok && !info.IsLikelyToPlay {
			report.Excluded = append(report.Excluded, models.PlayerToMonitor{
				Name:     p.FullName(),
				Position: p.Position,
				Reason:   info.Reason,
			})
		}
	}
	s.repo.SaveReport(report)

	slog.Info("Lineup optimized",
		"formation", report.Formation,
		"before", report.PreviousPoints,
		"after", report.NewPoints,
		"improvement", report.Improvement(),
	)
	return report, nil
}

// MovePlayer moves one player by name. slot is 1-based; zero appends. Moves
// that break position rules are answered with a message, not an error.
func (s *LineupService) MovePlayer(ctx context.Context, playerName, zoneName string, slot int) (string, error) {
	zone, err := lineup.ParseZone(zoneName)
	if err != nil {
		return "", err
	}
	if zone == lineup.ZoneAuto {
		return s.Optimize(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	roster, err := s.getRoster(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching squad: %w", err)
	}

	player, ok := findPlayer(roster, playerName)
	if !ok {
		return fmt.Sprintf("🔍 No player found matching '%s'.", playerName), nil
	}

	next, err := lineup.ApplyMove(roster, lineup.Move{
		PlayerID:    player.ID,
		Destination: zone,
		Index:       slot - 1,
	})
	if errors.Is(err, lineup.ErrInvalidMove) {
		slog.Info("Invalid move", "player", player.Name, "zone", zone, "reason", err)
		return fmt.Sprintf("🚫 %s", err), nil
	}
	if err != nil {
		return "", fmt.Errorf("error moving player: %w", err)
	}

	if _, err := s.reconciler.Commit(ctx, next); err != nil {
		s.repo.Invalidate()
		return "", err
	}
	s.repo.SaveRoster(models.RosterSnapshot{Roster: next, LastUpdated: s.clock.Now()})

	return fmt.Sprintf("✅ Moved *%s* to %s\n\n%s", player.FullName(), zone, formatSquad(next)), nil
}

func (s *LineupService) GetPlayersToMonitor(ctx context.Context) (string, error) {
	roster, err := s.getRoster(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching squad: %w", err)
	}

	starters := roster.Active()
	availability := s.resolver.ResolveAll(ctx, starters)

	var monitor []models.PlayerToMonitor
	for _, p := range starters {
		info, ok := availability[p.ID]
		if !ok || info.IsLikelyToPlay {
			continue
		}
		monitor = append(monitor, models.PlayerToMonitor{Name: p.FullName(), Position: p.Position, Reason: info.Reason})
	}

	var sb strings.Builder
	sb.WriteString("🚑 *Starters to Monitor*\n\n")
	if len(monitor) == 0 {
		sb.WriteString("All starters are expected to play.")
		return sb.String(), nil
	}
	for _, m := range monitor {
		sb.WriteString(fmt.Sprintf("  • %s %s - %s\n", m.Position, m.Name, reasonOrUnknown(m.Reason)))
	}
	return sb.String(), nil
}

func (s *LineupService) ComparePlayers(ctx context.Context, first, second string) (string, error) {
	roster, err := s.getRoster(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching squad: %w", err)
	}

	a, ok := findPlayer(roster, first)
	if !ok {
		return fmt.Sprintf("🔍 No player found matching '%s'.", first), nil
	}
	b, ok := findPlayer(roster, second)
	if !ok {
		return fmt.Sprintf("🔍 No player found matching '%s'.", second), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚖️ *%s* vs *%s*\n", a.FullName(), b.FullName()))
	sb.WriteString("━━━━━━━━━━━━━━━━\n")
	sb.WriteString(fmt.Sprintf("Position: %s | %s\n", a.Position, b.Position))
	sb.WriteString(fmt.Sprintf("Avg points: %.1f | %.1f %s\n", a.AveragePoints, b.AveragePoints, leader(a.AveragePoints, b.AveragePoints)))
	sb.WriteString(fmt.Sprintf("Total points: %.0f | %.0f %s\n", a.TotalPoints, b.TotalPoints, leader(a.TotalPoints, b.TotalPoints)))
	sb.WriteString(fmt.Sprintf("Market value: %s | %s %s\n", formatMoney(a.MarketValue), formatMoney(b.MarketValue), leader(a.MarketValue, b.MarketValue)))
	sb.WriteString(fmt.Sprintf("Trend: %s | %s\n", trendArrow(a.MarketValueTrend), trendArrow(b.MarketValueTrend)))
	return sb.String(), nil
}

// findPlayer picks the squad player whose surname or full name is closest to
// query by edit distance.
func findPlayer(roster models.Roster, query string) (models.Player, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return models.Player{}, false
	}

	best := -1
	bestScore := playerMatchThreshold
	for i, p := range roster {
		for _, name := range []string{p.Name, p.FullName()} {
			candidate := strings.ToLower(name)
			distance := fuzzy.LevenshteinDistance(q, candidate)
			maxLen := float64(max(len(q), len(candidate)))
			similarity := 1 - float64(distance)/maxLen
			if similarity > bestScore {
				bestScore = similarity
				best = i
			}
		}
	}

	if best == -1 {
		return models.Player{}, false
	}
	return roster[best], true
}
