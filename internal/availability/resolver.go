package availability

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/omarshaarawi/kickbot/internal/models"
	"golang.org/x/sync/errgroup"
)

// ErrNoSignal is returned by a Source that reached its data but could not tell
// whether the player will start.
var ErrNoSignal = errors.New("no availability signal")

const (
	ReasonNotInSquad      = "Nicht im Kader"
	ReasonNotFoundInSquad = "Nicht im Kader gefunden"

	noSignalConfidence    = 0.6
	lookupErrorConfidence = 0.5
	unavailableConfidence = 0.95

	DefaultMaxConcurrent = 8
)

// Source produces a likely-to-play signal for one player.
type Source interface {
	Lookup(ctx context.Context, player models.Player) (models.AvailabilityInfo, error)
}

type Resolver struct {
	source        Source
	cache         *Cache
	clock         clockwork.Clock
	logger        *slog.Logger
	maxConcurrent int
}

type ResolverOption func(*Resolver)

func WithMaxConcurrent(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.maxConcurrent = n
		}
	}
}

func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func NewResolver(source Source, cache *Cache, clock clockwork.Clock, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		source:        source,
		cache:         cache,
		clock:         clock,
		logger:        slog.Default(),
		maxConcurrent: DefaultMaxConcurrent,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cache exposes the resolver's cache so the scheduler can prune it.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Resolve never fails. Lookup errors turn into a likely-to-play default with
// reduced confidence so an uncertain player is still considered.
func (r *Resolver) Resolve(ctx context.Context, player models.Player) models.AvailabilityInfo {
	key := Key{PlayerName: player.Name, TeamID: player.TeamID}

	cached, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("Availability cache read failed", "player", player.Name, "error", err)
	} else if ok {
		r.logger.Debug("Returning cached availability", "player", player.Name, "team_id", player.TeamID)
		return cached
	}

	info, err := r.source.Lookup(ctx, player)
	switch {
	case err == nil:
		info.LastChecked = r.clock.Now()
	case errors.Is(err, ErrNoSignal):
		r.logger.Warn("Could not determine availability, using default", "player", player.Name)
		info = models.AvailabilityInfo{
			IsLikelyToPlay: true,
			Confidence:     noSignalConfidence,
			LastChecked:    r.clock.Now(),
		}
	default:
		r.logger.Error("Error checking availability", "player", player.Name, "team_id", player.TeamID, "error", err)
		return models.AvailabilityInfo{
			IsLikelyToPlay: true,
			Confidence:     lookupErrorConfidence,
			LastChecked:    r.clock.Now(),
		}
	}

	if err := r.cache.Set(ctx, key, info); err != nil {
		r.logger.Warn("Availability cache write failed", "player", player.Name, "error", err)
	}
	r.logger.Debug("Resolved availability",
		"player", player.Name,
		"likely_to_play", info.IsLikelyToPlay,
		"confidence", info.Confidence,
	)
	return info
}

// ResolveAll looks up every player concurrently and returns once all lookups
// have finished. Players the source reports as out of the squad or unlikely to
// play are marked unavailable with high confidence.
func (r *Resolver) ResolveAll(ctx context.Context, players models.Roster) map[string]models.AvailabilityInfo {
	r.logger.Info("Checking availability", "players", len(players))

	var mu sync.Mutex
	result := make(map[string]models.AvailabilityInfo, len(players))
	var unavailable []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrent)
	for _, p := range players {
		g.Go(func() error {
			info := markUnavailable(r.Resolve(gctx, p))

			mu.Lock()
			defer mu.Unlock()
			result[p.ID] = info
			if !info.IsLikelyToPlay {
				unavailable = append(unavailable, p.Name)
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(unavailable) > 0 {
		r.logger.Warn("Players to remove from starting eleven", "players", unavailable)
	}
	return result
}

func markUnavailable(info models.AvailabilityInfo) models.AvailabilityInfo {
	if info.IsLikelyToPlay && info.Reason != ReasonNotInSquad && info.Reason != ReasonNotFoundInSquad {
		return info
	}
	// a source that already ruled the player out keeps its own confidence
	if info.IsLikelyToPlay {
		info.Confidence = unavailableConfidence
	}
	info.IsLikelyToPlay = false
	if info.Reason == "" {
		info.Reason = ReasonNotFoundInSquad
	}
	return info
}
