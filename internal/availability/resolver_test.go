package availability

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/omarshaarawi/kickbot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu      sync.Mutex
	calls   map[string]int
	results map[string]models.AvailabilityInfo
	errs    map[string]error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		calls:   make(map[string]int),
		results: make(map[string]models.AvailabilityInfo),
		errs:    make(map[string]error),
	}
}

func (f *fakeSource) Lookup(_ context.Context, player models.Player) (models.AvailabilityInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[player.Name]++
	if err, ok := f.errs[player.Name]; ok {
		return models.AvailabilityInfo{}, err
	}
	if info, ok := f.results[player.Name]; ok {
		return info, nil
	}
	return models.AvailabilityInfo{IsLikelyToPlay: true, Confidence: 0.8}, nil
}

func (f *fakeSource) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func newTestResolver(source Source, clock clockwork.Clock) *Resolver {
	return NewResolver(source, NewCache(NewMemoryStore(), clock, time.Hour), clock)
}

func TestResolve_CachesUntilExpiry(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	source := newFakeSource()
	source.results["Kane"] = models.AvailabilityInfo{IsLikelyToPlay: true, Confidence: 0.9}
	r := newTestResolver(source, clock)
	kane := models.Player{ID: "1", Name: "Kane", TeamID: "2"}

	info := r.Resolve(ctx, kane)
	assert.True(t, info.IsLikelyToPlay)
	assert.Equal(t, 0.9, info.Confidence)
	assert.Equal(t, clock.Now(), info.LastChecked)

	clock.Advance(59 * time.Minute)
	r.Resolve(ctx, kane)
	assert.Equal(t, 1, source.callCount("Kane"))

	clock.Advance(time.Minute)
	r.Resolve(ctx, kane)
	assert.Equal(t, 2, source.callCount("Kane"))
}

func TestResolve_KeyIncludesTeam(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	source := newFakeSource()
	r := newTestResolver(source, clock)

	r.Resolve(ctx, models.Player{ID: "1", Name: "Müller", TeamID: "2"})
	r.Resolve(ctx, models.Player{ID: "2", Name: "Müller", TeamID: "10"})
	assert.Equal(t, 2, source.callCount("Müller"))
}

func TestResolve_FailsOpen(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	source := newFakeSource()
	source.errs["Broken"] = errors.New("connection reset")
	r := newTestResolver(source, clock)
	player := models.Player{ID: "1", Name: "Broken", TeamID: "3"}

	info := r.Resolve(ctx, player)
	assert.True(t, info.IsLikelyToPlay)
	assert.Equal(t, 0.5, info.Confidence)

	r.Resolve(ctx, player)
	assert.Equal(t, 2, source.callCount("Broken"), "lookup errors are not cached")
}

func TestResolve_NoSignalDefaultIsCached(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	source := newFakeSource()
	source.errs["Quiet"] = fmt.Errorf("parsing team page: %w", ErrNoSignal)
	r := newTestResolver(source, clock)
	player := models.Player{ID: "1", Name: "Quiet", TeamID: "3"}

	info := r.Resolve(ctx, player)
	assert.True(t, info.IsLikelyToPlay)
	assert.Equal(t, 0.6, info.Confidence)

	r.Resolve(ctx, player)
	assert.Equal(t, 1, source.callCount("Quiet"))
}

func TestResolveAll(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	source := newFakeSource()
	source.results["Hurt"] = models.AvailabilityInfo{IsLikelyToPlay: false, Confidence: 0.9, Reason: "Verletzt"}
	source.results["Gone"] = models.AvailabilityInfo{IsLikelyToPlay: true, Confidence: 0.7, Reason: ReasonNotInSquad}
	source.errs["Broken"] = errors.New("timeout")

	var roster models.Roster
	for i := 0; i < 20; i++ {
		roster = append(roster, models.Player{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Player%d", i), TeamID: "1"})
	}
	roster = append(roster,
		models.Player{ID: "hurt", Name: "Hurt", TeamID: "1"},
		models.Player{ID: "gone", Name: "Gone", TeamID: "1"},
		models.Player{ID: "broken", Name: "Broken", TeamID: "1"},
	)

	r := NewResolver(source, NewCache(NewMemoryStore(), clock, time.Hour), clock, WithMaxConcurrent(3))
	result := r.ResolveAll(ctx, roster)

	require.Len(t, result, len(roster))
	for i := 0; i < 20; i++ {
		assert.True(t, result[fmt.Sprintf("p%d", i)].IsLikelyToPlay)
	}

	assert.False(t, result["hurt"].IsLikelyToPlay)
	assert.Equal(t, 0.9, result["hurt"].Confidence, "source confidence is kept")
	assert.Equal(t, "Verletzt", result["hurt"].Reason)

	assert.False(t, result["gone"].IsLikelyToPlay)
	assert.Equal(t, ReasonNotInSquad, result["gone"].Reason)
	assert.Equal(t, 0.95, result["gone"].Confidence)

	assert.True(t, result["broken"].IsLikelyToPlay)
	assert.Equal(t, 0.5, result["broken"].Confidence)
}

func TestResolveAll_DoesNotMutateCache(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	source := newFakeSource()
	source.results["Hurt"] = models.AvailabilityInfo{IsLikelyToPlay: false, Confidence: 0.9}
	cache := NewCache(NewMemoryStore(), clock, time.Hour)
	r := NewResolver(source, cache, clock)

	r.ResolveAll(ctx, models.Roster{{ID: "1", Name: "Hurt", TeamID: "4"}})

	cached, ok, err := cache.Get(ctx, Key{PlayerName: "Hurt", TeamID: "4"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.9, cached.Confidence)
	assert.Empty(t, cached.Reason)
}

func TestCache_Prune(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	cache := NewCache(NewMemoryStore(), clock, time.Hour)

	require.NoError(t, cache.Set(ctx, Key{"Old", "1"}, models.AvailabilityInfo{LastChecked: clock.Now()}))
	clock.Advance(30 * time.Minute)
	require.NoError(t, cache.Set(ctx, Key{"New", "1"}, models.AvailabilityInfo{LastChecked: clock.Now()}))
	clock.Advance(45 * time.Minute)

	removed, err := cache.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, ok, _ := cache.Get(ctx, Key{"Old", "1"})
	assert.False(t, ok)
	_, ok, _ = cache.Get(ctx, Key{"New", "1"})
	assert.True(t, ok)
}

func TestNewCache_DefaultTTL(t *testing.T) {
	cache := NewCache(NewMemoryStore(), clockwork.NewFakeClock(), 0)
	assert.Equal(t, DefaultTTL, cache.TTL())
}

func TestRedisKeyRoundTrip(t *testing.T) {
	key := Key{PlayerName: "Sané: Leroy", TeamID: "1"}
	parsed, ok := parseRedisKey(redisKey(key))
	require.True(t, ok)
	assert.Equal(t, key, parsed)

	_, ok = parseRedisKey("other:1:x")
	assert.False(t, ok)
}
