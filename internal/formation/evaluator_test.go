package formation

import (
	"fmt"
	"testing"

	"github.com/omarshaarawi/kickbot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func player(id string, pos models.Position, avg float64) models.Player {
	return models.Player{ID: id, Name: id, Position: pos, AveragePoints: avg}
}

func available(roster models.Roster) []Candidate {
	return NewCandidates(roster, nil)
}

// squad builds a roster with the given number of players per position and
// strictly decreasing averages within each position.
func squad(gk, def, mid, fwd int) models.Roster {
	var r models.Roster
	add := func(pos models.Position, n int) {
		for i := 0; i < n; i++ {
			r = append(r, player(fmt.Sprintf("%s%d", pos, i+1), pos, float64(100-i*10)))
		}
	}
	add(models.Goalkeeper, gk)
	add(models.Defender, def)
	add(models.Midfielder, mid)
	add(models.Forward, fwd)
	return r
}

func countPositions(players []Candidate) map[models.Position]int {
	counts := make(map[models.Position]int)
	for _, c := range players {
		counts[c.Player.Position]++
	}
	return counts
}

func TestCatalog(t *testing.T) {
	formations := Catalog()
	require.Len(t, formations, 10)
	for _, f := range formations {
		assert.Equal(t, 10, f.Defenders+f.Midfielders+f.Forwards, f.Name)
		assert.Equal(t, fmt.Sprintf("%d-%d-%d", f.Defenders, f.Midfielders, f.Forwards), f.Name)
	}

	formations[0].Defenders = 9
	assert.Equal(t, 3, Catalog()[0].Defenders, "catalog must not be mutable through the copy")
}

func TestParse(t *testing.T) {
	f, err := Parse("4-4-2")
	require.NoError(t, err)
	assert.Equal(t, 2, f.Forwards)

	_, err = Parse("2-2-6")
	assert.Error(t, err)
}

func TestClosest(t *testing.T) {
	assert.Equal(t, "4-3-3", Closest(4, 3, 3).Name)
	assert.Equal(t, "3-4-3", Closest(3, 3, 3).Name, "first catalog entry at distance one")
	assert.Equal(t, "5-4-1", Closest(6, 4, 0).Name)
	assert.Equal(t, "3-4-3", Closest(0, 0, 0).Name)
	assert.Equal(t, "4-5-1", Closest(4, 5, 0).Name)
	assert.Equal(t, "5-2-3", Closest(5, 1, 1).Name)
}

func TestFits(t *testing.T) {
	assert.True(t, Fits(4, 4, 2))
	assert.True(t, Fits(5, 2, 2), "room left in 5-2-3")
	assert.True(t, Fits(3, 6, 1))
	assert.True(t, Fits(0, 0, 0))
	assert.False(t, Fits(6, 2, 2))
	assert.False(t, Fits(3, 7, 0))
	assert.False(t, Fits(2, 2, 5))
	assert.False(t, Fits(5, 5, 0), "no catalog entry has five defenders and five midfielders")
}

func TestProjectedPoints(t *testing.T) {
	p := player("a", models.Midfielder, 80)
	assert.Equal(t, 0.0, ProjectedPoints(p, models.AvailabilityInfo{IsLikelyToPlay: false, Confidence: 0.9}))
	assert.InDelta(t, 72.0, ProjectedPoints(p, models.AvailabilityInfo{IsLikelyToPlay: true, Confidence: 0.9}), 1e-9)
}

func TestEvaluate_ExampleSquad(t *testing.T) {
	roster := models.Roster{
		player("gk", models.Goalkeeper, 50),
		player("d1", models.Defender, 60), player("d2", models.Defender, 55),
		player("d3", models.Defender, 50), player("d4", models.Defender, 45),
		player("m1", models.Midfielder, 70), player("m2", models.Midfielder, 65),
		player("m3", models.Midfielder, 60), player("m4", models.Midfielder, 55),
		player("f1", models.Forward, 80), player("f2", models.Forward, 75),
		player("f3", models.Forward, 10),
	}

	sel, err := Evaluate(available(roster))
	require.NoError(t, err)

	assert.Equal(t, "4-4-2", sel.Formation.Name)
	assert.Equal(t, []string{
		"gk",
		"d1", "d2", "d3", "d4",
		"m1", "m2", "m3", "m4",
		"f1", "f2",
	}, sel.IDs())
	assert.InDelta(t, 50.0+210+250+155, sel.Score, 1e-9)
}

func TestEvaluate_AlwaysElevenForFillableRosters(t *testing.T) {
	tests := []struct {
		name              string
		gk, def, mid, fwd int
	}{
		{"exact 3-4-3", 1, 3, 4, 3},
		{"three at the back only", 1, 3, 6, 1},
		{"deep", 3, 7, 7, 5},
		{"forward heavy", 2, 4, 2, 4},
		{"defence heavy", 1, 6, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Evaluate(available(squad(tt.gk, tt.def, tt.mid, tt.fwd)))
			require.NoError(t, err)
			require.Len(t, sel.Players, StartingEleven)

			counts := countPositions(sel.Players)
			assert.Equal(t, 1, counts[models.Goalkeeper])
			assert.Equal(t, sel.Formation.Defenders, counts[models.Defender])
			assert.Equal(t, sel.Formation.Midfielders, counts[models.Midfielder])
			assert.Equal(t, sel.Formation.Forwards, counts[models.Forward])
		})
	}
}

func TestEvaluate_Optimal(t *testing.T) {
	roster := models.Roster{
		player("gk", models.Goalkeeper, 50),
		player("d1", models.Defender, 90), player("d2", models.Defender, 85),
		player("d3", models.Defender, 80), player("d4", models.Defender, 20),
		player("d5", models.Defender, 10),
		player("m1", models.Midfielder, 70), player("m2", models.Midfielder, 65),
		player("m3", models.Midfielder, 30), player("m4", models.Midfielder, 25),
		player("m5", models.Midfielder, 5),
		player("f1", models.Forward, 99), player("f2", models.Forward, 95),
		player("f3", models.Forward, 60), player("f4", models.Forward, 55),
	}
	candidates := available(roster)

	sel, err := Evaluate(candidates)
	require.NoError(t, err)
	assert.Equal(t, "4-2-4", sel.Formation.Name)

	buckets := make(map[models.Position][]Candidate)
	for _, c := range candidates {
		buckets[c.Player.Position] = append(buckets[c.Player.Position], c)
	}
	for _, pos := range models.Positions {
		sortBucket(buckets[pos])
	}
	for _, f := range Catalog() {
		if !feasible(f, buckets) {
			continue
		}
		score := 0.0
		for _, pos := range models.Positions {
			for _, c := range buckets[pos][:f.Count(pos)] {
				score += c.ProjectedPoints
			}
		}
		assert.GreaterOrEqual(t, sel.Score, score, f.Name)
	}
}

func TestEvaluate_UnlikelyPlayersRankLast(t *testing.T) {
	roster := squad(2, 4, 4, 3)
	roster = append(roster, player("star", models.Forward, 500))
	availability := map[string]models.AvailabilityInfo{
		"star": {IsLikelyToPlay: false, Confidence: 0.95, Reason: "Verletzt"},
		"GK1":  {IsLikelyToPlay: false, Confidence: 0.9},
	}

	candidates := NewCandidates(roster, availability)
	for _, c := range candidates {
		if c.Player.ID == "star" {
			assert.Equal(t, 0.0, c.ProjectedPoints)
		}
	}

	sel, err := Evaluate(candidates)
	require.NoError(t, err)
	assert.NotContains(t, sel.IDs(), "star")
	assert.NotContains(t, sel.IDs(), "GK1")
	assert.Contains(t, sel.IDs(), "GK2")
}

func TestEvaluate_AvailableNegativeAverageBeatsUnlikelyPlayer(t *testing.T) {
	roster := squad(0, 4, 4, 2)
	roster = append(roster,
		player("gkOut", models.Goalkeeper, 20),
		player("gkIn", models.Goalkeeper, -3),
	)
	availability := map[string]models.AvailabilityInfo{
		"gkOut": {IsLikelyToPlay: false, Confidence: 0.95, Reason: "Gesperrt"},
	}

	sel, err := Evaluate(NewCandidates(roster, availability))
	require.NoError(t, err)
	assert.Equal(t, "gkIn", sel.IDs()[0])
	assert.NotContains(t, sel.IDs(), "gkOut")
}

func TestEvaluate_UnlikelyPlayerStillFillsOtherwiseEmptySlot(t *testing.T) {
	roster := squad(1, 4, 4, 2)
	availability := map[string]models.AvailabilityInfo{
		"GK1": {IsLikelyToPlay: false, Confidence: 0.95},
	}

	sel, err := Evaluate(NewCandidates(roster, availability))
	require.NoError(t, err)
	assert.Equal(t, "GK1", sel.IDs()[0])
}

func TestEvaluate_ConfidenceScalesRanking(t *testing.T) {
	roster := models.Roster{
		player("gk", models.Goalkeeper, 50),
		player("d1", models.Defender, 60), player("d2", models.Defender, 60),
		player("d3", models.Defender, 60),
		player("m1", models.Midfielder, 60), player("m2", models.Midfielder, 60),
		player("m3", models.Midfielder, 60), player("m4", models.Midfielder, 60),
		player("f1", models.Forward, 100), player("f2", models.Forward, 70),
		player("f3", models.Forward, 60), player("f4", models.Forward, 10),
	}
	availability := map[string]models.AvailabilityInfo{
		"f1": {IsLikelyToPlay: true, Confidence: 0.5},
		"f2": {IsLikelyToPlay: true, Confidence: 0.9},
		"f3": {IsLikelyToPlay: true, Confidence: 0.9},
	}

	sel, err := Evaluate(NewCandidates(roster, availability))
	require.NoError(t, err)
	assert.Equal(t, "3-4-3", sel.Formation.Name)
	assert.Equal(t, []string{"f2", "f3", "f1"}, sel.IDs()[8:])
}

func TestEvaluate_Idempotent(t *testing.T) {
	roster := squad(2, 6, 6, 4)
	for i := range roster {
		roster[i].AveragePoints = 50
	}
	availability := map[string]models.AvailabilityInfo{
		"DEF3": {IsLikelyToPlay: true, Confidence: 0.6},
		"MID2": {IsLikelyToPlay: false, Confidence: 0.95},
	}

	first, err := Evaluate(NewCandidates(roster, availability))
	require.NoError(t, err)
	second, err := Evaluate(NewCandidates(roster, availability))
	require.NoError(t, err)

	assert.Equal(t, first.Formation, second.Formation)
	assert.Equal(t, first.IDs(), second.IDs())
}

func TestEvaluate_TiesKeepCatalogOrder(t *testing.T) {
	roster := squad(1, 5, 6, 4)
	for i := range roster {
		roster[i].AveragePoints = 10
	}

	sel, err := Evaluate(available(roster))
	require.NoError(t, err)
	assert.Equal(t, "3-4-3", sel.Formation.Name)
}

func TestEvaluate_InsufficientRoster(t *testing.T) {
	tests := []struct {
		name   string
		roster models.Roster
	}{
		{"empty", nil},
		{"no goalkeeper", squad(0, 5, 5, 3)},
		{"two defenders", squad(1, 2, 6, 4)},
		{"no forward", squad(1, 5, 6, 0)},
		{"too few outfield players", squad(1, 3, 2, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Evaluate(available(tt.roster))
			require.ErrorIs(t, err, ErrInsufficientRoster)
			assert.Empty(t, sel.Players)
		})
	}
}
