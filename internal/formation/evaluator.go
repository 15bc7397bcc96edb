package formation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/omarshaarawi/kickbot/internal/models"
)

var ErrInsufficientRoster = errors.New("no formation can be filled from the roster")

// Candidate is a roster player scored for selection.
type Candidate struct {
	Player          models.Player
	Availability    models.AvailabilityInfo
	ProjectedPoints float64
}

type Selection struct {
	Formation Formation
	Players   []Candidate
	Score     float64
}

// IDs returns the selected player ids in lineup order.
func (s Selection) IDs() []string {
	ids := make([]string, len(s.Players))
	for i, c := range s.Players {
		ids[i] = c.Player.ID
	}
	return ids
}

// ProjectedPoints is the expected contribution of a player: nothing when the
// player is not expected to play, otherwise the season average scaled by the
// confidence of the availability signal.
func ProjectedPoints(player models.Player, info models.AvailabilityInfo) float64 {
	if !info.IsLikelyToPlay {
		return 0
	}
	return player.AveragePoints * info.Confidence
}

// NewCandidates scores every roster player. Players missing from the
// availability map are treated as likely to play with full confidence.
func NewCandidates(roster models.Roster, availability map[string]models.AvailabilityInfo) []Candidate {
	out := make([]Candidate, 0, len(roster))
	for _, p := range roster {
		info, ok := availability[p.ID]
		if !ok {
			info = models.AvailabilityInfo{IsLikelyToPlay: true, Confidence: 1}
		}
		out = append(out, Candidate{
			Player:          p,
			Availability:    info,
			ProjectedPoints: ProjectedPoints(p, info),
		})
	}
	return out
}

// Evaluate picks the starting eleven with the highest projected points over
// all feasible catalog formations. Buckets are ordered likely starters
// before doubtful ones, then by projected points, then season average, then
// input order. Equal formation scores keep the earlier catalog entry.
func Evaluate(candidates []Candidate) (Selection, error) {
	buckets := make(map[models.Position][]Candidate, len(models.Positions))
	for _, c := range candidates {
		buckets[c.Player.Position] = append(buckets[c.Player.Position], c)
	}
	for _, pos := range models.Positions {
		sortBucket(buckets[pos])
	}

	var best Selection
	found := false
	for _, f := range catalog {
		if !feasible(f, buckets) {
			continue
		}
		score := 0.0
		for _, pos := range models.Positions {
			for _, c := range buckets[pos][:f.Count(pos)] {
				score += c.ProjectedPoints
			}
		}
		if !found || score > best.Score {
			best = Selection{Formation: f, Score: score}
			found = true
		}
	}

	if !found {
		return Selection{}, fmt.Errorf("%w: %d GK, %d DEF, %d MID, %d FWD",
			ErrInsufficientRoster,
			len(buckets[models.Goalkeeper]),
			len(buckets[models.Defender]),
			len(buckets[models.Midfielder]),
			len(buckets[models.Forward]))
	}

	best.Players = make([]Candidate, 0, StartingEleven)
	for _, pos := range models.Positions {
		best.Players = append(best.Players, buckets[pos][:best.Formation.Count(pos)]...)
	}
	return best, nil
}

func feasible(f Formation, buckets map[models.Position][]Candidate) bool {
	for _, pos := range models.Positions {
		if len(buckets[pos]) < f.Count(pos) {
			return false
		}
	}
	return true
}

func sortBucket(bucket []Candidate) {
	sort.SliceStable(bucket, func(i, j int) bool {
		a, b := bucket[i], bucket[j]
		// a likely starter with a negative average still goes first
		if a.Availability.IsLikelyToPlay != b.Availability.IsLikelyToPlay {
			return a.Availability.IsLikelyToPlay
		}
		if a.ProjectedPoints != b.ProjectedPoints {
			return a.ProjectedPoints > b.ProjectedPoints
		}
		return a.Player.AveragePoints > b.Player.AveragePoints
	})
}
