package formation

import (
	"fmt"

	"github.com/omarshaarawi/kickbot/internal/models"
)

const StartingEleven = 11

// Formation is a lineup template. Every formation starts exactly one goalkeeper.
type Formation struct {
	Name        string
	Defenders   int
	Midfielders int
	Forwards    int
}

func (f Formation) Count(pos models.Position) int {
	switch pos {
	case models.Goalkeeper:
		return 1
	case models.Defender:
		return f.Defenders
	case models.Midfielder:
		return f.Midfielders
	case models.Forward:
		return f.Forwards
	default:
		return 0
	}
}

func (f Formation) String() string {
	return f.Name
}

var catalog = [...]Formation{
	{Name: "3-4-3", Defenders: 3, Midfielders: 4, Forwards: 3},
	{Name: "3-5-2", Defenders: 3, Midfielders: 5, Forwards: 2},
	{Name: "4-2-4", Defenders: 4, Midfielders: 2, Forwards: 4},
	{Name: "4-3-3", Defenders: 4, Midfielders: 3, Forwards: 3},
	{Name: "4-4-2", Defenders: 4, Midfielders: 4, Forwards: 2},
	{Name: "5-2-3", Defenders: 5, Midfielders: 2, Forwards: 3},
	{Name: "5-3-2", Defenders: 5, Midfielders: 3, Forwards: 2},
	{Name: "3-6-1", Defenders: 3, Midfielders: 6, Forwards: 1},
	{Name: "4-5-1", Defenders: 4, Midfielders: 5, Forwards: 1},
	{Name: "5-4-1", Defenders: 5, Midfielders: 4, Forwards: 1},
}

// Catalog returns the supported formations in their fixed order. The returned
// slice is a copy.
func Catalog() []Formation {
	out := make([]Formation, len(catalog))
	copy(out, catalog[:])
	return out
}

func Parse(name string) (Formation, error) {
	for _, f := range catalog {
		if f.Name == name {
			return f, nil
		}
	}
	return Formation{}, fmt.Errorf("unknown formation %q", name)
}

// Closest returns the formation matching the given outfield counts, or the one
// with the smallest total count difference. Earlier catalog entries win ties.
// Every formation has ten outfield slots, so whenever one fits the counts it is
// also among the closest.
func Closest(defenders, midfielders, forwards int) Formation {
	best := catalog[0]
	bestDiff := -1
	for _, f := range catalog {
		diff := abs(f.Defenders-defenders) + abs(f.Midfielders-midfielders) + abs(f.Forwards-forwards)
		if bestDiff == -1 || diff < bestDiff {
			best = f
			bestDiff = diff
		}
	}
	return best
}

// Fits reports whether some catalog formation has a slot for every one of the
// given outfield players.
func Fits(defenders, midfielders, forwards int) bool {
	for _, f := range catalog {
		if f.Defenders >= defenders && f.Midfielders >= midfielders && f.Forwards >= forwards {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
