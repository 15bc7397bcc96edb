package lineup

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/omarshaarawi/kickbot/internal/formation"
	"github.com/omarshaarawi/kickbot/internal/models"
)

var (
	ErrInvalidMove    = errors.New("invalid move")
	ErrPlayerNotFound = errors.New("player not in squad")
)

// Zone is a drop target: the bench or the starting slots of one position.
type Zone string

const (
	ZoneBench       Zone = "bench"
	ZoneGoalkeepers Zone = "goalkeepers"
	ZoneDefenders   Zone = "defenders"
	ZoneMidfielders Zone = "midfielders"
	ZoneForwards    Zone = "forwards"
	// ZoneAuto asks for the optimizer instead of a manual placement.
	ZoneAuto Zone = "auto"
)

var zoneAliases = map[string]Zone{
	"bench":       ZoneBench,
	"bank":        ZoneBench,
	"goalkeepers": ZoneGoalkeepers,
	"goalkeeper":  ZoneGoalkeepers,
	"gk":          ZoneGoalkeepers,
	"defenders":   ZoneDefenders,
	"defender":    ZoneDefenders,
	"def":         ZoneDefenders,
	"midfielders": ZoneMidfielders,
	"midfielder":  ZoneMidfielders,
	"mid":         ZoneMidfielders,
	"forwards":    ZoneForwards,
	"forward":     ZoneForwards,
	"fwd":         ZoneForwards,
	"auto":        ZoneAuto,
}

func ParseZone(s string) (Zone, error) {
	z, ok := zoneAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown zone %q", s)
	}
	return z, nil
}

func ZoneFor(pos models.Position) Zone {
	switch pos {
	case models.Goalkeeper:
		return ZoneGoalkeepers
	case models.Defender:
		return ZoneDefenders
	case models.Midfielder:
		return ZoneMidfielders
	case models.Forward:
		return ZoneForwards
	default:
		return ZoneBench
	}
}

func zoneOf(p models.Player) Zone {
	if !p.IsActive() {
		return ZoneBench
	}
	return ZoneFor(p.Position)
}

// Move places one player. Index is the slot within the destination zone;
// a negative or out-of-range index appends.
type Move struct {
	PlayerID    string
	Destination Zone
	Index       int
}

// ApplyMove returns a new roster with the move applied. Position zones only
// accept players of that position, the bench accepts anyone. Moving a bench
// player onto an occupied slot sends the occupant to the bench. A new starter
// must leave the starting lines inside some catalog formation, otherwise the
// saved lineup would drop a player. The roster passed in is never modified.
func ApplyMove(roster models.Roster, move Move) (models.Roster, error) {
	idx := roster.Find(move.PlayerID)
	if idx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, move.PlayerID)
	}
	moved := roster[idx]
	source := zoneOf(moved)

	if move.Destination != ZoneBench && move.Destination != ZoneFor(moved.Position) {
		return nil, fmt.Errorf("%w: %s %s cannot play in %s", ErrInvalidMove, moved.Position, moved.Name, move.Destination)
	}

	lines, bench := split(roster)
	pos := moved.Position

	switch {
	case move.Destination == ZoneBench:
		if source != ZoneBench {
			lines[pos] = remove(lines[pos], moved.ID)
			moved.DayStatus = models.Bench
			bench = append(bench, moved)
		}

	case source == ZoneBench:
		bench = remove(bench, moved.ID)
		moved.DayStatus = models.Active
		line := lines[pos]

		slot := move.Index
		if pos == models.Goalkeeper {
			slot = 0
		}
		if slot >= 0 && slot < len(line) {
			displaced := line[slot]
			displaced.DayStatus = models.Bench
			bench = append(bench, displaced)
			line[slot] = moved
		} else {
			if countActive(lines) >= formation.StartingEleven {
				return nil, fmt.Errorf("%w: starting eleven is full, pick a slot to replace", ErrInvalidMove)
			}
			line = append(line, moved)
			if !formation.Fits(outfieldCounts(lines, pos, len(line))) {
				return nil, fmt.Errorf("%w: no formation has room for %d %s", ErrInvalidMove, len(line), pos)
			}
		}
		lines[pos] = line

	default:
		line := remove(lines[pos], moved.ID)
		lines[pos] = insert(line, moved, move.Index)
	}

	return join(lines, bench), nil
}

// Arrange orders a roster the way lineups are shown: starters grouped by
// position, then the bench by position and descending market value.
func Arrange(roster models.Roster) models.Roster {
	lines, bench := split(roster)
	return join(lines, bench)
}

func split(roster models.Roster) (map[models.Position][]models.Player, []models.Player) {
	lines := make(map[models.Position][]models.Player, len(models.Positions))
	var bench []models.Player
	for _, p := range roster {
		if p.IsActive() {
			lines[p.Position] = append(lines[p.Position], p)
		} else {
			bench = append(bench, p)
		}
	}
	return lines, bench
}

func join(lines map[models.Position][]models.Player, bench []models.Player) models.Roster {
	out := make(models.Roster, 0, countActive(lines)+len(bench))
	for _, pos := range models.Positions {
		out = append(out, lines[pos]...)
	}
	sortBench(bench)
	return append(out, bench...)
}

func sortBench(bench []models.Player) {
	sort.SliceStable(bench, func(i, j int) bool {
		if bench[i].Position != bench[j].Position {
			return bench[i].Position < bench[j].Position
		}
		return bench[i].MarketValue > bench[j].MarketValue
	})
}

// outfieldCounts returns the defender, midfielder and forward counts with the
// line for pos replaced by n players.
func outfieldCounts(lines map[models.Position][]models.Player, pos models.Position, n int) (int, int, int) {
	count := func(p models.Position) int {
		if p == pos {
			return n
		}
		return len(lines[p])
	}
	return count(models.Defender), count(models.Midfielder), count(models.Forward)
}

func countActive(lines map[models.Position][]models.Player) int {
	n := 0
	for _, line := range lines {
		n += len(line)
	}
	return n
}

func remove(players []models.Player, id string) []models.Player {
	out := make([]models.Player, 0, len(players))
	for _, p := range players {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func insert(players []models.Player, p models.Player, at int) []models.Player {
	if at < 0 || at >= len(players) {
		return append(players, p)
	}
	out := make([]models.Player, 0, len(players)+1)
	out = append(out, players[:at]...)
	out = append(out, p)
	return append(out, players[at:]...)
}
