package lineup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/omarshaarawi/kickbot/internal/formation"
	"github.com/omarshaarawi/kickbot/internal/models"
)

// Store persists a lineup with the game.
type Store interface {
	SaveLineup(ctx context.Context, lineup models.LineupRequest) error
}

// PersistenceError means the game rejected or never received the lineup. The
// local roster must stay as it was.
type PersistenceError struct {
	Formation string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("saving %s lineup: %v", e.Formation, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

type Reconciler struct {
	store  Store
	logger *slog.Logger
}

func NewReconciler(store Store, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{store: store, logger: logger}
}

// Apply marks the selected players active and everyone else benched.
func Apply(roster models.Roster, sel formation.Selection) models.Roster {
	selected := make(map[string]bool, len(sel.Players))
	for _, c := range sel.Players {
		selected[c.Player.ID] = true
	}

	next := roster.Clone()
	for i := range next {
		if selected[next[i].ID] {
			next[i].DayStatus = models.Active
		} else {
			next[i].DayStatus = models.Bench
		}
	}
	return Arrange(next)
}

// Commit sends next to the game. It returns the request that was sent; on
// failure the error is a *PersistenceError and nothing should be committed
// locally.
func (r *Reconciler) Commit(ctx context.Context, next models.Roster) (models.LineupRequest, error) {
	req := BuildPayload(next)
	if err := r.store.SaveLineup(ctx, req); err != nil {
		r.logger.Error("Error updating formation", "formation", req.Type, "error", err)
		return models.LineupRequest{}, &PersistenceError{Formation: req.Type, Err: err}
	}
	r.logger.Info("Lineup saved", "formation", req.Type, "starters", len(next.Active()))
	return req, nil
}

// BuildPayload lays out the active players as the game expects: formation
// name, then eleven slots ordered goalkeeper, defenders, midfielders and
// forwards, with nil for every slot nobody fills.
func BuildPayload(roster models.Roster) models.LineupRequest {
	lines, _ := split(roster)
	f := formation.Closest(
		len(lines[models.Defender]),
		len(lines[models.Midfielder]),
		len(lines[models.Forward]),
	)

	ids := make([]*string, 0, formation.StartingEleven)
	for _, pos := range models.Positions {
		line := lines[pos]
		for i := 0; i < f.Count(pos); i++ {
			if i < len(line) {
				id := line[i].ID
				ids = append(ids, &id)
			} else {
				ids = append(ids, nil)
			}
		}
	}

	return models.LineupRequest{Type: f.Name, Players: ids}
}
