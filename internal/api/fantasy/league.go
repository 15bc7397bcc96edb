package fantasy

import (
	"context"

	"github.com/omarshaarawi/kickbot/internal/api/kickbase"
	"github.com/omarshaarawi/kickbot/internal/models"
)

// API binds the Kickbase endpoints to the configured league.
type API struct {
	kickbaseAPI *kickbase.API
}

func NewAPI(kickbaseAPI *kickbase.API) *API {
	return &API{kickbaseAPI: kickbaseAPI}
}

func (a *API) GetRoster(ctx context.Context) (models.Roster, error) {
	return a.kickbaseAPI.GetSquad(ctx, a.kickbaseAPI.LeagueID())
}

func (a *API) SaveLineup(ctx context.Context, lineup models.LineupRequest) error {
	return a.kickbaseAPI.UpdateLineup(ctx, a.kickbaseAPI.LeagueID(), lineup)
}
