package kickbase

import (
	"context"
	"fmt"

	"github.com/omarshaarawi/kickbot/internal/models"
)

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

func (a *API) LeagueID() string {
	return a.client.Config.LeagueID
}

func (a *API) GetSquad(ctx context.Context, leagueID string) (models.Roster, error) {
	var squad models.SquadResponse
	endpoint := fmt.Sprintf("/v4/leagues/%s/squad", leagueID)

	if err := a.client.Get(ctx, endpoint, &squad); err != nil {
		return nil, fmt.Errorf("fetching squad: %w", err)
	}

	roster := make(models.Roster, 0, len(squad.Items))
	for _, item := range squad.Items {
		roster = append(roster, toPlayer(item))
	}
	return roster, nil
}

func (a *API) UpdateLineup(ctx context.Context, leagueID string, lineup models.LineupRequest) error {
	endpoint := fmt.Sprintf("/v4/leagues/%s/lineup", leagueID)

	if err := a.client.Post(ctx, endpoint, lineup, nil); err != nil {
		return fmt.Errorf("updating lineup: %w", err)
	}
	return nil
}

// A squad item carries a lineup order key only while the player is in the
// starting eleven. The value may be null.
func toPlayer(item models.SquadItem) models.Player {
	status := models.Bench
	if len(item.LineupOrder) > 0 {
		status = models.Active
	}

	return models.Player{
		ID:               item.ID,
		TeamID:           item.TeamID,
		TeamName:         item.TeamName,
		Name:             item.Name,
		FirstName:        item.FirstName,
		Status:           item.Status,
		Position:         models.Position(item.Position),
		AveragePoints:    item.AveragePoints,
		TotalPoints:      item.TotalPoints,
		MarketValue:      item.MarketValue,
		MarketValueTrend: item.MarketValueTrend,
		DayStatus:        status,
	}
}
