package models

import "encoding/json"

type SquadResponse struct {
	Items []SquadItem `json:"it"`
}

// SquadItem.LineupOrder is kept raw: the game sends "lo":null for some
// starters, and only the key's presence says the player is in the eleven.
type SquadItem struct {
	ID               string          `json:"i"`
	TeamID           string          `json:"tid"`
	TeamName         string          `json:"tn"`
	Name             string          `json:"n"`
	FirstName        string          `json:"fn"`
	Status           int             `json:"st"`
	Position         int             `json:"pos"`
	MarketValue      float64         `json:"mv"`
	MarketValueTrend int             `json:"mvt"`
	TotalPoints      float64         `json:"p"`
	AveragePoints    float64         `json:"ap"`
	MatchDayStatus   int             `json:"mdst"`
	LineupOrder      json.RawMessage `json:"lo,omitempty"`
}

type LineupRequest struct {
	Type    string    `json:"type"`
	Players []*string `json:"players"`
}
