package models

import "time"

type Position int

const (
	Goalkeeper Position = 1
	Defender   Position = 2
	Midfielder Position = 3
	Forward    Position = 4
)

// Positions lists every position in lineup order.
var Positions = []Position{Goalkeeper, Defender, Midfielder, Forward}

func (p Position) String() string {
	switch p {
	case Goalkeeper:
		return "GK"
	case Defender:
		return "DEF"
	case Midfielder:
		return "MID"
	case Forward:
		return "FWD"
	default:
		return "Unknown"
	}
}

type DayStatus int

const (
	Bench  DayStatus = 0
	Active DayStatus = 1
)

type Player struct {
	ID               string
	TeamID           string
	TeamName         string
	Name             string
	FirstName        string
	Status           int
	Position         Position
	AveragePoints    float64
	TotalPoints      float64
	MarketValue      float64
	MarketValueTrend int
	DayStatus        DayStatus
}

// FullName is the display name. Name holds what Kickbase sends in "n", which is
// also what the team news pages know a player by.
func (p Player) FullName() string {
	if p.FirstName == "" {
		return p.Name
	}
	return p.FirstName + " " + p.Name
}

func (p Player) IsActive() bool {
	return p.DayStatus == Active
}

type Roster []Player

func (r Roster) Clone() Roster {
	if r == nil {
		return nil
	}
	out := make(Roster, len(r))
	copy(out, r)
	return out
}

func (r Roster) Active() Roster {
	var out Roster
	for _, p := range r {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	return out
}

func (r Roster) Bench() Roster {
	var out Roster
	for _, p := range r {
		if !p.IsActive() {
			out = append(out, p)
		}
	}
	return out
}

// Find returns the index of the player with the given id, or -1.
func (r Roster) Find(id string) int {
	for i, p := range r {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (r Roster) CountActive(pos Position) int {
	n := 0
	for _, p := range r {
		if p.IsActive() && p.Position == pos {
			n++
		}
	}
	return n
}

func (r Roster) ActivePoints() float64 {
	var sum float64
	for _, p := range r {
		if p.IsActive() {
			sum += p.AveragePoints
		}
	}
	return sum
}

type AvailabilityInfo struct {
	IsLikelyToPlay bool      `json:"isLikelyToPlay"`
	Confidence     float64   `json:"confidence"`
	Reason         string    `json:"reason,omitempty"`
	LastChecked    time.Time `json:"lastChecked"`
}

type RosterSnapshot struct {
	Roster      Roster
	LastUpdated time.Time
}

type PlayerToMonitor struct {
	Name     string
	Position Position
	Reason   string
}

type OptimizationReport struct {
	Formation      string
	PreviousPoints float64
	NewPoints      float64
	ProjectedScore float64
	Starters       Roster
	Excluded       []PlayerToMonitor
}

func (r OptimizationReport) Improvement() float64 {
	return r.NewPoints - r.PreviousPoints
}
