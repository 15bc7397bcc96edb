package service

import (
	"fmt"
	"strings"

	"github.com/omarshaarawi/kickbot/internal/formation"
	"github.com/omarshaarawi/kickbot/internal/models"
)

func formatSquad(roster models.Roster) string {
	starters := roster.Active()
	f := formation.Closest(
		starters.CountActive(models.Defender),
		starters.CountActive(models.Midfielder),
		starters.CountActive(models.Forward),
	)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚽ *Squad* (%s, %d/%d starters)\n\n", f.Name, len(starters), formation.StartingEleven))

	sb.WriteString("*Starting Lineup:*\n")
	for _, p := range starters {
		sb.WriteString(formatPlayerLine(p))
	}

	sb.WriteString("\n*Bench:*\n")
	for _, p := range roster.Bench() {
		sb.WriteString(formatPlayerLine(p))
	}

	sb.WriteString(fmt.Sprintf("\nStarting XI average: %.0f pts", roster.ActivePoints()))
	return sb.String()
}

func formatPlayerLine(p models.Player) string {
	return fmt.Sprintf("▫️ %s %s (%s) - %.0f pts\n", p.Position, p.FullName(), p.TeamName, p.AveragePoints)
}

func formatReport(r models.OptimizationReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💫 *Lineup optimized: %s*\n\n", r.Formation))
	sb.WriteString(fmt.Sprintf("Before: %.0f pts\n", r.PreviousPoints))
	sb.WriteString(fmt.Sprintf("After: %.0f pts\n", r.NewPoints))
	sb.WriteString(fmt.Sprintf("Improvement: %+.0f pts\n", r.Improvement()))
	sb.WriteString(fmt.Sprintf("Projected: %.1f pts\n", r.ProjectedScore))

	sb.WriteString("\n*Starting Lineup:*\n")
	for _, p := range r.Starters {
		sb.WriteString(formatPlayerLine(p))
	}

	if len(r.Excluded) > 0 {
		sb.WriteString("\n🚑 *Unlikely to play:*\n")
		for _, m := range r.Excluded {
			sb.WriteString(fmt.Sprintf("  • %s %s - %s\n", m.Position, m.Name, reasonOrUnknown(m.Reason)))
		}
	}
	return sb.String()
}

func reasonOrUnknown(reason string) string {
	if reason == "" {
		return "Unbekannt"
	}
	return reason
}

func leader(a, b float64) string {
	switch {
	case a > b:
		return "◀️"
	case b > a:
		return "▶️"
	default:
		return "🟰"
	}
}

func formatMoney(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM €", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.0fk €", v/1_000)
	default:
		return fmt.Sprintf("%.0f €", v)
	}
}

// trendArrow renders the Kickbase market value trend: 1 rising, 2 falling.
func trendArrow(trend int) string {
	switch trend {
	case 1:
		return "📈"
	case 2:
		return "📉"
	default:
		return "➖"
	}
}
