package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = "Available commands:\n" +
	"/squad - Show the current lineup and bench\n" +
	"/optimize - Pick and save the best eleven\n" +
	"/move <player> <zone> [slot] - Move a player (zones: gk, def, mid, fwd, bench, auto)\n" +
	"/monitor - Starters who might miss the matchday\n" +
	"/compare <player> vs <player> - Compare two squad players"

type LineupService interface {
	GetSquad(ctx context.Context) (string, error)
	Optimize(ctx context.Context) (string, error)
	MovePlayer(ctx context.Context, playerName, zone string, slot int) (string, error)
	GetPlayersToMonitor(ctx context.Context) (string, error)
	ComparePlayers(ctx context.Context, first, second string) (string, error)
}

type Handler struct {
	lineupService LineupService
}

func NewHandler(lineupService LineupService) *Handler {
	return &Handler{lineupService: lineupService}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := update.Message.CommandArguments()
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Welcome to KickBot! Use /help to see available commands."
	case "help":
		msg.Text = helpText
	case "squad":
		h.handleSquad(ctx, &msg)
	case "optimize":
		h.handleOptimize(ctx, &msg)
	case "move":
		h.handleMove(ctx, &msg, args)
	case "monitor":
		h.handlePlayersToMonitor(ctx, &msg)
	case "compare":
		h.handleCompare(ctx, &msg, args)
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) handleSquad(ctx context.Context, msg *tgbotapi.MessageConfig) {
	squad, err := h.lineupService.GetSquad(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching squad: %v", err)
	} else {
		msg.Text = squad
	}
}

func (h *Handler) handleOptimize(ctx context.Context, msg *tgbotapi.MessageConfig) {
	report, err := h.lineupService.Optimize(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error optimizing lineup: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleMove(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	name, zone, slot, ok := parseMoveArgs(args)
	if !ok {
		msg.Text = "Please provide a player and a zone. Usage: /move <player> <zone> [slot]"
		return
	}
	result, err := h.lineupService.MovePlayer(ctx, name, zone, slot)
	if err != nil {
		msg.Text = fmt.Sprintf("Error moving player: %v", err)
	} else {
		msg.Text = result
	}
}

func (h *Handler) handlePlayersToMonitor(ctx context.Context, msg *tgbotapi.MessageConfig) {
	report, err := h.lineupService.GetPlayersToMonitor(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching players to monitor: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleCompare(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	first, second, ok := parseCompareArgs(args)
	if !ok {
		msg.Text = "Please provide two player names. Usage: /compare <player> vs <player>"
		return
	}
	result, err := h.lineupService.ComparePlayers(ctx, first, second)
	if err != nil {
		msg.Text = fmt.Sprintf("Error comparing players: %v", err)
	} else {
		msg.Text = result
	}
}

// parseMoveArgs splits "<player name> <zone> [slot]". A lone "auto" needs no
// player.
func parseMoveArgs(args string) (name, zone string, slot int, ok bool) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", "", 0, false
	}

	if n, err := strconv.Atoi(fields[len(fields)-1]); err == nil && len(fields) > 1 {
		slot = n
		fields = fields[:len(fields)-1]
	}

	zone = fields[len(fields)-1]
	name = strings.Join(fields[:len(fields)-1], " ")
	if name == "" && !strings.EqualFold(zone, "auto") {
		return "", "", 0, false
	}
	return name, zone, slot, true
}

func parseCompareArgs(args string) (string, string, bool) {
	for _, sep := range []string{" vs ", ","} {
		if first, second, found := strings.Cut(strings.ToLower(args), sep); found {
			first, second = strings.TrimSpace(first), strings.TrimSpace(second)
			if first == "" || second == "" {
				return "", "", false
			}
			return first, second, true
		}
	}
	return "", "", false
}
