package ligainsider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/omarshaarawi/kickbot/internal/config"
	"github.com/omarshaarawi/kickbot/internal/models"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36"

type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

func NewClient(cfg config.Ligainsider) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ligainsider",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker:    breaker,
	}
}

// TeamURL is the team news page for a Kickbase team id.
func (c *Client) TeamURL(teamID string) string {
	return c.baseURL + TeamPath(teamID)
}

// FetchPage downloads a page body, honouring the rate limit and the breaker.
func (c *Client) FetchPage(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.get(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	return body.([]byte), nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}
	return body, nil
}

// Lookup fetches the player's team page and parses the status from it.
func (c *Client) Lookup(ctx context.Context, player models.Player) (models.AvailabilityInfo, error) {
	url := c.TeamURL(player.TeamID)
	slog.Debug("Checking availability", "player", player.Name, "team_id", player.TeamID, "url", url)

	page, err := c.FetchPage(ctx, url)
	if err != nil {
		return models.AvailabilityInfo{}, fmt.Errorf("fetching team page for %s: %w", player.Name, err)
	}

	info, err := ParsePlayerStatus(bytes.NewReader(page), player.Name)
	if err != nil {
		return models.AvailabilityInfo{}, fmt.Errorf("reading status for %s: %w", player.Name, err)
	}
	return info, nil
}
