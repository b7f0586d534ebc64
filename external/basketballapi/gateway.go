// Package basketballapi imports finished games from API-Basketball.
package basketballapi

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/sporating/sporating/external/sportapi"
	"github.com/sporating/sporating/internal/config"
	"github.com/sporating/sporating/internal/domain/event"
	"github.com/sporating/sporating/internal/platform/logging"
)

var leagueIDs = map[string]int64{
	"NBA":        12,
	"Euroleague": 120,
}

type Gateway struct {
	client *sportapi.Client
	cfg    config.ProviderConfig
	logger *logging.Logger
}

func NewGateway(cfg config.ProviderConfig, logger *logging.Logger) *Gateway {
	if logger == nil {
		logger = logging.Default()
	}
	return &Gateway{
		client: sportapi.NewClient(sportapi.ClientConfig{
			BaseURL:      cfg.BaseURL,
			Host:         cfg.Host,
			APIKey:       cfg.APIKey,
			Timeout:      cfg.Timeout,
			MaxRetries:   cfg.MaxRetries,
			RequestDelay: cfg.RequestDelay,
		}, logger),
		cfg:    cfg,
		logger: logger.With("gateway", event.SportBasketball),
	}
}

func (g *Gateway) Sport() string { return event.SportBasketball }

func (g *Gateway) FetchEvents(ctx context.Context, season string) event.FetchResult {
	var events []event.UnifiedEvent

	for _, competition := range g.cfg.AllowedCompetitions {
		leagueID, ok := leagueIDs[competition]
		if !ok {
			g.logger.WarnContext(ctx, "competition has no known league id", "competition", competition)
			continue
		}

		query := url.Values{}
		query.Set("league", strconv.FormatInt(leagueID, 10))
		query.Set("season", seasonParam(season))

		var resp gamesResponse
		if err := g.client.GetJSON(ctx, "/games", query, &resp); err != nil {
			g.logger.WarnContext(ctx, "game fetch failed", "competition", competition, "error", err)
			continue
		}

		for _, item := range resp.Response {
			unified, ok := mapGame(item)
			if !ok {
				continue
			}
			events = append(events, unified)
		}
	}

	if len(events) == 0 {
		g.logger.WarnContext(ctx, "no basketball games fetched")
		return event.FetchResult{Source: event.SourceLive}
	}

	return event.FetchResult{Events: events, Source: event.SourceLive}
}

// seasonParam widens "2025" to the provider's cross-year form "2025-2026".
func seasonParam(season string) string {
	year, err := strconv.Atoi(season)
	if err != nil {
		return season
	}
	return season + "-" + strconv.Itoa(year+1)
}

type gamesResponse struct {
	Response []gameItem `json:"response"`
}

type gameItem struct {
	ID     int64  `json:"id"`
	Date   string `json:"date"`
	Status struct {
		Long string `json:"long"`
	} `json:"status"`
	League struct {
		Name   string `json:"name"`
		Season string `json:"season"`
	} `json:"league"`
	Country struct {
		Name string `json:"name"`
	} `json:"country"`
	Teams struct {
		Home teamRef `json:"home"`
		Away teamRef `json:"away"`
	} `json:"teams"`
	Scores struct {
		Home scoreRef `json:"home"`
		Away scoreRef `json:"away"`
	} `json:"scores"`
}

type teamRef struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type scoreRef struct {
	Total *int `json:"total"`
}

func mapGame(item gameItem) (event.UnifiedEvent, bool) {
	if item.ID == 0 || item.Teams.Home.Name == "" || item.Teams.Away.Name == "" {
		return event.UnifiedEvent{}, false
	}
	// Only completed games carry both totals.
	if item.Scores.Home.Total == nil || item.Scores.Away.Total == nil {
		return event.UnifiedEvent{}, false
	}

	date, err := time.Parse(time.RFC3339, item.Date)
	if err != nil {
		return event.UnifiedEvent{}, false
	}

	details := map[string]string{}
	if item.Teams.Home.Logo != "" {
		details["home_logo"] = item.Teams.Home.Logo
	}
	if item.Teams.Away.Logo != "" {
		details["away_logo"] = item.Teams.Away.Logo
	}
	if item.Country.Name != "" {
		details["country"] = item.Country.Name
	}

	return event.UnifiedEvent{
		ExternalID:  strconv.FormatInt(item.ID, 10),
		Sport:       event.SportBasketball,
		Competition: item.League.Name,
		HomeTeam:    item.Teams.Home.Name,
		AwayTeam:    item.Teams.Away.Name,
		HomeScore:   strconv.Itoa(*item.Scores.Home.Total),
		AwayScore:   strconv.Itoa(*item.Scores.Away.Total),
		Date:        date,
		Status:      item.Status.Long,
		Season:      item.League.Season,
		EventType:   event.TypeGame,
		Details:     details,
		Source:      event.SourceLive,
	}, true
}
