// Package rugbyapi imports finished games from API-Rugby.
package rugbyapi

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
	"Top 14":                    16,
	"Six Nations":               51,
	"Premiership Rugby":         13,
	"United Rugby Championship": 76,
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
		logger: logger.With("gateway", event.SportRugby),
	}
}

func (g *Gateway) Sport() string { return event.SportRugby }

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
		query.Set("season", season)

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

	return event.FetchResult{Events: events, Source: event.SourceLive}
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
		Season int    `json:"season"`
	} `json:"league"`
	Teams struct {
		Home teamRef `json:"home"`
		Away teamRef `json:"away"`
	} `json:"teams"`
	Scores struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"scores"`
}

type teamRef struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

func mapGame(item gameItem) (event.UnifiedEvent, bool) {
	if item.ID == 0 || item.Teams.Home.Name == "" || item.Teams.Away.Name == "" {
		return event.UnifiedEvent{}, false
	}
	if item.Scores.Home == nil || item.Scores.Away == nil {
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

	return event.UnifiedEvent{
		ExternalID:  strconv.FormatInt(item.ID, 10),
		Sport:       event.SportRugby,
		Competition: item.League.Name,
		HomeTeam:    item.Teams.Home.Name,
		AwayTeam:    item.Teams.Away.Name,
		HomeScore:   strconv.Itoa(*item.Scores.Home),
		AwayScore:   strconv.Itoa(*item.Scores.Away),
		Date:        date,
		Status:      item.Status.Long,
		Season:      strconv.Itoa(item.League.Season),
		EventType:   event.TypeMatch,
		Details:     details,
		Source:      event.SourceLive,
	}, true
}
