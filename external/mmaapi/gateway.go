// Package mmaapi imports finished fights from API-MMA. A fight maps to an
// event whose home side is the first fighter, with the winner flag deciding
// the "W"/"L" scores. When the provider yields nothing a small backup card
// keeps the pipeline producing tagged fallback data.
package mmaapi

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
		logger: logger.With("gateway", event.SportMMA),
	}
}

func (g *Gateway) Sport() string { return event.SportMMA }

func (g *Gateway) FetchEvents(ctx context.Context, season string) event.FetchResult {
	query := url.Values{}
	query.Set("season", season)

	var fights fightsResponse
	if err := g.client.GetJSON(ctx, "/fights", query, &fights); err != nil {
		g.logger.WarnContext(ctx, "fight fetch failed", "error", err)
		return event.FetchResult{Events: backupEvents(), Source: event.SourceFallback}
	}

	var events []event.UnifiedEvent
	for _, fight := range fights.Response {
		unified, ok := mapFight(fight)
		if !ok {
			continue
		}
		events = append(events, unified)
	}

	if len(events) == 0 {
		g.logger.WarnContext(ctx, "no fights returned, serving backup card", "season", season)
		return event.FetchResult{Events: backupEvents(), Source: event.SourceFallback}
	}
	return event.FetchResult{Events: events, Source: event.SourceLive}
}

type fightsResponse struct {
	Response []fightItem `json:"response"`
}

type fightItem struct {
	ID       int64  `json:"id"`
	Date     string `json:"date"`
	Slug     string `json:"slug"`
	Category string `json:"category"`
	Status   struct {
		Short string `json:"short"`
	} `json:"status"`
	Fighters struct {
		First  fighterRef `json:"first"`
		Second fighterRef `json:"second"`
	} `json:"fighters"`
}

type fighterRef struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Winner bool   `json:"winner"`
}

// mapFight keeps only finished fights with a decided winner.
func mapFight(fight fightItem) (event.UnifiedEvent, bool) {
	if fight.ID == 0 || fight.Status.Short != "FT" {
		return event.UnifiedEvent{}, false
	}
	first, second := fight.Fighters.First, fight.Fighters.Second
	if first.Name == "" || second.Name == "" {
		return event.UnifiedEvent{}, false
	}
	if first.Winner == second.Winner {
		// Draws and no contests carry no rating signal.
		return event.UnifiedEvent{}, false
	}

	date, err := time.Parse(time.RFC3339, fight.Date)
	if err != nil {
		return event.UnifiedEvent{}, false
	}

	homeScore, awayScore := "W", "L"
	if second.Winner {
		homeScore, awayScore = "L", "W"
	}

	return event.UnifiedEvent{
		ExternalID:  strconv.FormatInt(fight.ID, 10),
		Sport:       event.SportMMA,
		Competition: "UFC",
		HomeTeam:    first.Name,
		AwayTeam:    second.Name,
		HomeScore:   homeScore,
		AwayScore:   awayScore,
		Date:        date,
		Status:      fight.Status.Short,
		Venue:       fight.Slug,
		Season:      strconv.Itoa(date.Year()),
		EventType:   event.TypeFight,
		Details: map[string]string{
			event.DetailHomePlayer: first.Name,
			event.DetailAwayPlayer: second.Name,
			"weight_class":         fight.Category,
		},
		Source: event.SourceLive,
	}, true
}

func backupEvents() []event.UnifiedEvent {
	fights := []struct {
		id, winner, loser, category string
		date                        time.Time
	}{
		{"backup-mma-1", "Islam Makhachev", "Dustin Poirier", "Lightweight", time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC)},
		{"backup-mma-2", "Alex Pereira", "Jiri Prochazka", "Light Heavyweight", time.Date(2025, 6, 29, 23, 0, 0, 0, time.UTC)},
		{"backup-mma-3", "Ilia Topuria", "Max Holloway", "Featherweight", time.Date(2025, 10, 26, 22, 0, 0, 0, time.UTC)},
	}

	events := make([]event.UnifiedEvent, 0, len(fights))
	for _, f := range fights {
		events = append(events, event.UnifiedEvent{
			ExternalID:  f.id,
			Sport:       event.SportMMA,
			Competition: "UFC",
			HomeTeam:    f.winner,
			AwayTeam:    f.loser,
			HomeScore:   "W",
			AwayScore:   "L",
			Date:        f.date,
			Status:      "FT",
			Season:      strconv.Itoa(f.date.Year()),
			EventType:   event.TypeFight,
			Details: map[string]string{
				event.DetailHomePlayer: f.winner,
				event.DetailAwayPlayer: f.loser,
				"weight_class":         f.category,
			},
			Source: event.SourceFallback,
		})
	}
	return events
}
