// Package formula1api imports completed grands prix from API-Formula-1.
// Each race becomes one event whose participants are the two best-placed
// drivers, so race results feed the player rating pipeline.
package formula1api

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
		logger: logger.With("gateway", event.SportFormula1),
	}
}

func (g *Gateway) Sport() string { return event.SportFormula1 }

func (g *Gateway) FetchEvents(ctx context.Context, season string) event.FetchResult {
	query := url.Values{}
	query.Set("season", season)
	query.Set("type", "Race")

	var races racesResponse
	if err := g.client.GetJSON(ctx, "/races", query, &races); err != nil {
		g.logger.WarnContext(ctx, "race list fetch failed", "error", err)
		return event.FetchResult{Source: event.SourceLive}
	}

	var events []event.UnifiedEvent
	for _, race := range races.Response {
		if race.ID == 0 || race.Status != "Completed" {
			continue
		}

		rankingQuery := url.Values{}
		rankingQuery.Set("race", strconv.FormatInt(race.ID, 10))

		var rankings rankingsResponse
		if err := g.client.GetJSON(ctx, "/rankings/races", rankingQuery, &rankings); err != nil {
			g.logger.WarnContext(ctx, "race ranking fetch failed", "race_id", race.ID, "error", err)
			continue
		}

		unified, ok := mapRace(race, rankings.Response)
		if !ok {
			continue
		}
		events = append(events, unified)
	}

	return event.FetchResult{Events: events, Source: event.SourceLive}
}

type racesResponse struct {
	Response []raceItem `json:"response"`
}

type raceItem struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Season      int    `json:"season"`
	Status      string `json:"status"`
	Competition struct {
		Name     string `json:"name"`
		Location struct {
			Country string `json:"country"`
			City    string `json:"city"`
		} `json:"location"`
	} `json:"competition"`
	Circuit struct {
		Name string `json:"name"`
	} `json:"circuit"`
}

type rankingsResponse struct {
	Response []rankingItem `json:"response"`
}

type rankingItem struct {
	Position int `json:"position"`
	Driver   struct {
		Name string `json:"name"`
	} `json:"driver"`
	Team struct {
		Name string `json:"name"`
	} `json:"team"`
}

// mapRace builds the event from the top two finishers. Races with fewer
// than two ranked drivers fail closed.
func mapRace(race raceItem, rankings []rankingItem) (event.UnifiedEvent, bool) {
	var winner, second *rankingItem
	for i := range rankings {
		switch rankings[i].Position {
		case 1:
			winner = &rankings[i]
		case 2:
			second = &rankings[i]
		}
	}
	if winner == nil || second == nil || winner.Driver.Name == "" || second.Driver.Name == "" {
		return event.UnifiedEvent{}, false
	}

	date, err := time.Parse(time.RFC3339, race.Date)
	if err != nil {
		return event.UnifiedEvent{}, false
	}

	details := map[string]string{
		event.DetailHomePlayer: winner.Driver.Name,
		event.DetailAwayPlayer: second.Driver.Name,
	}
	if winner.Team.Name != "" {
		details[event.DetailHomeTeam] = winner.Team.Name
	}
	if second.Team.Name != "" {
		details[event.DetailAwayTeam] = second.Team.Name
	}
	if race.Competition.Location.Country != "" {
		details["country"] = race.Competition.Location.Country
	}

	return event.UnifiedEvent{
		ExternalID:  strconv.FormatInt(race.ID, 10),
		Sport:       event.SportFormula1,
		Competition: race.Competition.Name,
		HomeTeam:    winner.Driver.Name,
		AwayTeam:    second.Driver.Name,
		HomeScore:   "W",
		AwayScore:   "L",
		Date:        date,
		Status:      race.Status,
		Venue:       race.Circuit.Name,
		Season:      strconv.Itoa(race.Season),
		EventType:   event.TypeRace,
		Details:     details,
		Source:      event.SourceLive,
	}, true
}
