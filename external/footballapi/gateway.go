// Package footballapi imports finished fixtures from API-Football.
package footballapi

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

// leagueIDs maps the competition allow-list onto provider league ids.
// Competitions outside this table are skipped even when allow-listed.
var leagueIDs = map[string]int64{
	"Premier League":        39,
	"La Liga":               140,
	"Serie A":               135,
	"Bundesliga":            78,
	"Ligue 1":               61,
	"UEFA Champions League": 2,
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
		logger: logger.With("gateway", event.SportFootball),
	}
}

func (g *Gateway) Sport() string { return event.SportFootball }

// FetchEvents pulls finished fixtures for every allow-listed competition.
// It never returns an error: failed competitions contribute nothing, and
// an entirely empty run substitutes the backup result list.
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
		query.Set("status", "FT")

		var resp fixturesResponse
		if err := g.client.GetJSON(ctx, "/fixtures", query, &resp); err != nil {
			g.logger.WarnContext(ctx, "fixture fetch failed", "competition", competition, "error", err)
			continue
		}

		for _, item := range resp.Response {
			unified, ok := mapFixture(item)
			if !ok {
				continue
			}
			events = append(events, unified)
		}
	}

	if len(events) == 0 {
		g.logger.WarnContext(ctx, "no live fixtures fetched, using backup data")
		return event.FetchResult{Events: backupEvents(), Source: event.SourceFallback}
	}

	return event.FetchResult{Events: events, Source: event.SourceLive}
}

type fixturesResponse struct {
	Response []fixtureItem `json:"response"`
}

type fixtureItem struct {
	Fixture struct {
		ID     int64  `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Long string `json:"long"`
		} `json:"status"`
		Venue struct {
			Name string `json:"name"`
		} `json:"venue"`
	} `json:"fixture"`
	League struct {
		Name   string `json:"name"`
		Season int    `json:"season"`
	} `json:"league"`
	Teams struct {
		Home teamRef `json:"home"`
		Away teamRef `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type teamRef struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// mapFixture converts one provider fixture, failing closed on missing
// mandatory fields.
func mapFixture(item fixtureItem) (event.UnifiedEvent, bool) {
	if item.Fixture.ID == 0 || item.Teams.Home.Name == "" || item.Teams.Away.Name == "" {
		return event.UnifiedEvent{}, false
	}

	date, err := time.Parse(time.RFC3339, item.Fixture.Date)
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
		ExternalID:  strconv.FormatInt(item.Fixture.ID, 10),
		Sport:       event.SportFootball,
		Competition: item.League.Name,
		HomeTeam:    item.Teams.Home.Name,
		AwayTeam:    item.Teams.Away.Name,
		HomeScore:   formatGoals(item.Goals.Home),
		AwayScore:   formatGoals(item.Goals.Away),
		Date:        date,
		Status:      item.Fixture.Status.Long,
		Venue:       item.Fixture.Venue.Name,
		Season:      strconv.Itoa(item.League.Season),
		EventType:   event.TypeMatch,
		Details:     details,
		Source:      event.SourceLive,
	}, true
}

func formatGoals(goals *int) string {
	if goals == nil {
		return ""
	}
	return strconv.Itoa(*goals)
}

// backupEvents is a small list of known real results served when the
// provider yields nothing. Callers can tell these apart by the source tag.
func backupEvents() []event.UnifiedEvent {
	return []event.UnifiedEvent{
		{
			ExternalID:  "backup-football-1",
			Sport:       event.SportFootball,
			Competition: "Premier League",
			HomeTeam:    "Arsenal",
			AwayTeam:    "Manchester City",
			HomeScore:   "2",
			AwayScore:   "2",
			Date:        time.Date(2025, 3, 30, 16, 30, 0, 0, time.UTC),
			Status:      "Match Finished",
			Venue:       "Emirates Stadium",
			Season:      "2024",
			EventType:   event.TypeMatch,
			Source:      event.SourceFallback,
		},
		{
			ExternalID:  "backup-football-2",
			Sport:       event.SportFootball,
			Competition: "La Liga",
			HomeTeam:    "Real Madrid",
			AwayTeam:    "FC Barcelona",
			HomeScore:   "3",
			AwayScore:   "2",
			Date:        time.Date(2025, 4, 26, 20, 0, 0, 0, time.UTC),
			Status:      "Match Finished",
			Venue:       "Santiago Bernabeu",
			Season:      "2024",
			EventType:   event.TypeMatch,
			Source:      event.SourceFallback,
		},
		{
			ExternalID:  "backup-football-3",
			Sport:       event.SportFootball,
			Competition: "UEFA Champions League",
			HomeTeam:    "Paris Saint Germain",
			AwayTeam:    "Inter",
			HomeScore:   "5",
			AwayScore:   "0",
			Date:        time.Date(2025, 5, 31, 19, 0, 0, 0, time.UTC),
			Status:      "Match Finished",
			Venue:       "Allianz Arena",
			Season:      "2024",
			EventType:   event.TypeMatch,
			Source:      event.SourceFallback,
		},
	}
}
