// Package tennisweb scrapes finished tennis matches from a public results
// page instead of a JSON API. Rows are parsed with goquery and mapped into
// the same unified event shape the API gateways produce.
package tennisweb

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sporating/sporating/internal/config"
	"github.com/sporating/sporating/internal/domain/event"
	"github.com/sporating/sporating/internal/platform/logging"
)

type Gateway struct {
	httpClient *http.Client
	baseURL    string
	tours      []string
	pageDelay  time.Duration
	logger     *logging.Logger
}

func NewGateway(cfg config.TennisConfig, logger *logging.Logger) *Gateway {
	if logger == nil {
		logger = logging.Default()
	}
	return &Gateway{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		tours:      cfg.Tours,
		pageDelay:  cfg.PageDelay,
		logger:     logger.With("gateway", event.SportTennis),
	}
}

func (g *Gateway) Sport() string { return event.SportTennis }

func (g *Gateway) FetchEvents(ctx context.Context, season string) event.FetchResult {
	var events []event.UnifiedEvent
	for i, tour := range g.tours {
		if i > 0 && g.pageDelay > 0 {
			// Politeness gap between page fetches.
			select {
			case <-time.After(g.pageDelay):
			case <-ctx.Done():
				return event.FetchResult{Events: events, Source: event.SourceLive}
			}
		}

		pageEvents, err := g.scrapeTour(ctx, tour, season)
		if err != nil {
			g.logger.WarnContext(ctx, "tour scrape failed", "tour", tour, "error", err)
			continue
		}
		events = append(events, pageEvents...)
	}
	return event.FetchResult{Events: events, Source: event.SourceLive}
}

func (g *Gateway) scrapeTour(ctx context.Context, tour, season string) ([]event.UnifiedEvent, error) {
	pageURL := fmt.Sprintf("%s/%s/results/%s", g.baseURL, tour, season)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; sporating/1.0)")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch results page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("results page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	var events []event.UnifiedEvent
	doc.Find("table.results-table tbody tr").Each(func(_ int, row *goquery.Selection) {
		unified, ok := mapRow(row, tour, season)
		if !ok {
			return
		}
		events = append(events, unified)
	})
	return events, nil
}

// mapRow reads one results row. Expected cells: date, tournament, winner,
// loser, score. Rows missing any of them fail closed.
func mapRow(row *goquery.Selection, tour, season string) (event.UnifiedEvent, bool) {
	date := strings.TrimSpace(row.Find("td.date").Text())
	tournament := strings.TrimSpace(row.Find("td.tournament").Text())
	winner := strings.TrimSpace(row.Find("td.winner").Text())
	loser := strings.TrimSpace(row.Find("td.loser").Text())
	score := strings.TrimSpace(row.Find("td.score").Text())

	if date == "" || winner == "" || loser == "" {
		return event.UnifiedEvent{}, false
	}
	if strings.Contains(score, "RET") || strings.Contains(score, "W/O") {
		// Retirements and walkovers carry no rating signal.
		return event.UnifiedEvent{}, false
	}

	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return event.UnifiedEvent{}, false
	}

	if tournament == "" {
		tournament = strings.ToUpper(tour)
	}

	return event.UnifiedEvent{
		ExternalID:  rowID(tour, date, winner, loser),
		Sport:       event.SportTennis,
		Competition: tournament,
		HomeTeam:    winner,
		AwayTeam:    loser,
		HomeScore:   "W",
		AwayScore:   "L",
		Date:        parsed,
		Status:      "Finished",
		Season:      season,
		EventType:   event.TypeMatch,
		Details: map[string]string{
			event.DetailHomePlayer: winner,
			event.DetailAwayPlayer: loser,
			"set_score":            score,
			"tour":                 tour,
		},
		Source: event.SourceLive,
	}, true
}

// rowID derives a stable identifier for a scraped row, since the page
// exposes no native one.
func rowID(parts ...string) string {
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return "tennis-" + hex.EncodeToString(sum[:8])
}
