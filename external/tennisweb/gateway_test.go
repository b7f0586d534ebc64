package tennisweb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sporating/sporating/internal/config"
	"github.com/sporating/sporating/internal/domain/event"
)

const resultsPage = `<html><body>
<table class="results-table"><tbody>
<tr>
  <td class="date">2025-07-13</td>
  <td class="tournament">Wimbledon</td>
  <td class="winner">Carlos Alcaraz</td>
  <td class="loser">Novak Djokovic</td>
  <td class="score">6-2 6-2 7-6</td>
</tr>
<tr>
  <td class="date">2025-07-12</td>
  <td class="tournament">Wimbledon</td>
  <td class="winner">Jannik Sinner</td>
  <td class="loser">Daniil Medvedev</td>
  <td class="score">6-4 RET</td>
</tr>
<tr>
  <td class="date"></td>
  <td class="tournament">Wimbledon</td>
  <td class="winner">X</td>
  <td class="loser">Y</td>
  <td class="score">6-0 6-0</td>
</tr>
</tbody></table>
</body></html>`

func TestFetchEventsParsesResultsRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/atp/results/2025" {
			t.Errorf("unexpected path: got=%s", r.URL.Path)
		}
		w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	gw := NewGateway(config.TennisConfig{
		Enabled: true,
		BaseURL: server.URL,
		Tours:   []string{"atp"},
		Timeout: 2 * time.Second,
	}, nil)

	result := gw.FetchEvents(context.Background(), "2025")
	if result.Source != event.SourceLive {
		t.Fatalf("unexpected source: got=%s want=%s", result.Source, event.SourceLive)
	}
	if len(result.Events) != 1 {
		t.Fatalf("unexpected event count: got=%d want=1", len(result.Events))
	}

	got := result.Events[0]
	if got.HomeTeam != "Carlos Alcaraz" || got.AwayTeam != "Novak Djokovic" {
		t.Fatalf("unexpected participants: got=%s vs %s", got.HomeTeam, got.AwayTeam)
	}
	if got.HomeScore != "W" || got.AwayScore != "L" {
		t.Fatalf("unexpected scores: got=%s/%s want=W/L", got.HomeScore, got.AwayScore)
	}
	if got.Competition != "Wimbledon" {
		t.Fatalf("unexpected competition: got=%s", got.Competition)
	}
	if got.Details["set_score"] != "6-2 6-2 7-6" {
		t.Fatalf("unexpected set score detail: got=%s", got.Details["set_score"])
	}
	if got.ExternalID == "" {
		t.Fatal("expected derived external id")
	}
}

func TestFetchEventsSkipsFailingTour(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/wta/results/2025" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	gw := NewGateway(config.TennisConfig{
		Enabled: true,
		BaseURL: server.URL,
		Tours:   []string{"wta", "atp"},
		Timeout: 2 * time.Second,
	}, nil)

	result := gw.FetchEvents(context.Background(), "2025")
	if len(result.Events) != 1 {
		t.Fatalf("unexpected event count: got=%d want=1", len(result.Events))
	}
}

func TestRowIDIsStable(t *testing.T) {
	a := rowID("atp", "2025-07-13", "Carlos Alcaraz", "Novak Djokovic")
	b := rowID("atp", "2025-07-13", "Carlos Alcaraz", "Novak Djokovic")
	c := rowID("atp", "2025-07-13", "Carlos Alcaraz", "Jannik Sinner")
	if a != b {
		t.Fatalf("identical rows produced different ids: %s vs %s", a, b)
	}
	if a == c {
		t.Fatalf("different rows produced identical id: %s", a)
	}
}
