package mmaapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sporating/sporating/internal/config"
	"github.com/sporating/sporating/internal/domain/event"
)

func testConfig(baseURL string) config.ProviderConfig {
	return config.ProviderConfig{
		BaseURL:    baseURL,
		Host:       "v1.mma.api-sports.io",
		APIKey:     "test-key",
		Timeout:    2 * time.Second,
		MaxRetries: 1,
	}
}

func TestFetchEventsMapsFinishedFights(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fights" {
			t.Errorf("unexpected path: got=%s", r.URL.Path)
		}
		w.Write([]byte(`{"response":[
			{"id":101,"date":"2025-03-08T23:00:00Z","slug":"ufc-313","category":"Heavyweight",
			 "status":{"short":"FT"},
			 "fighters":{"first":{"id":1,"name":"Jon Jones","winner":false},
			             "second":{"id":2,"name":"Tom Aspinall","winner":true}}},
			{"id":102,"date":"2025-03-08T23:30:00Z","slug":"ufc-313","category":"Flyweight",
			 "status":{"short":"NS"},
			 "fighters":{"first":{"id":3,"name":"A","winner":false},
			             "second":{"id":4,"name":"B","winner":false}}}
		]}`))
	}))
	defer server.Close()

	gw := NewGateway(testConfig(server.URL), nil)
	result := gw.FetchEvents(context.Background(), "2025")

	if result.Source != event.SourceLive {
		t.Fatalf("unexpected source: got=%s want=%s", result.Source, event.SourceLive)
	}
	if len(result.Events) != 1 {
		t.Fatalf("unexpected event count: got=%d want=1", len(result.Events))
	}
	got := result.Events[0]
	if got.HomeScore != "L" || got.AwayScore != "W" {
		t.Fatalf("unexpected scores: got=%s/%s want=L/W", got.HomeScore, got.AwayScore)
	}
	if got.Details[event.DetailAwayPlayer] != "Tom Aspinall" {
		t.Fatalf("unexpected away player: got=%s", got.Details[event.DetailAwayPlayer])
	}
	if got.EventType != event.TypeFight {
		t.Fatalf("unexpected event type: got=%s", got.EventType)
	}
}

func TestFetchEventsServesBackupOnProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	gw := NewGateway(testConfig(server.URL), nil)
	result := gw.FetchEvents(context.Background(), "2025")

	if result.Source != event.SourceFallback {
		t.Fatalf("unexpected source: got=%s want=%s", result.Source, event.SourceFallback)
	}
	if len(result.Events) == 0 {
		t.Fatal("expected backup events, got none")
	}
	for _, ev := range result.Events {
		if ev.Source != event.SourceFallback {
			t.Fatalf("backup event not tagged fallback: id=%s", ev.ExternalID)
		}
	}
}
