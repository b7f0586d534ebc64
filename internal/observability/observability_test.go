package observability

import (
	"context"
	"testing"
	"time"

	"github.com/sporating/sporating/internal/config"
	"github.com/sporating/sporating/internal/platform/logging"
)

func TestInitUptraceDisabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "sporating",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitPyroscopeDisabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{PyroscopeEnabled: false}, logging.NewNop())
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}

func TestStartPprofServerDisabled(t *testing.T) {
	srv, err := StartPprofServer(config.Config{PprofEnabled: false}, logging.NewNop())
	if err != nil {
		t.Fatalf("start pprof: %v", err)
	}
	if srv != nil {
		t.Fatal("expected no server when disabled")
	}
	if err := StopPprofServer(nil, logging.NewNop(), time.Second); err != nil {
		t.Fatalf("stop nil pprof server: %v", err)
	}
}

func TestShouldSkipUptraceLogDropsHealthProbes(t *testing.T) {
	if !shouldSkipUptraceLog("http request", []any{"method", "GET", "path", "/healthz"}) {
		t.Fatal("health probe request log should be skipped")
	}
	if shouldSkipUptraceLog("http request", []any{"method", "GET", "path", "/v1/matches"}) {
		t.Fatal("regular request log should not be skipped")
	}
	if shouldSkipUptraceLog("import finished", []any{"path", "/healthz"}) {
		t.Fatal("non-request logs should never be skipped")
	}
}

func TestBuildOTelLogAttributesHandlesOddPairs(t *testing.T) {
	attrs := buildOTelLogAttributes([]any{"sport", "football", 42, "orphan-value", "dangling"})
	if len(attrs) != 3 {
		t.Fatalf("unexpected attribute count: got=%d want=3", len(attrs))
	}
	if attrs[0].Key != "sport" {
		t.Fatalf("unexpected first key: got=%q want=%q", attrs[0].Key, "sport")
	}
	if attrs[1].Key != "arg_1" {
		t.Fatalf("non-string key should fall back to positional name, got %q", attrs[1].Key)
	}
	if attrs[2].Key != "dangling" {
		t.Fatalf("unexpected dangling key: got=%q", attrs[2].Key)
	}
}
