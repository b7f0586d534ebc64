package logging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return FromZap(zap.New(core)), logs
}

func TestLoggerWritesKeyValueFields(t *testing.T) {
	logger, logs := newObservedLogger()

	logger.Info("import run finished", "sport", "football", "matches", 12)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["sport"] != "football" {
		t.Fatalf("sport field = %v", fields["sport"])
	}
	if fields["matches"] != int64(12) {
		t.Fatalf("matches field = %v", fields["matches"])
	}
}

func TestLoggerNamesErrorValues(t *testing.T) {
	logger, logs := newObservedLogger()

	logger.Error("provider fetch failed", "error", errors.New("status 503"))

	fields := logs.All()[0].ContextMap()
	if fields["error"] != "status 503" {
		t.Fatalf("error field = %v", fields["error"])
	}
}

func TestLoggerToleratesDanglingKey(t *testing.T) {
	logger, logs := newObservedLogger()

	logger.Info("odd args", "sport")

	fields := logs.All()[0].ContextMap()
	if _, ok := fields["sport"]; !ok {
		t.Fatalf("dangling key dropped: %v", fields)
	}
}

func TestMirrorReceivesContextRecords(t *testing.T) {
	logger, _ := newObservedLogger()

	var got []string
	SetMirror(func(_ context.Context, _ Level, msg string, _ ...any) {
		got = append(got, msg)
	})
	defer SetMirror(nil)

	logger.InfoContext(context.Background(), "match upserted")
	logger.Info("not mirrored")

	if len(got) != 1 || got[0] != "match upserted" {
		t.Fatalf("mirror received %v", got)
	}
}
