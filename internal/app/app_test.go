package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/jersey-metadata/internal/config"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		Store:                   config.StoreMemory,
		HTTPAddr:                ":0",
		CacheEnabled:            true,
		CacheTTL:                time.Minute,
		UpstreamBaseURL:         "http://upstream.invalid",
		UpstreamToken:           "upstream-token",
		UpstreamTimeout:         time.Second,
		BackfillWorkerURL:       "http://worker.invalid",
		BackfillWorkerToken:     "worker-token",
		BackfillDispatchTimeout: time.Second,
		BackfillMinContracts:    5,
		BackfillMaxWorkers:      2,
		BackfillJobWorkers:      1,
		BackfillJobTimeout:      time.Second,
		InternalJobToken:        "worker-token",
		ReadTimeout:             time.Second,
		WriteTimeout:            time.Second,
	}
}

func TestNewServices_MemoryStoreServesHealthz(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()

	svc, err := NewServices(ctx, cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new services: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close(ctx) })

	if svc.AutoLink == nil || svc.Backfill == nil || svc.Seed == nil || svc.Jobs == nil {
		t.Fatalf("expected all services to be wired, got %+v", svc)
	}

	server, err := NewHTTPServer(cfg, svc, logging.NewNop())
	if err != nil {
		t.Fatalf("new http server: %v", err)
	}

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewHTTPServer_RejectsEmptyAddr(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()

	svc, err := NewServices(ctx, cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new services: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close(ctx) })

	cfg.HTTPAddr = ""
	if _, err := NewHTTPServer(cfg, svc, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty addr")
	}
	if _, err := NewHTTPServer(cfg, nil, logging.NewNop()); err == nil {
		t.Fatalf("expected error for nil services")
	}
}

func TestNewServices_MissingAliasFile(t *testing.T) {
	cfg := memoryConfig()
	cfg.ClubAliasFile = "/nonexistent/aliases.toml"

	if _, err := NewServices(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected alias file error")
	}
}
