package app

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tryon-shop/internal/config"
)

type stubService struct {
	name     string
	startErr error
	stopped  atomic.Bool
}

func (s *stubService) Name() string { return s.name }

func (s *stubService) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	<-ctx.Done()
	return nil
}

func (s *stubService) Stop(context.Context) error {
	s.stopped.Store(true)
	return nil
}

func TestRunnerStopsAllServicesOnFailure(t *testing.T) {
	failing := &stubService{name: "failing", startErr: errors.New("boom")}
	healthy := &stubService{name: "healthy"}
	runner := NewRunner(failing, healthy)
	cleaned := false
	runner.OnShutdown(func() { cleaned = true })

	err := runner.Run(context.Background(), time.Second, nil)
	if err == nil || err.Error() != "boom" {
		t.Fatalf("run error want boom got %v", err)
	}
	if !failing.stopped.Load() || !healthy.stopped.Load() {
		t.Fatalf("all services should be stopped")
	}
	if !cleaned {
		t.Fatalf("cleanup should run after stop")
	}
}

func TestRunnerCancelledContextIsCleanExit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := &stubService{name: "svc"}
	runner := NewRunner(svc)
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	if err := runner.Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancelled run should return nil, got %v", err)
	}
	if !svc.stopped.Load() {
		t.Fatalf("service should be stopped")
	}
}

func TestNormalizeOptionsDefaults(t *testing.T) {
	opts := normalizeOptions(Options{})
	if opts.Mode != ModeAll || opts.ShutdownTimeout != 10*time.Second || opts.Logger == nil {
		t.Fatalf("unexpected defaults %+v", opts)
	}
}

func TestNormalizeOptionsUsesServerShutdownTimeout(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{ShutdownTimeoutSeconds: 3}}
	opts := normalizeOptions(Options{Config: cfg})
	if opts.ShutdownTimeout != 3*time.Second {
		t.Fatalf("shutdown timeout want 3s got %v", opts.ShutdownTimeout)
	}
}

func TestNewHTTPServiceAppliesServerConfig(t *testing.T) {
	svc := NewHTTPService(config.ServerConfig{Host: "127.0.0.1", Port: "9090", WriteTimeoutSeconds: 5}, http.NotFoundHandler())
	if svc.server.Addr != "127.0.0.1:9090" {
		t.Fatalf("addr want 127.0.0.1:9090 got %s", svc.server.Addr)
	}
	if svc.server.WriteTimeout != 5*time.Second || svc.server.ReadTimeout != 15*time.Second {
		t.Fatalf("timeouts want 15s/5s got %v/%v", svc.server.ReadTimeout, svc.server.WriteTimeout)
	}
}

type oneShotService struct{ stubService }

func (s *oneShotService) Start(context.Context) error { return nil }

func TestRunnerStopsWhenServiceExitsOnItsOwn(t *testing.T) {
	oneShot := &oneShotService{stubService{name: "oneshot"}}
	long := &stubService{name: "long"}
	if err := NewRunner(oneShot, long).Run(context.Background(), time.Second, nil); err != nil {
		t.Fatalf("clean exit should return nil, got %v", err)
	}
	if !long.stopped.Load() {
		t.Fatalf("remaining services should be stopped")
	}
}

func TestRunnerRejectsNilService(t *testing.T) {
	if err := NewRunner(nil).Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("nil service should fail")
	}
}
