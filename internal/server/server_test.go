package server

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"task_tracker/internal/config"
)

func TestNormalizeAddr(t *testing.T) {
	tests := map[string]string{
		"":               ":8080",
		"9000":           ":9000",
		":9000":          ":9000",
		"127.0.0.1:9000": "127.0.0.1:9000",
	}
	for in, want := range tests {
		if got := normalizeAddr(in); got != want {
			t.Errorf("normalizeAddr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNew_Timeouts(t *testing.T) {
	s := New("9000", http.NotFoundHandler(), config.ServerConfig{WriteTimeout: 3 * time.Second})
	hs := s.httpServer

	if hs.Addr != ":9000" {
		t.Fatalf("addr: got %q", hs.Addr)
	}
	if hs.WriteTimeout != 3*time.Second {
		t.Fatalf("write timeout: got %v", hs.WriteTimeout)
	}
	if hs.ReadHeaderTimeout != defaultReadHeaderTimeout || hs.IdleTimeout != defaultIdleTimeout {
		t.Fatalf("unset timeouts must use defaults: %+v", hs)
	}
	if hs.MaxHeaderBytes != maxHeaderBytes {
		t.Fatalf("max header bytes: got %d", hs.MaxHeaderBytes)
	}
}

func TestShutdownBeforeRunStopsServer(t *testing.T) {
	s := New("127.0.0.1:0", http.NotFoundHandler(), config.ServerConfig{})
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	// A signal that lands before Run must still win: Run refuses to serve.
	done := make(chan error, 1)
	go func() { done <- s.Run() }()

	select {
	case err := <-done:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Fatalf("Run after Shutdown: got %v, want http.ErrServerClosed", err)
		}
	case <-time.After(2 * time.Second):
		_ = s.httpServer.Close()
		t.Fatalf("Run kept serving after Shutdown")
	}
}

func TestRunThenShutdown(t *testing.T) {
	s := New("127.0.0.1:0", http.NotFoundHandler(), config.ServerConfig{})

	done := make(chan error, 1)
	go func() { done <- s.Run() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	// Shutdown may race ListenAndServe; either order must end Run.
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	select {
	case err := <-done:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Fatalf("Run: got %v, want http.ErrServerClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after Shutdown")
	}
}
