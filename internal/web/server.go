// Package web exposes the keepalive HTTP surface used by the hosting
// platform and uptime monitors. It reports liveness and the bot's
// polling state; no bot logic lives here.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
)

const version = "2.0"

// Status is the bot state published to the HTTP handlers. The runtime
// swaps it in atomically once polling starts.
type Status struct {
	Running bool
	BotID   int64
}

// Server serves the health endpoints.
type Server struct {
	logger *slog.Logger
	status atomic.Pointer[Status]
}

func NewServer(logger *slog.Logger) *Server {
	s := &Server{logger: logger}
	s.status.Store(&Status{})
	return s
}

// SetStatus publishes the bot's current state.
func (s *Server) SetStatus(running bool, botID int64) {
	s.status.Store(&Status{Running: running, BotID: botID})
}

// Handler builds the chi router with every endpoint registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.handleHome)
	r.Get("/health", s.handleHealth)
	r.Get("/ping", s.handlePing)
	r.Get("/bot/status", s.handleBotStatus)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		s.logger.Warn("not found", "path", req.URL.Path)
		s.writeJSON(w, http.StatusNotFound, map[string]any{"error": "page not found"})
	})

	return r
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http shutdown failed", "error", err)
		}
	}()

	s.logger.Info("http server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) handleHome(w http.ResponseWriter, req *http.Request) {
	st := s.status.Load()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":      "connected",
		"timestamp":   time.Now().Format(time.RFC3339),
		"bot_running": st.Running,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, req *http.Request) {
	st := s.status.Load()
	botStatus := "stopped"
	if st.Running {
		botStatus = "running"
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":     "OK",
		"message":    "Service running",
		"bot_status": botStatus,
		"timestamp":  time.Now().Format(time.RFC3339),
		"version":    version,
	})
}

func (s *Server) handlePing(w http.ResponseWriter, req *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

func (s *Server) handleBotStatus(w http.ResponseWriter, req *http.Request) {
	st := s.status.Load()
	if !st.Running {
		s.writeJSON(w, http.StatusOK, map[string]any{"bot_status": "stopped"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"bot_status": "running",
		"bot_id":     st.BotID,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
