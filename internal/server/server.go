// Package server exposes the live session aggregate over HTTP for overlays
// and external tools. The endpoints serve read-only JSON snapshots; nothing
// here can mutate the monitor's state.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/verselog/verselog/internal/stats"
)

// SnapshotFunc returns the current aggregate snapshot. The monitor's
// Snapshot method satisfies it.
type SnapshotFunc func() stats.Snapshot

// Server serves session statistics over HTTP on localhost.
type Server struct {
	snapshot SnapshotFunc
	addr     string
	httpSrv  *http.Server
}

// New creates a Server bound to 127.0.0.1:port, serving snapshots from fn.
func New(fn SnapshotFunc, port int) *Server {
	s := &Server{
		snapshot: fn,
		addr:     fmt.Sprintf("127.0.0.1:%d", port),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/stats/session", s.handleSession)
	mux.HandleFunc("/stats/inventory", s.handleInventory)
	mux.HandleFunc("/stats/missions", s.handleMissions)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpSrv = &http.Server{
		Addr:         s.addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Start begins serving in a background goroutine. It returns once the
// listener is bound, so a port conflict surfaces here rather than later.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", s.addr, err)
	}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("server: serve error: %v", err)
		}
	}()
	return nil
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.snapshot())
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	writeJSON(w, map[string]any{
		"session":     snap.Session,
		"last_update": snap.LastUpdate,
	})
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	writeJSON(w, map[string]any{
		"inventory":   snap.Inventory,
		"last_update": snap.LastUpdate,
	})
}

func (s *Server) handleMissions(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	writeJSON(w, map[string]any{
		"missions":    snap.Missions,
		"last_update": snap.LastUpdate,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status": "ok",
		"endpoints": []string{
			"/stats", "/stats/session", "/stats/inventory", "/stats/missions",
		},
	})
}

// writeJSON serializes v with the CORS headers web overlays need.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Printf("server: encode response: %v", err)
	}
}
