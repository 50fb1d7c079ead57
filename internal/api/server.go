// Package api is the debug/metrics HTTP server: an operational surface the
// core pipeline never needed, but which every daemon deployment wants.
// Disabled by default (spec.md's core has no such thing); enabled by
// --debug-addr.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/ranjodhsingh/spotlight/internal/face"
	"github.com/ranjodhsingh/spotlight/internal/logger"
)

// Stats is the daemon's live operational state, written once per frame by
// the capture loop and read concurrently by HTTP handlers — the one place
// in the repo where the single-threaded core's data is touched from more
// than one goroutine, hence the mutex.
type Stats struct {
	mu sync.RWMutex

	FrameCount   uint64
	DroppedCount uint64
	LastLatency  time.Duration
	LastFace     face.Detection
}

func (s *Stats) RecordFrame(latency time.Duration, f face.Detection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FrameCount++
	s.LastLatency = latency
	s.LastFace = f
}

func (s *Stats) RecordDrop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DroppedCount++
}

func (s *Stats) snapshot() (uint64, uint64, time.Duration, face.Detection) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.FrameCount, s.DroppedCount, s.LastLatency, s.LastFace
}

// Server hosts /healthz, /metrics and a /ws/face live telemetry stream,
// following the teacher's gorilla/mux + gorilla/websocket MJPEG-server
// precedent repurposed for face/latency telemetry instead of video.
type Server struct {
	stats    *Stats
	srv      *http.Server
	upgrader websocket.Upgrader
}

func NewServer(addr string, stats *Stats) *Server {
	s := &Server{stats: stats, upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)
	r.HandleFunc("/ws/face", s.handleFaceStream)

	s.srv = &http.Server{Addr: addr, Handler: r}
	return s
}

func (s *Server) ListenAndServe() error {
	logger.WithComponent("api").Info().Str("addr", s.srv.Addr).Msg("debug server listening")
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type metricsPayload struct {
	FrameCount   uint64  `json:"frame_count"`
	DroppedCount uint64  `json:"dropped_count"`
	LastLatencyMS float64 `json:"last_latency_ms"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	frames, dropped, latency, _ := s.stats.snapshot()
	payload := metricsPayload{
		FrameCount:    frames,
		DroppedCount:  dropped,
		LastLatencyMS: float64(latency) / float64(time.Millisecond),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

type facePayload struct {
	X1        float32 `json:"x1"`
	Y1        float32 `json:"y1"`
	X2        float32 `json:"x2"`
	Y2        float32 `json:"y2"`
	Score     float32 `json:"score"`
	LatencyMS float64 `json:"latency_ms"`
}

func (s *Server) handleFaceStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithComponent("api").Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		_, _, latency, f := s.stats.snapshot()
		payload := facePayload{X1: f.X1, Y1: f.Y1, X2: f.X2, Y2: f.Y2, Score: f.Score, LatencyMS: float64(latency) / float64(time.Millisecond)}
		if err := conn.WriteJSON(payload); err != nil {
			return
		}
	}
}
