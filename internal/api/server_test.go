package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranjodhsingh/spotlight/internal/face"
)

func TestStatsRecordFrameAndDrop(t *testing.T) {
	s := &Stats{}
	s.RecordFrame(5*time.Millisecond, face.Detection{Score: 0.9})
	s.RecordDrop()
	s.RecordDrop()

	frames, dropped, latency, f := s.snapshot()
	assert.Equal(t, uint64(1), frames)
	assert.Equal(t, uint64(2), dropped)
	assert.Equal(t, 5*time.Millisecond, latency)
	assert.InDelta(t, 0.9, f.Score, 1e-6)
}

func TestStatsConcurrentAccess(t *testing.T) {
	s := &Stats{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.RecordFrame(time.Millisecond, face.Detection{})
		}()
		go func() {
			defer wg.Done()
			_, _, _, _ = s.snapshot()
		}()
	}
	wg.Wait()

	frames, _, _, _ := s.snapshot()
	assert.Equal(t, uint64(50), frames)
}

func TestHandleHealthz(t *testing.T) {
	srv := NewServer("127.0.0.1:0", &Stats{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.srv.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHandleMetrics(t *testing.T) {
	stats := &Stats{}
	stats.RecordFrame(12*time.Millisecond, face.Detection{})
	stats.RecordDrop()

	srv := NewServer("127.0.0.1:0", stats)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.srv.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload metricsPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, uint64(1), payload.FrameCount)
	assert.Equal(t, uint64(1), payload.DroppedCount)
	assert.InDelta(t, 12.0, payload.LastLatencyMS, 0.01)
}
