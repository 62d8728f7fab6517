package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
)

func TestLimitRejectsBurstOverflow(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	var rejected int
	for i := 0; i < 15; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		w := httptest.NewRecorder()
		handler(w, req, nil)
		if w.Code == http.StatusTooManyRequests {
			rejected++
		}
	}
	if rejected == 0 {
		t.Fatal("expected some requests past the burst to be rejected")
	}
}

func TestGetLimiterReusesBucket(t *testing.T) {
	rl := NewRateLimiter()
	if rl.getLimiter("10.0.0.1:5000") != rl.getLimiter("10.0.0.1:5000") {
		t.Fatal("same IP should share one bucket")
	}
	if rl.getLimiter("10.0.0.1:5000") == rl.getLimiter("10.0.0.2:5000") {
		t.Fatal("distinct IPs should not share a bucket")
	}
}

func TestSweepKeepsActiveVisitors(t *testing.T) {
	rl := NewRateLimiter()
	rl.getLimiter("10.0.0.1:5000")
	rl.getLimiter("10.0.0.2:5000")

	rl.mu.Lock()
	rl.visitors["10.0.0.1:5000"].lastSeen = time.Now().Add(-time.Hour)
	rl.mu.Unlock()

	rl.sweep(10 * time.Minute)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.visitors["10.0.0.1:5000"]; ok {
		t.Error("idle visitor should have been swept")
	}
	if _, ok := rl.visitors["10.0.0.2:5000"]; !ok {
		t.Error("recently seen visitor should survive the sweep")
	}
}
