package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusBucket(t *testing.T) {
	assert.Equal(t, "1xx", httpStatusBucket(101))
	assert.Equal(t, "2xx", httpStatusBucket(204))
	assert.Equal(t, "3xx", httpStatusBucket(302))
	assert.Equal(t, "4xx", httpStatusBucket(409))
	assert.Equal(t, "5xx", httpStatusBucket(503))
}

func TestProvider_Counts(t *testing.T) {
	p := New(true).(*Provider)

	p.IncRequestsTotal("/wheelword/guess", 200)
	p.IncRequestsTotal("/wheelword/guess", 201)
	p.IncGuesses("accepted")
	p.IncGamesCompleted(true, 3)
	p.IncGamesCompleted(false, 6)
	p.IncCacheHits()
	p.IncCacheMisses()
	p.ObserveRequestDuration("/wheelword/guess", 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.requestsTotal.WithLabelValues("/wheelword/guess", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.guessesTotal.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.gamesCompleted.WithLabelValues("won", "3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.gamesCompleted.WithLabelValues("lost", "6")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.cacheHits))
}

// Each provider owns a registry, so several can coexist in one process.
func TestNew_IndependentRegistries(t *testing.T) {
	a := New(true)
	b := New(true)
	a.IncGuesses("accepted")

	rr := httptest.NewRecorder()
	b.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), `wheelword_guesses_total{outcome="accepted"} 1`)
}

func TestNoop(t *testing.T) {
	m := New(false)
	m.IncGuesses("accepted")
	m.IncGamesCompleted(true, 1)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
