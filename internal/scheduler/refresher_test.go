package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SstealzZ/LinkStart/internal/api"
	"github.com/SstealzZ/LinkStart/internal/domain"
	"github.com/SstealzZ/LinkStart/internal/logger"
	"github.com/SstealzZ/LinkStart/internal/services"
)

type staticAuth struct{}

func (staticAuth) Token() string    { return "T" }
func (staticAuth) Username() string { return "alice" }
func (staticAuth) Refresh(ctx context.Context) (string, error) {
	return "T", nil
}

func newRefresherUnderTest(t *testing.T, interval time.Duration, trigger chan struct{}) (*CollectionRefresher, *services.Manager, *int64) {
	t.Helper()

	var listCalls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&listCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]domain.Service{{ID: "1", Name: "nas"}})
	}))
	t.Cleanup(srv.Close)

	log := logger.Nop()
	client := api.New(srv.URL, api.Endpoints{}, time.Second, log)
	collection := services.New(client, staticAuth{}, log)
	return NewCollectionRefresher(collection, log, interval, trigger), collection, &listCalls
}

func TestRefresherInitialFetch(t *testing.T) {
	cr, collection, listCalls := newRefresherUnderTest(t, 0, make(chan struct{}, 1))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cr.Start(ctx)
	defer cr.Stop()

	if got := atomic.LoadInt64(listCalls); got != 1 {
		t.Fatalf("list calls after start = %d, want 1", got)
	}
	if collection.Count() != 1 {
		t.Fatalf("count = %d, want 1", collection.Count())
	}
}

func TestRefresherManualTrigger(t *testing.T) {
	trigger := make(chan struct{}, 1)
	cr, _, listCalls := newRefresherUnderTest(t, 0, trigger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cr.Start(ctx)
	defer cr.Stop()

	trigger <- struct{}{}

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt64(listCalls) < 2 {
		select {
		case <-deadline:
			t.Fatalf("list calls = %d, want 2", atomic.LoadInt64(listCalls))
		case <-time.After(10 * time.Millisecond):
		}
	}
}
