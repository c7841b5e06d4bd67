package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/prachya-dev/saithong-backend/pkg/logger"
)

type fakeIdempotencyStore struct {
	records map[string]string
	gets    int
	sets    int
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{records: map[string]string{}}
}

func (s *fakeIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	s.gets++
	value, ok := s.records[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (s *fakeIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	s.sets++
	if _, ok := s.records[key]; ok {
		return false, nil
	}
	s.records[key] = value.(string)
	return true, nil
}

func (s *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "st:idem:" + scope + ":" + id
}

func (s *fakeIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.records, key)
	}
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test-idempotency", Output: io.Discard})
}

func countingHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"transferred"}`))
	})
}

func TestIdempotencyRequiresKeyOnGuardedRoute(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store, testLogger())(countingHandler(&calls))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/stock/transfers", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without key got %d", resp.Code)
	}
	if calls != 0 {
		t.Fatalf("handler must not run without an idempotency key, ran %d times", calls)
	}
}

func TestIdempotencyGuardsConcreteMutationPath(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store, testLogger())(countingHandler(&calls))

	path := "/api/v1/admin/locations/" + uuid.NewString() + "/stock/" + uuid.NewString()
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected mutation path to be guarded, got %d", resp.Code)
	}
	if calls != 0 {
		t.Fatalf("handler must not run without an idempotency key, ran %d times", calls)
	}
}

func TestIdempotencyIgnoresUnguardedRoute(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store, testLogger())(countingHandler(&calls))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/geo/provinces", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || calls != 1 {
		t.Fatalf("unguarded route must pass through, got status %d calls %d", resp.Code, calls)
	}
	if store.gets != 0 {
		t.Fatalf("unguarded route must not consult the store, got %d gets", store.gets)
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store, testLogger())(countingHandler(&calls))

	body := `{"from_location_id":"a","to_location_id":"b","product_id":"c","amount":2}`
	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/stock/transfers", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "retry-1")
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		return resp
	}

	first := send()
	if first.Code != http.StatusOK || calls != 1 {
		t.Fatalf("first request must reach the handler, got status %d calls %d", first.Code, calls)
	}
	if store.sets != 1 {
		t.Fatalf("first response must be persisted, got %d sets", store.sets)
	}

	second := send()
	if calls != 1 {
		t.Fatalf("replayed request must not re-run the handler, ran %d times", calls)
	}
	if second.Code != first.Code || second.Body.String() != first.Body.String() {
		t.Fatalf("replay must return the stored response, got %d %q", second.Code, second.Body.String())
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store, testLogger())(countingHandler(&calls))

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/commit", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "commit-1")
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		return resp
	}

	if first := send(`{"amount":2}`); first.Code != http.StatusOK {
		t.Fatalf("first commit must succeed, got %d", first.Code)
	}

	second := send(`{"amount":5}`)
	if second.Code != http.StatusConflict {
		t.Fatalf("reused key with different body must conflict, got %d", second.Code)
	}
	if calls != 1 {
		t.Fatalf("conflicting replay must not re-run the handler, ran %d times", calls)
	}
}
