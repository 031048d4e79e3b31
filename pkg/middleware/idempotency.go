package middleware

import (
	"bytes"
	"net/http"
	"strings"
	"sync"
	"time"

	"studiodesk/pkg/clock"
	apperrors "studiodesk/pkg/errors"
	httputil "studiodesk/pkg/http"
	"studiodesk/pkg/metrics"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// IdempotencyStore remembers the outcome of keyed writes. Begin claims a key:
// it returns the stored response when one exists, reports busy while another
// request holds the claim, and otherwise hands the claim to the caller, who
// must Complete or Abandon it.
type IdempotencyStore interface {
	Begin(key string) (cached *CachedResponse, busy bool)
	Complete(key string, response *CachedResponse)
	Abandon(key string)
	Stop()
}

type CachedResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	CreatedAt  time.Time
}

type idempotencyEntry struct {
	response *CachedResponse
	claimed  time.Time
}

type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]*idempotencyEntry
	ttl     time.Duration
	clock   clock.Clock
	stopCh  chan struct{}
	once    sync.Once
}

func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	return newIdempotencyStore(ttl, clock.New(time.UTC))
}

func newIdempotencyStore(ttl time.Duration, clk clock.Clock) *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		entries: make(map[string]*idempotencyEntry),
		ttl:     ttl,
		clock:   clk,
		stopCh:  make(chan struct{}),
	}

	go store.cleanup(min(max(ttl/2, time.Minute), time.Hour))

	return store
}

func (s *InMemoryIdempotencyStore) Begin(key string) (*CachedResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if e, ok := s.entries[key]; ok && !s.expired(e, now) {
		if e.response == nil {
			return nil, true
		}
		return e.response, false
	}

	s.entries[key] = &idempotencyEntry{claimed: now}
	return nil, false
}

func (s *InMemoryIdempotencyStore) Complete(key string, response *CachedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	response.CreatedAt = s.clock.Now()
	s.entries[key] = &idempotencyEntry{response: response, claimed: response.CreatedAt}
}

func (s *InMemoryIdempotencyStore) Abandon(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok && e.response == nil {
		delete(s.entries, key)
	}
}

func (s *InMemoryIdempotencyStore) expired(e *idempotencyEntry, now time.Time) bool {
	return now.Sub(e.claimed) > s.ttl
}

func (s *InMemoryIdempotencyStore) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			now := s.clock.Now()
			for key, e := range s.entries {
				if s.expired(e, now) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

func (s *InMemoryIdempotencyStore) Stop() {
	s.once.Do(func() { close(s.stopCh) })
}

type responseCapture struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (rc *responseCapture) WriteHeader(statusCode int) {
	rc.statusCode = statusCode
	rc.ResponseWriter.WriteHeader(statusCode)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	rc.body.Write(b)
	return rc.ResponseWriter.Write(b)
}

// Idempotency replays the stored 2xx response for a repeated key. A repeat
// that arrives while the first request is still running is refused with a
// Conflict; failed attempts release the key so the client can retry.
func Idempotency(store IdempotencyStore, headerName string) func(http.Handler) http.Handler {
	if headerName == "" {
		headerName = IdempotencyKeyHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := extractIdempotencyKey(r, headerName)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			cached, busy := store.Begin(key)
			switch {
			case busy:
				metrics.IdempotentRequests.WithLabelValues("in_progress").Inc()
				httputil.WriteError(w, apperrors.Conflict("A request with this idempotency key is still in progress"))
				return
			case cached != nil:
				metrics.IdempotentRequests.WithLabelValues("replayed").Inc()
				replayCachedResponse(w, cached)
				return
			}

			capture := &responseCapture{ResponseWriter: w, statusCode: http.StatusOK, body: &bytes.Buffer{}}
			completed := false
			defer func() {
				if !completed {
					store.Abandon(key)
				}
			}()

			next.ServeHTTP(capture, r)

			if capture.statusCode >= 200 && capture.statusCode < 300 {
				headers := w.Header().Clone()
				headers.Del(RequestIDHeader)
				store.Complete(key, &CachedResponse{
					StatusCode: capture.statusCode,
					Headers:    headers,
					Body:       capture.body.Bytes(),
				})
				completed = true
				metrics.IdempotentRequests.WithLabelValues("stored").Inc()
			}
		})
	}
}

// extractIdempotencyKey scopes the client key to the caller and route so
// that two actors cannot replay each other's responses.
func extractIdempotencyKey(r *http.Request, headerName string) string {
	key := r.Header.Get(headerName)
	if key == "" || r.Method == http.MethodGet {
		return ""
	}
	return strings.Join([]string{r.Header.Get(ActorIDHeader), r.Method, r.URL.Path, key}, "|")
}

func replayCachedResponse(w http.ResponseWriter, cached *CachedResponse) {
	for key, values := range cached.Headers {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.Header().Set("Idempotent-Replay", "true")
	w.WriteHeader(cached.StatusCode)
	_, _ = w.Write(cached.Body)
}
