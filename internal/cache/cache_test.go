package cache

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb, time.Minute), mr
}

// countingHandler returns a handler that reports how often it ran.
func countingHandler(calls *int, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, `{"calls":`+strconv.Itoa(*calls)+`}`)
	})
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestMiddlewareCachesGET(t *testing.T) {
	c, _ := newTestCache(t)
	var calls int
	h := c.Middleware(countingHandler(&calls, http.StatusOK))

	first := get(t, h, "/categories")
	if first.Header().Get("X-Cache") != "MISS" {
		t.Errorf("expected MISS, got %q", first.Header().Get("X-Cache"))
	}

	second := get(t, h, "/categories")
	if second.Header().Get("X-Cache") != "HIT" {
		t.Errorf("expected HIT, got %q", second.Header().Get("X-Cache"))
	}
	if calls != 1 {
		t.Errorf("expected handler to run once, ran %d times", calls)
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("cached body %q differs from original %q", second.Body.String(), first.Body.String())
	}
	if second.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected cached content type, got %q", second.Header().Get("Content-Type"))
	}

	get(t, h, "/categories?page=2")
	if calls != 2 {
		t.Errorf("expected distinct query to miss, calls=%d", calls)
	}
}

func TestMiddlewareSkipsErrors(t *testing.T) {
	c, _ := newTestCache(t)
	var calls int
	h := c.Middleware(countingHandler(&calls, http.StatusNotFound))

	get(t, h, "/items/9")
	get(t, h, "/items/9")
	if calls != 2 {
		t.Errorf("expected non-200 responses to bypass cache, calls=%d", calls)
	}
}

func TestInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	var calls int
	h := c.Middleware(countingHandler(&calls, http.StatusOK))

	get(t, h, "/menu-constants")
	if err := c.Invalidate(context.Background()); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	rec := get(t, h, "/menu-constants")
	if rec.Header().Get("X-Cache") != "MISS" || calls != 2 {
		t.Errorf("expected miss after invalidate, calls=%d header=%q", calls, rec.Header().Get("X-Cache"))
	}
}

func TestEntriesExpire(t *testing.T) {
	c, mr := newTestCache(t)
	var calls int
	h := c.Middleware(countingHandler(&calls, http.StatusOK))

	get(t, h, "/notifications")
	mr.FastForward(2 * time.Minute)
	get(t, h, "/notifications")
	if calls != 2 {
		t.Errorf("expected expired entry to miss, calls=%d", calls)
	}
}

func TestRedisDownServesUncached(t *testing.T) {
	c, mr := newTestCache(t)
	var calls int
	h := c.Middleware(countingHandler(&calls, http.StatusOK))

	mr.Close()
	rec := get(t, h, "/items")
	if rec.Code != http.StatusOK || calls != 1 {
		t.Errorf("expected request to be served without cache, code=%d calls=%d", rec.Code, calls)
	}
}

func TestNilCache(t *testing.T) {
	var c *Cache
	var calls int
	h := c.Middleware(countingHandler(&calls, http.StatusOK))

	get(t, h, "/items")
	get(t, h, "/items")
	if calls != 2 {
		t.Errorf("expected nil cache to pass through, calls=%d", calls)
	}
	if err := c.Invalidate(context.Background()); err != nil {
		t.Errorf("Invalidate on nil cache: %v", err)
	}
}

func TestDialFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := Dial(context.Background(), addr, "", 0); err == nil {
		t.Error("expected error dialing closed server")
	}
}
