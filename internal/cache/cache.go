// Package cache stores public GET responses in Redis.
//
// Entries are keyed by a generation counter. Invalidate bumps the counter, so
// every entry written before the bump is ignored and left to expire.
package cache

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// MaxBodyBytes is the largest response body that is cached.
const MaxBodyBytes = 1 << 20

// Dial connects to Redis and pings it.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", addr, err)
	}
	return client, nil
}

// Cache is a Redis-backed response cache. A nil *Cache is valid and caches
// nothing.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// New returns a Cache storing entries for ttl.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{rdb: rdb, ttl: ttl, prefix: "sladica:cache"}
}

type entry struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

func (c *Cache) genKey() string {
	return c.prefix + ":gen"
}

func (c *Cache) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *Cache) key(gen int64, r *http.Request) string {
	sum := sha1.Sum([]byte(r.URL.RequestURI()))
	return fmt.Sprintf("%s:%d:%x", c.prefix, gen, sum)
}

// Invalidate discards every cached response.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.rdb.Incr(ctx, c.genKey()).Err(); err != nil {
		return fmt.Errorf("bumping cache generation: %w", err)
	}
	return nil
}

// captureWriter copies the response body while forwarding it to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.buf.Len() <= MaxBodyBytes {
		cw.buf.Write(b)
	}
	return cw.ResponseWriter.Write(b)
}

// Middleware serves GET requests from the cache and stores 200 responses.
// Redis failures are logged and the request is served uncached.
func (c *Cache) Middleware(next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		gen, err := c.generation(ctx)
		if err != nil {
			slog.Warn("cache unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		key := c.key(gen, r)

		if data, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
			var e entry
			if json.Unmarshal(data, &e) == nil {
				for k, vals := range e.Header {
					if k == "Content-Length" {
						continue
					}
					w.Header()[k] = vals
				}
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(e.Status)
				w.Write(e.Body)
				return
			}
		} else if !errors.Is(err, redis.Nil) {
			slog.Warn("cache read failed", "key", key, "error", err)
		}

		w.Header().Set("X-Cache", "MISS")
		cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(cw, r)

		if cw.status != http.StatusOK || cw.buf.Len() > MaxBodyBytes {
			return
		}
		header := w.Header().Clone()
		header.Del("X-Cache")
		data, err := json.Marshal(entry{Status: cw.status, Header: header, Body: cw.buf.Bytes()})
		if err != nil {
			return
		}
		if err := c.rdb.Set(context.WithoutCancel(ctx), key, data, c.ttl).Err(); err != nil {
			slog.Warn("cache write failed", "key", key, "error", err)
		}
	})
}
