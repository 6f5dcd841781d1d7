package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-catalog/internal/config"
)

// payloadStore holds encoded responses keyed by cacheKeyFrom.
type payloadStore interface {
	get(ctx context.Context, key string) ([]byte, bool)
	set(ctx context.Context, key string, payload []byte, ttl time.Duration)
}

type redisStore struct{ rdb *redis.Client }

func (s redisStore) get(ctx context.Context, key string) ([]byte, bool) {
	bs, err := s.rdb.Get(ctx, key).Bytes()
	return bs, err == nil
}

func (s redisStore) set(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	_ = s.rdb.SetEx(ctx, key, payload, ttl).Err()
}

type localStore struct{ c *gocache.Cache }

func (s localStore) get(_ context.Context, key string) ([]byte, bool) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false
	}
	bs, ok := v.([]byte)
	return bs, ok
}

func (s localStore) set(_ context.Context, key string, payload []byte, ttl time.Duration) {
	s.c.Set(key, payload, ttl)
}

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 {
		cw.buf.Write(b)
	} else if remain := cw.limit - cw.size; remain > 0 {
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// Build a stable cache key honoring prefix/strategy.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	route := c.Path()
	query := r.URL.RawQuery

	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = append(parts, "route", route)
	case "method_route":
		parts = append(parts, "method", r.Method, "route", route)
	case "method_route_query":
		parts = append(parts, "method", r.Method, "route", route, "q", query)
	default: // "route_query"
		parts = append(parts, "route", route, "q", query)
	}

	sum := sha1.Sum([]byte(strings.Join(parts[1:], ":")))
	return fmt.Sprintf("%s:%x", parts[0], sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// NewResponseCache caches 200 responses of the configured methods.  It
// stores in Redis when rdb is non-nil and in an in-process go-cache
// otherwise, so facets stay cheap on single-instance deployments too.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	var store payloadStore
	if rdb != nil {
		store = redisStore{rdb: rdb}
	} else {
		store = localStore{c: gocache.New(ttl, 2*ttl)}
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}

			ctx := c.Request().Context()
			key := cacheKeyFrom(cfg, c)

			if bs, found := store.get(ctx, key); found {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if skipReplay(k) {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			// Truncated bodies are not worth replaying.
			if cw.status != http.StatusOK || (maxBody > 0 && cw.size > maxBody) {
				return nil
			}
			hdr := c.Response().Header().Clone()
			if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
				store.set(context.Background(), key, payload, ttl)
			}
			return nil
		}
	}
}

// skipReplay reports headers that belong to the original response only.
func skipReplay(header string) bool {
	switch http.CanonicalHeaderKey(header) {
	case echo.HeaderContentLength, "X-Cache", echo.HeaderXRequestID:
		return true
	}
	return false
}
