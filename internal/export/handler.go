// Package export renders venue overview snapshots as PNG.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/inamate/seatmap/internal/engine"
	"github.com/inamate/seatmap/internal/raster"
	"github.com/inamate/seatmap/internal/typeid"
	"github.com/inamate/seatmap/internal/venue"
)

const (
	defaultWidth  = 1280
	defaultHeight = 720
	minSize       = 16
	maxSize       = 4096
)

// Cache stores rendered snapshots by key. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
}

// RedisCache keeps snapshots in Redis with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: "snapshot", ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+":"+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, data []byte) error {
	if err := c.client.Set(ctx, c.prefix+":"+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

type Handler struct {
	store    venue.Store
	renderer *raster.Renderer
	cache    Cache
	opts     engine.Options
}

// NewHandler serves snapshots of venues in store. cache may be nil.
func NewHandler(store venue.Store, renderer *raster.Renderer, cache Cache, opts engine.Options) *Handler {
	return &Handler{store: store, renderer: renderer, cache: cache, opts: opts}
}

// Snapshot renders the venue's overview in its initial state:
// GET /api/venues/{venueId}/snapshot.png?w=&h=
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["venueId"]
	width, err := dimension(r, "w", defaultWidth)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	height, err := dimension(r, "h", defaultHeight)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	key := fmt.Sprintf("%s:%dx%d", id, width, height)
	if png, ok := h.cached(r.Context(), key); ok {
		writePNG(w, png, "HIT")
		return
	}

	v, _, err := h.store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, venue.ErrVenueNotFound) {
			http.Error(w, "venue not found", http.StatusNotFound)
			return
		}
		slog.Error("load venue for snapshot", "venue", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	e := engine.New(v, h.opts)
	var buf bytes.Buffer
	vp := engine.Viewport{Width: float64(width), Height: float64(height)}
	if err := h.renderer.EncodePNG(&buf, e, vp); err != nil {
		slog.Error("render snapshot", "venue", id, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), key, buf.Bytes()); err != nil {
			slog.Warn("cache snapshot", "key", key, "error", err)
		}
	}
	writePNG(w, buf.Bytes(), "MISS")
}

func (h *Handler) cached(ctx context.Context, key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	data, ok, err := h.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("snapshot cache unavailable", "error", err)
		return nil, false
	}
	return data, ok
}

func dimension(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < minSize || n > maxSize {
		return 0, fmt.Errorf("%s must be an integer in [%d, %d]", name, minSize, maxSize)
	}
	return n, nil
}

func writePNG(w http.ResponseWriter, data []byte, cache string) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Cache", cache)
	w.Header().Set("X-Snapshot-Id", typeid.NewSnapshotID())
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
