package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/geocoder89/bloglist/internal/cache"
	"github.com/geocoder89/bloglist/internal/observability"
)

// readThrough serves key from store when present and otherwise loads, stores
// and returns a fresh value. A nil store disables caching.
func readThrough[T any](ctx context.Context, store cache.Store, prom *observability.Prom, family, key string, load func(context.Context) (T, error)) (T, error) {
	if store != nil {
		if raw, ok := store.Get(ctx, key); ok {
			var v T
			if err := json.Unmarshal(raw, &v); err == nil {
				prom.ObserveCache(family, true)
				return v, nil
			}
			slog.WarnContext(ctx, "cache.decode_failed", "key", key)
		}
		prom.ObserveCache(family, false)
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if store != nil {
		if raw, err := json.Marshal(v); err == nil {
			store.Set(ctx, key, raw)
		}
	}

	return v, nil
}

func invalidate(ctx context.Context, store cache.Store, keys ...string) {
	if store == nil {
		return
	}
	store.Delete(ctx, keys...)
}
