package service

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// catalogVersionKey is a monotonic counter bumped on every catalog write
// (ingredients, recipes, composition). Cached analysis results embed the
// version in their key, so a bump invalidates them without explicit deletes.
const catalogVersionKey = "catalog:version"

func bumpCatalogVersion(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if err := rdb.Incr(ctx, catalogVersionKey).Err(); err != nil {
		log.Warn().Err(err).Msg("cache: failed to bump catalog version")
	}
}

func catalogVersion(ctx context.Context, rdb *redis.Client) int64 {
	if rdb == nil {
		return 0
	}
	v, err := rdb.Get(ctx, catalogVersionKey).Int64()
	if err != nil {
		return 0
	}
	return v
}
