package responsecache

import (
	"log/slog"
	"time"

	"github.com/maypok86/otter/v2"

	"github.com/yanqian/mood-engine/internal/domain/mood"
)

// OtterCache keeps raw analysis responses in memory for a fixed TTL.
type OtterCache struct {
	cache  *otter.Cache[string, string]
	logger *slog.Logger
}

// NewOtterCache constructs a bounded cache whose entries expire ttl after being written.
func NewOtterCache(size int, ttl time.Duration, logger *slog.Logger) *OtterCache {
	if size <= 0 {
		size = 1_000
	}
	cache := otter.Must(&otter.Options[string, string]{
		MaximumSize:      size,
		ExpiryCalculator: otter.ExpiryWriting[string, string](ttl),
	})
	return &OtterCache{
		cache:  cache,
		logger: logger.With("component", "responsecache.otter"),
	}
}

func (c *OtterCache) Get(key string) (string, bool) {
	text, ok := c.cache.GetIfPresent(key)
	if !ok {
		c.logger.Debug("cache miss", "key", key)
		return "", false
	}
	return text, true
}

func (c *OtterCache) Set(key, text string) {
	c.cache.Set(key, text)
	c.logger.Debug("cache set", "key", key, "size", len(text))
}

var _ mood.ResponseCache = (*OtterCache)(nil)
