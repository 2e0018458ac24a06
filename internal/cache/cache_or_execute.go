package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// CacheOrExecute loads key into dest, or runs fn on a miss and stores its result.
// Cache failures never fail the call; only fn's error is returned.
func CacheOrExecute(ctx context.Context, c CacheService, key string, dest interface{}, ttl time.Duration, fn func() (interface{}, error)) error {
	if c == nil {
		c = NewNoopCache()
	}

	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}

	value, err := fn()
	if err != nil {
		return err
	}

	// Round-trip through JSON so dest has the same shape a cache hit would produce
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}

	_ = c.Set(ctx, key, value, ttl)
	return nil
}

// IsMiss reports whether err is a cache miss.
func IsMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}
