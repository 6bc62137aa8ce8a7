package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/logging"
	"github.com/uwazilabs/haki-analytics/pkg/errors"
)

func TestCacheMissIsNotFound(t *testing.T) {
	assert.True(t, errors.IsCode(ErrCacheMiss, errors.ErrCodeNotFound))
}

func TestFullKeyUsesPrefix(t *testing.T) {
	c := NewCache(&Client{}, logging.NewNopLogger(), WithPrefix("test:")).(*redisCache)
	assert.Equal(t, "test:clusters:abc", c.fullKey("clusters:abc"))
}

func TestJitterTTLStaysWithinTenPercent(t *testing.T) {
	c := NewCache(&Client{}, logging.NewNopLogger()).(*redisCache)

	base := 10 * time.Minute
	for i := 0; i < 100; i++ {
		got := c.jitterTTL(base)
		assert.GreaterOrEqual(t, got, 9*time.Minute)
		assert.LessOrEqual(t, got, 11*time.Minute)
	}
	assert.Equal(t, time.Duration(0), c.jitterTTL(0))
}

func TestCacheOptions(t *testing.T) {
	c := NewCache(&Client{}, logging.NewNopLogger(),
		WithPrefix("p:"), WithDefaultTTL(time.Minute)).(*redisCache)
	assert.Equal(t, "p:", c.prefix)
	assert.Equal(t, time.Minute, c.defaultTTL)
}
