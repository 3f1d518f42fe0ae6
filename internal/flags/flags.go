package flags

import (
	"context"
	"sync"
	"time"

	"github.com/tradeforge/accountsync/internal/models"
	"github.com/tradeforge/accountsync/pkg/logger"
)

// Cache is a process-wide feature flag cache derived from the system
// settings aggregate. Reload is triggered after an admin flips the
// live-trading toggle so in-flight features pick up the change.
type Cache struct {
	logger *logger.Logger

	settings models.SettingsService

	mu          sync.RWMutex
	liveTrading bool
	aiCache     bool
	reloadedAt  time.Time
}

func NewCache(settings models.SettingsService, logger *logger.Logger) *Cache {
	return &Cache{logger: logger, settings: settings}
}

// Reload re-fetches the settings aggregate and replaces the cached flags.
func (c *Cache) Reload(ctx context.Context) error {
	settings, err := c.settings.FetchSettings(ctx)
	if err != nil {
		c.logger.Error("Failed to reload feature flags ", "error ", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.liveTrading = settings.LiveTradingEnabled
	c.aiCache = settings.UseAiCache
	c.reloadedAt = time.Now()
	return nil
}

// LiveTradingEnabled reports the cached live-trading flag.
func (c *Cache) LiveTradingEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.liveTrading
}

// AiCacheEnabled reports the cached AI cache flag.
func (c *Cache) AiCacheEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.aiCache
}

// ReloadedAt returns the time of the last successful reload.
func (c *Cache) ReloadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reloadedAt
}

var _ models.FeatureFlagService = (*Cache)(nil)
