package config

import (
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cast"
)

// Config borrowlend config
type Config struct {
	App         App         `json:"app"`
	DB          db.Config   `json:"db"`
	PriceOracle PriceOracle `json:"price_oracle"`
	Assets      []Asset     `json:"assets"`
	Admins      []string    `json:"admins"`
}

// IsAdmin check if the user is admin
func (c *Config) IsAdmin(userID string) bool {
	for _, a := range c.Admins {
		if a == userID {
			return true
		}
	}

	return false
}

// App app config
type App struct {
	// CustodyID account holding the pooled assets
	CustodyID  string `json:"custody_id" valid:"required"`
	NativeFeed string `json:"native_feed"`
	Location   string `json:"location"`
	// MonitorInterval duration string, 1m by default
	MonitorInterval    string `json:"monitor_interval"`
	MonitorConcurrency int    `json:"monitor_concurrency"`
}

// MonitorEvery parsed monitor interval
func (a App) MonitorEvery() time.Duration {
	if d := cast.ToDuration(a.MonitorInterval); d > 0 {
		return d
	}

	return time.Minute
}

// PriceOracle price oracle config, an empty end point selects the fixed oracle
type PriceOracle struct {
	EndPoint string `json:"end_point"`
	Timeout  string `json:"timeout"`
	MaxAge   string `json:"max_age"`
}

// Asset registry entry seeded on boot
type Asset struct {
	AssetID string `json:"asset_id" valid:"required"`
	FeedID  string `json:"feed_id" valid:"required"`
}
