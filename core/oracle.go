package core

import (
	"context"
	"time"

	"github.com/holiman/uint256"
)

// Price latest feed value, 18-decimal fixed-point usd per whole unit
type Price struct {
	FeedID    string       `json:"feed_id"`
	Value     *uint256.Int `json:"value"`
	Timestamp time.Time    `json:"timestamp"`
}

// IPriceOracleService external price source keyed by feed id
type IPriceOracleService interface {
	LatestPrice(ctx context.Context, feedID string) (*Price, error)
}
