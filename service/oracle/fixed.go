package oracle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"borrowlend/core"
	"borrowlend/pkg/number"

	"github.com/holiman/uint256"
)

// Fixed in-memory settable prices
type Fixed struct {
	mux    sync.RWMutex
	prices map[string]*core.Price
}

// NewFixed new fixed price oracle
func NewFixed() *Fixed {
	return &Fixed{
		prices: make(map[string]*core.Price),
	}
}

// SetPrice set the 18-decimal price of feedID
func (o *Fixed) SetPrice(feedID string, price *uint256.Int) {
	o.mux.Lock()
	defer o.mux.Unlock()

	o.prices[feedID] = &core.Price{
		FeedID:    feedID,
		Value:     number.Clone(price),
		Timestamp: time.Now(),
	}
}

// LatestPrice latest price of feedID
func (o *Fixed) LatestPrice(ctx context.Context, feedID string) (*core.Price, error) {
	o.mux.RLock()
	defer o.mux.RUnlock()

	price, ok := o.prices[feedID]
	if !ok {
		return nil, fmt.Errorf("feed %s not found: %w", feedID, core.ErrInvalidPrice)
	}

	return &core.Price{
		FeedID:    price.FeedID,
		Value:     number.Clone(price.Value),
		Timestamp: price.Timestamp,
	}, nil
}
