package oracle

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"borrowlend/core"
	"borrowlend/pkg/lending"
	"borrowlend/pkg/number"
	"borrowlend/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Config http oracle config
type Config struct {
	EndPoint string        `json:"end_point"`
	Timeout  time.Duration `json:"timeout"`
	// MaxAge reject prices older than this, zero disables the check
	MaxAge time.Duration `json:"max_age"`
}

type priceTicker struct {
	FeedID    string          `json:"feed_id"`
	Price     decimal.Decimal `json:"price"`
	Timestamp int64           `json:"timestamp"`
}

// PriceService reads feeds from a remote price provider
type PriceService struct {
	cfg    Config
	client *resty.Client
	sf     singleflight.Group
	now    func() time.Time
}

// New new http oracle price service
func New(cfg Config) *PriceService {
	return &PriceService{
		cfg:    cfg,
		client: resthttp.New(cfg.EndPoint, cfg.Timeout),
		now:    time.Now,
	}
}

// LatestPrice pull the latest price of feedID.
//
// Concurrent calls for the same feed share one request.
func (s *PriceService) LatestPrice(ctx context.Context, feedID string) (*core.Price, error) {
	v, err, _ := s.sf.Do(feedID, func() (interface{}, error) {
		return s.pull(ctx, feedID)
	})
	if err != nil {
		return nil, err
	}

	price := v.(*core.Price)
	return &core.Price{
		FeedID:    price.FeedID,
		Value:     number.Clone(price.Value),
		Timestamp: price.Timestamp,
	}, nil
}

func (s *PriceService) pull(ctx context.Context, feedID string) (*core.Price, error) {
	log := logger.FromContext(ctx).WithField("feed", feedID)

	resp, err := resthttp.Request(ctx, s.client).Get("/api/v1/feeds/" + url.PathEscape(feedID))
	if err != nil {
		log.WithError(err).Errorln("pull price")
		return nil, err
	}

	var ticker priceTicker
	if err := resthttp.ParseResponse(resp, &ticker); err != nil {
		log.WithError(err).Errorln("parse price")
		return nil, err
	}

	if !ticker.Price.IsPositive() {
		return nil, fmt.Errorf("feed %s price %s: %w", feedID, ticker.Price, core.ErrInvalidPrice)
	}

	ts := time.Unix(ticker.Timestamp, 0)
	if s.cfg.MaxAge > 0 && s.now().Sub(ts) > s.cfg.MaxAge {
		return nil, fmt.Errorf("feed %s updated at %s: %w", feedID, ts.UTC().Format(time.RFC3339), core.ErrStalePrice)
	}

	value, err := number.FromDecimal(ticker.Price, lending.PricePrecision)
	if err != nil {
		return nil, fmt.Errorf("feed %s price %s: %w", feedID, ticker.Price, core.ErrArithmeticOverflow)
	}

	if value.IsZero() {
		return nil, fmt.Errorf("feed %s price %s: %w", feedID, ticker.Price, core.ErrInvalidPrice)
	}

	log.Debugln("price", ticker.Price)
	return &core.Price{
		FeedID:    feedID,
		Value:     value,
		Timestamp: ts,
	}, nil
}
