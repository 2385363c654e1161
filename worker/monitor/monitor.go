package monitor

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"borrowlend/core"
	"borrowlend/pkg/lending"
	"borrowlend/pkg/metrics"
	"borrowlend/worker"

	"github.com/fox-one/pkg/logger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const checkpointKey = "monitor_scanned_at"

// Checkpoint records the time of the last completed scan, satisfied by property.Store
type Checkpoint interface {
	Save(ctx context.Context, key string, value interface{}) error
}

// Config monitor config
type Config struct {
	Location    string
	Interval    time.Duration
	Concurrency int
	// Reload refresh the ledger before each scan when it is mutated by another process
	Reload func(ctx context.Context) error
}

// Monitor periodic health factor scan over every account
type Monitor struct {
	worker.BaseJob
	ledger      core.ILedgerService
	checkpoint  Checkpoint
	concurrency int64
	reload      func(ctx context.Context) error

	mux    sync.RWMutex
	latest *core.HealthScan
}

// New new monitor worker
func New(cfg Config, ledger core.ILedgerService, checkpoint Checkpoint) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}

	m := &Monitor{
		ledger:      ledger,
		checkpoint:  checkpoint,
		concurrency: int64(cfg.Concurrency),
		reload:      cfg.Reload,
		latest:      &core.HealthScan{Liquidatable: []*core.AccountHealth{}, Failed: []string{}},
	}

	m.Cron = worker.NewCron(cfg.Location)
	spec := fmt.Sprintf("@every %s", cfg.Interval)
	if _, err := m.Cron.AddFunc(spec, m.Run); err != nil {
		panic(err)
	}
	m.OnWork = func() error {
		return m.onWork(context.Background())
	}

	return m
}

func (m *Monitor) onWork(ctx context.Context) error {
	if m.reload != nil {
		if err := m.reload(ctx); err != nil {
			logger.FromContext(ctx).WithError(err).Errorln("reload ledger")
			return err
		}
	}

	_, err := m.Scan(ctx)
	return err
}

// Latest result of the last completed scan
func (m *Monitor) Latest() *core.HealthScan {
	m.mux.RLock()
	defer m.mux.RUnlock()

	return m.latest
}

// Scan compute the health factor of every account, lowest first among the liquidatable ones
func (m *Monitor) Scan(ctx context.Context) (*core.HealthScan, error) {
	log := logger.FromContext(ctx).WithField("worker", "monitor")
	start := time.Now()

	accounts := m.ledger.Accounts(ctx)
	results := make([]*core.AccountHealth, len(accounts))

	sem := semaphore.NewWeighted(m.concurrency)
	g, gctx := errgroup.WithContext(ctx)

	for idx, userID := range accounts {
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}

		idx, userID := idx, userID
		g.Go(func() error {
			defer sem.Release(1)

			info, err := m.ledger.UserInformation(gctx, userID)
			if err != nil {
				log.WithError(err).WithField("user_id", userID).Warnln("UserInformation")
				return nil
			}

			hf, err := lending.HealthFactor(info.DepositUsd, info.BorrowUsd)
			if err != nil {
				log.WithError(err).WithField("user_id", userID).Warnln("HealthFactor")
				return nil
			}

			results[idx] = &core.AccountHealth{
				UserID:       userID,
				HealthFactor: hf,
				DepositUsd:   info.DepositUsd,
				BorrowUsd:    info.BorrowUsd,
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scan := &core.HealthScan{
		Accounts:     len(accounts),
		Liquidatable: []*core.AccountHealth{},
		Failed:       []string{},
		ScannedAt:    time.Now(),
	}

	for idx, h := range results {
		switch {
		case h == nil:
			scan.Failed = append(scan.Failed, accounts[idx])
		case !lending.Healthy(h.HealthFactor):
			scan.Liquidatable = append(scan.Liquidatable, h)
		}
	}

	sort.Slice(scan.Liquidatable, func(i, j int) bool {
		return scan.Liquidatable[i].HealthFactor.Lt(scan.Liquidatable[j].HealthFactor)
	})

	m.mux.Lock()
	m.latest = scan
	m.mux.Unlock()

	metrics.Ledger().ObserveScan(scan.Accounts, len(scan.Liquidatable), len(scan.Failed), time.Since(start))

	if m.checkpoint != nil {
		if err := m.checkpoint.Save(ctx, checkpointKey, scan.ScannedAt); err != nil {
			log.WithError(err).Errorln("property.Save", checkpointKey)
		}
	}

	if len(scan.Liquidatable) > 0 {
		log.WithField("liquidatable", len(scan.Liquidatable)).Infoln("unhealthy accounts found")
	}

	if len(scan.Failed) > 0 {
		log.WithField("failed", len(scan.Failed)).Warnln("accounts left unvalued")
	}

	return scan, nil
}
