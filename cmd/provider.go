package cmd

import (
	"context"

	"borrowlend/core"
	"borrowlend/handler/rest"
	"borrowlend/service/bank"
	"borrowlend/service/ledger"
	"borrowlend/service/oracle"
	ledgerstore "borrowlend/store/ledger"
	"borrowlend/worker/monitor"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// provideDatabase nil when no dialect is configured, the ledger then lives in memory
func provideDatabase() *db.DB {
	if cfg.DB.Dialect == "" {
		return nil
	}

	return db.MustOpen(cfg.DB)
}

// ---------------store-----------------------------------------

func providePropertyStore(database *db.DB) property.Store {
	return propertystore.New(database)
}

func provideLedgerStore(database *db.DB) core.LedgerStore {
	if database == nil {
		return ledgerstore.NewMemory()
	}

	return ledgerstore.New(database)
}

// ------------------service------------------------------------

// provideBank in-memory custody, persisted deposits have no custody holdings after a restart
func provideBank() *bank.Bank {
	if cfg.DB.Dialect != "" {
		logrus.WithField("dialect", cfg.DB.Dialect).
			Warnln("custody bank is memory only, persisted deposits are not backed by custody holdings after a restart")
	}

	return bank.New(cfg.App.CustodyID)
}

// provideOracle http oracle when an end point is configured, a settable fixed oracle otherwise
func provideOracle() (core.IPriceOracleService, rest.PriceSetter) {
	if cfg.PriceOracle.EndPoint == "" {
		fixed := oracle.NewFixed()
		return fixed, fixed
	}

	return oracle.New(oracle.Config{
		EndPoint: cfg.PriceOracle.EndPoint,
		Timeout:  cast.ToDuration(cfg.PriceOracle.Timeout),
		MaxAge:   cast.ToDuration(cfg.PriceOracle.MaxAge),
	}), nil
}

// provideLedgerService load persisted state then seed the registry from config
func provideLedgerService(
	ctx context.Context,
	store core.LedgerStore,
	prices core.IPriceOracleService,
	b *bank.Bank,
) *ledger.Service {
	log := logger.FromContext(ctx)

	svc := ledger.New(ledger.Config{CustodyID: cfg.App.CustodyID}, store, prices, b, b)
	if err := svc.Load(ctx); err != nil {
		log.WithError(err).Panicln("load ledger")
	}

	if feed := cfg.App.NativeFeed; feed != "" {
		if err := svc.SetNativeFeed(ctx, feed); err != nil {
			log.WithError(err).Panicln("SetNativeFeed", feed)
		}
	}

	for _, asset := range cfg.Assets {
		if err := svc.SetAsset(ctx, asset.AssetID, asset.FeedID); err != nil {
			log.WithError(err).Panicln("SetAsset", asset.AssetID)
		}
	}

	return svc
}

func provideMonitor(database *db.DB, svc *ledger.Service, reload bool) *monitor.Monitor {
	monitorCfg := monitor.Config{
		Location:    cfg.App.Location,
		Interval:    cfg.App.MonitorEvery(),
		Concurrency: cfg.App.MonitorConcurrency,
	}

	if reload {
		monitorCfg.Reload = svc.Load
	}

	var checkpoint monitor.Checkpoint
	if database != nil {
		checkpoint = providePropertyStore(database)
	}

	return monitor.New(monitorCfg, svc, checkpoint)
}
