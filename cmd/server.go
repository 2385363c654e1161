package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"borrowlend/handler"
	"borrowlend/handler/hc"
	"borrowlend/handler/rest"
	"borrowlend/pkg/metrics"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run borrowlend api server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		store := provideLedgerStore(database)
		b := provideBank()
		prices, setter := provideOracle()
		svc := provideLedgerService(ctx, store, prices, b)

		m := provideMonitor(database, svc, false)
		_ = m.Start()
		defer m.Stop()

		var pingers []hc.Pinger
		if database != nil {
			pingers = append(pingers, func(ctx context.Context) error {
				return database.Update().DB().PingContext(ctx)
			})
		}

		api := handler.New(rest.Config{
			Ledger:  svc,
			Events:  store,
			Monitor: m,
			Prices:  setter,
			Minter:  b,
			IsAdmin: cfg.IsAdmin,
		})

		mux := chi.NewMux()
		mux.Use(middleware.Recoverer)
		mux.Use(middleware.StripSlashes)
		mux.Use(cors.AllowAll().Handler)
		mux.Use(logger.WithRequestID)
		mux.Use(middleware.Logger)
		mux.Use(middleware.NewCompressor(5).Handler)

		{
			//hc
			mux.Mount("/hc", hc.Handle(rootCmd.Version, pingers...))
		}

		{
			//metrics
			mux.Mount("/metrics", metrics.Handler())
		}

		{
			//restful api
			mux.Mount("/api", api.HandleRestAPI())
		}

		port, _ := cmd.Flags().GetInt("port")
		addr := fmt.Sprintf(":%d", port)

		server := &http.Server{
			Addr:    addr,
			Handler: mux,
		}

		ctx, quit := context.WithCancel(ctx)
		done := make(chan struct{}, 1)
		signal.WithContextFunc(ctx, func() {
			quit()

			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			close(done)
		})

		logrus.Infoln("serve at", addr)
		err := server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server aborted")
		}

		<-done
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 9000, "server port")
}
