package cmd

import (
	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "borrowlend health factor monitor",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		if database == nil {
			log.Fatalln("worker requires a database, the in-memory ledger is only visible to the server")
		}

		prices, _ := provideOracle()
		svc := provideLedgerService(ctx, provideLedgerStore(database), prices, provideBank())

		m := provideMonitor(database, svc, true)
		_ = m.Start()

		ctx = signal.WithContext(ctx)
		<-ctx.Done()

		_ = m.Stop()
		log.Infoln("worker stopped")
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
