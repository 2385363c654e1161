package cmd

import (
	"errors"

	"borrowlend/core"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "manage the asset registry",
}

var assetListCmd = &cobra.Command{
	Use:   "list",
	Short: "list registered assets and the native feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		assets, err := provideLedgerStore(provideDatabase()).Assets(ctx)
		if err != nil {
			return err
		}

		for _, asset := range assets {
			cmd.Println(asset.AssetID, asset.FeedID)
		}

		return nil
	},
}

var assetSetCmd = &cobra.Command{
	Use:   "set",
	Short: "bind an asset, or the native currency with --native, to a price feed",
	Long: `flags->
asset: asset id
feed: price feed id
native: bind the native currency`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)

		assetID, _ := cmd.Flags().GetString("asset")
		feedID, _ := cmd.Flags().GetString("feed")
		native, _ := cmd.Flags().GetBool("native")

		database := provideDatabase()
		if database == nil {
			return errors.New("asset set requires a database")
		}

		prices, _ := provideOracle()
		svc := provideLedgerService(ctx, provideLedgerStore(database), prices, provideBank())

		var err error
		if native {
			assetID = core.NativeAssetID
			err = svc.SetNativeFeed(ctx, feedID)
		} else {
			err = svc.SetAsset(ctx, assetID, feedID)
		}

		if err != nil {
			return err
		}

		log.WithField("asset_id", assetID).WithField("feed_id", feedID).Infoln("feed bound")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(assetCmd)
	assetCmd.AddCommand(assetListCmd, assetSetCmd)

	assetSetCmd.Flags().String("asset", "", "asset id")
	assetSetCmd.Flags().String("feed", "", "price feed id")
	assetSetCmd.Flags().Bool("native", false, "bind the native currency")
}
