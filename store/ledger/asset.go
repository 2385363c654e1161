package ledger

import (
	"context"

	"borrowlend/core"

	"github.com/fox-one/pkg/store/db"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Asset{})
		if err := tx.AutoMigrate(core.Asset{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *ledgerStore) Assets(ctx context.Context) ([]*core.Asset, error) {
	var assets []*core.Asset
	if err := s.db.View().Order("id").Find(&assets).Error; err != nil {
		return nil, err
	}

	return assets, nil
}

// saveAsset upsert the feed binding, new rows get the next id and so keep enumeration order
func saveAsset(tx *db.DB, asset *core.Asset) error {
	query := tx.Update().Model(core.Asset{}).Where("asset_id = ?", asset.AssetID)
	return upsert(tx, query, map[string]interface{}{"feed_id": asset.FeedID}, asset)
}
