package ledger

import (
	"context"

	"borrowlend/core"

	"github.com/fox-one/pkg/store/db"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Balance{})
		if err := tx.AutoMigrate(core.Balance{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *ledgerStore) Balances(ctx context.Context) ([]*core.Balance, error) {
	var balances []*core.Balance
	if err := s.db.View().Order("id").Find(&balances).Error; err != nil {
		return nil, err
	}

	return balances, nil
}

func saveBalance(tx *db.DB, balance *core.Balance) error {
	query := tx.Update().Model(core.Balance{}).
		Where("user_id = ? AND asset_id = ? AND kind = ?", balance.UserID, balance.AssetID, balance.Kind)
	return upsert(tx, query, map[string]interface{}{"amount": balance.Amount}, balance)
}
