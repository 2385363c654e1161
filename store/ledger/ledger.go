package ledger

import (
	"context"
	"time"

	"borrowlend/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type ledgerStore struct {
	db *db.DB
}

// New new ledger store
func New(db *db.DB) core.LedgerStore {
	return &ledgerStore{
		db: db,
	}
}

func (s *ledgerStore) Commit(ctx context.Context, cs *core.Changeset) error {
	return s.db.Tx(func(tx *db.DB) error {
		for _, asset := range cs.Assets {
			if err := saveAsset(tx, asset); err != nil {
				return err
			}
		}

		for _, balance := range cs.Balances {
			if err := saveBalance(tx, balance); err != nil {
				return err
			}
		}

		for _, event := range cs.Events {
			if err := tx.Update().Create(event).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// upsert apply values to the rows selected by query, create row when none matched
func upsert(tx *db.DB, query *gorm.DB, values map[string]interface{}, row interface{}) error {
	values["updated_at"] = time.Now()

	update := query.Updates(values)
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected > 0 {
		return nil
	}

	return tx.Update().Create(row).Error
}
