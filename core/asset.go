package core

import "time"

// NativeAssetID pseudo asset id of the native currency.
//
// The native asset is never a registry member; it keeps its own deposit
// mapping and its own feed binding.
const NativeAssetID = "native"

// Asset registry entry, an asset is allowed iff FeedID is not empty.
//
// The native feed binding is stored as the row with AssetID == NativeAssetID.
type Asset struct {
	ID        uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"-"`
	AssetID   string    `sql:"size:64;unique_index:asset_idx" json:"asset_id"`
	FeedID    string    `sql:"size:128" json:"feed_id"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}
