package views

import (
	"borrowlend/core"
)

// Asset registry entry
type Asset struct {
	AssetID string `json:"asset_id"`
	FeedID  string `json:"feed_id"`
	Native  bool   `json:"native,omitempty"`
}

// Assets registry entries in enumeration order, the native binding first
func Assets(assets []*core.Asset, nativeFeed string) []Asset {
	views := make([]Asset, 0, len(assets)+1)
	if nativeFeed != "" {
		views = append(views, Asset{AssetID: core.NativeAssetID, FeedID: nativeFeed, Native: true})
	}

	for _, asset := range assets {
		views = append(views, Asset{AssetID: asset.AssetID, FeedID: asset.FeedID})
	}

	return views
}
