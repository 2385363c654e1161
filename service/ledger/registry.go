package ledger

import (
	"borrowlend/core"
)

// registry allowed assets in insertion order plus the native feed binding
type registry struct {
	assets     []*core.Asset
	nativeFeed string
}

func (r *registry) load(assets []*core.Asset) {
	r.assets = r.assets[:0]
	r.nativeFeed = ""

	for _, asset := range assets {
		if asset.AssetID == core.NativeAssetID {
			r.nativeFeed = asset.FeedID
			continue
		}

		if asset.FeedID == "" {
			continue
		}

		r.assets = append(r.assets, asset)
	}
}

func (r *registry) find(assetID string) *core.Asset {
	for _, asset := range r.assets {
		if asset.AssetID == assetID {
			return asset
		}
	}

	return nil
}

// feed feed id bound to assetID, native included
func (r *registry) feed(assetID string) (string, bool) {
	if assetID == core.NativeAssetID {
		return r.nativeFeed, r.nativeFeed != ""
	}

	if asset := r.find(assetID); asset != nil {
		return asset.FeedID, true
	}

	return "", false
}

func (r *registry) allowed(assetID string) bool {
	return assetID != core.NativeAssetID && r.find(assetID) != nil
}

func (r *registry) list() []*core.Asset {
	assets := make([]*core.Asset, 0, len(r.assets))
	for _, asset := range r.assets {
		clone := *asset
		assets = append(assets, &clone)
	}

	return assets
}
