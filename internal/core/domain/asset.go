package domain

// AssetType identifies a supported fungible asset.
type AssetType string

const (
	AssetXRP AssetType = "XRP"
	AssetSOL AssetType = "SOL"
	AssetBTC AssetType = "BTC"
)

// Valid reports whether the asset type is one of the supported kinds.
func (a AssetType) Valid() bool {
	switch a {
	case AssetXRP, AssetSOL, AssetBTC:
		return true
	}
	return false
}

// Decimals returns the number of decimal places in the asset's canonical
// representation (XRP drops = 1e-6 XRP, SOL lamports = 1e-9 SOL).
func (a AssetType) Decimals() int32 {
	switch a {
	case AssetXRP:
		return 6
	case AssetSOL:
		return 9
	case AssetBTC:
		return 8
	}
	return 0
}
