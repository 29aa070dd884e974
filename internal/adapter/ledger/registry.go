package ledger

import (
	"github.com/plakshaa/xrplwallet/internal/core/domain"
	"github.com/plakshaa/xrplwallet/internal/core/ports"
)

// Registry maps asset types to their ledger adapters. It is populated once
// at startup and resolved at the orchestration boundary, so no code path
// branches on asset type tags directly.
type Registry struct {
	adapters map[domain.AssetType]ports.LedgerAdapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[domain.AssetType]ports.LedgerAdapter)}
}

// Install binds an adapter to an asset type. Later installs replace earlier
// ones; registration-only assets are simply never installed.
func (r *Registry) Install(asset domain.AssetType, adapter ports.LedgerAdapter) {
	r.adapters[asset] = adapter
}

// ForAsset returns the adapter for an asset, or false when the asset has no
// queryable ledger.
func (r *Registry) ForAsset(asset domain.AssetType) (ports.LedgerAdapter, bool) {
	adapter, ok := r.adapters[asset]
	return adapter, ok
}
