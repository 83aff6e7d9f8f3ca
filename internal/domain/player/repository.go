package player

import (
	"context"

	"skinlib-api/internal/domain/texture"
)

// Repository only ever clears slots on behalf of the texture library.
// ClearSlot resets the slot only while it still holds tid, so clearing an
// empty or re-equipped slot is a no-op.
type Repository interface {
	FetchPlayersBySlot(ctx context.Context, t texture.AssetType, tid texture.ID) (Players, error)
	ClearSlot(ctx context.Context, pid ID, t texture.AssetType, tid texture.ID) error
}
