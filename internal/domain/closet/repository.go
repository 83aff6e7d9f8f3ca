package closet

import (
	"context"

	"skinlib-api/internal/domain/texture"
	"skinlib-api/internal/domain/user"
)

// Repository is the part of the user-collection store the texture library
// touches. Remove of a missing entry is a no-op.
type Repository interface {
	FetchEntriesByTexture(ctx context.Context, tid texture.ID) (Entries, error)
	AddEntry(ctx context.Context, uid user.ID, tid texture.ID, name string) (bool, error)
	RemoveEntry(ctx context.Context, uid user.ID, tid texture.ID) error
}
