package texture

import (
	"context"

	"skinlib-api/internal/domain/user"
)

// Repository owns texture records. Absent records are reported as nil, nil.
type Repository interface {
	CreateTexture(ctx context.Context, d Descriptor, uploader user.ID) (*Texture, error)
	FetchTextureByID(ctx context.Context, id ID) (*Texture, error)
	FetchTexturesByHash(ctx context.Context, hash string) (Textures, error)
	FetchTextures(ctx context.Context, q Query) (Textures, int64, error)
	RenameTexture(ctx context.Context, id ID, name string) (*Texture, error)
	UpdatePrivacy(ctx context.Context, id ID, public bool) (*Texture, error)
	AdjustLikes(ctx context.Context, id ID, delta int64) error
	DeleteTexture(ctx context.Context, id ID) error
}
