package ports

import (
	"context"

	"skinlib-api/internal/domain/texture"
	"skinlib-api/internal/domain/user"
)

type TextureService interface {
	ListTextures(ctx context.Context, actor *user.Actor, f texture.Filter, sort texture.SortKey, page int) (*texture.Page, error)
	GetTexture(ctx context.Context, actor *user.Actor, id texture.ID) (*texture.Texture, error)
	GetTextureInfo(ctx context.Context, id texture.ID) (*texture.Texture, error)
	UploadTexture(ctx context.Context, actor *user.Actor, in texture.Upload) (*texture.Texture, error)
	RenameTexture(ctx context.Context, actor *user.Actor, id texture.ID, name string) (*texture.Texture, error)
	DeleteTexture(ctx context.Context, actor *user.Actor, id texture.ID) error
	TogglePrivacy(ctx context.Context, actor *user.Actor, id texture.ID) (bool, error)
	SetPrivacy(ctx context.Context, actor *user.Actor, id texture.ID, public bool) (bool, error)
}
