package closet

import (
	"skinlib-api/internal/domain/texture"
	"skinlib-api/internal/domain/user"
)

type (
	Entry struct {
		UserID    user.ID
		TextureID texture.ID
		ItemName  string
	}
	Entries []*Entry
)
