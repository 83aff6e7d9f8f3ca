package player

import (
	"skinlib-api/internal/domain/texture"
	"skinlib-api/internal/domain/user"
)

type (
	ID int64

	// Player carries one equipment slot per asset type; 0 means none.
	Player struct {
		ID      ID
		OwnerID user.ID
		Name    string
		Slots   map[texture.AssetType]texture.ID
	}
	Players []*Player
)
