package texture

import (
	"time"

	"skinlib-api/internal/domain/user"
)

type (
	ID        int64
	AssetType string

	Texture struct {
		ID         ID
		Name       string
		Type       AssetType
		Hash       string
		SizeKB     int64
		Public     bool
		UploaderID user.ID
		UploadedAt time.Time
		Likes      int64
	}
	Textures []*Texture

	// Descriptor is a validated upload, ready to be persisted.
	Descriptor struct {
		Name   string
		Type   AssetType
		SizeKB int64
		Hash   string
		Public bool
	}
)

const (
	TypeSkinClassic AssetType = "skin-classic"
	TypeSkinSlim    AssetType = "skin-slim"
	TypeCape        AssetType = "cape"

	// TypeSkinGroup is only valid as a listing filter and matches both skin models.
	TypeSkinGroup AssetType = "skin"
)

func (t AssetType) IsSkin() bool { return t == TypeSkinClassic || t == TypeSkinSlim }

func (t AssetType) Valid() bool { return t.IsSkin() || t == TypeCape }

// Types expands a listing filter into the concrete asset types it matches.
func (t AssetType) Types() []AssetType {
	if t == TypeSkinGroup {
		return []AssetType{TypeSkinClassic, TypeSkinSlim}
	}
	return []AssetType{t}
}
