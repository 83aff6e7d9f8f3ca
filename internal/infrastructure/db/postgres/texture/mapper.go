package texture

import (
	domain "skinlib-api/internal/domain/texture"
	"skinlib-api/internal/domain/user"
)

func fromDBModel(model *Texture) *domain.Texture {
	var t = &domain.Texture{
		ID:         domain.ID(model.TID),
		Name:       model.Name,
		Type:       domain.AssetType(model.Type),
		Hash:       model.Hash,
		SizeKB:     model.Size,
		Public:     model.Public,
		UploaderID: user.ID(model.Uploader),
		Likes:      model.Likes,
		UploadedAt: model.UploadAt,
	}

	return t
}

func fromDBModels(models *Textures) domain.Textures {
	ts := make(domain.Textures, len(*models))
	for idx, t := range *models {
		ts[idx] = fromDBModel(t)
	}

	return ts
}
