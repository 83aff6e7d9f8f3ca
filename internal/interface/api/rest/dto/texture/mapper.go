package texture

import (
	"skinlib-api/internal/domain/texture"
)

const uploadedAtLayout = "2006-01-02 15:04:05"

func ToResponseTexture(tDomain texture.Texture) Texture {
	var t = Texture{
		ID:         int64(tDomain.ID),
		Name:       tDomain.Name,
		Type:       string(tDomain.Type),
		Hash:       tDomain.Hash,
		SizeKB:     tDomain.SizeKB,
		Public:     tDomain.Public,
		UploaderID: int64(tDomain.UploaderID),
		Likes:      tDomain.Likes,
		UploadedAt: tDomain.UploadedAt.Format(uploadedAtLayout),
	}

	return t
}

func ToResponseTextures(tsDomain texture.Textures) Textures {
	ts := make(Textures, len(tsDomain))
	for idx, t := range tsDomain {
		ts[idx] = ToResponseTexture(*t)
	}

	return ts
}

func ToResponsePage(p texture.Page) ResponseData {
	return ResponseData{
		Data:       ToResponseTextures(p.Items),
		Page:       p.Page,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}
