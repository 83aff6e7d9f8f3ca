package texture

type (
	Texture struct {
		ID         int64  `json:"tid"`
		Name       string `json:"name"`
		Type       string `json:"type"`
		Hash       string `json:"hash"`
		SizeKB     int64  `json:"size"`
		Public     bool   `json:"public"`
		UploaderID int64  `json:"uploader"`
		Likes      int64  `json:"likes"`
		UploadedAt string `json:"upload_at"`
	}
	Textures     []Texture
	ResponseData struct {
		Data       Textures `json:"data"`
		Page       int      `json:"page"`
		Total      int64    `json:"total"`
		TotalPages int64    `json:"total_pages"`
	}
	UploadResponse struct {
		TextureID   int64 `json:"tid"`
		DuplicateOf bool  `json:"duplicate_of"`
	}
	PrivacyResponse struct {
		Public bool `json:"public"`
	}
)
