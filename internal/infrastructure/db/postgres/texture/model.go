package texture

import (
	"time"
)

type (
	Texture struct {
		TID      int64
		Name     string
		Type     string
		Hash     string
		Size     int64
		Public   bool
		Uploader int64
		Likes    int64
		UploadAt time.Time
	}
	Textures []*Texture
)
