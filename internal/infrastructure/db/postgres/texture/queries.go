package texture

const (
	textureColumns = `tid, name, type, hash, size, public, uploader, likes, upload_at`

	SelectTextureByID = `
		SELECT ` + textureColumns + `
		FROM textures
		WHERE tid = $1
	`
	SelectTexturesByHash = `
		SELECT ` + textureColumns + `
		FROM textures
		WHERE hash = $1
		ORDER BY tid
	`
	InsertTexture = `
		INSERT INTO textures (name, type, hash, size, public, uploader, likes, upload_at)
		VALUES ($1, $2, $3, $4, $5, $6, 1, now())
		RETURNING ` + textureColumns
	UpdateTextureName = `
		UPDATE textures
		SET name = $2
		WHERE tid = $1
		RETURNING ` + textureColumns
	UpdateTexturePrivacy = `
		UPDATE textures
		SET public = $2
		WHERE tid = $1
		RETURNING ` + textureColumns
	// the uploader's own like is never taken away
	UpdateTextureLikes = `
		UPDATE textures
		SET likes = GREATEST(likes + $2, 1)
		WHERE tid = $1
	`
	DeleteTextureByID = `DELETE FROM textures WHERE tid = $1`

	selectTexturesPage = `SELECT ` + textureColumns + ` FROM textures`
	countTextures      = `SELECT count(*) FROM textures`
)

var orderBy = map[string]string{
	"time":  "upload_at DESC, tid DESC",
	"likes": "likes DESC, tid DESC",
	"size":  "size DESC, tid DESC",
	"name":  "name DESC, tid DESC",
}
