package closet

const (
	SelectEntriesByTexture = `
		SELECT user_id, texture_id, item_name
		FROM user_closet
		WHERE texture_id = $1
		ORDER BY user_id
	`
	InsertEntry = `
		INSERT INTO user_closet (user_id, texture_id, item_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, texture_id) DO NOTHING
	`
	DeleteEntry = `DELETE FROM user_closet WHERE user_id = $1 AND texture_id = $2`
)
