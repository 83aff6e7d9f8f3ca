package closet

import (
	"context"

	"skinlib-api/internal/domain/closet"
	"skinlib-api/internal/domain/texture"
	"skinlib-api/internal/domain/user"
	"skinlib-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) closet.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchEntriesByTexture(ctx context.Context, tid texture.ID) (closet.Entries, error) {
	rows, err := r.db.Query(ctx, SelectEntriesByTexture, int64(tid))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	es := closet.Entries{}
	for rows.Next() {
		var (
			uid, id int64
			name    string
		)
		if err = rows.Scan(&uid, &id, &name); err != nil {
			return nil, err
		}
		es = append(es, &closet.Entry{
			UserID:    user.ID(uid),
			TextureID: texture.ID(id),
			ItemName:  name,
		})
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return es, nil
}

// AddEntry reports false when the texture already is in the user's closet.
func (r *Repository) AddEntry(ctx context.Context, uid user.ID, tid texture.ID, name string) (bool, error) {
	tag, err := r.db.Exec(ctx, InsertEntry, int64(uid), int64(tid), name)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

func (r *Repository) RemoveEntry(ctx context.Context, uid user.ID, tid texture.ID) error {
	_, err := r.db.Exec(ctx, DeleteEntry, int64(uid), int64(tid))
	return err
}
