package player

import (
	"context"

	"skinlib-api/internal/domain/player"
	"skinlib-api/internal/domain/texture"
	"skinlib-api/internal/domain/user"
	"skinlib-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) player.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchPlayersBySlot(ctx context.Context, t texture.AssetType, tid texture.ID) (player.Players, error) {
	col, err := slotColumn(t)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, selectPlayersBySlot(col), int64(tid))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ps := player.Players{}
	for rows.Next() {
		var (
			pid, uid              int64
			name                  string
			classic, slim, capeID int64
		)
		if err = rows.Scan(&pid, &uid, &name, &classic, &slim, &capeID); err != nil {
			return nil, err
		}
		ps = append(ps, &player.Player{
			ID:      player.ID(pid),
			OwnerID: user.ID(uid),
			Name:    name,
			Slots: map[texture.AssetType]texture.ID{
				texture.TypeSkinClassic: texture.ID(classic),
				texture.TypeSkinSlim:    texture.ID(slim),
				texture.TypeCape:        texture.ID(capeID),
			},
		})
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return ps, nil
}

func (r *Repository) ClearSlot(ctx context.Context, pid player.ID, t texture.AssetType, tid texture.ID) error {
	col, err := slotColumn(t)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, clearSlot(col), int64(pid), int64(tid))
	return err
}
