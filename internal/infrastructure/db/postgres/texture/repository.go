package texture

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"skinlib-api/internal/domain/texture"
	"skinlib-api/internal/domain/user"
	"skinlib-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) texture.Repository {
	return &Repository{db: db}
}

func scanTexture(row pgx.Row) (*Texture, error) {
	t := new(Texture)
	err := row.Scan(
		&t.TID,
		&t.Name,
		&t.Type,
		&t.Hash,
		&t.Size,
		&t.Public,
		&t.Uploader,
		&t.Likes,
		&t.UploadAt,
	)

	return t, err
}

// fetchOne maps pgx.ErrNoRows to an absent record.
func (r *Repository) fetchOne(ctx context.Context, query string, args ...any) (*texture.Texture, error) {
	t, err := scanTexture(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(t), nil
}

func (r *Repository) fetchMany(ctx context.Context, query string, args ...any) (texture.Textures, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ts := Textures{}
	for rows.Next() {
		t, err := scanTexture(rows)
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(&ts), nil
}

func (r *Repository) CreateTexture(ctx context.Context, d texture.Descriptor, uploader user.ID) (*texture.Texture, error) {
	t, err := scanTexture(r.db.QueryRow(
		ctx,
		InsertTexture,
		d.Name, string(d.Type), d.Hash, d.SizeKB, d.Public, int64(uploader),
	))
	if err != nil {
		return nil, fmt.Errorf("insert texture: %w", err)
	}

	return fromDBModel(t), nil
}

func (r *Repository) FetchTextureByID(ctx context.Context, id texture.ID) (*texture.Texture, error) {
	return r.fetchOne(ctx, SelectTextureByID, int64(id))
}

func (r *Repository) FetchTexturesByHash(ctx context.Context, hash string) (texture.Textures, error) {
	return r.fetchMany(ctx, SelectTexturesByHash, hash)
}

func (r *Repository) FetchTextures(ctx context.Context, q texture.Query) (texture.Textures, int64, error) {
	where, args := buildWhere(q)

	var total int64
	if err := r.db.QueryRow(ctx, countTextures+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count textures: %w", err)
	}
	if total == 0 {
		return texture.Textures{}, 0, nil
	}

	order, ok := orderBy[string(q.Sort)]
	if !ok {
		order = orderBy[string(texture.SortTime)]
	}
	offset := (texture.NormalizePage(q.Page) - 1) * texture.PageSize
	args = append(args, offset)
	query := fmt.Sprintf("%s%s ORDER BY %s LIMIT %d OFFSET $%d",
		selectTexturesPage, where, order, texture.PageSize, len(args))

	ts, err := r.fetchMany(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select textures: %w", err)
	}

	return ts, total, nil
}

// buildWhere renders the filter and visibility of q as a WHERE clause with
// positional arguments.
func buildWhere(q texture.Query) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if q.Filter.Type != "" {
		types := q.Filter.Type.Types()
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = string(t)
		}
		conds = append(conds, "type = ANY("+arg(names)+")")
	}
	if q.Filter.UploaderID != 0 {
		conds = append(conds, "uploader = "+arg(int64(q.Filter.UploaderID)))
	}
	if q.Filter.Query != "" {
		conds = append(conds, "name ILIKE "+arg("%"+escapeLike(q.Filter.Query)+"%"))
	}
	if !q.Visibility.All {
		if q.Visibility.ViewerID == 0 {
			conds = append(conds, "public")
		} else {
			conds = append(conds, "(public OR uploader = "+arg(int64(q.Visibility.ViewerID))+")")
		}
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func (r *Repository) RenameTexture(ctx context.Context, id texture.ID, name string) (*texture.Texture, error) {
	return r.fetchOne(ctx, UpdateTextureName, int64(id), name)
}

func (r *Repository) UpdatePrivacy(ctx context.Context, id texture.ID, public bool) (*texture.Texture, error) {
	return r.fetchOne(ctx, UpdateTexturePrivacy, int64(id), public)
}

func (r *Repository) AdjustLikes(ctx context.Context, id texture.ID, delta int64) error {
	_, err := r.db.Exec(ctx, UpdateTextureLikes, int64(id), delta)
	return err
}

func (r *Repository) DeleteTexture(ctx context.Context, id texture.ID) error {
	_, err := r.db.Exec(ctx, DeleteTextureByID, int64(id))
	return err
}
