package texture

import "skinlib-api/internal/domain/user"

const PageSize = 20

type SortKey string

const (
	SortTime  SortKey = "time"
	SortLikes SortKey = "likes"
	SortSize  SortKey = "size"
	SortName  SortKey = "name"
)

func (s SortKey) Valid() bool {
	switch s {
	case SortTime, SortLikes, SortSize, SortName:
		return true
	}
	return false
}

type (
	Filter struct {
		Type       AssetType
		UploaderID user.ID // 0 means any uploader
		Query      string
	}

	// Visibility restricts a query to what a viewer may see. All lifts the
	// restriction; otherwise public records plus ViewerID's own are returned.
	Visibility struct {
		All      bool
		ViewerID user.ID // 0 for anonymous
	}

	Query struct {
		Filter     Filter
		Visibility Visibility
		Sort       SortKey
		Page       int
	}
)

// VisibilityFor derives the listing restriction for an actor.
func VisibilityFor(actor *user.Actor) Visibility {
	switch {
	case actor == nil:
		return Visibility{}
	case actor.IsAdmin():
		return Visibility{All: true}
	default:
		return Visibility{ViewerID: actor.ID}
	}
}

// NormalizePage clamps a 1-indexed page number.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func TotalPages(total int64) int64 {
	return (total + PageSize - 1) / PageSize
}

type Page struct {
	Items      Textures
	Total      int64
	Page       int
	TotalPages int64
}
