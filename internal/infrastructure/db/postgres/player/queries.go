package player

import (
	"fmt"

	"skinlib-api/internal/domain/texture"
)

const playerColumns = `pid, uid, name, tid_classic, tid_slim, tid_cape`

var slotColumns = map[texture.AssetType]string{
	texture.TypeSkinClassic: "tid_classic",
	texture.TypeSkinSlim:    "tid_slim",
	texture.TypeCape:        "tid_cape",
}

func slotColumn(t texture.AssetType) (string, error) {
	col, ok := slotColumns[t]
	if !ok {
		return "", fmt.Errorf("no player slot for asset type %q", t)
	}
	return col, nil
}

func selectPlayersBySlot(col string) string {
	return `SELECT ` + playerColumns + ` FROM players WHERE ` + col + ` = $1 ORDER BY pid`
}

func clearSlot(col string) string {
	return `UPDATE players SET ` + col + ` = 0 WHERE pid = $1 AND ` + col + ` = $2`
}
