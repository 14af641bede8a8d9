package vfx

import (
	"github.com/google/uuid"
)

// AssetId names an effect asset. Effect instances spawned from the same asset
// share a particle layout, so the id doubles as the effect cache tag.
type AssetId string

func NewAssetId() AssetId {
	return AssetId(uuid.NewString())
}

// ParseAssetId accepts any textual UUID form and returns it normalised.
func ParseAssetId(s string) (AssetId, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return AssetId(u.String()), nil
}

func (id AssetId) String() string { return string(id) }
