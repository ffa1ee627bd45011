package core

import (
	"github.com/google/uuid"
)

// AssetId names a GPU side resource such as a texture. The zero value means
// "none".
type AssetId string

func NewAssetId() AssetId {
	return AssetId(uuid.NewString())
}

func (id AssetId) Valid() bool {
	return id != ""
}
