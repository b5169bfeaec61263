package dto

import (
	"github.com/aarondl/null/v8"

	"asset-system/pkg/types"
)

type PaginatedResponse[T any] struct {
	List       []T              `json:"list"`
	Pagination types.Pagination `json:"pagination"`
}

// NullableID - ссылка в PATCH-подобных DTO. Set выставляется, если ключ пришёл
// в JSON: явный null снимает привязку, отсутствующий ключ оставляет её как есть.
type NullableID struct {
	null.Uint64
	Set bool
}

func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	return n.Uint64.UnmarshalJSON(data)
}

func NullableIDFrom(id uint64) NullableID {
	return NullableID{Uint64: null.Uint64From(id), Set: true}
}

// ClearedID - явный null.
func ClearedID() NullableID {
	return NullableID{Set: true}
}
