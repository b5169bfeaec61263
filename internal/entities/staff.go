package entities

import (
	"asset-system/pkg/types"
)

type Staff struct {
	ID           uint64  `json:"id"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	PhoneNumber  *string `json:"phone_number"`
	Position     string  `json:"position"`
	Department   string  `json:"department"`
	Status       string  `json:"status"`
	PasswordHash string  `json:"-"`

	types.BaseEntity
}
