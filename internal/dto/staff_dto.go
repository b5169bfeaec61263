package dto

import "github.com/aarondl/null/v8"

type CreateStaffDTO struct {
	FullName    string      `json:"full_name" validate:"required,max=255"`
	Email       string      `json:"email" validate:"required,email"`
	PhoneNumber null.String `json:"phone_number"`
	Position    string      `json:"position" validate:"omitempty,max=100"`
	Department  string      `json:"department" validate:"omitempty,max=100"`
	Status      string      `json:"status" validate:"omitempty,oneof=active inactive"`
	Password    string      `json:"password" validate:"required,min=6"`
}

type UpdateStaffDTO struct {
	FullName    *string     `json:"full_name" validate:"omitempty,max=255"`
	Email       *string     `json:"email" validate:"omitempty,email"`
	PhoneNumber null.String `json:"phone_number"`
	Position    *string     `json:"position" validate:"omitempty,max=100"`
	Department  *string     `json:"department" validate:"omitempty,max=100"`
	Status      *string     `json:"status" validate:"omitempty,oneof=active inactive"`
	Password    *string     `json:"password" validate:"omitempty,min=6"`
}

type StaffResponseDTO struct {
	ID          uint64  `json:"id"`
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Position    string  `json:"position"`
	Department  string  `json:"department"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}
