package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"asset-system/internal/dto"
	"asset-system/internal/entities"
	"asset-system/internal/repositories"
	"asset-system/pkg/constants"
	"asset-system/pkg/types"
	"asset-system/pkg/utils"
)

type StaffServiceInterface interface {
	GetAll(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[dto.StaffResponseDTO], error)
	GetByID(ctx context.Context, id uint64) (*dto.StaffResponseDTO, error)
	Create(ctx context.Context, d dto.CreateStaffDTO) (*dto.StaffResponseDTO, error)
	Update(ctx context.Context, id uint64, d dto.UpdateStaffDTO) (*dto.StaffResponseDTO, error)
	Delete(ctx context.Context, id uint64) error
}

type StaffService struct {
	repo   repositories.StaffRepositoryInterface
	logger *zap.Logger
}

func NewStaffService(repo repositories.StaffRepositoryInterface, logger *zap.Logger) *StaffService {
	return &StaffService{repo: repo, logger: logger}
}

func staffToDTO(s *entities.Staff) dto.StaffResponseDTO {
	return dto.StaffResponseDTO{
		ID:          s.ID,
		FullName:    s.FullName,
		Email:       s.Email,
		PhoneNumber: s.PhoneNumber,
		Position:    s.Position,
		Department:  s.Department,
		Status:      s.Status,
		CreatedAt:   formatTime(s.CreatedAt),
		UpdatedAt:   formatTime(s.UpdatedAt),
	}
}

func (s *StaffService) GetAll(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[dto.StaffResponseDTO], error) {
	list, total, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]dto.StaffResponseDTO, 0, len(list))
	for _, st := range list {
		dtos = append(dtos, staffToDTO(st))
	}
	return &dto.PaginatedResponse[dto.StaffResponseDTO]{List: dtos, Pagination: utils.BuildPagination(total, filter)}, nil
}

func (s *StaffService) GetByID(ctx context.Context, id uint64) (*dto.StaffResponseDTO, error) {
	st, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	res := staffToDTO(st)
	return &res, nil
}

func (s *StaffService) Create(ctx context.Context, d dto.CreateStaffDTO) (*dto.StaffResponseDTO, error) {
	hash, err := utils.HashPassword(d.Password)
	if err != nil {
		return nil, err
	}

	st := entities.Staff{
		FullName:     strings.TrimSpace(d.FullName),
		Email:        strings.ToLower(strings.TrimSpace(d.Email)),
		PhoneNumber:  d.PhoneNumber.Ptr(),
		Position:     strings.TrimSpace(d.Position),
		Department:   strings.TrimSpace(d.Department),
		Status:       d.Status,
		PasswordHash: hash,
	}
	if st.Status == "" {
		st.Status = constants.StaffStatusActive
	}

	id, err := s.repo.Create(ctx, nil, st)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Сотрудник создан", zap.Uint64("staffID", id), zap.String("email", st.Email))
	return s.GetByID(ctx, id)
}

func (s *StaffService) Update(ctx context.Context, id uint64, d dto.UpdateStaffDTO) (*dto.StaffResponseDTO, error) {
	st, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	if d.FullName != nil {
		st.FullName = strings.TrimSpace(*d.FullName)
	}
	if d.Email != nil {
		st.Email = strings.ToLower(strings.TrimSpace(*d.Email))
	}
	if d.PhoneNumber.Valid {
		st.PhoneNumber = d.PhoneNumber.Ptr()
	}
	if d.Position != nil {
		st.Position = strings.TrimSpace(*d.Position)
	}
	if d.Department != nil {
		st.Department = strings.TrimSpace(*d.Department)
	}
	if d.Status != nil {
		st.Status = *d.Status
	}
	if d.Password != nil {
		hash, err := utils.HashPassword(*d.Password)
		if err != nil {
			return nil, err
		}
		st.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, nil, *st); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *StaffService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return err
	}
	s.logger.Info("Сотрудник удалён", zap.Uint64("staffID", id))
	return nil
}
