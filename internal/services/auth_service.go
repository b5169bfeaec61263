package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"asset-system/internal/dto"
	"asset-system/internal/repositories"
	"asset-system/pkg/config"
	"asset-system/pkg/constants"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/service"
	"asset-system/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponseDTO, error)
	Me(ctx context.Context, staffID uint64) (*dto.StaffResponseDTO, error)
}

type AuthService struct {
	staffRepo  repositories.StaffRepositoryInterface
	cacheRepo  repositories.CacheRepositoryInterface
	jwtService service.JWTService
	logger     *zap.Logger
	cfg        *config.AuthConfig
}

func NewAuthService(
	staffRepo repositories.StaffRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
	cfg *config.AuthConfig,
) *AuthService {
	return &AuthService{
		staffRepo:  staffRepo,
		cacheRepo:  cacheRepo,
		jwtService: jwtService,
		logger:     logger,
		cfg:        cfg,
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	staff, err := s.staffRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(payload.Email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.checkLockout(ctx, staff.ID); err != nil {
		s.logger.Warn("Попытка входа в заблокированную учётную запись", zap.Uint64("staffID", staff.ID))
		return nil, err
	}

	if err := utils.ComparePasswords(staff.PasswordHash, payload.Password); err != nil {
		s.handleFailedLoginAttempt(ctx, staff.ID)
		return nil, apperrors.ErrInvalidCredentials
	}
	if staff.Status != constants.StaffStatusActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	s.resetLoginAttempts(ctx, staff.ID)
	s.logger.Info("Успешный вход", zap.Uint64("staffID", staff.ID))
	return s.issueTokens(staff.ID, staffToDTO(staff))
}

// Refresh выдаёт новую пару токенов по refresh-токену. Access-токен сюда не подходит.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponseDTO, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	staff, err := s.staffRepo.FindByID(ctx, nil, claims.StaffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if staff.Status != constants.StaffStatusActive {
		return nil, apperrors.ErrUnauthorized
	}
	return s.issueTokens(staff.ID, staffToDTO(staff))
}

func (s *AuthService) Me(ctx context.Context, staffID uint64) (*dto.StaffResponseDTO, error) {
	staff, err := s.staffRepo.FindByID(ctx, nil, staffID)
	if err != nil {
		return nil, err
	}
	res := staffToDTO(staff)
	return &res, nil
}

func (s *AuthService) issueTokens(staffID uint64, staff dto.StaffResponseDTO) (*dto.AuthResponseDTO, error) {
	access, refresh, err := s.jwtService.GenerateTokens(staffID)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponseDTO{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtService.GetAccessTokenTTL().Seconds()),
		Staff:        staff,
	}, nil
}

func (s *AuthService) checkLockout(ctx context.Context, staffID uint64) error {
	// Если ключ существует, учётная запись заблокирована
	if _, err := s.cacheRepo.Get(ctx, lockoutKey(staffID)); err == nil {
		return apperrors.ErrAccountLocked
	}
	return nil
}

func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, staffID uint64) {
	attemptsKey := loginAttemptsKey(staffID)
	attempts, err := s.cacheRepo.Incr(ctx, attemptsKey)
	if err != nil {
		s.logger.Warn("Не удалось учесть неудачную попытку входа", zap.Uint64("staffID", staffID), zap.Error(err))
		return
	}
	if attempts == 1 {
		_, _ = s.cacheRepo.Expire(ctx, attemptsKey, s.cfg.LockoutDuration)
	}
	if attempts >= int64(s.cfg.MaxLoginAttempts) {
		_ = s.cacheRepo.Set(ctx, lockoutKey(staffID), "locked", s.cfg.LockoutDuration)
		_ = s.cacheRepo.Del(ctx, attemptsKey)
		s.logger.Warn("Учётная запись заблокирована", zap.Uint64("staffID", staffID), zap.Duration("duration", s.cfg.LockoutDuration))
	}
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, staffID uint64) {
	_ = s.cacheRepo.Del(ctx, loginAttemptsKey(staffID), lockoutKey(staffID))
}

func lockoutKey(staffID uint64) string       { return fmt.Sprintf("lockout:%d", staffID) }
func loginAttemptsKey(staffID uint64) string { return fmt.Sprintf("login_attempts:%d", staffID) }
