package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"asset-system/internal/dto"
	"asset-system/internal/repositories"
	"asset-system/pkg/constants"
	"asset-system/pkg/depreciation"
	"asset-system/pkg/riskscore"
	"asset-system/pkg/utils"
)

const dashboardCacheKey = "dashboard:summary"

type DashboardServiceInterface interface {
	Summary(ctx context.Context) (*dto.DashboardSummaryDTO, error)
	Invalidate(ctx context.Context)
}

type DashboardService struct {
	*BaseService
	repo      repositories.DashboardRepositoryInterface
	assetRepo repositories.AssetRepositoryInterface
	ttl       time.Duration
	now       func() time.Time
}

func NewDashboardService(
	repo repositories.DashboardRepositoryInterface,
	assetRepo repositories.AssetRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	ttl time.Duration,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		BaseService: NewBaseService(cache, logger),
		repo:        repo,
		assetRepo:   assetRepo,
		ttl:         ttl,
		now:         time.Now,
	}
}

func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	var cached dto.DashboardSummaryDTO
	if s.CacheGet(ctx, dashboardCacheKey, &cached) {
		return &cached, nil
	}

	summary, err := s.build(ctx)
	if err != nil {
		s.logger.Error("Ошибка построения сводки", zap.Error(err))
		return nil, err
	}
	s.CacheSet(ctx, dashboardCacheKey, summary, s.ttl)
	return summary, nil
}

func (s *DashboardService) Invalidate(ctx context.Context) {
	s.CacheDel(ctx, dashboardCacheKey)
}

func (s *DashboardService) build(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	byStatus, err := s.repo.AssetsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.repo.AssetsByCategory(ctx)
	if err != nil {
		return nil, err
	}
	purchaseValue, err := s.repo.PurchaseValueByCurrency(ctx)
	if err != nil {
		return nil, err
	}
	ops, err := s.repo.OperationsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.repo.TasksByStatus(ctx)
	if err != nil {
		return nil, err
	}
	purchases, err := s.repo.PurchasesByStatus(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.assetRepo.ListByStatus(ctx, constants.AssetStatusActive)
	if err != nil {
		return nil, err
	}

	now := s.now()
	bookValue := make(map[string]float64)
	var highRisk uint64
	for _, a := range active {
		res, err := depreciation.Calculate(a.DepreciationInput(now))
		if err != nil {
			s.logger.Warn("Актив пропущен в расчёте остаточной стоимости", zap.Uint64("assetID", a.ID), zap.Error(err))
		} else {
			bookValue[a.Currency] = utils.RoundMoney(bookValue[a.Currency] + res.BookValue)
		}
		level := riskscore.AssetRisk(a.AgeRatio(now), a.Condition, a.Criticality).Level
		if level == riskscore.High || level == riskscore.Critical {
			highRisk++
		}
	}

	var total uint64
	for _, n := range byStatus {
		total += n
	}

	return &dto.DashboardSummaryDTO{
		TotalAssets:        total,
		AssetsByStatus:     byStatus,
		AssetsByCategory:   byCategory,
		PurchaseValue:      purchaseValue,
		BookValue:          bookValue,
		HighRiskAssets:     highRisk,
		OperationsByStatus: ops,
		TasksByStatus:      tasks,
		PurchasesByStatus:  purchases,
		GeneratedAt:        now,
	}, nil
}
