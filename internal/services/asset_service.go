package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"asset-system/internal/dto"
	"asset-system/internal/entities"
	"asset-system/internal/events"
	"asset-system/internal/repositories"
	"asset-system/pkg/assetfields"
	"asset-system/pkg/constants"
	"asset-system/pkg/depreciation"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/metrics"
	"asset-system/pkg/riskscore"
	"asset-system/pkg/types"
	"asset-system/pkg/utils"
)

const (
	defaultCondition   = "good"
	defaultCriticality = 3
	snapshotListLimit  = 366
)

type AssetServiceInterface interface {
	GetAll(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[dto.AssetResponseDTO], error)
	GetByID(ctx context.Context, id uint64) (*dto.AssetResponseDTO, error)
	Register(ctx context.Context, d dto.CreateAssetDTO) (*dto.AssetRegisteredDTO, error)
	Update(ctx context.Context, id uint64, d dto.UpdateAssetDTO) (*dto.AssetResponseDTO, error)
	Delete(ctx context.Context, id uint64) error
	Depreciation(ctx context.Context, id uint64, asOf time.Time) (*dto.AssetDepreciationDTO, error)
	Risk(ctx context.Context, id uint64) (*dto.AssetRiskDTO, error)
	Fields(category, subcategory string) dto.AssetFieldsDTO
	Categories() []assetfields.CategoryOption
	Snapshots(ctx context.Context, id uint64) ([]dto.DepreciationSnapshotDTO, error)
	Export(ctx context.Context, filter types.Filter, w io.Writer) error
	Import(ctx context.Context, r io.Reader) (*dto.ImportReportDTO, error)
	ExportSchedule(ctx context.Context, id uint64, w io.Writer) error
}

type AssetService struct {
	repo         repositories.AssetRepositoryInterface
	snapshotRepo repositories.DepreciationSnapshotRepositoryInterface
	txManager    txRunner
	bus          EventPublisher
	logger       *zap.Logger
	now          func() time.Time
}

func NewAssetService(
	repo repositories.AssetRepositoryInterface,
	snapshotRepo repositories.DepreciationSnapshotRepositoryInterface,
	txManager repositories.TxManagerInterface,
	bus EventPublisher,
	logger *zap.Logger,
) *AssetService {
	return &AssetService{
		repo:         repo,
		snapshotRepo: snapshotRepo,
		txManager:    txManager,
		bus:          bus,
		logger:       logger,
		now:          time.Now,
	}
}

func assetToDTO(a *entities.Asset) dto.AssetResponseDTO {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Branch, a.Building, a.Floor, a.Room} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return dto.AssetResponseDTO{
		ID:                 a.ID,
		Code:               a.Code,
		Name:               a.Name,
		SerialNumber:       a.SerialNumber,
		Manufacturer:       a.Manufacturer,
		Model:              a.Model,
		Category:           a.Category,
		Subcategory:        a.Subcategory,
		AssetType:          a.AssetType,
		Classification:     a.Classification,
		Location:           strings.Join(parts, " / "),
		Branch:             a.Branch,
		Building:           a.Building,
		Floor:              a.Floor,
		Room:               a.Room,
		PurchasePrice:      a.PurchasePrice,
		Currency:           a.Currency,
		PurchaseDate:       a.PurchaseDate.Format(dateLayout),
		DepreciationMethod: a.DepreciationMethod,
		SalvageValue:       a.SalvageValue,
		UsefulLifeYears:    a.UsefulLifeYears,
		Status:             a.Status,
		Condition:          a.Condition,
		Criticality:        a.Criticality,
		ResponsibleStaffID: a.ResponsibleStaffID,
		Specifications:     a.Specifications,
		CreatedAt:          formatTime(a.CreatedAt),
		UpdatedAt:          formatTime(a.UpdatedAt),
	}
}

func normalizeCode(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeSpecs(specs map[string]string) map[string]string {
	out := make(map[string]string, len(specs))
	for k, v := range specs {
		key := normalizeCode(k)
		if key == "" {
			continue
		}
		out[key] = strings.TrimSpace(v)
	}
	return out
}

// validateAsset проверяет то, что не выражается тегами validator:
// характеристики по категории и согласованность финансовых полей.
func (s *AssetService) validateAsset(a *entities.Asset) error {
	if unknown := assetfields.UnknownFields(a.Category, a.Subcategory, a.Specifications); len(unknown) > 0 {
		return apperrors.NewInvalidInputError("характеристики %s не предусмотрены для категории %s/%s",
			strings.Join(unknown, ", "), a.Category, a.Subcategory)
	}
	if a.PurchaseDate.After(s.now()) {
		return apperrors.NewInvalidInputError("дата покупки не может быть в будущем")
	}
	if !utils.IsOneOf(a.Status, constants.AssetStatuses) {
		return apperrors.NewInvalidInputError("неизвестный статус актива: %s", a.Status)
	}
	if !utils.IsOneOf(a.Condition, riskscore.ConditionOptions) {
		return apperrors.NewInvalidInputError("неизвестное состояние актива: %s", a.Condition)
	}
	if a.Criticality < riskscore.MinRating || a.Criticality > riskscore.MaxRating {
		return apperrors.NewInvalidInputError("критичность должна быть в диапазоне %d..%d", riskscore.MinRating, riskscore.MaxRating)
	}
	if !utils.IsOneOf(a.Currency, constants.Currencies) {
		return apperrors.NewInvalidInputError("неизвестная валюта: %s", a.Currency)
	}
	if a.UsefulLifeYears <= 0 || a.UsefulLifeYears > depreciation.MaxUsefulLifeYears {
		return apperrors.NewInvalidInputError("срок полезного использования должен быть от 1 до %d лет", depreciation.MaxUsefulLifeYears)
	}
	if _, err := depreciation.Calculate(a.DepreciationInput(s.now())); err != nil {
		return apperrors.NewInvalidInputError("%v", err)
	}
	return nil
}

func (s *AssetService) GetAll(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[dto.AssetResponseDTO], error) {
	list, total, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		s.logger.Error("Ошибка получения списка активов", zap.Error(err))
		return nil, err
	}

	dtos := make([]dto.AssetResponseDTO, 0, len(list))
	for _, a := range list {
		dtos = append(dtos, assetToDTO(a))
	}
	return &dto.PaginatedResponse[dto.AssetResponseDTO]{
		List:       dtos,
		Pagination: utils.BuildPagination(total, filter),
	}, nil
}

func (s *AssetService) GetByID(ctx context.Context, id uint64) (*dto.AssetResponseDTO, error) {
	a, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	res := assetToDTO(a)
	return &res, nil
}

func (s *AssetService) Register(ctx context.Context, d dto.CreateAssetDTO) (*dto.AssetRegisteredDTO, error) {
	purchaseDate, err := parseDate(d.PurchaseDate)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("неверная дата покупки: %s", d.PurchaseDate)
	}

	asset := entities.Asset{
		Code:               strings.ToUpper(strings.TrimSpace(d.Code)),
		Name:               strings.TrimSpace(d.Name),
		SerialNumber:       strings.TrimSpace(d.SerialNumber),
		Manufacturer:       strings.TrimSpace(d.Manufacturer),
		Model:              strings.TrimSpace(d.Model),
		Category:           normalizeCode(d.Category),
		Subcategory:        normalizeCode(d.Subcategory),
		AssetType:          strings.TrimSpace(d.AssetType),
		Classification:     strings.TrimSpace(d.Classification),
		Branch:             strings.TrimSpace(d.Branch),
		Building:           strings.TrimSpace(d.Building),
		Floor:              strings.TrimSpace(d.Floor),
		Room:               strings.TrimSpace(d.Room),
		PurchasePrice:      d.PurchasePrice,
		Currency:           strings.ToUpper(d.Currency),
		PurchaseDate:       purchaseDate,
		DepreciationMethod: string(depreciation.NormalizeMethod(d.DepreciationMethod)),
		SalvageValue:       d.SalvageValue,
		UsefulLifeYears:    d.UsefulLifeYears,
		Status:             d.Status,
		Condition:          d.Condition,
		Criticality:        d.Criticality,
		ResponsibleStaffID: nullUint64Ptr(d.ResponsibleStaffID),
		Specifications:     normalizeSpecs(d.Specifications),
	}
	fillAssetDefaults(&asset)
	if err := s.validateAsset(&asset); err != nil {
		return nil, err
	}

	var newID uint64
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if asset.Code == "" {
			seq, err := s.repo.NextCodeSequence(ctx, tx)
			if err != nil {
				return err
			}
			asset.Code = fmt.Sprintf("AST-%d-%06d", s.now().Year(), seq)
		}
		id, err := s.repo.Create(ctx, tx, asset)
		if err != nil {
			return err
		}
		newID = id
		return nil
	})
	if err != nil {
		s.logger.Error("Ошибка регистрации актива", zap.String("code", asset.Code), zap.Error(err))
		return nil, err
	}

	metrics.AssetsRegistered.Inc()
	s.bus.Publish(ctx, events.DataChangedEvent{Entity: entities.EntityAsset, EntityID: newID, Action: events.ActionCreated})
	s.logger.Info("Актив зарегистрирован", zap.Uint64("assetID", newID), zap.String("code", asset.Code))

	return &dto.AssetRegisteredDTO{AssetID: newID, Code: asset.Code}, nil
}

func applyAssetUpdate(a *entities.Asset, d dto.UpdateAssetDTO) error {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setStr(&a.Name, d.Name)
	setStr(&a.SerialNumber, d.SerialNumber)
	setStr(&a.Manufacturer, d.Manufacturer)
	setStr(&a.Model, d.Model)
	setStr(&a.AssetType, d.AssetType)
	setStr(&a.Classification, d.Classification)
	setStr(&a.Branch, d.Branch)
	setStr(&a.Building, d.Building)
	setStr(&a.Floor, d.Floor)
	setStr(&a.Room, d.Room)

	if d.Category != nil {
		a.Category = normalizeCode(*d.Category)
	}
	if d.Subcategory != nil {
		a.Subcategory = normalizeCode(*d.Subcategory)
	}
	if d.PurchasePrice != nil {
		a.PurchasePrice = *d.PurchasePrice
	}
	if d.Currency != nil {
		a.Currency = strings.ToUpper(*d.Currency)
	}
	if d.PurchaseDate != nil {
		date, err := parseDate(*d.PurchaseDate)
		if err != nil {
			return apperrors.NewInvalidInputError("неверная дата покупки: %s", *d.PurchaseDate)
		}
		a.PurchaseDate = date
	}
	if d.DepreciationMethod != nil {
		a.DepreciationMethod = string(depreciation.NormalizeMethod(*d.DepreciationMethod))
	}
	if d.SalvageValue != nil {
		a.SalvageValue = *d.SalvageValue
	}
	if d.UsefulLifeYears != nil {
		a.UsefulLifeYears = *d.UsefulLifeYears
	}
	if d.Status != nil {
		a.Status = *d.Status
	}
	if d.Condition != nil {
		a.Condition = *d.Condition
	}
	if d.Criticality != nil {
		a.Criticality = *d.Criticality
	}
	if d.ResponsibleStaffID.Valid {
		a.ResponsibleStaffID = nullUint64Ptr(d.ResponsibleStaffID)
	}
	if d.Specifications != nil {
		a.Specifications = normalizeSpecs(d.Specifications)
	}
	return nil
}

func (s *AssetService) Update(ctx context.Context, id uint64, d dto.UpdateAssetDTO) (*dto.AssetResponseDTO, error) {
	var updated *entities.Asset
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		a, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := applyAssetUpdate(a, d); err != nil {
			return err
		}
		if err := s.validateAsset(a); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, *a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.DataChangedEvent{Entity: entities.EntityAsset, EntityID: id, Action: events.ActionUpdated})
	res := assetToDTO(updated)
	return &res, nil
}

func (s *AssetService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.DataChangedEvent{Entity: entities.EntityAsset, EntityID: id, Action: events.ActionDeleted})
	s.logger.Info("Актив удалён", zap.Uint64("assetID", id))
	return nil
}

// Depreciation считает амортизацию на дату asOf (нулевая дата = сегодня) и полный график.
func (s *AssetService) Depreciation(ctx context.Context, id uint64, asOf time.Time) (*dto.AssetDepreciationDTO, error) {
	a, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		asOf = s.now()
	}

	in := a.DepreciationInput(asOf)
	result, err := depreciation.Calculate(in)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("%v", err)
	}
	schedule, err := depreciation.Schedule(in)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("%v", err)
	}

	return &dto.AssetDepreciationDTO{
		AssetID:  a.ID,
		AsOf:     asOf.Format(dateLayout),
		Currency: a.Currency,
		Result:   result,
		Schedule: schedule,
	}, nil
}

func (s *AssetService) Risk(ctx context.Context, id uint64) (*dto.AssetRiskDTO, error) {
	a, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	ratio := a.AgeRatio(s.now())
	return &dto.AssetRiskDTO{
		AssetID:     a.ID,
		AgeRatio:    ratio,
		Condition:   a.Condition,
		Criticality: a.Criticality,
		Assessment:  riskscore.AssetRisk(ratio, a.Condition, a.Criticality),
	}, nil
}

func (s *AssetService) Fields(category, subcategory string) dto.AssetFieldsDTO {
	return dto.AssetFieldsDTO{
		Category:    normalizeCode(category),
		Subcategory: normalizeCode(subcategory),
		Fields:      assetfields.FieldsByCategory(category, subcategory),
	}
}

func (s *AssetService) Categories() []assetfields.CategoryOption {
	return assetfields.Categories()
}

func (s *AssetService) Snapshots(ctx context.Context, id uint64) ([]dto.DepreciationSnapshotDTO, error) {
	if _, err := s.repo.FindByID(ctx, nil, id); err != nil {
		return nil, err
	}
	list, err := s.snapshotRepo.ListByAsset(ctx, id, snapshotListLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DepreciationSnapshotDTO, 0, len(list))
	for _, sn := range list {
		out = append(out, dto.DepreciationSnapshotDTO{
			SnapshotDate:            sn.SnapshotDate.Format(dateLayout),
			AccumulatedDepreciation: sn.AccumulatedDepreciation,
			BookValue:               sn.BookValue,
		})
	}
	return out, nil
}
