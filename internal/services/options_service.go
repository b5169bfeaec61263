package services

import (
	"asset-system/internal/dto"
	"asset-system/pkg/assetfields"
	"asset-system/pkg/constants"
	"asset-system/pkg/depreciation"
	"asset-system/pkg/riskscore"
)

type OptionsServiceInterface interface {
	Options() dto.OptionsDTO
}

type OptionsService struct{}

func NewOptionsService() *OptionsService {
	return &OptionsService{}
}

func (s *OptionsService) Options() dto.OptionsDTO {
	return dto.OptionsDTO{
		AssetStatuses:       constants.AssetStatuses,
		WorkStatuses:        constants.WorkStatuses,
		PurchaseStatuses:    constants.PurchaseStatuses,
		OperationTypes:      constants.OperationTypes,
		Units:               constants.Units,
		Currencies:          constants.Currencies,
		DepreciationMethods: depreciation.MethodOptions,
		Priorities:          constants.TaskPriorities,
		Conditions:          riskscore.ConditionOptions,
		Departments:         constants.Departments,
		Categories:          assetfields.Categories(),
	}
}
