package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"asset-system/internal/dto"
	"asset-system/internal/entities"
	"asset-system/internal/events"
	"asset-system/pkg/constants"
	"asset-system/pkg/depreciation"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/metrics"
	"asset-system/pkg/types"
)

const assetSheet = "Активы"

type assetColumn struct {
	key   string
	title string
	value func(a *entities.Asset) interface{}
}

var assetColumns = []assetColumn{
	{"code", "Код", func(a *entities.Asset) interface{} { return a.Code }},
	{"name", "Наименование", func(a *entities.Asset) interface{} { return a.Name }},
	{"serial_number", "Серийный номер", func(a *entities.Asset) interface{} { return a.SerialNumber }},
	{"manufacturer", "Производитель", func(a *entities.Asset) interface{} { return a.Manufacturer }},
	{"model", "Модель", func(a *entities.Asset) interface{} { return a.Model }},
	{"category", "Категория", func(a *entities.Asset) interface{} { return a.Category }},
	{"subcategory", "Подкатегория", func(a *entities.Asset) interface{} { return a.Subcategory }},
	{"branch", "Филиал", func(a *entities.Asset) interface{} { return a.Branch }},
	{"building", "Здание", func(a *entities.Asset) interface{} { return a.Building }},
	{"floor", "Этаж", func(a *entities.Asset) interface{} { return a.Floor }},
	{"room", "Помещение", func(a *entities.Asset) interface{} { return a.Room }},
	{"purchase_price", "Цена покупки", func(a *entities.Asset) interface{} { return a.PurchasePrice }},
	{"currency", "Валюта", func(a *entities.Asset) interface{} { return a.Currency }},
	{"purchase_date", "Дата покупки", func(a *entities.Asset) interface{} { return a.PurchaseDate.Format(dateLayout) }},
	{"depreciation_method", "Метод амортизации", func(a *entities.Asset) interface{} { return a.DepreciationMethod }},
	{"salvage_value", "Ликвидационная стоимость", func(a *entities.Asset) interface{} { return a.SalvageValue }},
	{"useful_life_years", "Срок службы, лет", func(a *entities.Asset) interface{} { return a.UsefulLifeYears }},
	{"status", "Статус", func(a *entities.Asset) interface{} { return a.Status }},
	{"condition", "Состояние", func(a *entities.Asset) interface{} { return a.Condition }},
	{"criticality", "Критичность", func(a *entities.Asset) interface{} { return a.Criticality }},
}

// Export пишет xlsx со всеми активами, подходящими под фильтр (без пагинации).
func (s *AssetService) Export(ctx context.Context, filter types.Filter, w io.Writer) error {
	filter.WithPagination = false
	list, _, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", assetSheet); err != nil {
		return err
	}

	header := make([]interface{}, 0, len(assetColumns))
	for _, c := range assetColumns {
		header = append(header, c.title)
	}
	if err := f.SetSheetRow(assetSheet, "A1", &header); err != nil {
		return err
	}
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	lastCol, _ := excelize.ColumnNumberToName(len(assetColumns))
	_ = f.SetCellStyle(assetSheet, "A1", lastCol+"1", style)

	for i, a := range list {
		row := make([]interface{}, 0, len(assetColumns))
		for _, c := range assetColumns {
			row = append(row, c.value(a))
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(assetSheet, cell, &row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(assetSheet, "A", "B", 25)
	_ = f.SetColWidth(assetSheet, "C", "K", 18)

	return f.Write(w)
}

// Import читает первый лист: строка заголовков (коды колонок или русские
// названия), затем по строке на актив. Существующий код обновляется, новый
// регистрируется. Ошибка строки не прерывает импорт.
func (s *AssetService) Import(ctx context.Context, r io.Reader) (*dto.ImportReportDTO, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("не удалось прочитать файл: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewInvalidInputError("файл не содержит листов")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewInvalidInputError("не удалось прочитать лист %s: %v", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewInvalidInputError("лист %s пуст", sheets[0])
	}

	index := headerIndex(rows[0])
	for _, required := range []string{"name", "category", "purchase_price", "currency", "purchase_date", "useful_life_years"} {
		if _, ok := index[required]; !ok {
			return nil, apperrors.NewInvalidInputError("в заголовке нет колонки %s", required)
		}
	}

	report := &dto.ImportReportDTO{Errors: []dto.ImportRowErrorDTO{}}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		get := func(key string) string {
			idx, ok := index[key]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		if strings.Join(row, "") == "" {
			continue
		}

		code := strings.ToUpper(get("code"))
		created, err := s.importRow(ctx, code, get)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, dto.ImportRowErrorDTO{Row: i + 1, Code: code, Message: rowErrorMessage(err)})
			continue
		}
		if created {
			report.Created++
		} else {
			report.Updated++
		}
	}

	s.logger.Info("Импорт активов завершён",
		zap.Int("created", report.Created), zap.Int("updated", report.Updated), zap.Int("failed", report.Failed))
	if report.Created+report.Updated > 0 {
		s.bus.Publish(ctx, events.DataChangedEvent{Entity: entities.EntityAsset, Action: events.ActionImported})
	}
	return report, nil
}

func headerIndex(header []string) map[string]int {
	byTitle := make(map[string]string, len(assetColumns)*2)
	for _, c := range assetColumns {
		byTitle[c.key] = c.key
		byTitle[strings.ToLower(c.title)] = c.key
	}
	index := make(map[string]int)
	for i, h := range header {
		if key, ok := byTitle[strings.ToLower(strings.TrimSpace(h))]; ok {
			index[key] = i
		}
	}
	return index
}

func rowErrorMessage(err error) string {
	var inputErr *apperrors.InvalidInputError
	if errors.As(err, &inputErr) {
		return inputErr.Message
	}
	return err.Error()
}

func (s *AssetService) importRow(ctx context.Context, code string, get func(string) string) (bool, error) {
	price, err := parseFloatCell(get("purchase_price"), "purchase_price")
	if err != nil {
		return false, err
	}
	salvage, err := parseFloatCell(get("salvage_value"), "salvage_value")
	if err != nil {
		return false, err
	}
	life, err := strconv.Atoi(get("useful_life_years"))
	if err != nil {
		return false, apperrors.NewInvalidInputError("useful_life_years: ожидается целое число")
	}
	purchaseDate, err := parseDate(get("purchase_date"))
	if err != nil {
		return false, apperrors.NewInvalidInputError("purchase_date: ожидается дата в формате ГГГГ-ММ-ДД")
	}
	criticality := 0
	if raw := get("criticality"); raw != "" {
		if criticality, err = strconv.Atoi(raw); err != nil {
			return false, apperrors.NewInvalidInputError("criticality: ожидается целое число")
		}
	}

	incoming := entities.Asset{
		Code:               code,
		Name:               get("name"),
		SerialNumber:       get("serial_number"),
		Manufacturer:       get("manufacturer"),
		Model:              get("model"),
		Category:           normalizeCode(get("category")),
		Subcategory:        normalizeCode(get("subcategory")),
		Branch:             get("branch"),
		Building:           get("building"),
		Floor:              get("floor"),
		Room:               get("room"),
		PurchasePrice:      price,
		Currency:           strings.ToUpper(get("currency")),
		PurchaseDate:       purchaseDate,
		DepreciationMethod: string(depreciation.NormalizeMethod(get("depreciation_method"))),
		SalvageValue:       salvage,
		UsefulLifeYears:    life,
		Status:             get("status"),
		Condition:          get("condition"),
		Criticality:        criticality,
	}
	if incoming.Name == "" || incoming.Category == "" {
		return false, apperrors.NewInvalidInputError("name и category обязательны")
	}

	created := false
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var existing *entities.Asset
		if code != "" {
			found, err := s.repo.FindByCode(ctx, tx, code)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			existing = found
		}

		if existing == nil {
			a := incoming
			fillAssetDefaults(&a)
			if err := s.validateAsset(&a); err != nil {
				return err
			}
			if a.Code == "" {
				seq, err := s.repo.NextCodeSequence(ctx, tx)
				if err != nil {
					return err
				}
				a.Code = fmt.Sprintf("AST-%d-%06d", s.now().Year(), seq)
			}
			if _, err := s.repo.Create(ctx, tx, a); err != nil {
				return err
			}
			metrics.AssetsRegistered.Inc()
			created = true
			return nil
		}

		incoming.ID = existing.ID
		incoming.ResponsibleStaffID = existing.ResponsibleStaffID
		incoming.Specifications = existing.Specifications
		if incoming.Status == "" {
			incoming.Status = existing.Status
		}
		if incoming.Condition == "" {
			incoming.Condition = existing.Condition
		}
		if incoming.Criticality == 0 {
			incoming.Criticality = existing.Criticality
		}
		if err := s.validateAsset(&incoming); err != nil {
			return err
		}
		return s.repo.Update(ctx, tx, incoming)
	})
	return created, err
}

func fillAssetDefaults(a *entities.Asset) {
	if a.Status == "" {
		a.Status = constants.AssetStatusActive
	}
	if a.Condition == "" {
		a.Condition = defaultCondition
	}
	if a.Criticality == 0 {
		a.Criticality = defaultCriticality
	}
}

func parseFloatCell(raw, column string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.ReplaceAll(raw, " ", ""), ",", "."), 64)
	if err != nil {
		return 0, apperrors.NewInvalidInputError("%s: ожидается число, получено %q", column, raw)
	}
	return v, nil
}

// ExportSchedule пишет график амортизации актива по годам.
func (s *AssetService) ExportSchedule(ctx context.Context, id uint64, w io.Writer) error {
	dep, err := s.Depreciation(ctx, id, time.Time{})
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "График"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	header := []interface{}{"Год", "Стоимость на начало", "Амортизация", "Накопленная амортизация", "Стоимость на конец"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(sheet, "A1", "E1", style)

	for i, e := range dep.Schedule {
		row := []interface{}{e.Year, e.BeginningValue, e.Depreciation, e.AccumulatedDepreciation, e.EndingBookValue}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(sheet, "B", "E", 24)
	return f.Write(w)
}
