package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"asset-system/internal/dto"
	"asset-system/pkg/assetfields"
	"asset-system/pkg/customvalidator"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/types"
	"asset-system/pkg/utils"
)

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	v := validator.New()
	require.NoError(t, customvalidator.RegisterCustomValidations(v))
	e := echo.New()
	e.Validator = utils.NewValidator(v)
	return e
}

type response struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Body    json.RawMessage `json:"body"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var r response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r), rec.Body.String())
	return r
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type stubAssetService struct {
	registered dto.CreateAssetDTO
	asOf       time.Time
	getErr     error
	importBody []byte
}

func (s *stubAssetService) GetAll(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[dto.AssetResponseDTO], error) {
	return &dto.PaginatedResponse[dto.AssetResponseDTO]{
		List:       []dto.AssetResponseDTO{{ID: 1, Code: "AST-2026-000001"}},
		Pagination: types.Pagination{TotalCount: 1, Page: filter.Page, Limit: filter.Limit},
	}, nil
}

func (s *stubAssetService) GetByID(ctx context.Context, id uint64) (*dto.AssetResponseDTO, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &dto.AssetResponseDTO{ID: id}, nil
}

func (s *stubAssetService) Register(ctx context.Context, d dto.CreateAssetDTO) (*dto.AssetRegisteredDTO, error) {
	s.registered = d
	return &dto.AssetRegisteredDTO{AssetID: 10, Code: "AST-2026-000010"}, nil
}

func (s *stubAssetService) Update(ctx context.Context, id uint64, d dto.UpdateAssetDTO) (*dto.AssetResponseDTO, error) {
	return &dto.AssetResponseDTO{ID: id}, nil
}

func (s *stubAssetService) Delete(ctx context.Context, id uint64) error {
	return apperrors.ErrNotFound
}

func (s *stubAssetService) Depreciation(ctx context.Context, id uint64, asOf time.Time) (*dto.AssetDepreciationDTO, error) {
	s.asOf = asOf
	return &dto.AssetDepreciationDTO{AssetID: id}, nil
}

func (s *stubAssetService) Risk(ctx context.Context, id uint64) (*dto.AssetRiskDTO, error) {
	return &dto.AssetRiskDTO{AssetID: id}, nil
}

func (s *stubAssetService) Fields(category, subcategory string) dto.AssetFieldsDTO {
	return dto.AssetFieldsDTO{Category: category, Subcategory: subcategory, Fields: []string{"cpu"}}
}

func (s *stubAssetService) Categories() []assetfields.CategoryOption { return nil }

func (s *stubAssetService) Snapshots(ctx context.Context, id uint64) ([]dto.DepreciationSnapshotDTO, error) {
	return []dto.DepreciationSnapshotDTO{}, nil
}

func (s *stubAssetService) Export(ctx context.Context, filter types.Filter, w io.Writer) error {
	_, err := w.Write([]byte("xlsx"))
	return err
}

func (s *stubAssetService) Import(ctx context.Context, r io.Reader) (*dto.ImportReportDTO, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.importBody = body
	return &dto.ImportReportDTO{Created: 1}, nil
}

func (s *stubAssetService) ExportSchedule(ctx context.Context, id uint64, w io.Writer) error {
	_, err := w.Write([]byte("schedule"))
	return err
}

func newAssetServer(t *testing.T) (*echo.Echo, *stubAssetService) {
	e := newTestEcho(t)
	svc := &stubAssetService{}
	ctrl := NewAssetController(svc, zap.NewNop())
	e.GET("/assets", ctrl.GetAssets)
	e.GET("/assets/:id", ctrl.FindAsset)
	e.POST("/assets", ctrl.RegisterAsset)
	e.DELETE("/assets/:id", ctrl.DeleteAsset)
	e.GET("/assets/:id/depreciation", ctrl.GetDepreciation)
	e.GET("/assets/:id/depreciation/export", ctrl.ExportSchedule)
	e.GET("/assets/fields", ctrl.GetFields)
	e.GET("/assets/export", ctrl.ExportAssets)
	e.POST("/assets/import", ctrl.ImportAssets)
	return e, svc
}

const validAssetJSON = `{
	"name": "Ноутбук",
	"category": "it-equipment",
	"branch": "Головной офис",
	"purchase_price": 1000,
	"currency": "USD",
	"purchase_date": "2024-01-15",
	"useful_life_years": 4
}`

func TestAssetController_Register(t *testing.T) {
	e, svc := newAssetServer(t)

	rec := doJSON(e, http.MethodPost, "/assets", validAssetJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	r := decode(t, rec)
	assert.True(t, r.Status)
	assert.JSONEq(t, `{"asset_id":10,"code":"AST-2026-000010"}`, string(r.Body))
	assert.Equal(t, "Ноутбук", svc.registered.Name)
}

func TestAssetController_RegisterValidation(t *testing.T) {
	e, _ := newAssetServer(t)

	cases := map[string]string{
		"missing name":   `{"category":"it-equipment","branch":"b","currency":"USD","purchase_date":"2024-01-15","useful_life_years":4}`,
		"bad currency":   strings.Replace(validAssetJSON, `"USD"`, `"XXX"`, 1),
		"bad date":       strings.Replace(validAssetJSON, `"2024-01-15"`, `"15.01.2024"`, 1),
		"salvage > cost": strings.Replace(validAssetJSON, `"purchase_price": 1000`, `"purchase_price": 1000, "salvage_value": 2000`, 1),
		"broken json":    `{"name":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/assets", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.False(t, decode(t, rec).Status)
		})
	}
}

func TestAssetController_ListWithPagination(t *testing.T) {
	e, _ := newAssetServer(t)

	rec := doJSON(e, http.MethodGet, "/assets?withPagination=true&limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		List       []dto.AssetResponseDTO `json:"list"`
		Pagination types.Pagination       `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Body, &body))
	assert.Len(t, body.List, 1)
	assert.Equal(t, uint64(1), body.Pagination.TotalCount)
	assert.Equal(t, 10, body.Pagination.Limit)

	rec = doJSON(e, http.MethodGet, "/assets", "")
	var plain []dto.AssetResponseDTO
	require.NoError(t, json.Unmarshal(decode(t, rec).Body, &plain))
	assert.Len(t, plain, 1)
}

func TestAssetController_ErrorMapping(t *testing.T) {
	e, svc := newAssetServer(t)

	rec := doJSON(e, http.MethodDelete, "/assets/5", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodGet, "/assets/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.getErr = errors.New("pool closed")
	rec = doJSON(e, http.MethodGet, "/assets/5", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Ошибка получения актива", decode(t, rec).Message)
}

func TestAssetController_Depreciation(t *testing.T) {
	e, svc := newAssetServer(t)

	rec := doJSON(e, http.MethodGet, "/assets/3/depreciation?as_of=2025-06-30", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), svc.asOf)

	rec = doJSON(e, http.MethodGet, "/assets/3/depreciation", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.asOf.IsZero())

	rec = doJSON(e, http.MethodGet, "/assets/3/depreciation?as_of=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssetController_Fields(t *testing.T) {
	e, _ := newAssetServer(t)

	rec := doJSON(e, http.MethodGet, "/assets/fields?category=it-equipment&subcategory=laptop", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"category":"it-equipment","subcategory":"laptop","fields":["cpu"]}`, string(decode(t, rec).Body))
}

func TestAssetController_ExportHeaders(t *testing.T) {
	e, svc := newAssetServer(t)

	rec := doJSON(e, http.MethodGet, "/assets/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "assets_")
	assert.Equal(t, "xlsx", rec.Body.String())

	rec = doJSON(e, http.MethodGet, "/assets/4/depreciation/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "depreciation_4.xlsx")

	svc.getErr = apperrors.ErrNotFound
	rec = doJSON(e, http.MethodGet, "/assets/4/depreciation/export", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssetController_Import(t *testing.T) {
	e, svc := newAssetServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "assets.xlsx")
	require.NoError(t, err)
	_, err = part.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/assets/import", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "payload", string(svc.importBody))

	rec = doJSON(e, http.MethodPost, "/assets/import", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubOperationService struct {
	progress int
	staffIDs []uint64
	err      error
}

func (s *stubOperationService) GetAll(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[dto.OperationResponseDTO], error) {
	return &dto.PaginatedResponse[dto.OperationResponseDTO]{}, nil
}

func (s *stubOperationService) GetByID(ctx context.Context, id uint64) (*dto.OperationResponseDTO, error) {
	return &dto.OperationResponseDTO{ID: id}, nil
}

func (s *stubOperationService) Create(ctx context.Context, d dto.CreateOperationDTO) (*dto.OperationResponseDTO, error) {
	return &dto.OperationResponseDTO{ID: 1, Type: d.Type}, nil
}

func (s *stubOperationService) Update(ctx context.Context, id uint64, d dto.UpdateOperationDTO) (*dto.OperationResponseDTO, error) {
	return &dto.OperationResponseDTO{ID: id}, nil
}

func (s *stubOperationService) Delete(ctx context.Context, id uint64) error { return nil }

func (s *stubOperationService) ChangeStatus(ctx context.Context, id uint64, d dto.UpdateStatusDTO) (*dto.OperationResponseDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.OperationResponseDTO{ID: id, Status: d.Status}, nil
}

func (s *stubOperationService) UpdateProgress(ctx context.Context, id uint64, progress int) (*dto.OperationResponseDTO, error) {
	s.progress = progress
	return &dto.OperationResponseDTO{ID: id, Progress: progress}, nil
}

func (s *stubOperationService) AssignStaff(ctx context.Context, id uint64, staffIDs []uint64) (*dto.OperationResponseDTO, error) {
	s.staffIDs = staffIDs
	return &dto.OperationResponseDTO{ID: id, StaffIDs: staffIDs}, nil
}

func (s *stubOperationService) History(ctx context.Context, id uint64) ([]dto.StatusHistoryDTO, error) {
	return []dto.StatusHistoryDTO{{FromStatus: "pending", ToStatus: "in-progress"}}, nil
}

func TestOperationController(t *testing.T) {
	e := newTestEcho(t)
	svc := &stubOperationService{}
	ctrl := NewOperationController(svc, zap.NewNop())
	e.POST("/operations", ctrl.CreateOperation)
	e.PATCH("/operations/:id/status", ctrl.ChangeStatus)
	e.PATCH("/operations/:id/progress", ctrl.UpdateProgress)
	e.PUT("/operations/:id/staff", ctrl.AssignStaff)
	e.DELETE("/operations/:id", ctrl.DeleteOperation)

	t.Run("create", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/operations", `{"type":"loading","warehouse":"Склад 1","quantity":5,"unit":"pcs","scheduled_at":"2026-10-20T09:00:00Z"}`)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("create with unknown type", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/operations", `{"type":"teleport","warehouse":"Склад 1","quantity":5,"unit":"pcs","scheduled_at":"2026-10-20T09:00:00Z"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("status", func(t *testing.T) {
		rec := doJSON(e, http.MethodPatch, "/operations/2/status", `{"status":"in-progress"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = doJSON(e, http.MethodPatch, "/operations/2/status", `{"status":"flying"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		svc.err = apperrors.ErrInvalidStatusTransition
		rec = doJSON(e, http.MethodPatch, "/operations/2/status", `{"status":"completed"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
		svc.err = nil
	})

	t.Run("progress zero is accepted", func(t *testing.T) {
		svc.progress = -1
		rec := doJSON(e, http.MethodPatch, "/operations/2/progress", `{"progress":0}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, 0, svc.progress)
	})

	t.Run("progress out of range", func(t *testing.T) {
		rec := doJSON(e, http.MethodPatch, "/operations/2/progress", `{"progress":101}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		rec = doJSON(e, http.MethodPatch, "/operations/2/progress", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("assign staff", func(t *testing.T) {
		rec := doJSON(e, http.MethodPut, "/operations/2/staff", `{"staff_ids":[3,4]}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, []uint64{3, 4}, svc.staffIDs)
	})

	t.Run("delete", func(t *testing.T) {
		rec := doJSON(e, http.MethodDelete, "/operations/2", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

type stubAuthService struct {
	loginErr error
	meID     uint64
}

func (s *stubAuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &dto.AuthResponseDTO{AccessToken: "a", RefreshToken: "r", ExpiresIn: 3600}, nil
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponseDTO, error) {
	return nil, apperrors.ErrTokenIsNotRefresh
}

func (s *stubAuthService) Me(ctx context.Context, staffID uint64) (*dto.StaffResponseDTO, error) {
	s.meID = staffID
	return &dto.StaffResponseDTO{ID: staffID}, nil
}

func TestAuthController(t *testing.T) {
	e := newTestEcho(t)
	svc := &stubAuthService{}
	ctrl := NewAuthController(svc, zap.NewNop())
	e.POST("/auth/login", ctrl.Login)
	e.POST("/auth/refresh", ctrl.Refresh)
	e.GET("/auth/me", ctrl.Me)

	rec := doJSON(e, http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodPost, "/auth/login", `{"email":"admin","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.loginErr = apperrors.ErrInvalidCredentials
	rec = doJSON(e, http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"wrong12"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	svc.loginErr = apperrors.ErrAccountLocked
	rec = doJSON(e, http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"wrong12"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = doJSON(e, http.MethodPost, "/auth/refresh", `{"refresh_token":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodGet, "/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthController_MeReadsStaffFromContext(t *testing.T) {
	e := newTestEcho(t)
	svc := &stubAuthService{}
	ctrl := NewAuthController(svc, zap.NewNop())
	withStaff := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.SetRequest(c.Request().WithContext(utils.WithUserID(c.Request().Context(), 9)))
			return next(c)
		}
	}
	e.GET("/auth/me", ctrl.Me, withStaff)

	rec := doJSON(e, http.MethodGet, "/auth/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(9), svc.meID)
}

func TestHealthController(t *testing.T) {
	ok := PingerFunc(func(ctx context.Context) error { return nil })
	down := PingerFunc(func(ctx context.Context) error { return errors.New("connection refused") })

	e := newTestEcho(t)
	e.GET("/health", NewHealthController(ok, ok, zap.NewNop()).Check)
	e.GET("/health-down", NewHealthController(ok, down, zap.NewNop()).Check)

	rec := doJSON(e, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"database":"ok","redis":"ok"}`, string(decode(t, rec).Body))

	rec = doJSON(e, http.MethodGet, "/health-down", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"database":"ok","redis":"down"}`, string(decode(t, rec).Body))
}
