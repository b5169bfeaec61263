package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5"

	"asset-system/internal/entities"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/eventbus"
	"asset-system/pkg/service"
	"asset-system/pkg/types"
)

// Хранилища в памяти по интерфейсам репозиториев. Транзакция не откатывает
// изменения, поэтому тесты проверяют состояние только после успешных вызовов.

type fakeTx struct{ calls int }

func (f *fakeTx) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	f.calls++
	return fn(nil)
}

type recordingBus struct{ events []eventbus.Event }

func (b *recordingBus) Publish(ctx context.Context, e eventbus.Event) { b.events = append(b.events, e) }

func (b *recordingBus) names() []string {
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Name())
	}
	return out
}

// --- assets ---

type fakeAssetRepo struct {
	items  map[uint64]*entities.Asset
	nextID uint64
	seq    uint64
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{items: map[uint64]*entities.Asset{}}
}

func (r *fakeAssetRepo) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Asset, uint64, error) {
	out := make([]*entities.Asset, 0, len(r.items))
	for _, a := range r.sorted() {
		if filter.Search != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(filter.Search)) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeAssetRepo) sorted() []*entities.Asset {
	out := make([]*entities.Asset, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeAssetRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Asset, error) {
	a, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAssetRepo) FindByCode(ctx context.Context, tx pgx.Tx, code string) (*entities.Asset, error) {
	for _, a := range r.items {
		if a.Code == code {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeAssetRepo) ListByStatus(ctx context.Context, status string) ([]*entities.Asset, error) {
	var out []*entities.Asset
	for _, a := range r.sorted() {
		if a.Status == status {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAssetRepo) NextCodeSequence(ctx context.Context, tx pgx.Tx) (uint64, error) {
	r.seq++
	return r.seq, nil
}

func (r *fakeAssetRepo) Create(ctx context.Context, tx pgx.Tx, a entities.Asset) (uint64, error) {
	for _, existing := range r.items {
		if existing.Code == a.Code {
			return 0, fmt.Errorf("актив с кодом %s уже существует: %w", a.Code, apperrors.ErrConflict)
		}
	}
	r.nextID++
	a.ID = r.nextID
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = &now, &now
	r.items[a.ID] = &a
	return a.ID, nil
}

func (r *fakeAssetRepo) Update(ctx context.Context, tx pgx.Tx, a entities.Asset) error {
	if _, ok := r.items[a.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.items[a.ID] = &a
	return nil
}

func (r *fakeAssetRepo) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// --- staff ---

type fakeStaffRepo struct {
	items  map[uint64]*entities.Staff
	nextID uint64
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{items: map[uint64]*entities.Staff{}}
}

func (r *fakeStaffRepo) add(s entities.Staff) uint64 {
	id, _ := r.Create(context.Background(), nil, s)
	return id
}

func (r *fakeStaffRepo) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Staff, uint64, error) {
	var out []*entities.Staff
	for id := uint64(1); id <= r.nextID; id++ {
		if s, ok := r.items[id]; ok {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, uint64(len(out)), nil
}

func (r *fakeStaffRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Staff, error) {
	s, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStaffRepo) FindByEmail(ctx context.Context, email string) (*entities.Staff, error) {
	for _, s := range r.items {
		if strings.EqualFold(s.Email, email) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeStaffRepo) CountByIDs(ctx context.Context, tx pgx.Tx, ids []uint64) (int, error) {
	n := 0
	for _, id := range ids {
		if _, ok := r.items[id]; ok {
			n++
		}
	}
	return n, nil
}

func (r *fakeStaffRepo) Create(ctx context.Context, tx pgx.Tx, s entities.Staff) (uint64, error) {
	for _, existing := range r.items {
		if strings.EqualFold(existing.Email, s.Email) {
			return 0, fmt.Errorf("email %s уже занят: %w", s.Email, apperrors.ErrConflict)
		}
	}
	r.nextID++
	s.ID = r.nextID
	r.items[s.ID] = &s
	return s.ID, nil
}

func (r *fakeStaffRepo) Update(ctx context.Context, tx pgx.Tx, s entities.Staff) error {
	if _, ok := r.items[s.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.items[s.ID] = &s
	return nil
}

func (r *fakeStaffRepo) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// --- operations ---

type fakeOperationRepo struct {
	items  map[uint64]*entities.Operation
	staff  map[uint64][]uint64
	nextID uint64
}

func newFakeOperationRepo() *fakeOperationRepo {
	return &fakeOperationRepo{items: map[uint64]*entities.Operation{}, staff: map[uint64][]uint64{}}
}

func (r *fakeOperationRepo) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Operation, uint64, error) {
	var out []*entities.Operation
	for id := uint64(1); id <= r.nextID; id++ {
		if op, err := r.FindByID(ctx, nil, id); err == nil {
			out = append(out, op)
		}
	}
	return out, uint64(len(out)), nil
}

func (r *fakeOperationRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Operation, error) {
	op, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *op
	cp.StaffIDs = append([]uint64(nil), r.staff[id]...)
	return &cp, nil
}

func (r *fakeOperationRepo) Create(ctx context.Context, tx pgx.Tx, op entities.Operation) (uint64, error) {
	r.nextID++
	op.ID = r.nextID
	op.StaffIDs = nil
	r.items[op.ID] = &op
	return op.ID, nil
}

func (r *fakeOperationRepo) Update(ctx context.Context, tx pgx.Tx, op entities.Operation) error {
	if _, ok := r.items[op.ID]; !ok {
		return apperrors.ErrNotFound
	}
	op.StaffIDs = nil
	r.items[op.ID] = &op
	return nil
}

func (r *fakeOperationRepo) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.items, id)
	delete(r.staff, id)
	return nil
}

func (r *fakeOperationRepo) ReplaceStaff(ctx context.Context, tx pgx.Tx, operationID uint64, staffIDs []uint64) error {
	r.staff[operationID] = append([]uint64(nil), staffIDs...)
	return nil
}

func (r *fakeOperationRepo) GetStaffIDs(ctx context.Context, tx pgx.Tx, operationID uint64) ([]uint64, error) {
	return append([]uint64(nil), r.staff[operationID]...), nil
}

// --- tasks ---

type fakeTaskRepo struct {
	items  map[uint64]*entities.Task
	nextID uint64
}

func newFakeTaskRepo() *fakeTaskRepo { return &fakeTaskRepo{items: map[uint64]*entities.Task{}} }

func (r *fakeTaskRepo) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Task, uint64, error) {
	var out []*entities.Task
	for id := uint64(1); id <= r.nextID; id++ {
		if t, ok := r.items[id]; ok {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, uint64(len(out)), nil
}

func (r *fakeTaskRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Task, error) {
	t, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) Create(ctx context.Context, tx pgx.Tx, t entities.Task) (uint64, error) {
	r.nextID++
	t.ID = r.nextID
	r.items[t.ID] = &t
	return t.ID, nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, tx pgx.Tx, t entities.Task) error {
	if _, ok := r.items[t.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.items[t.ID] = &t
	return nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// --- purchases ---

type fakePurchaseRepo struct {
	items  map[uint64]*entities.Purchase
	nextID uint64
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{items: map[uint64]*entities.Purchase{}}
}

func (r *fakePurchaseRepo) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Purchase, uint64, error) {
	var out []*entities.Purchase
	for id := uint64(1); id <= r.nextID; id++ {
		if p, ok := r.items[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, uint64(len(out)), nil
}

func (r *fakePurchaseRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Purchase, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePurchaseRepo) Create(ctx context.Context, tx pgx.Tx, p entities.Purchase) (uint64, error) {
	r.nextID++
	p.ID = r.nextID
	r.items[p.ID] = &p
	return p.ID, nil
}

func (r *fakePurchaseRepo) Update(ctx context.Context, tx pgx.Tx, p entities.Purchase) error {
	if _, ok := r.items[p.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.items[p.ID] = &p
	return nil
}

func (r *fakePurchaseRepo) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// --- history / snapshots ---

type fakeHistoryRepo struct{ rows []entities.StatusHistory }

func (r *fakeHistoryRepo) Create(ctx context.Context, tx pgx.Tx, h entities.StatusHistory) error {
	h.ID = uint64(len(r.rows) + 1)
	r.rows = append(r.rows, h)
	return nil
}

func (r *fakeHistoryRepo) ListByEntity(ctx context.Context, entityType string, entityID uint64) ([]entities.StatusHistory, error) {
	var out []entities.StatusHistory
	for _, h := range r.rows {
		if h.EntityType == entityType && h.EntityID == entityID {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeSnapshotRepo struct {
	rows map[string]entities.DepreciationSnapshot
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{rows: map[string]entities.DepreciationSnapshot{}}
}

func (r *fakeSnapshotRepo) Upsert(ctx context.Context, s entities.DepreciationSnapshot) error {
	r.rows[fmt.Sprintf("%d/%s", s.AssetID, s.SnapshotDate.Format(dateLayout))] = s
	return nil
}

func (r *fakeSnapshotRepo) ListByAsset(ctx context.Context, assetID uint64, limit uint64) ([]entities.DepreciationSnapshot, error) {
	var out []entities.DepreciationSnapshot
	for _, s := range r.rows {
		if s.AssetID == assetID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SnapshotDate.After(out[j].SnapshotDate) })
	if uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- dashboard ---

type fakeDashboardRepo struct {
	calls int
}

func (r *fakeDashboardRepo) AssetsByStatus(ctx context.Context) (map[string]uint64, error) {
	r.calls++
	return map[string]uint64{"active": 2, "in-repair": 1}, nil
}

func (r *fakeDashboardRepo) AssetsByCategory(ctx context.Context) (map[string]uint64, error) {
	return map[string]uint64{"it-equipment": 3}, nil
}

func (r *fakeDashboardRepo) PurchaseValueByCurrency(ctx context.Context) (map[string]float64, error) {
	return map[string]float64{"USD": 3000}, nil
}

func (r *fakeDashboardRepo) OperationsByStatus(ctx context.Context) (map[string]uint64, error) {
	return map[string]uint64{"pending": 1}, nil
}

func (r *fakeDashboardRepo) TasksByStatus(ctx context.Context) (map[string]uint64, error) {
	return map[string]uint64{"completed": 4}, nil
}

func (r *fakeDashboardRepo) PurchasesByStatus(ctx context.Context) (map[string]uint64, error) {
	return map[string]uint64{"requested": 2}, nil
}

// --- cache ---

type fakeCache struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	switch v := value.(type) {
	case []byte:
		c.values[key] = string(v)
	case string:
		c.values[key] = v
	default:
		c.values[key] = fmt.Sprint(v)
	}
	c.ttls[key] = expiration
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
		delete(c.ttls, k)
	}
	return nil
}

func (c *fakeCache) Incr(ctx context.Context, key string) (int64, error) {
	var n int64
	fmt.Sscan(c.values[key], &n)
	n++
	c.values[key] = fmt.Sprint(n)
	return n, nil
}

func (c *fakeCache) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	if _, ok := c.values[key]; !ok {
		return false, nil
	}
	c.ttls[key] = expiration
	return true, nil
}

func (c *fakeCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.ttls[key], nil
}

func (c *fakeCache) Ping(ctx context.Context) error { return nil }

// --- jwt ---

type fakeJWT struct{}

func (fakeJWT) GenerateTokens(staffID uint64) (string, string, error) {
	return fmt.Sprintf("access-%d", staffID), fmt.Sprintf("refresh-%d", staffID), nil
}

func (fakeJWT) ValidateToken(token string) (*service.JwtCustomClaim, error) {
	var id uint64
	switch {
	case strings.HasPrefix(token, "refresh-"):
		fmt.Sscan(strings.TrimPrefix(token, "refresh-"), &id)
		return &service.JwtCustomClaim{StaffID: id, IsRefreshToken: true}, nil
	case strings.HasPrefix(token, "access-"):
		fmt.Sscan(strings.TrimPrefix(token, "access-"), &id)
		return &service.JwtCustomClaim{StaffID: id}, nil
	}
	return nil, apperrors.ErrInvalidToken
}

func (fakeJWT) GetAccessTokenTTL() time.Duration  { return time.Hour }
func (fakeJWT) GetRefreshTokenTTL() time.Duration { return 24 * time.Hour }
