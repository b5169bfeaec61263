package services

import (
	"context"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"asset-system/pkg/eventbus"
	"asset-system/pkg/utils"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// EventPublisher - то, что сервисам нужно от eventbus.Bus.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

// txRunner совпадает с repositories.TxManagerInterface; объявлен здесь,
// чтобы тесты сервисов подставляли свою реализацию.
type txRunner interface {
	RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format(dateTimeLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Local().Format(dateTimeLayout)
	return &s
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func nullUint64Ptr(v null.Uint64) *uint64 {
	if !v.Valid {
		return nil
	}
	id := v.Uint64
	return &id
}

// actorFromCtx - ID сотрудника из контекста запроса, nil для фоновых задач.
func actorFromCtx(ctx context.Context) *uint64 {
	id, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil
	}
	return &id
}

// newReference строит номер вида OP-1A2B3C4D из случайного UUID.
func newReference(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(raw[:8])
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(raw))
}
