package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"asset-system/internal/dto"
	"asset-system/internal/entities"
	"asset-system/pkg/constants"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/utils"
)

func newTaskService() (*TaskService, *fakeStaffRepo, *fakeHistoryRepo) {
	staff := newFakeStaffRepo()
	history := &fakeHistoryRepo{}
	svc := NewTaskService(newFakeTaskRepo(), staff, history, &fakeTx{}, &recordingBus{}, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc, staff, history
}

func TestTaskService_CreateDefaults(t *testing.T) {
	svc, staff, _ := newTaskService()
	id := staff.add(entities.Staff{Email: "tech@example.com"})

	task, err := svc.Create(context.Background(), dto.CreateTaskDTO{
		Title:      "Заменить батарею",
		AssigneeID: null.Uint64From(id),
		DueDate:    "2026-10-25",
	})
	require.NoError(t, err)
	assert.Equal(t, "medium", task.Priority)
	assert.Equal(t, constants.WorkStatusPending, task.Status)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2026-10-25", *task.DueDate)
	assert.False(t, task.Overdue)

	_, err = svc.Create(context.Background(), dto.CreateTaskDTO{Title: "x", AssigneeID: null.Uint64From(500)})
	var inputErr *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestTaskService_Overdue(t *testing.T) {
	svc, _, _ := newTaskService()
	task, err := svc.Create(context.Background(), dto.CreateTaskDTO{Title: "Инвентаризация", DueDate: "2026-10-18"})
	require.NoError(t, err)
	assert.True(t, task.Overdue)

	_, err = svc.ChangeStatus(context.Background(), task.ID, dto.UpdateStatusDTO{Status: constants.WorkStatusCancelled})
	require.NoError(t, err)
	got, err := svc.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.False(t, got.Overdue)

	dueToday := &entities.Task{DueDate: utils.ToPtr(testNow), WorkState: entities.WorkState{Status: constants.WorkStatusPending}}
	assert.False(t, isOverdue(dueToday, testNow))
}

func TestTaskService_StatusAndProgress(t *testing.T) {
	svc, _, history := newTaskService()
	task, err := svc.Create(context.Background(), dto.CreateTaskDTO{Title: "Проверка"})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(context.Background(), task.ID, dto.UpdateStatusDTO{Status: constants.WorkStatusCompleted})
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)

	_, err = svc.ChangeStatus(context.Background(), task.ID, dto.UpdateStatusDTO{Status: constants.WorkStatusInProgress})
	require.NoError(t, err)
	res, err := svc.UpdateProgress(context.Background(), task.ID, 60)
	require.NoError(t, err)
	assert.Equal(t, 60, res.Progress)

	res, err = svc.ChangeStatus(context.Background(), task.ID, dto.UpdateStatusDTO{Status: constants.WorkStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, 100, res.Progress)

	list, err := svc.History(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Len(t, history.rows, 2)
	assert.Equal(t, entities.EntityTask, history.rows[0].EntityType)
}

func TestTaskService_Update(t *testing.T) {
	svc, _, _ := newTaskService()
	task, err := svc.Create(context.Background(), dto.CreateTaskDTO{Title: "Старое", DueDate: "2026-11-01"})
	require.NoError(t, err)

	res, err := svc.Update(context.Background(), task.ID, dto.UpdateTaskDTO{
		Title:    utils.ToPtr("Новое"),
		Priority: utils.ToPtr("urgent"),
		DueDate:  utils.ToPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Новое", res.Title)
	assert.Equal(t, "urgent", res.Priority)
	assert.Nil(t, res.DueDate)

	_, err = svc.Update(context.Background(), 404, dto.UpdateTaskDTO{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTaskService_UpdateUnassignsOnExplicitNull(t *testing.T) {
	svc, staff, _ := newTaskService()
	id := staff.add(entities.Staff{Email: "tech@example.com"})
	task, err := svc.Create(context.Background(), dto.CreateTaskDTO{Title: "Осмотр", AssigneeID: null.Uint64From(id), AssetID: null.Uint64From(3)})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), task.ID, dto.UpdateTaskDTO{AssigneeID: dto.NullableIDFrom(500)})
	var inputErr *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &inputErr)

	res, err := svc.Update(context.Background(), task.ID, dto.UpdateTaskDTO{AssigneeID: dto.ClearedID()})
	require.NoError(t, err)
	assert.Nil(t, res.AssigneeID)
	require.NotNil(t, res.AssetID)
	assert.Equal(t, uint64(3), *res.AssetID)
}
