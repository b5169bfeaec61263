package services

import (
	"fmt"
	"time"

	"asset-system/internal/entities"
	"asset-system/pkg/constants"
	apperrors "asset-system/pkg/errors"
)

// transitionWork применяет переход pending → in-progress → completed
// (cancelled из любого незавершённого). completed выставляет прогресс 100.
func transitionWork(st *entities.WorkState, to string, now time.Time) error {
	from := st.Status
	if !constants.CanTransitionWork(from, to) {
		return fmt.Errorf("%s → %s: %w", from, to, apperrors.ErrInvalidStatusTransition)
	}

	st.Status = to
	switch to {
	case constants.WorkStatusInProgress:
		if st.StartedAt == nil {
			started := now
			st.StartedAt = &started
		}
	case constants.WorkStatusCompleted:
		st.Progress = 100
		completed := now
		st.CompletedAt = &completed
	}
	return nil
}

// setWorkProgress меняет прогресс только в статусе in-progress.
// 100% не завершает работу автоматически.
func setWorkProgress(st *entities.WorkState, progress int) error {
	if progress < 0 || progress > 100 {
		return apperrors.NewInvalidInputError("прогресс должен быть в диапазоне 0..100, получено %d", progress)
	}
	if st.Status != constants.WorkStatusInProgress {
		return fmt.Errorf("прогресс меняется только в статусе %s (сейчас %s): %w",
			constants.WorkStatusInProgress, st.Status, apperrors.ErrInvalidStatusTransition)
	}
	st.Progress = progress
	return nil
}
