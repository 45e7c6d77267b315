package unit

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type WorkoutLogRepoMock struct{ mock.Mock }

func (m *WorkoutLogRepoMock) Create(ctx context.Context, l model.WorkoutLog) (model.WorkoutLog, error) {
	args := m.Called(ctx, l)
	out, _ := args.Get(0).(model.WorkoutLog)
	return out, args.Error(1)
}

func (m *WorkoutLogRepoMock) FindByID(ctx context.Context, gymID int64, logID int64) (model.WorkoutLog, error) {
	args := m.Called(ctx, gymID, logID)
	l, _ := args.Get(0).(model.WorkoutLog)
	return l, args.Error(1)
}

func (m *WorkoutLogRepoMock) ListByUserID(ctx context.Context, gymID int64, userID int64, page int, limit int) ([]model.WorkoutLog, int64, error) {
	panic("not used in WorkoutLogUsecase tests")
}

func (m *WorkoutLogRepoMock) Finish(ctx context.Context, logID int64, endedAt time.Time) (bool, error) {
	args := m.Called(ctx, logID, endedAt)
	return args.Bool(0), args.Error(1)
}

func (m *WorkoutLogRepoMock) AddEntry(ctx context.Context, e model.WorkoutLogEntry) (model.WorkoutLogEntry, error) {
	args := m.Called(ctx, e)
	out, _ := args.Get(0).(model.WorkoutLogEntry)
	return out, args.Error(1)
}

func (m *WorkoutLogRepoMock) ListEntries(ctx context.Context, logID int64) ([]model.WorkoutLogEntry, error) {
	args := m.Called(ctx, logID)
	entries, _ := args.Get(0).([]model.WorkoutLogEntry)
	return entries, args.Error(1)
}

type ExerciseRepoForLogMock struct{ mock.Mock }

func (m *ExerciseRepoForLogMock) List(ctx context.Context, gymID int64, page int, limit int, muscleGroup string) ([]model.Exercise, int64, error) {
	panic("not used in WorkoutLogUsecase tests")
}

func (m *ExerciseRepoForLogMock) FindByID(ctx context.Context, gymID int64, exerciseID int64) (model.Exercise, error) {
	args := m.Called(ctx, gymID, exerciseID)
	e, _ := args.Get(0).(model.Exercise)
	return e, args.Error(1)
}

func (m *ExerciseRepoForLogMock) CountByIDs(ctx context.Context, gymID int64, exerciseIDs []int64) (int64, error) {
	panic("not used in WorkoutLogUsecase tests")
}

func (m *ExerciseRepoForLogMock) Create(ctx context.Context, e model.Exercise) (model.Exercise, error) {
	panic("not used in WorkoutLogUsecase tests")
}

func (m *ExerciseRepoForLogMock) Update(ctx context.Context, e model.Exercise) error {
	panic("not used in WorkoutLogUsecase tests")
}

func (m *ExerciseRepoForLogMock) SoftDelete(ctx context.Context, gymID int64, exerciseID int64) error {
	panic("not used in WorkoutLogUsecase tests")
}

func openLog() model.WorkoutLog {
	return model.WorkoutLog{ID: 1, GymID: 1, UserID: 10, StartedAt: time.Now().Add(-time.Hour)}
}

// =====================
// AddEntry tests
// =====================

func TestWorkoutLogUsecase_AddEntry_Success(t *testing.T) {
	logs := new(WorkoutLogRepoMock)
	exercises := new(ExerciseRepoForLogMock)

	logs.On("FindByID", mock.Anything, int64(1), int64(1)).Return(openLog(), nil)
	exercises.On("FindByID", mock.Anything, int64(1), int64(7)).Return(model.Exercise{ID: 7, GymID: 1}, nil)
	logs.On("AddEntry", mock.Anything, mock.MatchedBy(func(e model.WorkoutLogEntry) bool {
		return e.LogID == 1 && e.ExerciseID == 7 && e.SetNumber == 1
	})).Return(model.WorkoutLogEntry{ID: 11, LogID: 1, ExerciseID: 7, SetNumber: 1, Reps: 8, WeightKg: 60}, nil)

	uc := usecase.NewWorkoutLogUsecase(logs, exercises)

	out, err := uc.AddEntry(context.Background(), studentActor(), 1, usecase.AddWorkoutEntryInput{
		ExerciseID: 7,
		SetNumber:  1,
		Reps:       8,
		WeightKg:   60,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(11), out.ID)

	logs.AssertExpectations(t)
}

// 終了済みログへの追記は400
func TestWorkoutLogUsecase_AddEntry_FinishedLog(t *testing.T) {
	logs := new(WorkoutLogRepoMock)
	exercises := new(ExerciseRepoForLogMock)

	ended := time.Now()
	finished := openLog()
	finished.EndedAt = &ended
	logs.On("FindByID", mock.Anything, int64(1), int64(1)).Return(finished, nil)

	uc := usecase.NewWorkoutLogUsecase(logs, exercises)

	_, err := uc.AddEntry(context.Background(), studentActor(), 1, usecase.AddWorkoutEntryInput{
		ExerciseID: 7,
		SetNumber:  1,
		Reps:       8,
	})
	assertErrContains(t, err, "workout already finished")

	logs.AssertNotCalled(t, "AddEntry", mock.Anything, mock.Anything)
}

// 他人のログは存在しない扱い
func TestWorkoutLogUsecase_AddEntry_OthersLogHidden(t *testing.T) {
	logs := new(WorkoutLogRepoMock)
	exercises := new(ExerciseRepoForLogMock)

	othersLog := openLog()
	othersLog.UserID = 999
	logs.On("FindByID", mock.Anything, int64(1), int64(1)).Return(othersLog, nil)

	uc := usecase.NewWorkoutLogUsecase(logs, exercises)

	_, err := uc.AddEntry(context.Background(), studentActor(), 1, usecase.AddWorkoutEntryInput{
		ExerciseID: 7,
		SetNumber:  1,
		Reps:       8,
	})
	assertErrContains(t, err, "not found")
}

func TestWorkoutLogUsecase_AddEntry_UnknownExercise(t *testing.T) {
	logs := new(WorkoutLogRepoMock)
	exercises := new(ExerciseRepoForLogMock)

	logs.On("FindByID", mock.Anything, int64(1), int64(1)).Return(openLog(), nil)
	exercises.On("FindByID", mock.Anything, int64(1), int64(99)).Return(model.Exercise{}, repo.ErrNotFound)

	uc := usecase.NewWorkoutLogUsecase(logs, exercises)

	_, err := uc.AddEntry(context.Background(), studentActor(), 1, usecase.AddWorkoutEntryInput{
		ExerciseID: 99,
		SetNumber:  1,
		Reps:       8,
	})
	assertErrContains(t, err, "exercise not found")
}

// =====================
// FinishWorkout tests
// =====================

func TestWorkoutLogUsecase_Finish_Success(t *testing.T) {
	logs := new(WorkoutLogRepoMock)
	exercises := new(ExerciseRepoForLogMock)

	logs.On("FindByID", mock.Anything, int64(1), int64(1)).Return(openLog(), nil)
	logs.On("Finish", mock.Anything, int64(1), mock.Anything).Return(true, nil)

	uc := usecase.NewWorkoutLogUsecase(logs, exercises)

	err := uc.FinishWorkout(context.Background(), studentActor(), 1)
	assert.NoError(t, err)

	logs.AssertExpectations(t)
}

// 0件更新=すでに終了済み
func TestWorkoutLogUsecase_Finish_Twice(t *testing.T) {
	logs := new(WorkoutLogRepoMock)
	exercises := new(ExerciseRepoForLogMock)

	logs.On("FindByID", mock.Anything, int64(1), int64(1)).Return(openLog(), nil)
	logs.On("Finish", mock.Anything, int64(1), mock.Anything).Return(false, nil)

	uc := usecase.NewWorkoutLogUsecase(logs, exercises)

	err := uc.FinishWorkout(context.Background(), studentActor(), 1)
	assertErrContains(t, err, "workout already finished")
}
