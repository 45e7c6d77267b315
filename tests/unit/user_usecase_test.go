package unit

import (
	"app/internal/domain/model"
	"app/internal/usecase"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func managerActor() usecase.Actor {
	return usecase.Actor{UserID: 30, GymID: 1, Role: model.RoleManager}
}

// =====================
// UserUsecase tests
// =====================

func TestUserUsecase_List_StudentForbidden(t *testing.T) {
	users := new(MockUserRepoForMiddleware)
	uc := usecase.NewUserUsecase(users)

	_, err := uc.ListUsers(context.Background(), studentActor(), 1, 20)
	assertErrContains(t, err, "forbidden")
}

func TestUserUsecase_Get_SelfAllowedForStudent(t *testing.T) {
	users := new(MockUserRepoForMiddleware)
	users.On("FindByIDInGym", mock.Anything, int64(1), int64(10)).Return(activeStudent(10), nil)

	uc := usecase.NewUserUsecase(users)

	out, err := uc.GetUser(context.Background(), studentActor(), 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), out.ID)
}

func TestUserUsecase_Get_OthersForbiddenForStudent(t *testing.T) {
	users := new(MockUserRepoForMiddleware)
	uc := usecase.NewUserUsecase(users)

	_, err := uc.GetUser(context.Background(), studentActor(), 99)
	assertErrContains(t, err, "forbidden")
}

// MANAGERはADMINロールを付与できない
func TestUserUsecase_Update_CannotGrantHigherRole(t *testing.T) {
	users := new(MockUserRepoForMiddleware)
	uc := usecase.NewUserUsecase(users)

	err := uc.UpdateUser(context.Background(), managerActor(), 10, usecase.UpdateUserInput{
		FullName: "Taro",
		Role:     "ADMIN",
		IsActive: true,
	})
	assertErrContains(t, err, "cannot grant higher role")

	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// MANAGERはADMINユーザーを触れない
func TestUserUsecase_Update_CannotTouchStrongerUser(t *testing.T) {
	users := new(MockUserRepoForMiddleware)
	admin := &model.User{ID: 40, GymID: 1, Role: model.RoleAdmin, IsActive: true}
	users.On("FindByIDInGym", mock.Anything, int64(1), int64(40)).Return(admin, nil)

	uc := usecase.NewUserUsecase(users)

	err := uc.UpdateUser(context.Background(), managerActor(), 40, usecase.UpdateUserInput{
		FullName: "Admin",
		Role:     "MANAGER",
		IsActive: true,
	})
	assertErrContains(t, err, "forbidden")
}

// ロール変更時は既存トークンを無効化する
func TestUserUsecase_Update_RoleChangeBumpsTokenVersion(t *testing.T) {
	users := new(MockUserRepoForMiddleware)
	target := &model.User{ID: 10, GymID: 1, FullName: "Taro", Role: model.RoleStudent, IsActive: true}
	users.On("FindByIDInGym", mock.Anything, int64(1), int64(10)).Return(target, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Role == model.RoleTrainer
	})).Return(nil)
	users.On("IncrementTokenVersion", mock.Anything, int64(10)).Return(nil)

	uc := usecase.NewUserUsecase(users)

	err := uc.UpdateUser(context.Background(), managerActor(), 10, usecase.UpdateUserInput{
		FullName: "Taro",
		Role:     "TRAINER",
		IsActive: true,
	})
	assert.NoError(t, err)

	users.AssertExpectations(t)
}

// 名前だけの変更ではtoken_versionを上げない
func TestUserUsecase_Update_NoBumpWithoutRoleChange(t *testing.T) {
	users := new(MockUserRepoForMiddleware)
	target := &model.User{ID: 10, GymID: 1, FullName: "Taro", Role: model.RoleStudent, IsActive: true}
	users.On("FindByIDInGym", mock.Anything, int64(1), int64(10)).Return(target, nil)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewUserUsecase(users)

	err := uc.UpdateUser(context.Background(), managerActor(), 10, usecase.UpdateUserInput{
		FullName: "Taro Yamada",
		Role:     "STUDENT",
		IsActive: true,
	})
	assert.NoError(t, err)

	users.AssertNotCalled(t, "IncrementTokenVersion", mock.Anything, mock.Anything)
}

func TestUserUsecase_Delete_SelfRejected(t *testing.T) {
	users := new(MockUserRepoForMiddleware)
	uc := usecase.NewUserUsecase(users)

	err := uc.DeleteUser(context.Background(), managerActor(), 30)
	assertErrContains(t, err, "cannot delete yourself")
}

func TestUserUsecase_Delete_BumpsTokenVersion(t *testing.T) {
	users := new(MockUserRepoForMiddleware)
	users.On("FindByIDInGym", mock.Anything, int64(1), int64(10)).Return(activeStudent(10), nil)
	users.On("SoftDelete", mock.Anything, int64(1), int64(10)).Return(nil)
	users.On("IncrementTokenVersion", mock.Anything, int64(10)).Return(nil)

	uc := usecase.NewUserUsecase(users)

	err := uc.DeleteUser(context.Background(), managerActor(), 10)
	assert.NoError(t, err)

	users.AssertExpectations(t)
}

// =====================
// AnalyticsUsecase tests
// =====================

type AnalyticsRepoMock struct{ mock.Mock }

func (m *AnalyticsRepoMock) SumCompletedRevenue(ctx context.Context, gymID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, gymID)
	d, _ := args.Get(0).(decimal.Decimal)
	return d, args.Error(1)
}

func TestAnalyticsUsecase_Dashboard_TrainerForbidden(t *testing.T) {
	tx := new(TxManagerMock)
	users := new(MockUserRepoForMiddleware)
	analytics := new(AnalyticsRepoMock)

	uc := usecase.NewAnalyticsUsecase(tx, users, analytics)

	_, err := uc.GetDashboard(context.Background(), trainerActor())
	assertErrContains(t, err, "forbidden")
}

func TestAnalyticsUsecase_Dashboard_AggregatesAllCounters(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	users := new(MockUserRepoForMiddleware)
	analytics := new(AnalyticsRepoMock)
	ordersRepo := new(OrderRepoMock)
	productsRepo := new(ProductRepoMock)
	programsRepo := new(ProgramRepoMock)

	tx.Repos = &TxReposMock{
		orders:   ordersRepo,
		products: productsRepo,
		programs: programsRepo,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	users.On("CountByRole", mock.Anything, int64(1), model.RoleStudent).Return(int64(42), nil)
	users.On("CountByRole", mock.Anything, int64(1), model.RoleTrainer).Return(int64(5), nil)
	analytics.On("SumCompletedRevenue", mock.Anything, int64(1)).Return(decimal.NewFromInt(123000), nil)
	programsRepo.On("CountActive", mock.Anything, int64(1)).Return(int64(9), nil)

	ordersRepo.On("CountByStatus", mock.Anything, int64(1), model.OrderStatusPendingApproval).Return(int64(3), nil)
	ordersRepo.On("CountByStatus", mock.Anything, int64(1), model.OrderStatusPrepared).Return(int64(2), nil)
	ordersRepo.On("CountByStatus", mock.Anything, int64(1), model.OrderStatusCompleted).Return(int64(12), nil)
	ordersRepo.On("CountByStatus", mock.Anything, int64(1), model.OrderStatusCancelled).Return(int64(1), nil)

	productsRepo.On("CountLowStock", mock.Anything, int64(1), int64(5)).Return(int64(4), nil)

	uc := usecase.NewAnalyticsUsecase(tx, users, analytics)

	stats, err := uc.GetDashboard(ctx, managerActor())
	assert.NoError(t, err)
	assert.Equal(t, int64(42), stats.StudentCount)
	assert.Equal(t, int64(5), stats.TrainerCount)
	assert.Equal(t, int64(9), stats.ActivePrograms)
	assert.Equal(t, int64(12), stats.OrdersByStatus["completed"])
	assert.Equal(t, int64(4), stats.LowStockProducts)
	assert.True(t, stats.CompletedRevenue.Equal(decimal.NewFromInt(123000)))
}
