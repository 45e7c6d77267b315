package unit

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders           repo.OrderRepository
	orderItems       repo.OrderItemRepository
	orderCounters    repo.OrderCounterRepository
	products         repo.ProductRepository
	inventory        repo.InventoryRepository
	programs         repo.WorkoutProgramRepository
	programExercises repo.ProgramExerciseRepository
	auditLogs        repo.AuditLogRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository                   { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository           { return r.orderItems }
func (r *TxReposMock) OrderCounters() repo.OrderCounterRepository     { return r.orderCounters }
func (r *TxReposMock) Products() repo.ProductRepository               { return r.products }
func (r *TxReposMock) Inventory() repo.InventoryRepository            { return r.inventory }
func (r *TxReposMock) Programs() repo.WorkoutProgramRepository        { return r.programs }
func (r *TxReposMock) ProgramExercises() repo.ProgramExerciseRepository {
	return r.programExercises
}
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository { return r.auditLogs }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, gymID int64, orderID int64) (model.Order, error) {
	args := m.Called(ctx, gymID, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, gymID int64, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, gymID, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) List(ctx context.Context, gymID int64, f repo.OrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, gymID, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, metadata datatypes.JSONMap) error {
	args := m.Called(ctx, orderID, status, metadata)
	return args.Error(0)
}

func (m *OrderRepoMock) SoftDelete(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *OrderRepoMock) CountByStatus(ctx context.Context, gymID int64, status model.OrderStatus) (int64, error) {
	args := m.Called(ctx, gymID, status)
	return args.Get(0).(int64), args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type OrderCounterRepoMock struct{ mock.Mock }

func (m *OrderCounterRepoMock) NextSeq(ctx context.Context, gymID int64, dayKey string) (int64, error) {
	args := m.Called(ctx, gymID, dayKey)
	return args.Get(0).(int64), args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, gymID int64, q repo.ProductListQuery) ([]model.Product, int64, error) {
	panic("not used in OrderUsecase tests")
}

func (m *ProductRepoMock) FindByID(ctx context.Context, gymID int64, productID int64) (model.Product, error) {
	args := m.Called(ctx, gymID, productID)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindActiveByIDs(ctx context.Context, gymID int64, productIDs []int64) ([]model.Product, error) {
	args := m.Called(ctx, gymID, productIDs)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used in OrderUsecase tests")
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	panic("not used in OrderUsecase tests")
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, gymID int64, productID int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *ProductRepoMock) CountLowStock(ctx context.Context, gymID int64, threshold int64) (int64, error) {
	args := m.Called(ctx, gymID, threshold)
	return args.Get(0).(int64), args.Error(1)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) SetStock(ctx context.Context, gymID int64, productID int64, newStock int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, gymID int64, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	panic("not used in OrderUsecase tests")
}

type OrderUserRepoMock struct{ mock.Mock }

func (m *OrderUserRepoMock) Create(ctx context.Context, user *model.User) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrderUserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderUserRepoMock) FindByIDInGym(ctx context.Context, gymID int64, userID int64) (*model.User, error) {
	args := m.Called(ctx, gymID, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *OrderUserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderUserRepoMock) List(ctx context.Context, gymID int64, page int, limit int) ([]model.User, int64, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderUserRepoMock) Update(ctx context.Context, user *model.User) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrderUserRepoMock) SoftDelete(ctx context.Context, gymID int64, userID int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrderUserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrderUserRepoMock) CountByRole(ctx context.Context, gymID int64, role model.Role) (int64, error) {
	panic("not used in OrderUsecase tests")
}

// =====================
// Helper: error contains（HTTPErrorの実装詳細に依存しない）
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func studentActor() usecase.Actor {
	return usecase.Actor{UserID: 10, GymID: 1, Role: model.RoleStudent}
}

func trainerActor() usecase.Actor {
	return usecase.Actor{UserID: 20, GymID: 1, Role: model.RoleTrainer}
}

func activeStudent(id int64) *model.User {
	return &model.User{ID: id, GymID: 1, Role: model.RoleStudent, IsActive: true}
}

// =====================
// PlaceOrder tests
// =====================

func TestOrderUsecase_PlaceOrder_Success_NumberAndTotal(t *testing.T) {
	ctx := context.Background()
	actor := studentActor()

	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	countersRepo := new(OrderCounterRepoMock)
	productsRepo := new(ProductRepoMock)
	invRepo := new(InventoryRepoMock)

	tx.Repos = &TxReposMock{
		orders:        ordersRepo,
		orderItems:    itemsRepo,
		orderCounters: countersRepo,
		products:      productsRepo,
		inventory:     invRepo,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	//自分の注文では注文主の再確認は走らない
	protein := model.Product{ID: 100, GymID: 1, Name: "Whey Protein", Price: decimal.NewFromInt(3000), StockQuantity: 8, IsActive: true}
	productsRepo.On("FindActiveByIDs", mock.Anything, int64(1), []int64{100}).Return([]model.Product{protein}, nil)

	invRepo.On("DecreaseStockIfEnough", mock.Anything, int64(100), int64(2)).Return(true, nil)

	dayKey := time.Now().UTC().Format("20060102")
	countersRepo.On("NextSeq", mock.Anything, int64(1), dayKey).Return(int64(7), nil)

	ordersRepo.On("Create", mock.Anything, mock.Anything).Return(int64(55), nil)
	itemsRepo.On("CreateBulk", mock.Anything, int64(55), mock.Anything).Return(nil)

	uc := usecase.NewOrderUsecase(tx, users)

	out, err := uc.PlaceOrder(ctx, actor, usecase.PlaceOrderInput{
		Items: []usecase.PlaceOrderItemInput{{ProductID: 100, Quantity: 2}},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(55), out.ID)
	assert.Equal(t, fmt.Sprintf("ORD-%s-00007", dayKey), out.OrderNumber)
	assert.Equal(t, string(model.OrderStatusPendingApproval), out.Status)
	assert.True(t, out.TotalAmount.Equal(decimal.NewFromInt(6000)), "total=%s", out.TotalAmount)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, int64(2), out.Items[0].Quantity)

	tx.AssertExpectations(t)
	invRepo.AssertExpectations(t)
	countersRepo.AssertExpectations(t)
	ordersRepo.AssertExpectations(t)
	itemsRepo.AssertExpectations(t)
	users.AssertNotCalled(t, "FindByIDInGym", mock.Anything, mock.Anything, mock.Anything)
}

// 同一商品が複数行で来たら合算して在庫減算は1回
func TestOrderUsecase_PlaceOrder_MergesDuplicateLines(t *testing.T) {
	ctx := context.Background()
	actor := studentActor()

	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	countersRepo := new(OrderCounterRepoMock)
	productsRepo := new(ProductRepoMock)
	invRepo := new(InventoryRepoMock)

	tx.Repos = &TxReposMock{
		orders:        ordersRepo,
		orderItems:    itemsRepo,
		orderCounters: countersRepo,
		products:      productsRepo,
		inventory:     invRepo,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	bar := model.Product{ID: 200, GymID: 1, Name: "Energy Bar", Price: decimal.NewFromInt(250), StockQuantity: 10, IsActive: true}
	productsRepo.On("FindActiveByIDs", mock.Anything, int64(1), []int64{200}).Return([]model.Product{bar}, nil)

	// 1+2 => 3で1回だけ
	invRepo.On("DecreaseStockIfEnough", mock.Anything, int64(200), int64(3)).Return(true, nil).Once()

	dayKey := time.Now().UTC().Format("20060102")
	countersRepo.On("NextSeq", mock.Anything, int64(1), dayKey).Return(int64(1), nil)
	ordersRepo.On("Create", mock.Anything, mock.Anything).Return(int64(56), nil)
	itemsRepo.On("CreateBulk", mock.Anything, int64(56), mock.Anything).Return(nil)

	uc := usecase.NewOrderUsecase(tx, users)

	out, err := uc.PlaceOrder(ctx, actor, usecase.PlaceOrderInput{
		Items: []usecase.PlaceOrderItemInput{
			{ProductID: 200, Quantity: 1},
			{ProductID: 200, Quantity: 2},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ORD-%s-00001", dayKey), out.OrderNumber)
	assert.True(t, out.TotalAmount.Equal(decimal.NewFromInt(750)))

	invRepo.AssertExpectations(t)
}

// metadataは注文行までそのまま渡る
func TestOrderUsecase_PlaceOrder_CarriesMetadata(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	countersRepo := new(OrderCounterRepoMock)
	productsRepo := new(ProductRepoMock)
	invRepo := new(InventoryRepoMock)

	tx.Repos = &TxReposMock{
		orders:        ordersRepo,
		orderItems:    itemsRepo,
		orderCounters: countersRepo,
		products:      productsRepo,
		inventory:     invRepo,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	towel := model.Product{ID: 400, GymID: 1, Name: "Gym Towel", Price: decimal.NewFromInt(500), StockQuantity: 5, IsActive: true}
	productsRepo.On("FindActiveByIDs", mock.Anything, int64(1), []int64{400}).Return([]model.Product{towel}, nil)
	invRepo.On("DecreaseStockIfEnough", mock.Anything, int64(400), int64(1)).Return(true, nil)

	dayKey := time.Now().UTC().Format("20060102")
	countersRepo.On("NextSeq", mock.Anything, int64(1), dayKey).Return(int64(2), nil)

	ordersRepo.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.Metadata != nil && o.Metadata["source"] == "front_desk"
	})).Return(int64(57), nil)
	itemsRepo.On("CreateBulk", mock.Anything, int64(57), mock.Anything).Return(nil)

	uc := usecase.NewOrderUsecase(tx, users)

	out, err := uc.PlaceOrder(ctx, studentActor(), usecase.PlaceOrderInput{
		Items:    []usecase.PlaceOrderItemInput{{ProductID: 400, Quantity: 1}},
		Metadata: map[string]any{"source": "front_desk"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "front_desk", out.Metadata["source"])

	ordersRepo.AssertExpectations(t)
}

func TestOrderUsecase_PlaceOrder_StudentCannotOrderForOthers(t *testing.T) {
	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.PlaceOrder(context.Background(), studentActor(), usecase.PlaceOrderInput{
		TargetUserID: 99,
		Items:        []usecase.PlaceOrderItemInput{{ProductID: 1, Quantity: 1}},
	})
	assertErrContains(t, err, "forbidden")

	tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestOrderUsecase_PlaceOrder_TargetInactive(t *testing.T) {
	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)

	inactive := activeStudent(30)
	inactive.IsActive = false
	users.On("FindByIDInGym", mock.Anything, int64(1), int64(30)).Return(inactive, nil)

	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.PlaceOrder(context.Background(), trainerActor(), usecase.PlaceOrderInput{
		TargetUserID: 30,
		Items:        []usecase.PlaceOrderItemInput{{ProductID: 1, Quantity: 1}},
	})
	assertErrContains(t, err, "user not found")
}

func TestOrderUsecase_PlaceOrder_EmptyItems(t *testing.T) {
	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)

	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.PlaceOrder(context.Background(), studentActor(), usecase.PlaceOrderInput{})
	assertErrContains(t, err, "items required")
}

func TestOrderUsecase_PlaceOrder_InvalidQuantity(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	productsRepo := new(ProductRepoMock)

	tx.Repos = &TxReposMock{products: productsRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	productsRepo.On("FindActiveByIDs", mock.Anything, int64(1), []int64{1}).
		Return([]model.Product{{ID: 1, Name: "A", Price: decimal.NewFromInt(100), IsActive: true}}, nil)

	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.PlaceOrder(ctx, studentActor(), usecase.PlaceOrderInput{
		Items: []usecase.PlaceOrderItemInput{{ProductID: 1, Quantity: 0}},
	})
	assertErrContains(t, err, "quantity must be > 0")
}

// 商品の存在チェックが数量チェックより先
func TestOrderUsecase_PlaceOrder_UnknownProductReportedBeforeQuantity(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	productsRepo := new(ProductRepoMock)

	tx.Repos = &TxReposMock{products: productsRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	productsRepo.On("FindActiveByIDs", mock.Anything, int64(1), []int64{101, 102}).
		Return([]model.Product{{ID: 102, Name: "B", Price: decimal.NewFromInt(100), IsActive: true}}, nil)

	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.PlaceOrder(ctx, studentActor(), usecase.PlaceOrderInput{
		Items: []usecase.PlaceOrderItemInput{
			{ProductID: 101, Quantity: 1},
			{ProductID: 102, Quantity: 0},
		},
	})
	assertErrContains(t, err, "product 101 not available")
}

func TestOrderUsecase_PlaceOrder_ProductNotAvailable(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	productsRepo := new(ProductRepoMock)

	tx.Repos = &TxReposMock{products: productsRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	// 1件欠けたら全体拒否
	productsRepo.On("FindActiveByIDs", mock.Anything, int64(1), []int64{100, 101}).
		Return([]model.Product{{ID: 100, Name: "A", Price: decimal.NewFromInt(100), IsActive: true}}, nil)

	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.PlaceOrder(ctx, studentActor(), usecase.PlaceOrderInput{
		Items: []usecase.PlaceOrderItemInput{
			{ProductID: 100, Quantity: 1},
			{ProductID: 101, Quantity: 1},
		},
	})
	assertErrContains(t, err, "product 101 not available")
}

func TestOrderUsecase_PlaceOrder_InsufficientStock(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	ordersRepo := new(OrderRepoMock)
	productsRepo := new(ProductRepoMock)
	invRepo := new(InventoryRepoMock)

	tx.Repos = &TxReposMock{
		orders:    ordersRepo,
		products:  productsRepo,
		inventory: invRepo,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	shaker := model.Product{ID: 300, GymID: 1, Name: "Shaker", Price: decimal.NewFromInt(900), StockQuantity: 1, IsActive: true}
	productsRepo.On("FindActiveByIDs", mock.Anything, int64(1), []int64{300}).Return([]model.Product{shaker}, nil)

	invRepo.On("DecreaseStockIfEnough", mock.Anything, int64(300), int64(5)).Return(false, nil)
	// エラーメッセージ用の在庫読み直し
	productsRepo.On("FindByID", mock.Anything, int64(1), int64(300)).Return(shaker, nil)

	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.PlaceOrder(ctx, studentActor(), usecase.PlaceOrderInput{
		Items: []usecase.PlaceOrderItemInput{{ProductID: 300, Quantity: 5}},
	})
	assertErrContains(t, err, "insufficient stock for Shaker: requested 5, available 1")

	// 在庫不足なら注文は作られない
	ordersRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// =====================
// UpdateStatus tests
// =====================

func TestOrderUsecase_UpdateStatus_StudentForbidden(t *testing.T) {
	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	uc := usecase.NewOrderUsecase(tx, users)

	err := uc.UpdateStatus(context.Background(), studentActor(), 1, usecase.UpdateOrderStatusInput{Status: "prepared"})
	assertErrContains(t, err, "forbidden")
}

func TestOrderUsecase_UpdateStatus_InvalidStatus(t *testing.T) {
	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	uc := usecase.NewOrderUsecase(tx, users)

	err := uc.UpdateStatus(context.Background(), trainerActor(), 1, usecase.UpdateOrderStatusInput{Status: "shipped"})
	assertErrContains(t, err, "invalid status")
}

func TestOrderUsecase_UpdateStatus_CompletedIsImmutable(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	ordersRepo := new(OrderRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(1), int64(5)).Return(model.Order{
		ID:     5,
		GymID:  1,
		Status: model.OrderStatusCompleted,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, users)

	err := uc.UpdateStatus(ctx, trainerActor(), 5, usecase.UpdateOrderStatusInput{Status: "cancelled"})
	assertErrContains(t, err, "cannot change completed order")
}

func TestOrderUsecase_UpdateStatus_CancelledCannotLeave(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	ordersRepo := new(OrderRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(1), int64(5)).Return(model.Order{
		ID:     5,
		GymID:  1,
		Status: model.OrderStatusCancelled,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, users)

	err := uc.UpdateStatus(ctx, trainerActor(), 5, usecase.UpdateOrderStatusInput{Status: "prepared"})
	assertErrContains(t, err, "cannot change cancelled order")
}

// cancel: pending_approval -> cancelled で在庫戻し + audit
func TestOrderUsecase_UpdateStatus_Cancel_RestoresStock_And_Audits(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	invRepo := new(InventoryRepoMock)
	audit := new(AuditRepoMock)

	tx.Repos = &TxReposMock{
		orders:     ordersRepo,
		orderItems: itemsRepo,
		inventory:  invRepo,
		auditLogs:  audit,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(1), int64(5)).Return(model.Order{
		ID:     5,
		GymID:  1,
		UserID: 10,
		Status: model.OrderStatusPendingApproval,
	}, nil)

	itemsRepo.On("ListByOrderID", mock.Anything, int64(5)).Return([]model.OrderItem{
		{OrderID: 5, ProductID: 100, Quantity: 2},
		{OrderID: 5, ProductID: 200, Quantity: 1},
	}, nil)

	// 各商品につき1回ずつ
	invRepo.On("IncreaseStock", mock.Anything, int64(100), int64(2)).Return(nil).Once()
	invRepo.On("IncreaseStock", mock.Anything, int64(200), int64(1)).Return(nil).Once()

	ordersRepo.On("UpdateStatus", mock.Anything, int64(5), model.OrderStatusCancelled, mock.Anything).Return(nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewOrderUsecase(tx, users)

	err := uc.UpdateStatus(ctx, trainerActor(), 5, usecase.UpdateOrderStatusInput{Status: "cancelled"})
	assert.NoError(t, err)

	invRepo.AssertExpectations(t)
	ordersRepo.AssertExpectations(t)
	audit.AssertExpectations(t)
}

// cancelled -> cancelled は二重戻しさせない
func TestOrderUsecase_UpdateStatus_CancelTwice_NoDoubleRestore(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	invRepo := new(InventoryRepoMock)
	audit := new(AuditRepoMock)

	tx.Repos = &TxReposMock{
		orders:     ordersRepo,
		orderItems: itemsRepo,
		inventory:  invRepo,
		auditLogs:  audit,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(1), int64(5)).Return(model.Order{
		ID:     5,
		GymID:  1,
		Status: model.OrderStatusCancelled,
	}, nil)

	ordersRepo.On("UpdateStatus", mock.Anything, int64(5), model.OrderStatusCancelled, mock.Anything).Return(nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewOrderUsecase(tx, users)

	err := uc.UpdateStatus(ctx, trainerActor(), 5, usecase.UpdateOrderStatusInput{
		Status:   "cancelled",
		Metadata: map[string]any{"note": "restock confirmed"},
	})
	assert.NoError(t, err)

	invRepo.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
	itemsRepo.AssertNotCalled(t, "ListByOrderID", mock.Anything, mock.Anything)
}

// =====================
// DeleteOrder tests
// =====================

func TestOrderUsecase_DeleteOrder_CompletedRejected(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	ordersRepo := new(OrderRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(1), int64(7)).Return(model.Order{
		ID:     7,
		GymID:  1,
		Status: model.OrderStatusCompleted,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, users)

	err := uc.DeleteOrder(ctx, trainerActor(), 7)
	assertErrContains(t, err, "cannot delete completed order")

	ordersRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestOrderUsecase_DeleteOrder_RestoresStockOnce(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	invRepo := new(InventoryRepoMock)
	audit := new(AuditRepoMock)

	tx.Repos = &TxReposMock{
		orders:     ordersRepo,
		orderItems: itemsRepo,
		inventory:  invRepo,
		auditLogs:  audit,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(1), int64(7)).Return(model.Order{
		ID:     7,
		GymID:  1,
		Status: model.OrderStatusPrepared,
	}, nil)

	itemsRepo.On("ListByOrderID", mock.Anything, int64(7)).Return([]model.OrderItem{
		{OrderID: 7, ProductID: 100, Quantity: 3},
	}, nil)
	invRepo.On("IncreaseStock", mock.Anything, int64(100), int64(3)).Return(nil).Once()

	ordersRepo.On("UpdateStatus", mock.Anything, int64(7), model.OrderStatusCancelled, mock.Anything).Return(nil)
	ordersRepo.On("SoftDelete", mock.Anything, int64(7)).Return(nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewOrderUsecase(tx, users)

	err := uc.DeleteOrder(ctx, trainerActor(), 7)
	assert.NoError(t, err)

	invRepo.AssertExpectations(t)
	ordersRepo.AssertExpectations(t)
	audit.AssertExpectations(t)
}

// キャンセル済み注文の削除では在庫を戻さない
func TestOrderUsecase_DeleteOrder_AlreadyCancelled_NoRestore(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	invRepo := new(InventoryRepoMock)
	audit := new(AuditRepoMock)

	tx.Repos = &TxReposMock{
		orders:     ordersRepo,
		orderItems: itemsRepo,
		inventory:  invRepo,
		auditLogs:  audit,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(1), int64(7)).Return(model.Order{
		ID:     7,
		GymID:  1,
		Status: model.OrderStatusCancelled,
	}, nil)

	ordersRepo.On("SoftDelete", mock.Anything, int64(7)).Return(nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewOrderUsecase(tx, users)

	err := uc.DeleteOrder(ctx, trainerActor(), 7)
	assert.NoError(t, err)

	invRepo.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
	ordersRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// 本人は自分の注文をキャンセル（削除）できる
func TestOrderUsecase_DeleteOrder_OwnerStudentAllowed(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	invRepo := new(InventoryRepoMock)
	audit := new(AuditRepoMock)

	tx.Repos = &TxReposMock{
		orders:     ordersRepo,
		orderItems: itemsRepo,
		inventory:  invRepo,
		auditLogs:  audit,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(1), int64(7)).Return(model.Order{
		ID:     7,
		GymID:  1,
		UserID: 10,
		Status: model.OrderStatusPendingApproval,
	}, nil)

	itemsRepo.On("ListByOrderID", mock.Anything, int64(7)).Return([]model.OrderItem{
		{OrderID: 7, ProductID: 100, Quantity: 2},
	}, nil)
	invRepo.On("IncreaseStock", mock.Anything, int64(100), int64(2)).Return(nil).Once()

	ordersRepo.On("UpdateStatus", mock.Anything, int64(7), model.OrderStatusCancelled, mock.Anything).Return(nil)
	ordersRepo.On("SoftDelete", mock.Anything, int64(7)).Return(nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewOrderUsecase(tx, users)

	err := uc.DeleteOrder(ctx, studentActor(), 7)
	assert.NoError(t, err)

	invRepo.AssertExpectations(t)
	ordersRepo.AssertExpectations(t)
	audit.AssertExpectations(t)
}

// 他人の注文は本人以外の学生には「存在しない扱い」
func TestOrderUsecase_DeleteOrder_OthersOrderHiddenFromStudent(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	ordersRepo := new(OrderRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(1), int64(7)).Return(model.Order{
		ID:     7,
		GymID:  1,
		UserID: 999,
		Status: model.OrderStatusPendingApproval,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, users)

	err := uc.DeleteOrder(ctx, studentActor(), 7)
	assertErrContains(t, err, "not found")

	ordersRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

// =====================
// List tests
// =====================

func TestOrderUsecase_ListGymOrders_StudentForbidden(t *testing.T) {
	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	uc := usecase.NewOrderUsecase(tx, users)

	_, _, err := uc.ListGymOrders(context.Background(), studentActor(), repo.OrderListFilter{Page: 1, Limit: 20})
	assertErrContains(t, err, "forbidden")
}

func TestOrderUsecase_ListGymOrders_InvalidFilter(t *testing.T) {
	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	uc := usecase.NewOrderUsecase(tx, users)

	_, _, err := uc.ListGymOrders(context.Background(), trainerActor(), repo.OrderListFilter{Page: 0, Limit: 20})
	assertErrContains(t, err, "invalid page")

	_, _, err = uc.ListGymOrders(context.Background(), trainerActor(), repo.OrderListFilter{Page: 1, Limit: 0})
	assertErrContains(t, err, "invalid limit")

	_, _, err = uc.ListGymOrders(context.Background(), trainerActor(), repo.OrderListFilter{Page: 1, Limit: 20, Status: "shipped"})
	assertErrContains(t, err, "invalid status")
}

func TestOrderUsecase_GetOrderDetail_OthersOrderHiddenFromStudent(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	users := new(OrderUserRepoMock)
	ordersRepo := new(OrderRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	// 他人の注文
	ordersRepo.On("FindByID", mock.Anything, int64(1), int64(9)).Return(model.Order{
		ID:     9,
		GymID:  1,
		UserID: 999,
		Status: model.OrderStatusPendingApproval,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, users)

	_, err := uc.GetOrderDetail(ctx, studentActor(), 9)
	assertErrContains(t, err, "not found")
}
