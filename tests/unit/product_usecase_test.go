package unit

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ProductUsecase はTxを使わないので素のrepoモックを渡す

type CatalogProductRepoMock struct{ mock.Mock }

func (m *CatalogProductRepoMock) List(ctx context.Context, gymID int64, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, gymID, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *CatalogProductRepoMock) FindByID(ctx context.Context, gymID int64, productID int64) (model.Product, error) {
	args := m.Called(ctx, gymID, productID)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *CatalogProductRepoMock) FindActiveByIDs(ctx context.Context, gymID int64, productIDs []int64) ([]model.Product, error) {
	panic("not used in ProductUsecase tests")
}

func (m *CatalogProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *CatalogProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *CatalogProductRepoMock) SoftDelete(ctx context.Context, gymID int64, productID int64) error {
	args := m.Called(ctx, gymID, productID)
	return args.Error(0)
}

func (m *CatalogProductRepoMock) CountLowStock(ctx context.Context, gymID int64, threshold int64) (int64, error) {
	panic("not used in ProductUsecase tests")
}

type CatalogInventoryRepoMock struct{ mock.Mock }

func (m *CatalogInventoryRepoMock) SetStock(ctx context.Context, gymID int64, productID int64, newStock int64) error {
	args := m.Called(ctx, gymID, productID, newStock)
	return args.Error(0)
}

func (m *CatalogInventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	panic("not used in ProductUsecase tests")
}

func (m *CatalogInventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	panic("not used in ProductUsecase tests")
}

func newProductUsecase() (*usecase.ProductUsecase, *CatalogProductRepoMock, *CatalogInventoryRepoMock, *AuditRepoMock) {
	products := new(CatalogProductRepoMock)
	inv := new(CatalogInventoryRepoMock)
	audit := new(AuditRepoMock)
	return usecase.NewProductUsecase(products, inv, audit), products, inv, audit
}

// =====================
// ListProducts tests
// =====================

func TestProductUsecase_List_InvalidPriceRange(t *testing.T) {
	uc, _, _, _ := newProductUsecase()

	min := decimal.NewFromInt(500)
	max := decimal.NewFromInt(100)
	_, err := uc.ListProducts(context.Background(), trainerActor(), usecase.ListProductsInput{
		Page:     1,
		Limit:    20,
		MinPrice: &min,
		MaxPrice: &max,
	})
	assertErrContains(t, err, "min_price must be <= max_price")
}

func TestProductUsecase_List_InvalidSort(t *testing.T) {
	uc, _, _, _ := newProductUsecase()

	_, err := uc.ListProducts(context.Background(), trainerActor(), usecase.ListProductsInput{
		Page:  1,
		Limit: 20,
		Sort:  "popularity",
	})
	assertErrContains(t, err, "invalid sort")
}

// 学生にはonly_activeが強制される
func TestProductUsecase_List_StudentForcedOnlyActive(t *testing.T) {
	uc, products, _, _ := newProductUsecase()

	products.On("List", mock.Anything, int64(1), mock.MatchedBy(func(q repo.ProductListQuery) bool {
		return q.OnlyActive
	})).Return([]model.Product{}, int64(0), nil)

	_, err := uc.ListProducts(context.Background(), studentActor(), usecase.ListProductsInput{
		Page:       1,
		Limit:      20,
		OnlyActive: false,
	})
	assert.NoError(t, err)

	products.AssertExpectations(t)
}

// =====================
// Write operation role floors
// =====================

func TestProductUsecase_Create_TrainerForbidden(t *testing.T) {
	uc, products, _, _ := newProductUsecase()

	_, err := uc.CreateProduct(context.Background(), trainerActor(), usecase.SaveProductInput{
		Name:  "Whey",
		Price: decimal.NewFromInt(3000),
	})
	assertErrContains(t, err, "forbidden")

	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductUsecase_Delete_StudentForbidden(t *testing.T) {
	uc, _, _, _ := newProductUsecase()

	err := uc.DeleteProduct(context.Background(), studentActor(), 1)
	assertErrContains(t, err, "forbidden")
}

// =====================
// AdjustStock tests
// =====================

func TestProductUsecase_AdjustStock_ReasonRequired(t *testing.T) {
	uc, _, inv, _ := newProductUsecase()

	manager := usecase.Actor{UserID: 30, GymID: 1, Role: model.RoleManager}
	err := uc.AdjustStock(context.Background(), manager, 100, 50, "   ")
	assertErrContains(t, err, "reason required")

	inv.AssertNotCalled(t, "SetStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProductUsecase_AdjustStock_NegativeStock(t *testing.T) {
	uc, _, _, _ := newProductUsecase()

	manager := usecase.Actor{UserID: 30, GymID: 1, Role: model.RoleManager}
	err := uc.AdjustStock(context.Background(), manager, 100, -5, "stocktake")
	assertErrContains(t, err, "stock must be >= 0")
}

func TestProductUsecase_AdjustStock_TrainerForbidden(t *testing.T) {
	uc, _, _, _ := newProductUsecase()

	err := uc.AdjustStock(context.Background(), trainerActor(), 100, 50, "stocktake")
	assertErrContains(t, err, "forbidden")
}

// 在庫調整は監査ログとセット
func TestProductUsecase_AdjustStock_Success_WritesAudit(t *testing.T) {
	uc, products, inv, audit := newProductUsecase()

	products.On("FindByID", mock.Anything, int64(1), int64(100)).Return(model.Product{
		ID:            100,
		GymID:         1,
		Name:          "Whey Protein",
		StockQuantity: 8,
	}, nil)
	inv.On("SetStock", mock.Anything, int64(1), int64(100), int64(50)).Return(nil)
	audit.On("Create", mock.Anything, mock.MatchedBy(func(log model.AuditLog) bool {
		return log.Action == model.AuditActionAdjustStock &&
			log.ResourceType == model.AuditResourceProduct &&
			log.ResourceID == 100
	})).Return(nil)

	manager := usecase.Actor{UserID: 30, GymID: 1, Role: model.RoleManager}
	err := uc.AdjustStock(context.Background(), manager, 100, 50, "incoming shipment")
	assert.NoError(t, err)

	inv.AssertExpectations(t)
	audit.AssertExpectations(t)
}
