package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

type OrderItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
}

type Order struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	OrderNumber string      `json:"order_number"`
	Status      string      `json:"status"`
	TotalAmount string      `json:"total_amount"`
	CreatedAt   string      `json:"created_at"`
	Items       []OrderItem `json:"items"`
}

type PlaceOrderRequest struct {
	Items []PlaceOrderItem `json:"items"`
	Notes string           `json:"notes"`
}

type PlaceOrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type ProductCreateRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         string `json:"price"`
	StockQuantity int64  `json:"stock_quantity"`
	IsActive      bool   `json:"is_active"`
}

func mustDecodeOrder(t *testing.T, body []byte) Order {
	t.Helper()
	var v Order
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("json.Unmarshal(Order) failed: %v body=%s", err, string(body))
	}
	return v
}

// 商品を作って在庫を入れる（MANAGER）。作ったproduct_idを返す。
func createProductForOrder(t *testing.T, c *TestClient, ctx context.Context, access string, name string, stock int64) int64 {
	t.Helper()

	create := ProductCreateRequest{
		Name:          name,
		Description:   "for orders e2e",
		Price:         "1000",
		StockQuantity: stock,
		IsActive:      true,
	}
	createJSON, err := json.Marshal(create)
	if err != nil {
		t.Fatalf("json.Marshal(ProductCreateRequest) failed: %v", err)
	}

	resp, body := c.doJSON(ctx, t, http.MethodPost, "/products", access, createJSON)
	requireStatus(t, resp, http.StatusCreated, body)

	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("json.Unmarshal(created product) failed: %v body=%s", err, string(body))
	}
	if created.ID <= 0 {
		t.Fatalf("product id is empty: body=%s", string(body))
	}
	return created.ID
}

// 注文作成→番号形式→詳細取得までの一連
func TestOrders_PlaceAndFetch(t *testing.T) {
	c := NewTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	access := managerLogin(t, c, ctx)

	productID := createProductForOrder(t, c, ctx, access, fmt.Sprintf("e2e-protein-%d", time.Now().UnixNano()), 10)

	orderReq := PlaceOrderRequest{
		Items: []PlaceOrderItem{{ProductID: productID, Quantity: 2}},
		Notes: "e2e order",
	}
	orderJSON, err := json.Marshal(orderReq)
	if err != nil {
		t.Fatalf("json.Marshal(PlaceOrderRequest) failed: %v", err)
	}

	resp, body := c.doJSON(ctx, t, http.MethodPost, "/orders", access, orderJSON)
	requireStatus(t, resp, http.StatusCreated, body)

	order := mustDecodeOrder(t, body)
	if order.Status != "pending_approval" {
		t.Fatalf("status=%q want pending_approval", order.Status)
	}

	//ORD-YYYYMMDD-NNNNN形式であること
	dayKey := time.Now().UTC().Format("20060102")
	if !strings.HasPrefix(order.OrderNumber, "ORD-"+dayKey+"-") {
		t.Fatalf("order_number=%q want prefix ORD-%s-", order.OrderNumber, dayKey)
	}
	if len(order.OrderNumber) != len("ORD-20060102-00001") {
		t.Fatalf("order_number=%q has unexpected length", order.OrderNumber)
	}

	//詳細が取れること
	resp, body = c.doJSON(ctx, t, http.MethodGet, "/orders/"+toStr(order.ID), access, nil)
	requireStatus(t, resp, http.StatusOK, body)

	detail := mustDecodeOrder(t, body)
	if detail.OrderNumber != order.OrderNumber {
		t.Fatalf("order_number mismatch: %q vs %q", detail.OrderNumber, order.OrderNumber)
	}
	if len(detail.Items) != 1 || detail.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items: %+v", detail.Items)
	}
}

// 在庫以上の数量は409
func TestOrders_InsufficientStock(t *testing.T) {
	c := NewTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	access := managerLogin(t, c, ctx)

	productID := createProductForOrder(t, c, ctx, access, fmt.Sprintf("e2e-lowstock-%d", time.Now().UnixNano()), 1)

	orderReq := PlaceOrderRequest{
		Items: []PlaceOrderItem{{ProductID: productID, Quantity: 5}},
	}
	orderJSON, err := json.Marshal(orderReq)
	if err != nil {
		t.Fatalf("json.Marshal(PlaceOrderRequest) failed: %v", err)
	}

	resp, body := c.doJSON(ctx, t, http.MethodPost, "/orders", access, orderJSON)
	requireStatus(t, resp, http.StatusConflict, body)

	e := mustDecodeError(t, body)
	if !strings.Contains(e.Error, "insufficient stock") {
		t.Fatalf("error=%q want insufficient stock", e.Error)
	}
}

// キャンセルで在庫が戻ること
func TestOrders_CancelRestoresStock(t *testing.T) {
	c := NewTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	access := managerLogin(t, c, ctx)

	productID := createProductForOrder(t, c, ctx, access, fmt.Sprintf("e2e-cancel-%d", time.Now().UnixNano()), 3)

	orderReq := PlaceOrderRequest{
		Items: []PlaceOrderItem{{ProductID: productID, Quantity: 3}},
	}
	orderJSON, _ := json.Marshal(orderReq)

	resp, body := c.doJSON(ctx, t, http.MethodPost, "/orders", access, orderJSON)
	requireStatus(t, resp, http.StatusCreated, body)
	order := mustDecodeOrder(t, body)

	//在庫が尽きたので同じ注文は409
	resp, body = c.doJSON(ctx, t, http.MethodPost, "/orders", access, orderJSON)
	requireStatus(t, resp, http.StatusConflict, body)

	//キャンセル
	statusJSON, _ := json.Marshal(map[string]string{"status": "cancelled"})
	resp, body = c.doJSON(ctx, t, http.MethodPatch, "/orders/"+toStr(order.ID)+"/status", access, statusJSON)
	requireStatus(t, resp, http.StatusOK, body)

	//在庫が戻ったので再び注文できる
	resp, body = c.doJSON(ctx, t, http.MethodPost, "/orders", access, orderJSON)
	requireStatus(t, resp, http.StatusCreated, body)

	second := mustDecodeOrder(t, body)
	if second.OrderNumber == order.OrderNumber {
		t.Fatalf("order numbers must be unique: %q", second.OrderNumber)
	}
}

// 学生本人がDELETEで自分の注文をキャンセルできて在庫も戻ること
func TestOrders_OwnerCancelByDelete(t *testing.T) {
	c := NewTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	managerAccess := managerLogin(t, c, ctx)
	_, studentAccess := registerAndLogin(t, c, ctx)

	productID := createProductForOrder(t, c, ctx, managerAccess, fmt.Sprintf("e2e-owner-cancel-%d", time.Now().UnixNano()), 2)

	orderReq := PlaceOrderRequest{
		Items: []PlaceOrderItem{{ProductID: productID, Quantity: 2}},
	}
	orderJSON, _ := json.Marshal(orderReq)

	resp, body := c.doJSON(ctx, t, http.MethodPost, "/orders", studentAccess, orderJSON)
	requireStatus(t, resp, http.StatusCreated, body)
	order := mustDecodeOrder(t, body)

	//本人が削除＝キャンセル
	resp, body = c.doJSON(ctx, t, http.MethodDelete, "/orders/"+toStr(order.ID), studentAccess, nil)
	requireStatus(t, resp, http.StatusNoContent, body)

	//在庫が戻ったので再び注文できる
	resp, body = c.doJSON(ctx, t, http.MethodPost, "/orders", studentAccess, orderJSON)
	requireStatus(t, resp, http.StatusCreated, body)
}
