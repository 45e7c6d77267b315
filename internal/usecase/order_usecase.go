package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderUsecase struct {
	tx    repo.TransactionManager
	users repo.UserRepository
}

func NewOrderUsecase(tx repo.TransactionManager, users repo.UserRepository) *OrderUsecase {
	return &OrderUsecase{tx: tx, users: users}
}

type PlaceOrderItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type PlaceOrderInput struct {
	//スタッフが代理注文するとき指定。0なら自分の注文。
	TargetUserID int64                 `json:"user_id"`
	Items        []PlaceOrderItemInput `json:"items"`
	Notes        string                `json:"notes"`
	Metadata     map[string]any        `json:"metadata"`
}

type OrderItemOutput struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
}

type OrderOutput struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	OrderNumber string            `json:"order_number"`
	Status      string            `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Notes       string            `json:"notes,omitempty"`
	Metadata    map[string]any    `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	Items       []OrderItemOutput `json:"items"`
}

// 注文番号の形式: ORD-YYYYMMDD-NNNNN（ジム×日付ごとの連番）
func formatOrderNumber(dayKey string, seq int64) string {
	return fmt.Sprintf("ORD-%s-%05d", dayKey, seq)
}

func (u *OrderUsecase) PlaceOrder(ctx context.Context, actor Actor, in PlaceOrderInput) (OrderOutput, error) {
	if err := requireActor(actor); err != nil {
		return OrderOutput{}, err
	}

	//注文主の決定。学生は自分の分しか注文できない。
	targetUserID := actor.UserID
	if in.TargetUserID > 0 && in.TargetUserID != actor.UserID {
		if !actor.Role.AtLeast(model.RoleTrainer) {
			return OrderOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
		}
		targetUserID = in.TargetUserID

		//代理注文のときだけ注文主が同じジムの有効なユーザーか確認する
		target, err := u.users.FindByIDInGym(ctx, actor.GymID, targetUserID)
		if err == repo.ErrNotFound || (err == nil && target != nil && !target.IsActive) {
			return OrderOutput{}, NewHTTPError(http.StatusNotFound, "user not found")
		}
		if err != nil {
			return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	if len(in.Items) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "items required")
	}

	//同じ商品が2行に分かれていたら合算する
	wanted := make(map[int64]int64, len(in.Items))
	productIDs := make([]int64, 0, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID <= 0 {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
		}
		if _, ok := wanted[it.ProductID]; !ok {
			productIDs = append(productIDs, it.ProductID)
		}
		wanted[it.ProductID] += it.Quantity
	}

	var out OrderOutput

	//採番・在庫減算・注文作成は1トランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//商品を一括取得。1つでも欠けたら全体を拒否する。
		products, err := r.Products().FindActiveByIDs(ctx, actor.GymID, productIDs)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		byID := make(map[int64]model.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}
		for _, id := range productIDs {
			if _, ok := byID[id]; !ok {
				return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("product %d not available", id))
			}
		}

		//数量チェックは商品の存在確認の後
		for _, it := range in.Items {
			if it.Quantity <= 0 {
				return NewHTTPError(http.StatusBadRequest, "quantity must be > 0")
			}
		}

		//在庫減算（足りなければそこで409、Txごと巻き戻る）
		orderItems := make([]model.OrderItem, 0, len(productIDs))
		total := decimal.Zero
		now := time.Now()

		for _, id := range productIDs {
			p := byID[id]
			qty := wanted[id]

			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, id, qty)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				//エラーメッセージ用に現在庫を読み直す
				cur, err := r.Products().FindByID(ctx, actor.GymID, id)
				available := int64(0)
				if err == nil {
					available = cur.StockQuantity
				}
				return NewHTTPError(http.StatusConflict,
					fmt.Sprintf("insufficient stock for %s: requested %d, available %d", p.Name, qty, available))
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID:           id,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   p.Price,
				Quantity:            qty,
				CreatedAt:           now,
			})
			total = total.Add(p.Price.Mul(decimal.NewFromInt(qty)))
		}

		//採番。counters行への単発atomic更新なので同時注文でも重複しない。
		dayKey := now.UTC().Format("20060102")
		seq, err := r.OrderCounters().NextSeq(ctx, actor.GymID, dayKey)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		orderNumber := formatOrderNumber(dayKey, seq)

		order := model.Order{
			GymID:       actor.GymID,
			UserID:      targetUserID,
			OrderNumber: orderNumber,
			TotalAmount: total,
			Status:      model.OrderStatusPendingApproval,
			Notes:       strings.TrimSpace(in.Notes),
			Metadata:    datatypes.JSONMap(in.Metadata),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order.ID = orderID
		out = toOrderOutput(order, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, actor Actor, page int, limit int) ([]OrderOutput, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, actor.GymID, actor.UserID, page, limit)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return outs, nil
}

// ジム全体の注文一覧。TRAINER以上。
func (u *OrderUsecase) ListGymOrders(ctx context.Context, actor Actor, f repo.OrderListFilter) ([]OrderOutput, int64, error) {
	if err := requireActor(actor); err != nil {
		return nil, 0, err
	}
	if !actor.Role.AtLeast(model.RoleTrainer) {
		return nil, 0, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if f.Page < 1 {
		return nil, 0, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return nil, 0, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Status != "" && !model.OrderStatus(f.Status).IsValid() {
		return nil, 0, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var outs []OrderOutput
	var total int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, n, err := r.Orders().List(ctx, actor.GymID, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		total = n

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return nil, 0, err
	}
	return outs, total, nil
}

func (u *OrderUsecase) GetOrderDetail(ctx context.Context, actor Actor, orderID int64) (OrderOutput, error) {
	if err := requireActor(actor); err != nil {
		return OrderOutput{}, err
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, actor.GymID, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//他人の注文はスタッフ以外「存在しない扱い」
		if o.UserID != actor.UserID && !actor.Role.AtLeast(model.RoleTrainer) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

type UpdateOrderStatusInput struct {
	Status   string         `json:"status"`
	Metadata map[string]any `json:"metadata"`
}

// ステータス更新。cancelledへの遷移でだけ在庫を戻す。
func (u *OrderUsecase) UpdateStatus(ctx context.Context, actor Actor, orderID int64, in UpdateOrderStatusInput) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Role.AtLeast(model.RoleTrainer) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.TrimSpace(in.Status))
	if !newStatus.IsValid() {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, actor.GymID, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//completedは不変
		if o.Status == model.OrderStatusCompleted {
			return NewHTTPError(http.StatusBadRequest, "cannot change completed order")
		}
		//cancelledは終端。cancelled→cancelledだけはmetadata追記のための上書きとして通す。
		if o.Status == model.OrderStatusCancelled && newStatus != model.OrderStatusCancelled {
			return NewHTTPError(http.StatusBadRequest, "cannot change cancelled order")
		}

		//cancelledへの遷移でだけ在庫を戻す。cancelled→cancelledでは戻さない（二重戻し防止）。
		if newStatus == model.OrderStatusCancelled && o.Status != model.OrderStatusCancelled {
			if err := restoreOrderStock(ctx, r, orderID); err != nil {
				return err
			}
		}

		var metadata datatypes.JSONMap
		if in.Metadata != nil {
			metadata = datatypes.JSONMap(in.Metadata)
		}
		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus, metadata); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		beforeJSON := `{"status":"` + string(o.Status) + `"}`
		afterJSON := `{"status":"` + string(newStatus) + `"}`
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			GymID:        actor.GymID,
			ActorUserID:  actor.UserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
}

// 削除=キャンセル扱い＋ソフトデリート。本人かTRAINER以上。completedは消せない。
func (u *OrderUsecase) DeleteOrder(ctx context.Context, actor Actor, orderID int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, actor.GymID, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//他人の注文はスタッフ以外「存在しない扱い」
		if o.UserID != actor.UserID && !actor.Role.AtLeast(model.RoleTrainer) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		if o.Status == model.OrderStatusCompleted {
			return NewHTTPError(http.StatusBadRequest, "cannot delete completed order")
		}

		//まだキャンセルされていなければ在庫を戻す。キャンセル済みの削除では戻さない。
		if o.Status != model.OrderStatusCancelled {
			if err := restoreOrderStock(ctx, r, orderID); err != nil {
				return err
			}
			if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCancelled, nil); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if err := r.Orders().SoftDelete(ctx, orderID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		beforeJSON := `{"status":"` + string(o.Status) + `"}`
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			GymID:        actor.GymID,
			ActorUserID:  actor.UserID,
			Action:       model.AuditActionDeleteOrder,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    `{"deleted":true}`,
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
}

// 在庫戻しは必ずここを通す。キャンセルと削除で同じ処理を共有する。
func restoreOrderStock(ctx context.Context, r repo.TxRepos, orderID int64) error {
	items, err := r.OrderItems().ListByOrderID(ctx, orderID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	for _, it := range items {
		if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}
	return nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			UnitPrice: it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}

	var meta map[string]any
	if o.Metadata != nil {
		meta = map[string]any(o.Metadata)
	}

	return OrderOutput{
		ID:          o.ID,
		UserID:      o.UserID,
		OrderNumber: o.OrderNumber,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		Notes:       o.Notes,
		Metadata:    meta,
		CreatedAt:   o.CreatedAt,
		Items:       outItems,
	}
}
