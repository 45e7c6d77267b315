package repository

import (
	"context"

	"gorm.io/gorm"
)

type OrderCounterGormRepository struct {
	db *gorm.DB
}

func NewOrderCounterGormRepository(db *gorm.DB) *OrderCounterGormRepository {
	return &OrderCounterGormRepository{db: db}
}

// ジム×日付の連番を1つ進めて返す。
// upsert＋RETURNINGの単発クエリなので、同じジム・同じ日の同時採番でも
// 重複しない（カウンタ行の行ロックで直列化される）。
func (r *OrderCounterGormRepository) NextSeq(ctx context.Context, gymID int64, dayKey string) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO order_counters (gym_id, day_key, last_seq)
		VALUES (?, ?, 1)
		ON CONFLICT (gym_id, day_key)
		DO UPDATE SET last_seq = order_counters.last_seq + 1
		RETURNING last_seq`, gymID, dayKey).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}
