package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	OrderCounters() OrderCounterRepository
	Products() ProductRepository
	Inventory() InventoryRepository
	Programs() WorkoutProgramRepository
	ProgramExercises() ProgramExerciseRepository
	AuditLogs() AuditLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
