package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders           repo.OrderRepository
	orderItems       repo.OrderItemRepository
	orderCounters    repo.OrderCounterRepository
	products         repo.ProductRepository
	inventory        repo.InventoryRepository
	programs         repo.WorkoutProgramRepository
	programExercises repo.ProgramExerciseRepository
	auditLogs        repo.AuditLogRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository                   { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository           { return r.orderItems }
func (r *txReposGorm) OrderCounters() repo.OrderCounterRepository     { return r.orderCounters }
func (r *txReposGorm) Products() repo.ProductRepository               { return r.products }
func (r *txReposGorm) Inventory() repo.InventoryRepository            { return r.inventory }
func (r *txReposGorm) Programs() repo.WorkoutProgramRepository        { return r.programs }
func (r *txReposGorm) ProgramExercises() repo.ProgramExerciseRepository { return r.programExercises }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository             { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:           NewOrderGormRepository(tx),
			orderItems:       NewOrderItemGormRepository(tx),
			orderCounters:    NewOrderCounterGormRepository(tx),
			products:         NewProductGormRepository(tx),
			inventory:        NewInventoryGormRepository(tx),
			programs:         NewWorkoutProgramGormRepository(tx),
			programExercises: NewProgramExerciseGormRepository(tx),
			auditLogs:        NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
