package repository

import (
	"context"

	"app/internal/domain/model"
)

type TrainerMatchRepository interface {
	Create(ctx context.Context, m model.TrainerMatch) (model.TrainerMatch, error)
	FindByID(ctx context.Context, gymID int64, matchID int64) (model.TrainerMatch, error)
	//トレーナーまたは学生として関わるマッチ一覧
	ListForUser(ctx context.Context, gymID int64, userID int64) ([]model.TrainerMatch, error)
	List(ctx context.Context, gymID int64, status model.TrainerMatchStatus, page int, limit int) ([]model.TrainerMatch, int64, error)
	Update(ctx context.Context, m model.TrainerMatch) error
	//同じ組み合わせでpending/acceptedのマッチが既にあるか
	ExistsOpen(ctx context.Context, gymID int64, trainerID int64, studentID int64) (bool, error)
}
