package main

import (
	"log"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	//.envはあれば読む（本番は環境変数だけで動く）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.Gym{},
		&model.GymRole{},
		&model.User{},
		&model.RefreshToken{},
		&model.Category{},
		&model.Product{},
		&model.Equipment{},
		&model.Exercise{},
		&model.WorkoutProgram{},
		&model.ProgramExercise{},
		&model.WorkoutLog{},
		&model.WorkoutLogEntry{},
		&model.TrainerMatch{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderCounter{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	gymRepo := infraRepo.NewGymGormRepository(gormDB)
	roleRepo := infraRepo.NewRoleGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	equipmentRepo := infraRepo.NewEquipmentGormRepository(gormDB)
	exerciseRepo := infraRepo.NewExerciseGormRepository(gormDB)
	workoutLogRepo := infraRepo.NewWorkoutLogGormRepository(gormDB)
	matchRepo := infraRepo.NewTrainerMatchGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	analyticsRepo := infraRepo.NewAnalyticsGormRepository(gormDB)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, gymRepo, rtRepo)
	gymUC := usecase.NewGymUsecase(gymRepo)
	userUC := usecase.NewUserUsecase(userRepo)
	roleUC := usecase.NewRoleUsecase(roleRepo)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo)
	productUC := usecase.NewProductUsecase(productRepo, inventoryRepo, auditRepo)
	equipmentUC := usecase.NewEquipmentUsecase(equipmentRepo)
	exerciseUC := usecase.NewExerciseUsecase(exerciseRepo, equipmentRepo)
	programUC := usecase.NewProgramUsecase(txManager, userRepo)
	orderUC := usecase.NewOrderUsecase(txManager, userRepo)
	workoutLogUC := usecase.NewWorkoutLogUsecase(workoutLogRepo, exerciseRepo)
	matchUC := usecase.NewTrainerMatchUsecase(matchRepo, userRepo)
	analyticsUC := usecase.NewAnalyticsUsecase(txManager, userRepo, analyticsRepo)

	//Handler生成
	h := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Gym:          handler.NewGymHandler(gymUC),
		User:         handler.NewUserHandler(userUC),
		Catalog:      handler.NewCatalogHandler(roleUC, categoryUC),
		Equipment:    handler.NewEquipmentHandler(equipmentUC),
		Exercise:     handler.NewExerciseHandler(exerciseUC),
		Product:      handler.NewProductHandler(productUC),
		Program:      handler.NewProgramHandler(programUC),
		Order:        handler.NewOrderHandler(orderUC),
		WorkoutLog:   handler.NewWorkoutLogHandler(workoutLogUC),
		TrainerMatch: handler.NewTrainerMatchHandler(matchUC),
		Analytics:    handler.NewAnalyticsHandler(analyticsUC),
	}

	//Server起動
	e := server.New(cfg)
	server.RegisterRoutes(e, cfg, userRepo, h)

	if err := server.Start(e, cfg); err != nil {
		log.Fatalf("server: %v", err)
	}
}
