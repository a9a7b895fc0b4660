package main

import (
	"context"
	"errors"
	"time"

	"app/internal/auth"
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infrarepo "app/internal/infra/repository"
	repo "app/internal/repository"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// アクセストークンの有効期限。
const tokenTTL = 24 * time.Hour

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func main() {
	// .envは無くてもよい（本番は環境変数直指定）
	_ = godotenv.Load()

	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config load failed")
	}
	if cfg.GoEnv == "prod" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}

	if err := gormDB.AutoMigrate(
		&model.Admin{},
		&model.Owner{},
		&model.Courier{},
		&model.Consumer{},
		&model.Restaurant{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderStatusEvent{},
	); err != nil {
		log.WithError(err).Fatal("db migrate failed")
	}

	adminRepo := infrarepo.NewAdminGormRepository(gormDB)
	ownerRepo := infrarepo.NewOwnerGormRepository(gormDB)
	courierRepo := infrarepo.NewCourierGormRepository(gormDB)
	consumerRepo := infrarepo.NewConsumerGormRepository(gormDB)
	restaurantRepo := infrarepo.NewRestaurantGormRepository(gormDB)
	productRepo := infrarepo.NewProductGormRepository(gormDB)
	orderRepo := infrarepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infrarepo.NewOrderItemGormRepository(gormDB)
	orderEventRepo := infrarepo.NewOrderEventGormRepository(gormDB)
	txManager := infrarepo.NewTxManagerGorm(gormDB)

	if err := seedAdmin(context.Background(), cfg, adminRepo); err != nil {
		log.WithError(err).Fatal("admin seed failed")
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, tokenTTL)
	clock := realClock{}
	authz := usecase.NewAuthorizer()

	authUC := usecase.NewAuthUsecase(adminRepo, ownerRepo, courierRepo, consumerRepo, tokens, clock)
	subsUC := usecase.NewSubscriptionUsecase(ownerRepo, clock)
	restaurantUC := usecase.NewRestaurantUsecase(txManager, restaurantRepo, authz)
	productUC := usecase.NewProductUsecase(productRepo, restaurantRepo, authz)
	courierUC := usecase.NewCourierUsecase(courierRepo, restaurantRepo, ownerRepo, authz)
	consumerUC := usecase.NewConsumerUsecase(consumerRepo, restaurantRepo)
	orderUC := usecase.NewOrderUsecase(
		txManager, orderRepo, orderItemRepo, orderEventRepo,
		restaurantRepo, courierRepo, authz, clock,
	)

	e := server.New(log, tokens, server.Handlers{
		Auth:       handler.NewAuthHandler(authUC),
		Admin:      handler.NewAdminHandler(subsUC, courierUC),
		Restaurant: handler.NewRestaurantHandler(restaurantUC, productUC),
		Product:    handler.NewProductHandler(productUC),
		Courier:    handler.NewCourierHandler(courierUC),
		Order:      handler.NewOrderHandler(orderUC),
		Consumer:   handler.NewConsumerHandler(consumerUC),
	})

	log.WithField("port", cfg.Port).Info("starting api server")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// seedAdmin はADMIN_EMAIL/ADMIN_PASSWORDが設定されていれば管理者を1人作る。
// 既に存在する場合は何もしない。
func seedAdmin(ctx context.Context, cfg config.Config, admins repo.AdminRepository) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	_, err := admins.FindByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return err
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return admins.Create(ctx, &model.Admin{
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		PasswordHash: string(pwHash),
		Role:         model.RoleAdmin,
		IsActive:     true,
	})
}
