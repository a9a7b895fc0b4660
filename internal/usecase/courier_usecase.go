package usecase

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	"app/internal/geo"
	repo "app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type CourierCreateInput struct {
	RestaurantID int64             `json:"restaurant_id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	Password     string            `json:"password"`
	Vehicle      model.VehicleKind `json:"vehicle"`
	VehiclePlate string            `json:"vehicle_plate"`
}

type CourierUpdateInput struct {
	Name         *string            `json:"name"`
	Phone        *string            `json:"phone"`
	Vehicle      *model.VehicleKind `json:"vehicle"`
	VehiclePlate *string            `json:"vehicle_plate"`
	IsActive     *bool              `json:"is_active"`
}

type CourierUsecase struct {
	couriers    repo.CourierRepository
	restaurants repo.RestaurantRepository
	owners      repo.OwnerRepository
	authz       Authorizer
}

func NewCourierUsecase(
	couriers repo.CourierRepository,
	restaurants repo.RestaurantRepository,
	owners repo.OwnerRepository,
	authz Authorizer,
) *CourierUsecase {
	return &CourierUsecase{
		couriers:    couriers,
		restaurants: restaurants,
		owners:      owners,
		authz:       authz,
	}
}

// Create はオーナーによるクーリエ登録。
// オーナーのmaxCouriersを超える登録はCONFLICTで弾く。
// 作成直後はis_verified=falseで、adminが承認するまでログインできない。
func (u *CourierUsecase) Create(ctx context.Context, actor model.Actor, in CourierCreateInput) (*model.Courier, error) {
	if _, err := u.authz.RequireRestaurantOwner(ctx, u.restaurants, actor, in.RestaurantID); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" {
		return nil, errValidation("name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, errValidation("valid email is required")
	}
	if len(in.Password) < 6 {
		return nil, errValidation("password must be at least 6 characters")
	}

	owner, err := u.owners.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, errInternal()
	}

	count, err := u.couriers.CountByRestaurantID(ctx, in.RestaurantID)
	if err != nil {
		return nil, errInternal()
	}
	if count >= int64(owner.MaxCouriers) {
		return nil, errConflict("courier limit reached for this restaurant")
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errInternal()
	}

	courier := &model.Courier{
		Name:         in.Name,
		Email:        email,
		Phone:        in.Phone,
		PasswordHash: string(pwHash),
		Role:         model.RoleCourier,
		IsActive:     true,
		RestaurantID: in.RestaurantID,
		Status:       model.CourierStatusOffline,
		Rating:       5,
		Vehicle:      in.Vehicle,
		VehiclePlate: in.VehiclePlate,
		IsVerified:   false,
	}

	if err := u.couriers.Create(ctx, courier); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, errConflict("email is already registered")
		}
		return nil, errInternal()
	}
	return courier, nil
}

func (u *CourierUsecase) Get(ctx context.Context, actor model.Actor, courierID int64) (*model.Courier, error) {
	c, err := u.authz.RequireCourierOwner(ctx, u.restaurants, u.couriers, actor, courierID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (u *CourierUsecase) ListByRestaurant(ctx context.Context, actor model.Actor, restaurantID int64, page int, limit int) ([]model.Courier, int64, error) {
	if _, err := u.authz.RequireRestaurantOwner(ctx, u.restaurants, actor, restaurantID); err != nil {
		return nil, 0, err
	}
	couriers, total, err := u.couriers.ListByRestaurantID(ctx, restaurantID, page, limit)
	if err != nil {
		return nil, 0, errInternal()
	}
	return couriers, total, nil
}

func (u *CourierUsecase) Update(ctx context.Context, actor model.Actor, courierID int64, in CourierUpdateInput) (*model.Courier, error) {
	c, err := u.authz.RequireCourierOwner(ctx, u.restaurants, u.couriers, actor, courierID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, errValidation("name must not be empty")
		}
		c.Name = *in.Name
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Vehicle != nil {
		c.Vehicle = *in.Vehicle
	}
	if in.VehiclePlate != nil {
		c.VehiclePlate = *in.VehiclePlate
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}

	if err := u.couriers.Update(ctx, &c); err != nil {
		return nil, errInternal()
	}
	return &c, nil
}

func (u *CourierUsecase) Delete(ctx context.Context, actor model.Actor, courierID int64) error {
	c, err := u.authz.RequireCourierOwner(ctx, u.restaurants, u.couriers, actor, courierID)
	if err != nil {
		return err
	}
	if err := u.couriers.Delete(ctx, c.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("courier not found")
		}
		return errInternal()
	}
	return nil
}

// Verify はadminによるクーリエ承認。承認後にログインできるようになる。
func (u *CourierUsecase) Verify(ctx context.Context, actor model.Actor, courierID int64) (*model.Courier, error) {
	if actor.Role != model.RoleAdmin {
		return nil, errUnauthorized("admin role required")
	}

	c, err := u.couriers.FindByID(ctx, courierID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errNotFound("courier not found")
	}
	if err != nil {
		return nil, errInternal()
	}

	c.IsVerified = true
	if err := u.couriers.Update(ctx, &c); err != nil {
		return nil, errInternal()
	}
	return &c, nil
}

// SelfGet はクーリエ自身のプロフィール。
func (u *CourierUsecase) SelfGet(ctx context.Context, actor model.Actor) (*model.Courier, error) {
	c, err := u.requireSelf(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SelfUpdateStatus はクーリエ自身の稼働状態切り替え（online/offline/break/on_delivery）。
func (u *CourierUsecase) SelfUpdateStatus(ctx context.Context, actor model.Actor, status model.CourierStatus) (*model.Courier, error) {
	if !model.ValidCourierStatus(status) {
		return nil, errValidation("unknown courier status: " + string(status))
	}

	c, err := u.requireSelf(ctx, actor)
	if err != nil {
		return nil, err
	}

	c.Status = status
	if err := u.couriers.Update(ctx, &c); err != nil {
		return nil, errInternal()
	}
	return &c, nil
}

// SelfUpdateLocation はクーリエ自身の現在地更新。
func (u *CourierUsecase) SelfUpdateLocation(ctx context.Context, actor model.Actor, loc model.GeoPoint) (*model.Courier, error) {
	c, err := u.requireSelf(ctx, actor)
	if err != nil {
		return nil, err
	}

	c.CurrentLocation = loc
	if err := u.couriers.Update(ctx, &c); err != nil {
		return nil, errInternal()
	}
	return &c, nil
}

// EstimateTo はクーリエの現在地から指定地点への配達見積もり。
func (u *CourierUsecase) EstimateTo(ctx context.Context, actor model.Actor, to model.GeoPoint) (*geo.Estimate, error) {
	c, err := u.requireSelf(ctx, actor)
	if err != nil {
		return nil, err
	}

	est := geo.DeliveryEstimate(c.CurrentLocation.Lon, c.CurrentLocation.Lat, to.Lon, to.Lat)
	return &est, nil
}

func (u *CourierUsecase) requireSelf(ctx context.Context, actor model.Actor) (model.Courier, error) {
	if actor.Role != model.RoleCourier {
		return model.Courier{}, errUnauthorized("courier role required")
	}
	c, err := u.couriers.FindByID(ctx, actor.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Courier{}, errNotFound("courier not found")
	}
	if err != nil {
		return model.Courier{}, errInternal()
	}
	return c, nil
}
