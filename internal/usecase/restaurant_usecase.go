package usecase

import (
	"context"
	"errors"

	"app/internal/domain/model"
	"app/internal/geo"
	repo "app/internal/repository"
)

type RestaurantCreateInput struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Address      string         `json:"address"`
	Phone        string         `json:"phone"`
	Location     model.GeoPoint `json:"location"`
	CuisineTypes []string       `json:"cuisine_types"`
	MinimumOrder float64        `json:"minimum_order"`
	DeliveryFee  float64        `json:"delivery_fee"`
	DeliveryTime int            `json:"delivery_time"`
}

type RestaurantUpdateInput struct {
	Name         *string         `json:"name"`
	Description  *string         `json:"description"`
	Address      *string         `json:"address"`
	Phone        *string         `json:"phone"`
	Location     *model.GeoPoint `json:"location"`
	CuisineTypes *[]string       `json:"cuisine_types"`
	IsOpen       *bool           `json:"is_open"`
	MinimumOrder *float64        `json:"minimum_order"`
	DeliveryFee  *float64        `json:"delivery_fee"`
	DeliveryTime *int            `json:"delivery_time"`
}

type RestaurantUsecase struct {
	tx          repo.TransactionManager
	restaurants repo.RestaurantRepository
	authz       Authorizer
}

func NewRestaurantUsecase(tx repo.TransactionManager, restaurants repo.RestaurantRepository, authz Authorizer) *RestaurantUsecase {
	return &RestaurantUsecase{tx: tx, restaurants: restaurants, authz: authz}
}

func (u *RestaurantUsecase) Create(ctx context.Context, actor model.Actor, in RestaurantCreateInput) (*model.Restaurant, error) {
	if actor.Role != model.RoleOwner {
		return nil, errUnauthorized("owner role required")
	}
	if in.Name == "" {
		return nil, errValidation("name is required")
	}
	if in.Address == "" {
		return nil, errValidation("address is required")
	}
	if in.MinimumOrder < 0 || in.DeliveryFee < 0 {
		return nil, errValidation("minimum_order and delivery_fee must not be negative")
	}

	rest := &model.Restaurant{
		OwnerID:      actor.ID,
		Name:         in.Name,
		Description:  in.Description,
		Address:      in.Address,
		Phone:        in.Phone,
		IsOpen:       true,
		Location:     in.Location,
		CuisineTypes: in.CuisineTypes,
		Rating:       5,
		MinimumOrder: in.MinimumOrder,
		DeliveryFee:  in.DeliveryFee,
		DeliveryTime: in.DeliveryTime,
	}

	if err := u.restaurants.Create(ctx, rest); err != nil {
		return nil, errInternal()
	}
	return rest, nil
}

func (u *RestaurantUsecase) Get(ctx context.Context, actor model.Actor, restaurantID int64) (*model.Restaurant, error) {
	rest, err := u.authz.RequireRestaurantOwner(ctx, u.restaurants, actor, restaurantID)
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

func (u *RestaurantUsecase) ListOwned(ctx context.Context, actor model.Actor, page int, limit int) ([]model.Restaurant, int64, error) {
	if actor.Role != model.RoleOwner {
		return nil, 0, errUnauthorized("owner role required")
	}
	rests, total, err := u.restaurants.ListByOwnerID(ctx, actor.ID, page, limit)
	if err != nil {
		return nil, 0, errInternal()
	}
	return rests, total, nil
}

// Update はオーナー自身の店のみ。OwnerIDは作成後変更できない。
func (u *RestaurantUsecase) Update(ctx context.Context, actor model.Actor, restaurantID int64, in RestaurantUpdateInput) (*model.Restaurant, error) {
	rest, err := u.authz.RequireRestaurantOwner(ctx, u.restaurants, actor, restaurantID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, errValidation("name must not be empty")
		}
		rest.Name = *in.Name
	}
	if in.Description != nil {
		rest.Description = *in.Description
	}
	if in.Address != nil {
		if *in.Address == "" {
			return nil, errValidation("address must not be empty")
		}
		rest.Address = *in.Address
	}
	if in.Phone != nil {
		rest.Phone = *in.Phone
	}
	if in.Location != nil {
		rest.Location = *in.Location
	}
	if in.CuisineTypes != nil {
		rest.CuisineTypes = *in.CuisineTypes
	}
	if in.IsOpen != nil {
		rest.IsOpen = *in.IsOpen
	}
	if in.MinimumOrder != nil {
		if *in.MinimumOrder < 0 {
			return nil, errValidation("minimum_order must not be negative")
		}
		rest.MinimumOrder = *in.MinimumOrder
	}
	if in.DeliveryFee != nil {
		if *in.DeliveryFee < 0 {
			return nil, errValidation("delivery_fee must not be negative")
		}
		rest.DeliveryFee = *in.DeliveryFee
	}
	if in.DeliveryTime != nil {
		rest.DeliveryTime = *in.DeliveryTime
	}

	if err := u.restaurants.Update(ctx, &rest); err != nil {
		return nil, errInternal()
	}
	return &rest, nil
}

// Delete は店と商品を消し、所属クーリエを切り離す。1トランザクションで行う。
// 既存注文は履歴として残す（スナップショットがあるので店が消えても読める）。
func (u *RestaurantUsecase) Delete(ctx context.Context, actor model.Actor, restaurantID int64) error {
	if _, err := u.authz.RequireRestaurantOwner(ctx, u.restaurants, actor, restaurantID); err != nil {
		return err
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Products().DeleteByRestaurantID(ctx, restaurantID); err != nil {
			return errInternal()
		}
		if err := r.Couriers().DetachByRestaurantID(ctx, restaurantID); err != nil {
			return errInternal()
		}
		if err := r.Restaurants().Delete(ctx, restaurantID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errNotFound("restaurant not found")
			}
			return errInternal()
		}
		return nil
	})
}

// BrowsePublic は認証なしで見られる店一覧。
func (u *RestaurantUsecase) BrowsePublic(ctx context.Context, openOnly bool, page int, limit int) ([]model.Restaurant, int64, error) {
	rests, total, err := u.restaurants.ListPublic(ctx, openOnly, page, limit)
	if err != nil {
		return nil, 0, errInternal()
	}
	return rests, total, nil
}

// DeliveryEstimateTo は店から指定地点への配達見積もり。
func (u *RestaurantUsecase) DeliveryEstimateTo(ctx context.Context, restaurantID int64, to model.GeoPoint) (*geo.Estimate, error) {
	rest, err := u.restaurants.FindByID(ctx, restaurantID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errNotFound("restaurant not found")
	}
	if err != nil {
		return nil, errInternal()
	}

	est := geo.DeliveryEstimate(rest.Location.Lon, rest.Location.Lat, to.Lon, to.Lat)
	return &est, nil
}
