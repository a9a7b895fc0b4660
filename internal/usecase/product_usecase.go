package usecase

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ProductCreateInput struct {
	RestaurantID int64   `json:"restaurant_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Category     string  `json:"category"`
}

type ProductUpdateInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	IsAvailable *bool    `json:"is_available"`
}

type ProductUsecase struct {
	products    repo.ProductRepository
	restaurants repo.RestaurantRepository
	authz       Authorizer
}

func NewProductUsecase(products repo.ProductRepository, restaurants repo.RestaurantRepository, authz Authorizer) *ProductUsecase {
	return &ProductUsecase{products: products, restaurants: restaurants, authz: authz}
}

func (u *ProductUsecase) Create(ctx context.Context, actor model.Actor, in ProductCreateInput) (*model.Product, error) {
	if _, err := u.authz.RequireRestaurantOwner(ctx, u.restaurants, actor, in.RestaurantID); err != nil {
		return nil, err
	}

	if in.Name == "" {
		return nil, errValidation("name is required")
	}
	if in.Price < 0 {
		return nil, errValidation("price must not be negative")
	}

	p := &model.Product{
		RestaurantID: in.RestaurantID,
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		Category:     in.Category,
		IsAvailable:  true,
	}

	if err := u.products.Create(ctx, p); err != nil {
		return nil, errInternal()
	}
	return p, nil
}

func (u *ProductUsecase) Get(ctx context.Context, actor model.Actor, productID int64) (*model.Product, error) {
	p, err := u.authz.RequireProductOwner(ctx, u.restaurants, u.products, actor, productID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update は商品→レストラン→オーナーの2ホップ確認を通った場合のみ。
// 価格を変えても既存注文のスナップショットには影響しない。
func (u *ProductUsecase) Update(ctx context.Context, actor model.Actor, productID int64, in ProductUpdateInput) (*model.Product, error) {
	p, err := u.authz.RequireProductOwner(ctx, u.restaurants, u.products, actor, productID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, errValidation("name must not be empty")
		}
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, errValidation("price must not be negative")
		}
		p.Price = *in.Price
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}

	if err := u.products.Update(ctx, &p); err != nil {
		return nil, errInternal()
	}
	return &p, nil
}

func (u *ProductUsecase) Delete(ctx context.Context, actor model.Actor, productID int64) error {
	p, err := u.authz.RequireProductOwner(ctx, u.restaurants, u.products, actor, productID)
	if err != nil {
		return err
	}
	if err := u.products.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("product not found")
		}
		return errInternal()
	}
	return nil
}

// ListOwned はオーナー視点の商品一覧（非公開の商品も含む）。
func (u *ProductUsecase) ListOwned(ctx context.Context, actor model.Actor, restaurantID int64, page int, limit int) ([]model.Product, int64, error) {
	if _, err := u.authz.RequireRestaurantOwner(ctx, u.restaurants, actor, restaurantID); err != nil {
		return nil, 0, err
	}
	products, total, err := u.products.ListByRestaurantID(ctx, restaurantID, page, limit)
	if err != nil {
		return nil, 0, errInternal()
	}
	return products, total, nil
}

// BrowseMenu は認証なしで見られる店のメニュー。
func (u *ProductUsecase) BrowseMenu(ctx context.Context, restaurantID int64, page int, limit int) ([]model.Product, int64, error) {
	if _, err := u.restaurants.FindByID(ctx, restaurantID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, 0, errNotFound("restaurant not found")
		}
		return nil, 0, errInternal()
	}

	products, total, err := u.products.ListByRestaurantID(ctx, restaurantID, page, limit)
	if err != nil {
		return nil, 0, errInternal()
	}
	return products, total, nil
}
