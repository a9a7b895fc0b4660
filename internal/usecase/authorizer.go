package usecase

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// Authorizer は所有チェーン（Owner→Restaurant→Product/Courier、
// Consumer/Courier→Order）を辿ってアクセス可否を決める。
//
// 所有権がない場合と対象が存在しない場合は、存在を漏らさないよう
// どちらも同じ404で返す。ロール不一致だけは403。
// 中間のRestaurantが見つからない2ホップ参照は必ず拒否（fail closed）。
type Authorizer struct{}

func NewAuthorizer() Authorizer {
	return Authorizer{}
}

// RequireRestaurantOwner はactorがrestaurantIDのオーナーであることを確認し、
// レストランを返す。
func (Authorizer) RequireRestaurantOwner(ctx context.Context, restaurants repo.RestaurantRepository, actor model.Actor, restaurantID int64) (model.Restaurant, error) {
	if actor.Role != model.RoleOwner {
		return model.Restaurant{}, errUnauthorized("owner role required")
	}

	rest, err := restaurants.FindByID(ctx, restaurantID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Restaurant{}, errNotFound("restaurant not found")
	}
	if err != nil {
		return model.Restaurant{}, errInternal()
	}

	// 他人のレストランは「存在しない扱い」
	if rest.OwnerID != actor.ID {
		return model.Restaurant{}, errNotFound("restaurant not found")
	}

	return rest, nil
}

// RequireProductOwner は商品→レストランの2ホップでオーナー権を確認し、
// 商品を返す。
func (a Authorizer) RequireProductOwner(ctx context.Context, restaurants repo.RestaurantRepository, products repo.ProductRepository, actor model.Actor, productID int64) (model.Product, error) {
	if actor.Role != model.RoleOwner {
		return model.Product{}, errUnauthorized("owner role required")
	}

	p, err := products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, errNotFound("product not found")
	}
	if err != nil {
		return model.Product{}, errInternal()
	}

	// 親レストランが消えていたら拒否（暗黙の許可にしない）
	if _, err := a.RequireRestaurantOwner(ctx, restaurants, actor, p.RestaurantID); err != nil {
		if IsCode(err, CodeInternal) {
			return model.Product{}, err
		}
		return model.Product{}, errNotFound("product not found")
	}

	return p, nil
}

// RequireCourierOwner はクーリエ→レストランの2ホップでオーナー権を確認し、
// クーリエを返す。
func (a Authorizer) RequireCourierOwner(ctx context.Context, restaurants repo.RestaurantRepository, couriers repo.CourierRepository, actor model.Actor, courierID int64) (model.Courier, error) {
	if actor.Role != model.RoleOwner {
		return model.Courier{}, errUnauthorized("owner role required")
	}

	c, err := couriers.FindByID(ctx, courierID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Courier{}, errNotFound("courier not found")
	}
	if err != nil {
		return model.Courier{}, errInternal()
	}

	if _, err := a.RequireRestaurantOwner(ctx, restaurants, actor, c.RestaurantID); err != nil {
		if IsCode(err, CodeInternal) {
			return model.Courier{}, err
		}
		return model.Courier{}, errNotFound("courier not found")
	}

	return c, nil
}

// CanAccessOrder はactorがorderを読める／遷移させられるかを判定する。
//   - consumer: 自分の注文のみ
//   - owner:    自分のレストランに入った注文のみ
//   - courier:  自分に割り当てられた注文のみ
//   - admin:    注文アクセスなし（現設計では管理ルートが存在しない）
func (Authorizer) CanAccessOrder(ctx context.Context, restaurants repo.RestaurantRepository, actor model.Actor, order model.Order) error {
	switch actor.Role {
	case model.RoleConsumer:
		if order.ConsumerID != actor.ID {
			return errNotFound("order not found")
		}
		return nil

	case model.RoleOwner:
		rest, err := restaurants.FindByID(ctx, order.RestaurantID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("order not found")
		}
		if err != nil {
			return errInternal()
		}
		if rest.OwnerID != actor.ID {
			return errNotFound("order not found")
		}
		return nil

	case model.RoleCourier:
		if order.CourierID == nil || *order.CourierID != actor.ID {
			return errNotFound("order not found")
		}
		return nil

	default:
		return errUnauthorized("role has no order access")
	}
}
