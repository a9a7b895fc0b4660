package usecase

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ConsumerUpdateInput struct {
	Name           *string               `json:"name"`
	Phone          *string               `json:"phone"`
	Address        *string               `json:"address"`
	Location       *model.GeoPoint       `json:"location"`
	SavedAddresses *[]model.SavedAddress `json:"saved_addresses"`
}

type ConsumerUsecase struct {
	consumers   repo.ConsumerRepository
	restaurants repo.RestaurantRepository
}

func NewConsumerUsecase(consumers repo.ConsumerRepository, restaurants repo.RestaurantRepository) *ConsumerUsecase {
	return &ConsumerUsecase{consumers: consumers, restaurants: restaurants}
}

func (u *ConsumerUsecase) Profile(ctx context.Context, actor model.Actor) (*model.Consumer, error) {
	c, err := u.requireSelf(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (u *ConsumerUsecase) UpdateProfile(ctx context.Context, actor model.Actor, in ConsumerUpdateInput) (*model.Consumer, error) {
	c, err := u.requireSelf(ctx, actor)
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
	if in.Address != nil {
		if *in.Address == "" {
			return nil, errValidation("address must not be empty")
		}
		c.Address = *in.Address
	}
	if in.Location != nil {
		c.Location = *in.Location
	}
	if in.SavedAddresses != nil {
		c.SavedAddresses = *in.SavedAddresses
	}

	if err := u.consumers.Update(ctx, &c); err != nil {
		return nil, errInternal()
	}
	return &c, nil
}

// AddFavorite はお気に入りレストラン追加。重複追加は黙って1件に畳む。
func (u *ConsumerUsecase) AddFavorite(ctx context.Context, actor model.Actor, restaurantID int64) (*model.Consumer, error) {
	c, err := u.requireSelf(ctx, actor)
	if err != nil {
		return nil, err
	}

	if _, err := u.restaurants.FindByID(ctx, restaurantID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errNotFound("restaurant not found")
		}
		return nil, errInternal()
	}

	for _, id := range c.FavoriteRestaurants {
		if id == restaurantID {
			return &c, nil
		}
	}
	c.FavoriteRestaurants = append(c.FavoriteRestaurants, restaurantID)

	if err := u.consumers.Update(ctx, &c); err != nil {
		return nil, errInternal()
	}
	return &c, nil
}

// RemoveFavorite は登録されていないIDの削除も成功扱い。
func (u *ConsumerUsecase) RemoveFavorite(ctx context.Context, actor model.Actor, restaurantID int64) (*model.Consumer, error) {
	c, err := u.requireSelf(ctx, actor)
	if err != nil {
		return nil, err
	}

	kept := c.FavoriteRestaurants[:0]
	for _, id := range c.FavoriteRestaurants {
		if id != restaurantID {
			kept = append(kept, id)
		}
	}
	c.FavoriteRestaurants = kept

	if err := u.consumers.Update(ctx, &c); err != nil {
		return nil, errInternal()
	}
	return &c, nil
}

func (u *ConsumerUsecase) requireSelf(ctx context.Context, actor model.Actor) (model.Consumer, error) {
	if actor.Role != model.RoleConsumer {
		return model.Consumer{}, errUnauthorized("consumer role required")
	}
	c, err := u.consumers.FindByID(ctx, actor.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Consumer{}, errNotFound("consumer not found")
	}
	if err != nil {
		return model.Consumer{}, errInternal()
	}
	return c, nil
}
