package usecase

import (
	"context"
	"testing"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireRestaurantOwner(t *testing.T) {
	ctx := context.Background()
	restaurants := newFakeRestaurantRepo()
	require.NoError(t, restaurants.Create(ctx, &model.Restaurant{OwnerID: 1, Name: "mine"}))

	authz := NewAuthorizer()
	owner := model.Actor{ID: 1, Role: model.RoleOwner}
	stranger := model.Actor{ID: 2, Role: model.RoleOwner}

	rest, err := authz.RequireRestaurantOwner(ctx, restaurants, owner, 1)
	require.NoError(t, err)
	assert.Equal(t, "mine", rest.Name)

	// 他人の店と存在しない店は同じ404
	_, errOther := authz.RequireRestaurantOwner(ctx, restaurants, stranger, 1)
	_, errMissing := authz.RequireRestaurantOwner(ctx, restaurants, owner, 99)
	assert.True(t, IsCode(errOther, CodeNotFound))
	assert.True(t, IsCode(errMissing, CodeNotFound))

	// ロール不一致だけは403
	_, err = authz.RequireRestaurantOwner(ctx, restaurants, model.Actor{ID: 1, Role: model.RoleConsumer}, 1)
	assert.True(t, IsCode(err, CodeUnauthorized))
}

func TestRequireCourierOwner_OrphanFailsClosed(t *testing.T) {
	ctx := context.Background()
	restaurants := newFakeRestaurantRepo()
	couriers := newFakeCourierRepo()
	require.NoError(t, restaurants.Create(ctx, &model.Restaurant{OwnerID: 1}))
	require.NoError(t, couriers.Create(ctx, &model.Courier{Name: "m", Email: "m@x.com", RestaurantID: 1}))

	authz := NewAuthorizer()
	owner := model.Actor{ID: 1, Role: model.RoleOwner}

	_, err := authz.RequireCourierOwner(ctx, restaurants, couriers, owner, 1)
	require.NoError(t, err)

	// 店が消えて孤立したクーリエには誰も触れない
	require.NoError(t, couriers.DetachByRestaurantID(ctx, 1))
	_, err = authz.RequireCourierOwner(ctx, restaurants, couriers, owner, 1)
	assert.True(t, IsCode(err, CodeNotFound))
}

func TestCanAccessOrder_AdminHasNoOrderAccess(t *testing.T) {
	ctx := context.Background()
	restaurants := newFakeRestaurantRepo()
	require.NoError(t, restaurants.Create(ctx, &model.Restaurant{OwnerID: 1}))

	authz := NewAuthorizer()
	order := model.Order{ID: 1, ConsumerID: 1, RestaurantID: 1}

	err := authz.CanAccessOrder(ctx, restaurants, model.Actor{ID: 1, Role: model.RoleAdmin}, order)
	assert.True(t, IsCode(err, CodeUnauthorized))
}
