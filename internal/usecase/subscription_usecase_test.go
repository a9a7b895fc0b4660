package usecase

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAllowed(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	assert.True(t, LoginAllowed(model.Owner{IsActive: true, SubscriptionEndDate: nil}, now))
	assert.True(t, LoginAllowed(model.Owner{IsActive: true, SubscriptionEndDate: &tomorrow}, now))
	assert.False(t, LoginAllowed(model.Owner{IsActive: true, SubscriptionEndDate: &yesterday}, now))
	// ちょうど終了時刻は不可
	assert.False(t, LoginAllowed(model.Owner{IsActive: true, SubscriptionEndDate: &now}, now))
	assert.False(t, LoginAllowed(model.Owner{IsActive: false, SubscriptionEndDate: &tomorrow}, now))
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	assert.Nil(t, DaysRemaining(model.Owner{}, now))

	in36h := now.Add(36 * time.Hour)
	d := DaysRemaining(model.Owner{SubscriptionEndDate: &in36h}, now)
	require.NotNil(t, d)
	assert.Equal(t, 2, *d) // 切り上げ

	past := now.AddDate(0, 0, -3)
	d = DaysRemaining(model.Owner{SubscriptionEndDate: &past}, now)
	require.NotNil(t, d)
	assert.Equal(t, 0, *d) // 負にはならない
}

func newSubsWorld(t *testing.T) (*SubscriptionUsecase, *fakeOwnerRepo, *fakeClock) {
	t.Helper()
	owners := newFakeOwnerRepo()
	clock := &fakeClock{now: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)}
	return NewSubscriptionUsecase(owners, clock), owners, clock
}

func TestCreateOwner(t *testing.T) {
	uc, _, clock := newSubsWorld(t)
	ctx := context.Background()

	end := clock.now.AddDate(0, 1, 0)
	owner, err := uc.CreateOwner(ctx, OwnerCreateInput{
		Name: "Kemal", Email: "Kemal@Example.com", Password: "secret1",
		SubscriptionEndDate: &end,
	})
	require.NoError(t, err)
	assert.Equal(t, "kemal@example.com", owner.Email)
	assert.True(t, owner.IsActive)
	assert.Equal(t, 5, owner.MaxCouriers) // default
	assert.NotEqual(t, "secret1", owner.PasswordHash)
	require.NotNil(t, owner.SubscriptionEndDate)
	assert.Equal(t, end, *owner.SubscriptionEndDate)

	// 作成時点で支払い情報が初期化される
	require.NotNil(t, owner.PaymentInfo.LastPaymentDate)
	assert.Equal(t, clock.now, *owner.PaymentInfo.LastPaymentDate)
	require.NotNil(t, owner.PaymentInfo.NextPaymentDate)
	assert.Equal(t, end, *owner.PaymentInfo.NextPaymentDate)

	// 重複メール
	_, err = uc.CreateOwner(ctx, OwnerCreateInput{
		Name: "Kemal2", Email: "kemal@example.com", Password: "secret1",
	})
	assert.True(t, IsCode(err, CodeConflict))

	// 過去の終了日は弾く
	past := clock.now.AddDate(0, 0, -1)
	_, err = uc.CreateOwner(ctx, OwnerCreateInput{
		Name: "x", Email: "x@example.com", Password: "secret1",
		SubscriptionEndDate: &past,
	})
	assert.True(t, IsCode(err, CodeValidationError))
}

func TestCreateOwner_DefaultSubscriptionWindow(t *testing.T) {
	uc, _, clock := newSubsWorld(t)
	ctx := context.Background()

	// 終了日を省略すると今日から30日のウィンドウで始まる
	owner, err := uc.CreateOwner(ctx, OwnerCreateInput{
		Name: "Ayse", Email: "ayse@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	want := clock.now.AddDate(0, 0, 30)
	require.NotNil(t, owner.SubscriptionEndDate)
	assert.Equal(t, want, *owner.SubscriptionEndDate)
	require.NotNil(t, owner.PaymentInfo.LastPaymentDate)
	assert.Equal(t, clock.now, *owner.PaymentInfo.LastPaymentDate)
	require.NotNil(t, owner.PaymentInfo.NextPaymentDate)
	assert.Equal(t, want, *owner.PaymentInfo.NextPaymentDate)
}

func TestExtendSubscription(t *testing.T) {
	uc, owners, clock := newSubsWorld(t)
	ctx := context.Background()

	tomorrow := clock.now.AddDate(0, 0, 1)
	require.NoError(t, owners.Create(ctx, &model.Owner{
		Name: "a", Email: "a@example.com", IsActive: true,
		SubscriptionStartDate: clock.now.AddDate(0, -1, 0),
		SubscriptionEndDate:   &tomorrow,
	}))

	// 有効なうちの延長は終了日起点
	owner, err := uc.ExtendSubscription(ctx, 1, 30)
	require.NoError(t, err)
	newEnd := tomorrow.AddDate(0, 0, 30)
	assert.Equal(t, newEnd, *owner.SubscriptionEndDate)

	// 延長で支払い情報も刻まれ、保存まで届く
	stored, err := owners.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, stored.PaymentInfo.LastPaymentDate)
	assert.Equal(t, clock.now, *stored.PaymentInfo.LastPaymentDate)
	require.NotNil(t, stored.PaymentInfo.NextPaymentDate)
	assert.Equal(t, newEnd, *stored.PaymentInfo.NextPaymentDate)

	// 切れている場合は現在時刻起点
	expired := clock.now.AddDate(0, 0, -10)
	require.NoError(t, owners.Create(ctx, &model.Owner{
		Name: "b", Email: "b@example.com", IsActive: true,
		SubscriptionStartDate: clock.now.AddDate(0, -2, 0),
		SubscriptionEndDate:   &expired,
	}))
	owner, err = uc.ExtendSubscription(ctx, 2, 7)
	require.NoError(t, err)
	assert.Equal(t, clock.now.AddDate(0, 0, 7), *owner.SubscriptionEndDate)

	_, err = uc.ExtendSubscription(ctx, 1, 0)
	assert.True(t, IsCode(err, CodeValidationError))

	_, err = uc.ExtendSubscription(ctx, 999, 7)
	assert.True(t, IsCode(err, CodeNotFound))
}

func TestSubscriptionReports(t *testing.T) {
	uc, owners, clock := newSubsWorld(t)
	ctx := context.Background()

	expired := clock.now.AddDate(0, 0, -2)
	soon := clock.now.AddDate(0, 0, 3)
	later := clock.now.AddDate(0, 3, 0)

	require.NoError(t, owners.Create(ctx, &model.Owner{Name: "expired", Email: "e@x.com", IsActive: true, SubscriptionEndDate: &expired}))
	require.NoError(t, owners.Create(ctx, &model.Owner{Name: "soon", Email: "s@x.com", IsActive: true, SubscriptionEndDate: &soon}))
	require.NoError(t, owners.Create(ctx, &model.Owner{Name: "later", Email: "l@x.com", IsActive: true, SubscriptionEndDate: &later}))
	require.NoError(t, owners.Create(ctx, &model.Owner{Name: "unlimited", Email: "u@x.com", IsActive: true}))

	expiredReport, err := uc.ExpiredReport(ctx)
	require.NoError(t, err)
	require.Len(t, expiredReport, 1)
	assert.Equal(t, "expired", expiredReport[0].Name)
	assert.False(t, expiredReport[0].SubscriptionActive)

	expiring, err := uc.ExpiringSoonReport(ctx, 7)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "soon", expiring[0].Name)
	require.NotNil(t, expiring[0].DaysRemaining)
	assert.Equal(t, 3, *expiring[0].DaysRemaining)
}

func TestUpdateOwner(t *testing.T) {
	uc, owners, clock := newSubsWorld(t)
	ctx := context.Background()

	require.NoError(t, owners.Create(ctx, &model.Owner{
		Name: "a", Email: "a@example.com", IsActive: true,
		SubscriptionStartDate: clock.now, MaxCouriers: 5,
	}))

	inactive := false
	three := 3
	owner, err := uc.UpdateOwner(ctx, 1, OwnerUpdateInput{IsActive: &inactive, MaxCouriers: &three})
	require.NoError(t, err)
	assert.False(t, owner.IsActive)
	assert.Equal(t, 3, owner.MaxCouriers)

	zero := 0
	_, err = uc.UpdateOwner(ctx, 1, OwnerUpdateInput{MaxCouriers: &zero})
	assert.True(t, IsCode(err, CodeValidationError))

	// 開始日より前の終了日は弾く
	before := clock.now.AddDate(0, 0, -1)
	_, err = uc.UpdateOwner(ctx, 1, OwnerUpdateInput{SubscriptionEndDate: &before})
	assert.True(t, IsCode(err, CodeValidationError))
}
