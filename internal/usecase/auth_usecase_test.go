package usecase

import (
	"context"
	"testing"
	"time"

	"app/internal/auth"
	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

type authWorld struct {
	uc        *AuthUsecase
	owners    *fakeOwnerRepo
	couriers  *fakeCourierRepo
	consumers *fakeConsumerRepo
	clock     *fakeClock
	tokens    *auth.TokenService
}

func newAuthWorld(t *testing.T) *authWorld {
	t.Helper()

	admins := newFakeAdminRepo()
	owners := newFakeOwnerRepo()
	couriers := newFakeCourierRepo()
	consumers := newFakeConsumerRepo()

	require.NoError(t, admins.Create(context.Background(), &model.Admin{
		Name: "root", Email: "root@example.com",
		PasswordHash: hashPassword(t, "admin-pass"),
		Role:         model.RoleAdmin, IsActive: true,
	}))

	clock := &fakeClock{now: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)}
	tokens := auth.NewTokenService("test-secret", time.Hour)
	// 発行も検証も固定時計に合わせる
	tokens.SetTimeFunc(func() time.Time { return clock.now })

	return &authWorld{
		uc:        NewAuthUsecase(admins, owners, couriers, consumers, tokens, clock),
		owners:    owners,
		couriers:  couriers,
		consumers: consumers,
		clock:     clock,
		tokens:    tokens,
	}
}

func (w *authWorld) addOwner(t *testing.T, email string, active bool, end *time.Time) {
	t.Helper()
	require.NoError(t, w.owners.Create(context.Background(), &model.Owner{
		Name: "owner", Email: email,
		PasswordHash:          hashPassword(t, "owner-pass"),
		Role:                  model.RoleOwner,
		IsActive:              active,
		SubscriptionStartDate: w.clock.now.AddDate(0, -1, 0),
		SubscriptionEndDate:   end,
	}))
}

func TestAdminLogin(t *testing.T) {
	w := newAuthWorld(t)
	ctx := context.Background()

	out, err := w.uc.AdminLogin(ctx, "root@example.com", "admin-pass")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, out.User.Role)
	assert.NotEmpty(t, out.Token.AccessToken)

	// tokenからActorが復元できる
	actor, err := w.tokens.Verify(out.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, model.Actor{ID: out.User.ID, Role: model.RoleAdmin}, actor)

	// メール違いもパスワード違いも同じエラー
	_, err1 := w.uc.AdminLogin(ctx, "nobody@example.com", "admin-pass")
	_, err2 := w.uc.AdminLogin(ctx, "root@example.com", "wrong")
	assert.True(t, IsCode(err1, CodeInvalidCredentials))
	assert.True(t, IsCode(err2, CodeInvalidCredentials))
}

func TestOwnerLogin_SubscriptionGate(t *testing.T) {
	w := newAuthWorld(t)
	ctx := context.Background()

	yesterday := w.clock.now.AddDate(0, 0, -1)
	tomorrow := w.clock.now.AddDate(0, 0, 1)

	w.addOwner(t, "expired@example.com", true, &yesterday)
	w.addOwner(t, "valid@example.com", true, &tomorrow)
	w.addOwner(t, "unlimited@example.com", true, nil)
	w.addOwner(t, "deactivated@example.com", false, &tomorrow)

	// 昨日切れた → SUBSCRIPTION_EXPIRED
	_, err := w.uc.OwnerLogin(ctx, "expired@example.com", "owner-pass")
	assert.True(t, IsCode(err, CodeSubscriptionExpired))

	// 明日まで有効 → 成功
	out, err := w.uc.OwnerLogin(ctx, "valid@example.com", "owner-pass")
	require.NoError(t, err)
	require.NotNil(t, out.User.IsSubscriptionActive)
	assert.True(t, *out.User.IsSubscriptionActive)

	// 終了日なしは無期限
	_, err = w.uc.OwnerLogin(ctx, "unlimited@example.com", "owner-pass")
	assert.NoError(t, err)

	// 無効化はサブスク切れとは別コード
	_, err = w.uc.OwnerLogin(ctx, "deactivated@example.com", "owner-pass")
	assert.True(t, IsCode(err, CodeAccountDeactivated))
}

func TestCourierLogin_VerificationGate(t *testing.T) {
	w := newAuthWorld(t)
	ctx := context.Background()

	require.NoError(t, w.couriers.Create(ctx, &model.Courier{
		Name: "unverified", Email: "new@example.com",
		PasswordHash: hashPassword(t, "courier-pass"),
		Role:         model.RoleCourier, IsActive: true, IsVerified: false,
		RestaurantID: 1,
	}))
	require.NoError(t, w.couriers.Create(ctx, &model.Courier{
		Name: "verified", Email: "ok@example.com",
		PasswordHash: hashPassword(t, "courier-pass"),
		Role:         model.RoleCourier, IsActive: true, IsVerified: true,
		RestaurantID: 1,
	}))

	// 承認前はログイン不可
	_, err := w.uc.CourierLogin(ctx, "new@example.com", "courier-pass")
	assert.True(t, IsCode(err, CodeAccountDeactivated))

	out, err := w.uc.CourierLogin(ctx, "ok@example.com", "courier-pass")
	require.NoError(t, err)
	assert.Equal(t, model.RoleCourier, out.User.Role)
}

func TestConsumerRegisterAndLogin(t *testing.T) {
	w := newAuthWorld(t)
	ctx := context.Background()

	out, err := w.uc.ConsumerRegister(ctx, ConsumerRegisterInput{
		Name:            "Ayse",
		Email:           "Ayse@Example.com",
		Password:        "secret1",
		PasswordConfirm: "secret1",
		Address:         "Moda Cd. 7",
	})
	require.NoError(t, err)
	// メールは小文字に正規化される
	assert.Equal(t, "ayse@example.com", out.User.Email)
	assert.NotEmpty(t, out.Token.AccessToken)

	// 同じメールで再登録はconflict
	_, err = w.uc.ConsumerRegister(ctx, ConsumerRegisterInput{
		Name: "Ayse2", Email: "ayse@example.com",
		Password: "secret1", PasswordConfirm: "secret1",
		Address: "elsewhere",
	})
	assert.True(t, IsCode(err, CodeConflict))

	_, err = w.uc.ConsumerLogin(ctx, "ayse@example.com", "secret1")
	assert.NoError(t, err)
}

func TestConsumerRegister_Validation(t *testing.T) {
	w := newAuthWorld(t)
	ctx := context.Background()

	cases := []ConsumerRegisterInput{
		{Email: "a@b.c", Password: "secret1", PasswordConfirm: "secret1", Address: "x"},                 // no name
		{Name: "n", Email: "not-an-email", Password: "secret1", PasswordConfirm: "secret1", Address: "x"}, // bad email
		{Name: "n", Email: "a@b.c", Password: "short", PasswordConfirm: "short", Address: "x"},            // short password
		{Name: "n", Email: "a@b.c", Password: "secret1", PasswordConfirm: "secret2", Address: "x"},        // mismatch
		{Name: "n", Email: "a@b.c", Password: "secret1", PasswordConfirm: "secret1"},                      // no address
	}

	for _, in := range cases {
		_, err := w.uc.ConsumerRegister(ctx, in)
		assert.True(t, IsCode(err, CodeValidationError))
	}
}
