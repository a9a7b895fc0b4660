package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"app/internal/auth"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Clock は現在時刻の供給。テストで固定できるようにする。
type Clock interface {
	Now() time.Time
}

type UserDTO struct {
	ID    int64      `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Phone string     `json:"phone"`
	Role  model.Role `json:"role"`

	// ロールごとの付加情報
	RestaurantID         *int64 `json:"restaurant_id,omitempty"`
	CourierStatus        string `json:"courier_status,omitempty"`
	Address              string `json:"address,omitempty"`
	IsSubscriptionActive *bool  `json:"is_subscription_active,omitempty"`
}

type TokenDTO struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type LoginOutput struct {
	User  UserDTO  `json:"user"`
	Token TokenDTO `json:"token"`
}

type ConsumerRegisterInput struct {
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone"`
	Password        string         `json:"password"`
	PasswordConfirm string         `json:"password_confirm"`
	Address         string         `json:"address"`
	Location        model.GeoPoint `json:"location"`
}

type AuthUsecase struct {
	admins    repo.AdminRepository
	owners    repo.OwnerRepository
	couriers  repo.CourierRepository
	consumers repo.ConsumerRepository
	tokens    *auth.TokenService
	clock     Clock
}

func NewAuthUsecase(
	admins repo.AdminRepository,
	owners repo.OwnerRepository,
	couriers repo.CourierRepository,
	consumers repo.ConsumerRepository,
	tokens *auth.TokenService,
	clock Clock,
) *AuthUsecase {
	return &AuthUsecase{
		admins:    admins,
		owners:    owners,
		couriers:  couriers,
		consumers: consumers,
		tokens:    tokens,
		clock:     clock,
	}
}

func (u *AuthUsecase) AdminLogin(ctx context.Context, email string, password string) (*LoginOutput, error) {
	admin, err := u.admins.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errInvalidCredentials()
	}
	if err != nil {
		return nil, errInternal()
	}

	if !admin.IsActive {
		return nil, errAccountDeactivated("admin account is deactivated")
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, errInvalidCredentials()
	}

	token, err := u.issueToken(admin.ID, model.RoleAdmin)
	if err != nil {
		return nil, errInternal()
	}

	return &LoginOutput{
		User: UserDTO{
			ID:    admin.ID,
			Name:  admin.Name,
			Email: admin.Email,
			Phone: admin.Phone,
			Role:  model.RoleAdmin,
		},
		Token: token,
	}, nil
}

// OwnerLogin はサブスクゲートを通す。
// 無効化とサブスク切れは別のエラーコードで返す。
func (u *AuthUsecase) OwnerLogin(ctx context.Context, email string, password string) (*LoginOutput, error) {
	owner, err := u.owners.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errInvalidCredentials()
	}
	if err != nil {
		return nil, errInternal()
	}

	if !owner.IsActive {
		return nil, errAccountDeactivated("owner account is deactivated")
	}

	now := u.clock.Now()
	if owner.SubscriptionEndDate != nil && !owner.SubscriptionEndDate.After(now) {
		return nil, errSubscriptionExpired()
	}

	if bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(password)) != nil {
		return nil, errInvalidCredentials()
	}

	token, err := u.issueToken(owner.ID, model.RoleOwner)
	if err != nil {
		return nil, errInternal()
	}

	active := LoginAllowed(owner, now)
	return &LoginOutput{
		User: UserDTO{
			ID:                   owner.ID,
			Name:                 owner.Name,
			Email:                owner.Email,
			Phone:                owner.Phone,
			Role:                 model.RoleOwner,
			IsSubscriptionActive: &active,
		},
		Token: token,
	}, nil
}

func (u *AuthUsecase) CourierLogin(ctx context.Context, email string, password string) (*LoginOutput, error) {
	courier, err := u.couriers.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errInvalidCredentials()
	}
	if err != nil {
		return nil, errInternal()
	}

	if !courier.IsVerified {
		return nil, errAccountDeactivated("courier account is not verified yet")
	}
	if !courier.IsActive {
		return nil, errAccountDeactivated("courier account is deactivated")
	}

	if bcrypt.CompareHashAndPassword([]byte(courier.PasswordHash), []byte(password)) != nil {
		return nil, errInvalidCredentials()
	}

	token, err := u.issueToken(courier.ID, model.RoleCourier)
	if err != nil {
		return nil, errInternal()
	}

	restaurantID := courier.RestaurantID
	return &LoginOutput{
		User: UserDTO{
			ID:            courier.ID,
			Name:          courier.Name,
			Email:         courier.Email,
			Phone:         courier.Phone,
			Role:          model.RoleCourier,
			RestaurantID:  &restaurantID,
			CourierStatus: string(courier.Status),
		},
		Token: token,
	}, nil
}

func (u *AuthUsecase) ConsumerLogin(ctx context.Context, email string, password string) (*LoginOutput, error) {
	consumer, err := u.consumers.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errInvalidCredentials()
	}
	if err != nil {
		return nil, errInternal()
	}

	if !consumer.IsActive {
		return nil, errAccountDeactivated("consumer account is deactivated")
	}

	if bcrypt.CompareHashAndPassword([]byte(consumer.PasswordHash), []byte(password)) != nil {
		return nil, errInvalidCredentials()
	}

	token, err := u.issueToken(consumer.ID, model.RoleConsumer)
	if err != nil {
		return nil, errInternal()
	}

	return &LoginOutput{
		User: UserDTO{
			ID:      consumer.ID,
			Name:    consumer.Name,
			Email:   consumer.Email,
			Phone:   consumer.Phone,
			Role:    model.RoleConsumer,
			Address: consumer.Address,
		},
		Token: token,
	}, nil
}

func (u *AuthUsecase) ConsumerRegister(ctx context.Context, in ConsumerRegisterInput) (*LoginOutput, error) {
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
	if in.Password != in.PasswordConfirm {
		return nil, errValidation("passwords do not match")
	}
	if in.Address == "" {
		return nil, errValidation("address is required")
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errInternal()
	}

	consumer := &model.Consumer{
		Name:         in.Name,
		Email:        email,
		Phone:        in.Phone,
		PasswordHash: string(pwHash),
		Role:         model.RoleConsumer,
		IsActive:     true,
		Address:      in.Address,
		Location:     in.Location,
	}

	if err := u.consumers.Create(ctx, consumer); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, errConflict("email is already registered")
		}
		return nil, errInternal()
	}

	token, err := u.issueToken(consumer.ID, model.RoleConsumer)
	if err != nil {
		return nil, errInternal()
	}

	return &LoginOutput{
		User: UserDTO{
			ID:      consumer.ID,
			Name:    consumer.Name,
			Email:   consumer.Email,
			Phone:   consumer.Phone,
			Role:    model.RoleConsumer,
			Address: consumer.Address,
		},
		Token: token,
	}, nil
}

func (u *AuthUsecase) issueToken(subjectID int64, role model.Role) (TokenDTO, error) {
	signed, _, err := u.tokens.Issue(subjectID, role, u.clock.Now())
	if err != nil {
		return TokenDTO{}, err
	}
	return TokenDTO{
		AccessToken: signed,
		ExpiresIn:   int(u.tokens.TTL().Seconds()),
	}, nil
}
