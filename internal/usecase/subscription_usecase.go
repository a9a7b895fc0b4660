package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// LoginAllowed はオーナーがログイン可能か（サブスクゲート）。
// 終了日未設定は無期限扱い。終了日が現在より後なら許可。
func LoginAllowed(o model.Owner, now time.Time) bool {
	if !o.IsActive {
		return false
	}
	return o.SubscriptionEndDate == nil || o.SubscriptionEndDate.After(now)
}

// DaysRemaining はサブスク残日数（切り上げ、下限0）。
// 終了日未設定ならnil（無期限）。
func DaysRemaining(o model.Owner, now time.Time) *int {
	if o.SubscriptionEndDate == nil {
		return nil
	}
	d := int(math.Ceil(o.SubscriptionEndDate.Sub(now).Hours() / 24))
	if d < 0 {
		d = 0
	}
	return &d
}

type OwnerCreateInput struct {
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone"`
	Password            string     `json:"password"`
	SubscriptionEndDate *time.Time `json:"subscription_end_date"`
	MaxCouriers         int        `json:"max_couriers"`
}

type OwnerUpdateInput struct {
	Name                *string    `json:"name"`
	Phone               *string    `json:"phone"`
	IsActive            *bool      `json:"is_active"`
	SubscriptionEndDate *time.Time `json:"subscription_end_date"`
	MaxCouriers         *int       `json:"max_couriers"`
}

// SubscriptionStatusDTO はオーナー1件のサブスク状態。
type SubscriptionStatusDTO struct {
	OwnerID             int64      `json:"owner_id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	IsActive            bool       `json:"is_active"`
	SubscriptionActive  bool       `json:"subscription_active"`
	SubscriptionEndDate *time.Time `json:"subscription_end_date"`
	DaysRemaining       *int       `json:"days_remaining"`
}

// SubscriptionUsecase は管理者によるオーナーアカウント・サブスク管理。
type SubscriptionUsecase struct {
	owners repo.OwnerRepository
	clock  Clock
}

func NewSubscriptionUsecase(owners repo.OwnerRepository, clock Clock) *SubscriptionUsecase {
	return &SubscriptionUsecase{owners: owners, clock: clock}
}

func (u *SubscriptionUsecase) CreateOwner(ctx context.Context, in OwnerCreateInput) (*model.Owner, error) {
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

	now := u.clock.Now()
	if in.SubscriptionEndDate != nil && !in.SubscriptionEndDate.After(now) {
		return nil, errValidation("subscription_end_date must be in the future")
	}

	// 終了日未指定なら初期ウィンドウは30日
	end := now.AddDate(0, 0, 30)
	if in.SubscriptionEndDate != nil {
		end = *in.SubscriptionEndDate
	}

	maxCouriers := in.MaxCouriers
	if maxCouriers <= 0 {
		maxCouriers = 5
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errInternal()
	}

	owner := &model.Owner{
		Name:                  in.Name,
		Email:                 email,
		Phone:                 in.Phone,
		PasswordHash:          string(pwHash),
		Role:                  model.RoleOwner,
		IsActive:              true,
		SubscriptionStartDate: now,
		SubscriptionEndDate:   &end,
		MaxCouriers:           maxCouriers,
		PaymentInfo: model.SubscriptionPaymentInfo{
			LastPaymentDate: &now,
			NextPaymentDate: &end,
		},
	}

	if err := u.owners.Create(ctx, owner); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, errConflict("email is already registered")
		}
		return nil, errInternal()
	}

	return owner, nil
}

func (u *SubscriptionUsecase) GetOwner(ctx context.Context, ownerID int64) (*model.Owner, error) {
	owner, err := u.owners.FindByID(ctx, ownerID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errNotFound("owner not found")
	}
	if err != nil {
		return nil, errInternal()
	}
	return &owner, nil
}

func (u *SubscriptionUsecase) ListOwners(ctx context.Context, page int, limit int) ([]model.Owner, int64, error) {
	owners, total, err := u.owners.List(ctx, page, limit)
	if err != nil {
		return nil, 0, errInternal()
	}
	return owners, total, nil
}

func (u *SubscriptionUsecase) UpdateOwner(ctx context.Context, ownerID int64, in OwnerUpdateInput) (*model.Owner, error) {
	owner, err := u.owners.FindByID(ctx, ownerID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errNotFound("owner not found")
	}
	if err != nil {
		return nil, errInternal()
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, errValidation("name must not be empty")
		}
		owner.Name = *in.Name
	}
	if in.Phone != nil {
		owner.Phone = *in.Phone
	}
	if in.IsActive != nil {
		owner.IsActive = *in.IsActive
	}
	if in.SubscriptionEndDate != nil {
		if in.SubscriptionEndDate.Before(owner.SubscriptionStartDate) {
			return nil, errValidation("subscription_end_date must not be before the start date")
		}
		owner.SubscriptionEndDate = in.SubscriptionEndDate
	}
	if in.MaxCouriers != nil {
		if *in.MaxCouriers < 1 {
			return nil, errValidation("max_couriers must be at least 1")
		}
		owner.MaxCouriers = *in.MaxCouriers
	}

	if err := u.owners.Update(ctx, &owner); err != nil {
		return nil, errInternal()
	}
	return &owner, nil
}

// ExtendSubscription は終了日をdays日ぶん延長する。
// 既に切れている場合は現在時刻を起点に延長する（過去日に積んでも意味がない）。
// 延長＝入金なので支払い情報も同時に更新する。
func (u *SubscriptionUsecase) ExtendSubscription(ctx context.Context, ownerID int64, days int) (*model.Owner, error) {
	if days < 1 {
		return nil, errValidation("days must be at least 1")
	}

	owner, err := u.owners.FindByID(ctx, ownerID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errNotFound("owner not found")
	}
	if err != nil {
		return nil, errInternal()
	}

	now := u.clock.Now()
	base := now
	if owner.SubscriptionEndDate != nil && owner.SubscriptionEndDate.After(now) {
		base = *owner.SubscriptionEndDate
	}
	end := base.AddDate(0, 0, days)
	owner.SubscriptionEndDate = &end
	owner.PaymentInfo.LastPaymentDate = &now
	owner.PaymentInfo.NextPaymentDate = &end

	if err := u.owners.Update(ctx, &owner); err != nil {
		return nil, errInternal()
	}
	return &owner, nil
}

func (u *SubscriptionUsecase) SubscriptionStatus(ctx context.Context, ownerID int64) (*SubscriptionStatusDTO, error) {
	owner, err := u.owners.FindByID(ctx, ownerID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errNotFound("owner not found")
	}
	if err != nil {
		return nil, errInternal()
	}

	dto := u.statusOf(owner)
	return &dto, nil
}

// ExpiredReport はサブスクが切れた有効オーナーの一覧。
func (u *SubscriptionUsecase) ExpiredReport(ctx context.Context) ([]SubscriptionStatusDTO, error) {
	owners, err := u.owners.ExpiredSubscriptions(ctx, u.clock.Now())
	if err != nil {
		return nil, errInternal()
	}

	out := make([]SubscriptionStatusDTO, 0, len(owners))
	for _, o := range owners {
		out = append(out, u.statusOf(o))
	}
	return out, nil
}

// ExpiringSoonReport はwithinDays日以内に切れるオーナーの一覧。
func (u *SubscriptionUsecase) ExpiringSoonReport(ctx context.Context, withinDays int) ([]SubscriptionStatusDTO, error) {
	if withinDays < 1 {
		withinDays = 7
	}

	now := u.clock.Now()
	owners, err := u.owners.ExpiringSubscriptions(ctx, now, now.AddDate(0, 0, withinDays))
	if err != nil {
		return nil, errInternal()
	}

	out := make([]SubscriptionStatusDTO, 0, len(owners))
	for _, o := range owners {
		out = append(out, u.statusOf(o))
	}
	return out, nil
}

func (u *SubscriptionUsecase) statusOf(o model.Owner) SubscriptionStatusDTO {
	now := u.clock.Now()
	return SubscriptionStatusDTO{
		OwnerID:             o.ID,
		Name:                o.Name,
		Email:               o.Email,
		IsActive:            o.IsActive,
		SubscriptionActive:  LoginAllowed(o, now),
		SubscriptionEndDate: o.SubscriptionEndDate,
		DaysRemaining:       DaysRemaining(o, now),
	}
}
