package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"app/internal/domain/model"
	"app/internal/geo"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

// 採番衝突時のリトライ上限。
const orderNumberAttempts = 3

// 1明細の数量上限。
const maxItemQuantity = 50

type OrderItemInput struct {
	ProductID           int64  `json:"product_id"`
	Quantity            int64  `json:"quantity"`
	SpecialInstructions string `json:"special_instructions"`
}

type OrderCreateInput struct {
	RestaurantID     int64                    `json:"restaurant_id"`
	Items            []OrderItemInput         `json:"items"`
	DeliveryAddress  string                   `json:"delivery_address"`
	DeliveryLocation model.GeoPoint           `json:"delivery_location"`
	PaymentMethod    model.OrderPaymentMethod `json:"payment_method"`
	Notes            string                   `json:"notes"`

	// X-Idempotency-Key ヘッダ。空ならサーバ側で採番する。
	IdempotencyKey string `json:"-"`
}

// 注文の読み出し形。明細と履歴を含む。
type OrderDetail struct {
	Order   model.Order              `json:"order"`
	Items   []model.OrderItem        `json:"items"`
	History []model.OrderStatusEvent `json:"status_history"`
}

type OrderUsecase struct {
	tx          repo.TransactionManager
	orders      repo.OrderRepository
	orderItems  repo.OrderItemRepository
	orderEvents repo.OrderEventRepository
	restaurants repo.RestaurantRepository
	couriers    repo.CourierRepository
	authz       Authorizer
	clock       Clock
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	orderEvents repo.OrderEventRepository,
	restaurants repo.RestaurantRepository,
	couriers repo.CourierRepository,
	authz Authorizer,
	clock Clock,
) *OrderUsecase {
	return &OrderUsecase{
		tx:          tx,
		orders:      orders,
		orderItems:  orderItems,
		orderEvents: orderEvents,
		restaurants: restaurants,
		couriers:    couriers,
		authz:       authz,
		clock:       clock,
	}
}

// Create はコンシューマの新規注文。
// 商品の名前と単価はこの時点でスナップショットされ、以後の商品編集の影響を受けない。
// 同じX-Idempotency-Keyでの再送は新規作成せず既存の注文を返す。
func (u *OrderUsecase) Create(ctx context.Context, actor model.Actor, in OrderCreateInput) (*OrderDetail, error) {
	if actor.Role != model.RoleConsumer {
		return nil, errUnauthorized("consumer role required")
	}
	if len(in.Items) == 0 {
		return nil, errValidation("at least one item is required")
	}
	if in.DeliveryAddress == "" {
		return nil, errValidation("delivery_address is required")
	}

	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = model.OrderPaymentCash
	}
	switch paymentMethod {
	case model.OrderPaymentCash, model.OrderPaymentCard, model.OrderPaymentMealCard:
	default:
		return nil, errValidation("unknown payment_method")
	}

	idemKey := in.IdempotencyKey
	if idemKey == "" {
		idemKey = uuid.NewString()
	}

	// 再送ならDBに触る前に既存の注文を返す。
	if existing, ok, err := u.orders.FindByIdempotencyKey(ctx, actor.ID, idemKey); err != nil {
		return nil, errInternal()
	} else if ok {
		return u.loadDetail(ctx, existing)
	}

	now := u.clock.Now()
	var created model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		rest, err := r.Restaurants().FindByID(ctx, in.RestaurantID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("restaurant not found")
		}
		if err != nil {
			return errInternal()
		}
		if !rest.IsOpen {
			return errValidation("restaurant is currently closed")
		}

		items := make([]model.OrderItem, 0, len(in.Items))
		var total float64
		for _, it := range in.Items {
			qty := it.Quantity
			if qty == 0 {
				qty = 1
			}
			if qty < 1 {
				return errValidation("quantity must be at least 1")
			}
			if qty > maxItemQuantity {
				return errValidation(fmt.Sprintf("quantity must not exceed %d", maxItemQuantity))
			}

			p, err := r.Products().FindByID(ctx, it.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return errNotFound("product not found")
			}
			if err != nil {
				return errInternal()
			}
			// 他レストランの商品は「存在しない扱い」
			if p.RestaurantID != rest.ID {
				return errNotFound("product not found")
			}
			if !p.IsAvailable {
				return errProductUnavailable(p.Name)
			}

			items = append(items, model.OrderItem{
				ProductID:           p.ID,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   p.Price,
				Quantity:            qty,
				SpecialInstructions: it.SpecialInstructions,
			})
			total += p.Price * float64(qty)
		}

		if total < rest.MinimumOrder {
			return errValidation(fmt.Sprintf("order total is below the minimum of %.2f", rest.MinimumOrder))
		}

		est := geo.DeliveryEstimate(
			rest.Location.Lon, rest.Location.Lat,
			in.DeliveryLocation.Lon, in.DeliveryLocation.Lat,
		)
		eta := now.Add(time.Duration(rest.DeliveryTime+est.EstimatedMinutes) * time.Minute)

		order := model.Order{
			ConsumerID:            actor.ID,
			RestaurantID:          rest.ID,
			DeliveryAddress:       in.DeliveryAddress,
			DeliveryLocation:      in.DeliveryLocation,
			Status:                model.OrderStatusPending,
			TotalPrice:            total,
			DeliveryFee:           rest.DeliveryFee,
			FinalPrice:            total + rest.DeliveryFee,
			PaymentMethod:         paymentMethod,
			PaymentStatus:         model.PaymentStatusPending,
			EstimatedDeliveryTime: &eta,
			Notes:                 in.Notes,
			IdempotencyKey:        idemKey,
		}

		// 採番は全件数+1。unique制約に弾かれたら番号を振り直す。
		for attempt := 0; ; attempt++ {
			count, err := r.Orders().CountAll(ctx)
			if err != nil {
				return errInternal()
			}
			order.OrderNumber = orderNumber(now, count+1)

			err = r.Orders().Create(ctx, &order)
			if err == nil {
				break
			}
			if !errors.Is(err, repo.ErrConflict) {
				return errInternal()
			}

			// 衝突はidempotencyKey側の可能性もある。その場合は再送として扱う。
			if existing, ok, ferr := r.Orders().FindByIdempotencyKey(ctx, actor.ID, idemKey); ferr == nil && ok {
				created = existing
				return nil
			}
			if attempt+1 >= orderNumberAttempts {
				return errConflict("could not allocate an order number, please retry")
			}
		}

		if err := r.OrderItems().CreateBulk(ctx, order.ID, items); err != nil {
			return errInternal()
		}

		if err := r.OrderEvents().Append(ctx, model.OrderStatusEvent{
			OrderID:   order.ID,
			Status:    model.OrderStatusPending,
			ChangedBy: model.ChangedByConsumer,
			Note:      "Order created",
		}); err != nil {
			return errInternal()
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.loadDetail(ctx, created)
}

// Confirm はオーナーによる受注可否。accept=falseはキャンセル。
func (u *OrderUsecase) Confirm(ctx context.Context, actor model.Actor, orderID int64, accept bool, reason string) (*OrderDetail, error) {
	to := model.OrderStatusConfirmed
	note := "Order confirmed by restaurant"
	if !accept {
		to = model.OrderStatusCancelled
		note = "Order rejected by restaurant"
	}
	return u.ownerTransition(ctx, actor, orderID, to, note, reason)
}

// UpdateStatus はオーナーによる調理開始・出発・キャンセル。
func (u *OrderUsecase) UpdateStatus(ctx context.Context, actor model.Actor, orderID int64, to model.OrderStatus, reason string) (*OrderDetail, error) {
	if !model.ValidOrderStatus(to) {
		return nil, errInvalidTransition("unknown status: " + string(to))
	}
	return u.ownerTransition(ctx, actor, orderID, to, "Status updated by restaurant", reason)
}

func (u *OrderUsecase) ownerTransition(ctx context.Context, actor model.Actor, orderID int64, to model.OrderStatus, note string, reason string) (*OrderDetail, error) {
	if actor.Role != model.RoleOwner {
		return nil, errUnauthorized("owner role required")
	}

	var updated model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := u.findAccessible(ctx, r, actor, orderID)
		if err != nil {
			return err
		}

		// キャンセル理由は行にも履歴のnoteにも残す。
		if to == model.OrderStatusCancelled && reason != "" {
			note = note + ": " + reason
		}
		if err := u.applyTransition(ctx, r, &order, to, model.ChangedByOwner, note, reason); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.loadDetail(ctx, updated)
}

// AssignCourier はクーリエ割当。confirmed/preparingから直接on_wayに遷移する。
func (u *OrderUsecase) AssignCourier(ctx context.Context, actor model.Actor, orderID int64, courierID int64) (*OrderDetail, error) {
	if actor.Role != model.RoleOwner {
		return nil, errUnauthorized("owner role required")
	}

	var updated model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := u.findAccessible(ctx, r, actor, orderID)
		if err != nil {
			return err
		}

		courier, err := r.Couriers().FindByID(ctx, courierID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("courier not found")
		}
		if err != nil {
			return errInternal()
		}

		from := order.Status
		to := model.OrderStatusOnWay
		if !model.CanTransition(from, to, model.ChangedByOwner) {
			return transitionError(from, to)
		}

		if err := r.Orders().AssignCourierFrom(ctx, order.ID, courier.ID, from, to); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return transitionError(from, to)
			}
			return errInternal()
		}

		if err := r.OrderEvents().Append(ctx, model.OrderStatusEvent{
			OrderID:   order.ID,
			Status:    to,
			ChangedBy: model.ChangedByOwner,
			Note:      "Courier assigned: " + courier.Name,
		}); err != nil {
			return errInternal()
		}

		order.Status = to
		order.CourierID = &courier.ID
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.loadDetail(ctx, updated)
}

// CourierUpdateStatus は割り当てられたクーリエによる遷移。
// 実質はon_way→deliveredのみ。割当の時点で既にon_wayなので、
// on_wayの再設定は履歴を増やさず現状を返す。
// deliveredで配達時刻を刻み、実績カウンタを+1する。
func (u *OrderUsecase) CourierUpdateStatus(ctx context.Context, actor model.Actor, orderID int64, to model.OrderStatus) (*OrderDetail, error) {
	if actor.Role != model.RoleCourier {
		return nil, errUnauthorized("courier role required")
	}
	if to != model.OrderStatusOnWay && to != model.OrderStatusDelivered {
		return nil, errInvalidTransition("courier may only set on_way or delivered")
	}

	var updated model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := u.findAccessible(ctx, r, actor, orderID)
		if err != nil {
			return err
		}

		if to == model.OrderStatusOnWay {
			if order.Status != model.OrderStatusOnWay {
				return transitionError(order.Status, to)
			}
			updated = order
			return nil
		}

		from := order.Status
		if !model.CanTransition(from, to, model.ChangedByCourier) {
			return transitionError(from, to)
		}

		deliveredAt := u.clock.Now()
		if err := r.Orders().MarkDeliveredFrom(ctx, order.ID, from, deliveredAt); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return transitionError(from, to)
			}
			return errInternal()
		}

		if err := r.OrderEvents().Append(ctx, model.OrderStatusEvent{
			OrderID:   order.ID,
			Status:    model.OrderStatusDelivered,
			ChangedBy: model.ChangedByCourier,
			Note:      "Order delivered",
		}); err != nil {
			return errInternal()
		}

		if err := r.Couriers().IncrementDeliveries(ctx, actor.ID, deliveredAt); err != nil {
			return errInternal()
		}

		order.Status = model.OrderStatusDelivered
		order.ActualDeliveryTime = &deliveredAt
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.loadDetail(ctx, updated)
}

// Rate はコンシューマによる配達済み注文の評価。1注文につき1回だけ。
func (u *OrderUsecase) Rate(ctx context.Context, actor model.Actor, orderID int64, score int, review string) (*OrderDetail, error) {
	if actor.Role != model.RoleConsumer {
		return nil, errUnauthorized("consumer role required")
	}
	if score < 1 || score > 5 {
		return nil, errValidation("rating score must be between 1 and 5")
	}

	order, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errNotFound("order not found")
	}
	if err != nil {
		return nil, errInternal()
	}
	if err := u.authz.CanAccessOrder(ctx, u.restaurants, actor, order); err != nil {
		return nil, err
	}

	if order.Status != model.OrderStatusDelivered {
		return nil, errValidation("only delivered orders can be rated")
	}
	if order.RatingScore != nil {
		return nil, errConflict("order is already rated")
	}

	ratedAt := u.clock.Now()
	if err := u.orders.SetRating(ctx, order.ID, score, review, model.RatedByConsumer, ratedAt); err != nil {
		return nil, errInternal()
	}

	order.RatingScore = &score
	order.RatingReview = review
	order.RatedBy = model.RatedByConsumer
	order.RatedAt = &ratedAt
	return u.loadDetail(ctx, order)
}

// Get はactorから見える注文1件（明細・履歴込み）。
func (u *OrderUsecase) Get(ctx context.Context, actor model.Actor, orderID int64) (*OrderDetail, error) {
	order, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errNotFound("order not found")
	}
	if err != nil {
		return nil, errInternal()
	}

	if err := u.authz.CanAccessOrder(ctx, u.restaurants, actor, order); err != nil {
		return nil, err
	}
	return u.loadDetail(ctx, order)
}

// ListForConsumer は自分の注文一覧。
func (u *OrderUsecase) ListForConsumer(ctx context.Context, actor model.Actor, page int, limit int) ([]model.Order, int64, error) {
	if actor.Role != model.RoleConsumer {
		return nil, 0, errUnauthorized("consumer role required")
	}
	orders, total, err := u.orders.ListByConsumerID(ctx, actor.ID, page, limit)
	if err != nil {
		return nil, 0, errInternal()
	}
	return orders, total, nil
}

// ListForRestaurant はオーナーの店に入った注文一覧。
func (u *OrderUsecase) ListForRestaurant(ctx context.Context, actor model.Actor, restaurantID int64, page int, limit int) ([]model.Order, int64, error) {
	if _, err := u.authz.RequireRestaurantOwner(ctx, u.restaurants, actor, restaurantID); err != nil {
		return nil, 0, err
	}
	orders, total, err := u.orders.ListByRestaurantID(ctx, restaurantID, page, limit)
	if err != nil {
		return nil, 0, errInternal()
	}
	return orders, total, nil
}

// ListForCourier は自分に割り当てられた注文一覧。
func (u *OrderUsecase) ListForCourier(ctx context.Context, actor model.Actor, page int, limit int) ([]model.Order, int64, error) {
	if actor.Role != model.RoleCourier {
		return nil, 0, errUnauthorized("courier role required")
	}
	orders, total, err := u.orders.ListByCourierID(ctx, actor.ID, page, limit)
	if err != nil {
		return nil, 0, errInternal()
	}
	return orders, total, nil
}

// findAccessible はTx内でorderを引いてアクセス権まで確認する。
func (u *OrderUsecase) findAccessible(ctx context.Context, r repo.TxRepos, actor model.Actor, orderID int64) (model.Order, error) {
	order, err := r.Orders().FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, errNotFound("order not found")
	}
	if err != nil {
		return model.Order{}, errInternal()
	}
	if err := u.authz.CanAccessOrder(ctx, r.Restaurants(), actor, order); err != nil {
		return model.Order{}, err
	}
	return order, nil
}

// applyTransition はCASで遷移させて履歴を1件追記する。
// 読んだstatusと実際の行のstatusがずれていた場合はCAS側が弾く。
func (u *OrderUsecase) applyTransition(ctx context.Context, r repo.TxRepos, order *model.Order, to model.OrderStatus, by model.ChangedBy, note string, reason string) error {
	from := order.Status
	if !model.CanTransition(from, to, by) {
		return transitionError(from, to)
	}

	var err error
	if to == model.OrderStatusCancelled {
		err = r.Orders().CancelFrom(ctx, order.ID, from, reason)
	} else {
		err = r.Orders().UpdateStatusFrom(ctx, order.ID, from, to)
	}
	if err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return transitionError(from, to)
		}
		return errInternal()
	}

	if err := r.OrderEvents().Append(ctx, model.OrderStatusEvent{
		OrderID:   order.ID,
		Status:    to,
		ChangedBy: by,
		Note:      note,
	}); err != nil {
		return errInternal()
	}

	order.Status = to
	if to == model.OrderStatusCancelled {
		order.CancellationReason = reason
	}
	return nil
}

func (u *OrderUsecase) loadDetail(ctx context.Context, order model.Order) (*OrderDetail, error) {
	items, err := u.orderItems.ListByOrderID(ctx, order.ID)
	if err != nil {
		return nil, errInternal()
	}
	history, err := u.orderEvents.ListByOrderID(ctx, order.ID)
	if err != nil {
		return nil, errInternal()
	}
	return &OrderDetail{Order: order, Items: items, History: history}, nil
}

// orderNumber は ORD-<年><月>-<連番6桁> を組み立てる。
func orderNumber(at time.Time, seq int64) string {
	return fmt.Sprintf("ORD-%d%02d-%06d", at.Year(), int(at.Month()), seq)
}

func transitionError(from, to model.OrderStatus) error {
	if model.TerminalStatus(from) {
		return errInvalidTransition(fmt.Sprintf("order is already %s", from))
	}
	nexts := model.NextStatuses(from)
	return errInvalidTransition(fmt.Sprintf("cannot move from %s to %s (allowed: %v)", from, to, nexts))
}
