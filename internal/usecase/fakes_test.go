package usecase

import (
	"context"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// テスト用の固定時計。
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func paginate[T any](items []T, page, limit int) ([]T, int64) {
	total := int64(len(items))
	if limit <= 0 {
		return items, total
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil, total
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], total
}

type fakeAdminRepo struct {
	admins map[int64]model.Admin
	nextID int64
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: map[int64]model.Admin{}, nextID: 1}
}

func (r *fakeAdminRepo) Create(_ context.Context, a *model.Admin) error {
	for _, existing := range r.admins {
		if existing.Email == a.Email {
			return repo.ErrConflict
		}
	}
	a.ID = r.nextID
	r.nextID++
	r.admins[a.ID] = *a
	return nil
}

func (r *fakeAdminRepo) FindByID(_ context.Context, id int64) (model.Admin, error) {
	a, ok := r.admins[id]
	if !ok {
		return model.Admin{}, repo.ErrNotFound
	}
	return a, nil
}

func (r *fakeAdminRepo) FindByEmail(_ context.Context, email string) (model.Admin, error) {
	for _, a := range r.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return model.Admin{}, repo.ErrNotFound
}

type fakeOwnerRepo struct {
	owners map[int64]model.Owner
	nextID int64
}

func newFakeOwnerRepo() *fakeOwnerRepo {
	return &fakeOwnerRepo{owners: map[int64]model.Owner{}, nextID: 1}
}

func (r *fakeOwnerRepo) Create(_ context.Context, o *model.Owner) error {
	for _, existing := range r.owners {
		if existing.Email == o.Email {
			return repo.ErrConflict
		}
	}
	o.ID = r.nextID
	r.nextID++
	r.owners[o.ID] = *o
	return nil
}

func (r *fakeOwnerRepo) FindByID(_ context.Context, id int64) (model.Owner, error) {
	o, ok := r.owners[id]
	if !ok {
		return model.Owner{}, repo.ErrNotFound
	}
	return o, nil
}

func (r *fakeOwnerRepo) FindByEmail(_ context.Context, email string) (model.Owner, error) {
	for _, o := range r.owners {
		if o.Email == email {
			return o, nil
		}
	}
	return model.Owner{}, repo.ErrNotFound
}

func (r *fakeOwnerRepo) Update(_ context.Context, o *model.Owner) error {
	if _, ok := r.owners[o.ID]; !ok {
		return repo.ErrNotFound
	}
	r.owners[o.ID] = *o
	return nil
}

func (r *fakeOwnerRepo) List(_ context.Context, page, limit int) ([]model.Owner, int64, error) {
	all := make([]model.Owner, 0, len(r.owners))
	for id := int64(1); id < r.nextID; id++ {
		if o, ok := r.owners[id]; ok {
			all = append(all, o)
		}
	}
	items, total := paginate(all, page, limit)
	return items, total, nil
}

func (r *fakeOwnerRepo) ExpiredSubscriptions(_ context.Context, now time.Time) ([]model.Owner, error) {
	var out []model.Owner
	for id := int64(1); id < r.nextID; id++ {
		o, ok := r.owners[id]
		if !ok || !o.IsActive {
			continue
		}
		if o.SubscriptionEndDate != nil && o.SubscriptionEndDate.Before(now) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOwnerRepo) ExpiringSubscriptions(_ context.Context, now, until time.Time) ([]model.Owner, error) {
	var out []model.Owner
	for id := int64(1); id < r.nextID; id++ {
		o, ok := r.owners[id]
		if !ok || !o.IsActive || o.SubscriptionEndDate == nil {
			continue
		}
		end := *o.SubscriptionEndDate
		if !end.Before(now) && !end.After(until) {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeCourierRepo struct {
	couriers map[int64]model.Courier
	nextID   int64
}

func newFakeCourierRepo() *fakeCourierRepo {
	return &fakeCourierRepo{couriers: map[int64]model.Courier{}, nextID: 1}
}

func (r *fakeCourierRepo) Create(_ context.Context, c *model.Courier) error {
	for _, existing := range r.couriers {
		if existing.Email == c.Email {
			return repo.ErrConflict
		}
	}
	c.ID = r.nextID
	r.nextID++
	r.couriers[c.ID] = *c
	return nil
}

func (r *fakeCourierRepo) FindByID(_ context.Context, id int64) (model.Courier, error) {
	c, ok := r.couriers[id]
	if !ok {
		return model.Courier{}, repo.ErrNotFound
	}
	return c, nil
}

func (r *fakeCourierRepo) FindByEmail(_ context.Context, email string) (model.Courier, error) {
	for _, c := range r.couriers {
		if c.Email == email {
			return c, nil
		}
	}
	return model.Courier{}, repo.ErrNotFound
}

func (r *fakeCourierRepo) Update(_ context.Context, c *model.Courier) error {
	if _, ok := r.couriers[c.ID]; !ok {
		return repo.ErrNotFound
	}
	r.couriers[c.ID] = *c
	return nil
}

func (r *fakeCourierRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.couriers[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.couriers, id)
	return nil
}

func (r *fakeCourierRepo) ListByRestaurantID(_ context.Context, restaurantID int64, page, limit int) ([]model.Courier, int64, error) {
	var all []model.Courier
	for id := int64(1); id < r.nextID; id++ {
		if c, ok := r.couriers[id]; ok && c.RestaurantID == restaurantID {
			all = append(all, c)
		}
	}
	items, total := paginate(all, page, limit)
	return items, total, nil
}

func (r *fakeCourierRepo) CountByRestaurantID(_ context.Context, restaurantID int64) (int64, error) {
	var n int64
	for _, c := range r.couriers {
		if c.RestaurantID == restaurantID {
			n++
		}
	}
	return n, nil
}

func (r *fakeCourierRepo) DetachByRestaurantID(_ context.Context, restaurantID int64) error {
	for id, c := range r.couriers {
		if c.RestaurantID == restaurantID {
			c.RestaurantID = 0
			r.couriers[id] = c
		}
	}
	return nil
}

func (r *fakeCourierRepo) IncrementDeliveries(_ context.Context, courierID int64, at time.Time) error {
	c, ok := r.couriers[courierID]
	if !ok {
		return repo.ErrNotFound
	}
	c.TotalDeliveries++
	c.LastDeliveryAt = &at
	r.couriers[courierID] = c
	return nil
}

type fakeConsumerRepo struct {
	consumers map[int64]model.Consumer
	nextID    int64
}

func newFakeConsumerRepo() *fakeConsumerRepo {
	return &fakeConsumerRepo{consumers: map[int64]model.Consumer{}, nextID: 1}
}

func (r *fakeConsumerRepo) Create(_ context.Context, c *model.Consumer) error {
	for _, existing := range r.consumers {
		if existing.Email == c.Email {
			return repo.ErrConflict
		}
	}
	c.ID = r.nextID
	r.nextID++
	r.consumers[c.ID] = *c
	return nil
}

func (r *fakeConsumerRepo) FindByID(_ context.Context, id int64) (model.Consumer, error) {
	c, ok := r.consumers[id]
	if !ok {
		return model.Consumer{}, repo.ErrNotFound
	}
	return c, nil
}

func (r *fakeConsumerRepo) FindByEmail(_ context.Context, email string) (model.Consumer, error) {
	for _, c := range r.consumers {
		if c.Email == email {
			return c, nil
		}
	}
	return model.Consumer{}, repo.ErrNotFound
}

func (r *fakeConsumerRepo) Update(_ context.Context, c *model.Consumer) error {
	if _, ok := r.consumers[c.ID]; !ok {
		return repo.ErrNotFound
	}
	r.consumers[c.ID] = *c
	return nil
}

type fakeRestaurantRepo struct {
	restaurants map[int64]model.Restaurant
	nextID      int64
}

func newFakeRestaurantRepo() *fakeRestaurantRepo {
	return &fakeRestaurantRepo{restaurants: map[int64]model.Restaurant{}, nextID: 1}
}

func (r *fakeRestaurantRepo) Create(_ context.Context, rest *model.Restaurant) error {
	rest.ID = r.nextID
	r.nextID++
	r.restaurants[rest.ID] = *rest
	return nil
}

func (r *fakeRestaurantRepo) FindByID(_ context.Context, id int64) (model.Restaurant, error) {
	rest, ok := r.restaurants[id]
	if !ok {
		return model.Restaurant{}, repo.ErrNotFound
	}
	return rest, nil
}

func (r *fakeRestaurantRepo) Update(_ context.Context, rest *model.Restaurant) error {
	if _, ok := r.restaurants[rest.ID]; !ok {
		return repo.ErrNotFound
	}
	r.restaurants[rest.ID] = *rest
	return nil
}

func (r *fakeRestaurantRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.restaurants[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.restaurants, id)
	return nil
}

func (r *fakeRestaurantRepo) ListByOwnerID(_ context.Context, ownerID int64, page, limit int) ([]model.Restaurant, int64, error) {
	var all []model.Restaurant
	for id := int64(1); id < r.nextID; id++ {
		if rest, ok := r.restaurants[id]; ok && rest.OwnerID == ownerID {
			all = append(all, rest)
		}
	}
	items, total := paginate(all, page, limit)
	return items, total, nil
}

func (r *fakeRestaurantRepo) ListPublic(_ context.Context, openOnly bool, page, limit int) ([]model.Restaurant, int64, error) {
	var all []model.Restaurant
	for id := int64(1); id < r.nextID; id++ {
		rest, ok := r.restaurants[id]
		if !ok {
			continue
		}
		if openOnly && !rest.IsOpen {
			continue
		}
		all = append(all, rest)
	}
	items, total := paginate(all, page, limit)
	return items, total, nil
}

type fakeProductRepo struct {
	products map[int64]model.Product
	nextID   int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[int64]model.Product{}, nextID: 1}
}

func (r *fakeProductRepo) Create(_ context.Context, p *model.Product) error {
	p.ID = r.nextID
	r.nextID++
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id int64) (model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *model.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return repo.ErrNotFound
	}
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) ListByRestaurantID(_ context.Context, restaurantID int64, page, limit int) ([]model.Product, int64, error) {
	var all []model.Product
	for id := int64(1); id < r.nextID; id++ {
		if p, ok := r.products[id]; ok && p.RestaurantID == restaurantID {
			all = append(all, p)
		}
	}
	items, total := paginate(all, page, limit)
	return items, total, nil
}

func (r *fakeProductRepo) DeleteByRestaurantID(_ context.Context, restaurantID int64) error {
	for id, p := range r.products {
		if p.RestaurantID == restaurantID {
			delete(r.products, id)
		}
	}
	return nil
}

type fakeOrderRepo struct {
	orders map[int64]model.Order
	nextID int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]model.Order{}, nextID: 1}
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id int64) (model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) FindByIdempotencyKey(_ context.Context, consumerID int64, key string) (model.Order, bool, error) {
	for _, o := range r.orders {
		if o.ConsumerID == consumerID && o.IdempotencyKey == key {
			return o, true, nil
		}
	}
	return model.Order{}, false, nil
}

func (r *fakeOrderRepo) Create(_ context.Context, o *model.Order) error {
	for _, existing := range r.orders {
		if existing.OrderNumber == o.OrderNumber || existing.IdempotencyKey == o.IdempotencyKey {
			return repo.ErrConflict
		}
	}
	o.ID = r.nextID
	r.nextID++
	r.orders[o.ID] = *o
	return nil
}

func (r *fakeOrderRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.orders)), nil
}

func (r *fakeOrderRepo) UpdateStatusFrom(_ context.Context, id int64, from, to model.OrderStatus) error {
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return repo.ErrConflict
	}
	o.Status = to
	r.orders[id] = o
	return nil
}

func (r *fakeOrderRepo) CancelFrom(_ context.Context, id int64, from model.OrderStatus, reason string) error {
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return repo.ErrConflict
	}
	o.Status = model.OrderStatusCancelled
	o.CancellationReason = reason
	r.orders[id] = o
	return nil
}

func (r *fakeOrderRepo) AssignCourierFrom(_ context.Context, id, courierID int64, from, to model.OrderStatus) error {
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return repo.ErrConflict
	}
	o.Status = to
	o.CourierID = &courierID
	r.orders[id] = o
	return nil
}

func (r *fakeOrderRepo) MarkDeliveredFrom(_ context.Context, id int64, from model.OrderStatus, deliveredAt time.Time) error {
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return repo.ErrConflict
	}
	o.Status = model.OrderStatusDelivered
	o.ActualDeliveryTime = &deliveredAt
	r.orders[id] = o
	return nil
}

func (r *fakeOrderRepo) SetRating(_ context.Context, id int64, score int, review string, by model.RatedBy, at time.Time) error {
	o, ok := r.orders[id]
	if !ok {
		return repo.ErrNotFound
	}
	o.RatingScore = &score
	o.RatingReview = review
	o.RatedBy = by
	o.RatedAt = &at
	r.orders[id] = o
	return nil
}

func (r *fakeOrderRepo) ListByConsumerID(_ context.Context, consumerID int64, page, limit int) ([]model.Order, int64, error) {
	var all []model.Order
	for id := int64(1); id < r.nextID; id++ {
		if o, ok := r.orders[id]; ok && o.ConsumerID == consumerID {
			all = append(all, o)
		}
	}
	items, total := paginate(all, page, limit)
	return items, total, nil
}

func (r *fakeOrderRepo) ListByRestaurantID(_ context.Context, restaurantID int64, page, limit int) ([]model.Order, int64, error) {
	var all []model.Order
	for id := int64(1); id < r.nextID; id++ {
		if o, ok := r.orders[id]; ok && o.RestaurantID == restaurantID {
			all = append(all, o)
		}
	}
	items, total := paginate(all, page, limit)
	return items, total, nil
}

func (r *fakeOrderRepo) ListByCourierID(_ context.Context, courierID int64, page, limit int) ([]model.Order, int64, error) {
	var all []model.Order
	for id := int64(1); id < r.nextID; id++ {
		if o, ok := r.orders[id]; ok && o.CourierID != nil && *o.CourierID == courierID {
			all = append(all, o)
		}
	}
	items, total := paginate(all, page, limit)
	return items, total, nil
}

type fakeOrderItemRepo struct {
	items  map[int64][]model.OrderItem
	nextID int64
}

func newFakeOrderItemRepo() *fakeOrderItemRepo {
	return &fakeOrderItemRepo{items: map[int64][]model.OrderItem{}, nextID: 1}
}

func (r *fakeOrderItemRepo) CreateBulk(_ context.Context, orderID int64, items []model.OrderItem) error {
	for _, it := range items {
		it.ID = r.nextID
		r.nextID++
		it.OrderID = orderID
		r.items[orderID] = append(r.items[orderID], it)
	}
	return nil
}

func (r *fakeOrderItemRepo) ListByOrderID(_ context.Context, orderID int64) ([]model.OrderItem, error) {
	return r.items[orderID], nil
}

type fakeOrderEventRepo struct {
	events map[int64][]model.OrderStatusEvent
	nextID int64
}

func newFakeOrderEventRepo() *fakeOrderEventRepo {
	return &fakeOrderEventRepo{events: map[int64][]model.OrderStatusEvent{}, nextID: 1}
}

func (r *fakeOrderEventRepo) Append(_ context.Context, e model.OrderStatusEvent) error {
	e.ID = r.nextID
	r.nextID++
	r.events[e.OrderID] = append(r.events[e.OrderID], e)
	return nil
}

func (r *fakeOrderEventRepo) ListByOrderID(_ context.Context, orderID int64) ([]model.OrderStatusEvent, error) {
	return r.events[orderID], nil
}

// fakeTx は同じfakeリポジトリ群をそのまま見せる。commit/rollbackの模倣はしない。
type fakeTx struct {
	orders      *fakeOrderRepo
	orderItems  *fakeOrderItemRepo
	orderEvents *fakeOrderEventRepo
	products    *fakeProductRepo
	restaurants *fakeRestaurantRepo
	couriers    *fakeCourierRepo
}

func (t *fakeTx) Orders() repo.OrderRepository           { return t.orders }
func (t *fakeTx) OrderItems() repo.OrderItemRepository   { return t.orderItems }
func (t *fakeTx) OrderEvents() repo.OrderEventRepository { return t.orderEvents }
func (t *fakeTx) Products() repo.ProductRepository       { return t.products }
func (t *fakeTx) Restaurants() repo.RestaurantRepository { return t.restaurants }
func (t *fakeTx) Couriers() repo.CourierRepository       { return t.couriers }

type fakeTxManager struct {
	tx *fakeTx
}

func (m *fakeTxManager) WithinTx(_ context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.tx)
}
