package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/terracottic/storefront-api/internal/domain/entity"
	"github.com/terracottic/storefront-api/internal/domain/enum"
	"github.com/terracottic/storefront-api/internal/domain/repository"
	"github.com/terracottic/storefront-api/pkg/pagination"
)

// In-memory repositories used by the service tests. All of them are
// mutex-guarded so concurrency tests exercise real interleavings.

type memProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
}

func newMemProductRepo(products ...*entity.Product) *memProductRepo {
	repo := &memProductRepo{products: make(map[uuid.UUID]*entity.Product)}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		repo.products[p.ID] = p
	}
	return repo
}

func (r *memProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.products[product.ID] = product
	return nil
}

func (r *memProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProductRepo) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *memProductRepo) AtomicIncrementStock(ctx context.Context, increments map[uuid.UUID]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, amount := range increments {
		if p, ok := r.products[id]; ok {
			p.Stock += amount
		}
	}
	return nil
}

func (r *memProductRepo) stock(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].Stock
}

type memCartRepo struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*entity.Cart // by user ID
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{carts: make(map[uuid.UUID]*entity.Cart)}
}

func (r *memCartRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}
	cp := *cart
	cp.Items = append([]entity.CartItem(nil), cart.Items...)
	return &cp, nil
}

func (r *memCartRepo) GetOrCreate(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[userID]
	if !ok {
		cart = &entity.Cart{ID: uuid.New(), UserID: userID, PackagingTier: enum.PackagingFree}
		r.carts[userID] = cart
	}
	cp := *cart
	cp.Items = append([]entity.CartItem(nil), cart.Items...)
	return &cp, nil
}

func (r *memCartRepo) UpsertItem(ctx context.Context, item *entity.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart := r.cartByID(item.CartID)
	if cart == nil {
		return nil
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID {
			cart.Items[i].Quantity = item.Quantity
			cart.Items[i].Selected = item.Selected
			return nil
		}
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cart.Items = append(cart.Items, *item)
	return nil
}

func (r *memCartRepo) UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cart := r.cartByID(cartID); cart != nil {
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items[i].Quantity = quantity
			}
		}
	}
	return nil
}

func (r *memCartRepo) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(cartID, []uuid.UUID{productID})
	return nil
}

func (r *memCartRepo) SetItemSelected(ctx context.Context, cartID, productID uuid.UUID, selected bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cart := r.cartByID(cartID); cart != nil {
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items[i].Selected = selected
			}
		}
	}
	return nil
}

func (r *memCartRepo) SetPackagingTier(ctx context.Context, cartID uuid.UUID, tier enum.PackagingTier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cart := r.cartByID(cartID); cart != nil {
		cart.PackagingTier = tier
	}
	return nil
}

func (r *memCartRepo) SetCouponCode(ctx context.Context, cartID uuid.UUID, code *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cart := r.cartByID(cartID); cart != nil {
		cart.CouponCode = code
	}
	return nil
}

func (r *memCartRepo) RemoveItems(ctx context.Context, cartID uuid.UUID, productIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(cartID, productIDs)
	return nil
}

func (r *memCartRepo) Clear(ctx context.Context, cartID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cart := r.cartByID(cartID); cart != nil {
		cart.Items = nil
	}
	return nil
}

func (r *memCartRepo) cartByID(cartID uuid.UUID) *entity.Cart {
	for _, cart := range r.carts {
		if cart.ID == cartID {
			return cart
		}
	}
	return nil
}

func (r *memCartRepo) removeLocked(cartID uuid.UUID, productIDs []uuid.UUID) {
	cart := r.cartByID(cartID)
	if cart == nil {
		return
	}
	drop := make(map[uuid.UUID]bool, len(productIDs))
	for _, id := range productIDs {
		drop[id] = true
	}
	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if !drop[item.ProductID] {
			kept = append(kept, item)
		}
	}
	cart.Items = kept
}

type memCouponRepo struct {
	mu      sync.Mutex
	coupons map[string]*entity.Coupon
}

func newMemCouponRepo(coupons ...*entity.Coupon) *memCouponRepo {
	repo := &memCouponRepo{coupons: make(map[string]*entity.Coupon)}
	for _, c := range coupons {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		repo.coupons[c.Code] = c
	}
	return repo
}

func (r *memCouponRepo) Create(ctx context.Context, coupon *entity.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	r.coupons[coupon.Code] = coupon
	return nil
}

func (r *memCouponRepo) GetByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[code]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCouponRepo) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Coupon, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Coupon
	for _, c := range r.coupons {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *memCouponRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for code, c := range r.coupons {
		if c.ID == id {
			delete(r.coupons, code)
		}
	}
	return nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	repo := &memUserRepo{users: make(map[uuid.UUID]*entity.User)}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		repo.users[u.ID] = u
	}
	return repo
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

// memOrderRepo emulates the transactional checkout write: under one lock it
// performs the guarded decrements against the product store and rolls back
// any partial work when a line lacks stock, matching the all-or-nothing
// database behavior.
type memOrderRepo struct {
	mu       sync.Mutex
	orders   []*entity.Order
	products *memProductRepo
	carts    *memCartRepo
}

func newMemOrderRepo(products *memProductRepo, carts *memCartRepo) *memOrderRepo {
	return &memOrderRepo{products: products, carts: carts}
}

func (r *memOrderRepo) CreateWithStockDecrement(ctx context.Context, order *entity.Order, decrements map[uuid.UUID]int, cartID *uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products.mu.Lock()
	defer r.products.mu.Unlock()

	var failedIDs []uuid.UUID
	applied := make(map[uuid.UUID]int)
	for id, amount := range decrements {
		p, ok := r.products.products[id]
		if !ok || p.Stock < amount {
			failedIDs = append(failedIDs, id)
			continue
		}
		p.Stock -= amount
		applied[id] = amount
	}

	if len(failedIDs) > 0 {
		for id, amount := range applied {
			r.products.products[id].Stock += amount
		}
		return failedIDs, nil
	}

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now()
	r.orders = append(r.orders, order)

	if cartID != nil {
		orderedIDs := make([]uuid.UUID, 0, len(decrements))
		for id := range decrements {
			orderedIDs = append(orderedIDs, id)
		}
		r.carts.mu.Lock()
		r.carts.removeLocked(*cartID, orderedIDs)
		r.carts.mu.Unlock()
	}
	return nil, nil
}

func (r *memOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == id {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memOrderRepo) List(ctx context.Context, userID uuid.UUID, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Order
	for _, o := range r.orders {
		if params.SkipUserFilter || o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == id {
			o.Status = status
		}
	}
	return nil
}

func (r *memOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}
