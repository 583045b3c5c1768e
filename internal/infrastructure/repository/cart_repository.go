package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/terracottic/storefront-api/internal/domain/entity"
	"github.com/terracottic/storefront-api/internal/domain/enum"
	domainRepo "github.com/terracottic/storefront-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *gorm.DB) domainRepo.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	var cart entity.Cart
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		First(&cart, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cart, err
}

func (r *cartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	cart, err := r.GetByUserID(ctx, userID)
	if err != nil || cart != nil {
		return cart, err
	}

	cart = &entity.Cart{UserID: userID, PackagingTier: enum.PackagingFree}
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *cartRepository) UpsertItem(ctx context.Context, item *entity.CartItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "selected", "updated_at"}),
	}).Create(item).Error
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).Model(&entity.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("quantity", quantity).Error
}

func (r *cartRepository) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&entity.CartItem{}).Error
}

func (r *cartRepository) SetItemSelected(ctx context.Context, cartID, productID uuid.UUID, selected bool) error {
	return r.db.WithContext(ctx).Model(&entity.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("selected", selected).Error
}

func (r *cartRepository) SetPackagingTier(ctx context.Context, cartID uuid.UUID, tier enum.PackagingTier) error {
	return r.db.WithContext(ctx).Model(&entity.Cart{}).
		Where("id = ?", cartID).
		Update("packaging_tier", tier).Error
}

func (r *cartRepository) SetCouponCode(ctx context.Context, cartID uuid.UUID, code *string) error {
	return r.db.WithContext(ctx).Model(&entity.Cart{}).
		Where("id = ?", cartID).
		Update("coupon_code", code).Error
}

func (r *cartRepository) RemoveItems(ctx context.Context, cartID uuid.UUID, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id IN ?", cartID, productIDs).
		Delete(&entity.CartItem{}).Error
}

func (r *cartRepository) Clear(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&entity.CartItem{}).Error
}
