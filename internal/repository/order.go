package repository

import (
	"context"

	"gorm.io/gorm"

	"vpnshop/internal/apperr"
	"vpnshop/internal/model"
)

// OrderRepository has no way to change an order's items: Create writes them and
// UpdateStatus touches only the status column.
type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	FindByID(ctx context.Context, orderID uint) (*model.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]*model.Order, error)
	ListAll(ctx context.Context) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status model.OrderStatus) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return translate(tx.WithContext(ctx).Create(order).Error, "order")
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, translate(err, "order")
	}

	return &order, nil
}

func (r *orderRepoImpl) ListByUser(ctx context.Context, userID uint) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, translate(err, "order")
	}

	return orders, nil
}

func (r *orderRepoImpl) ListAll(ctx context.Context) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, translate(err, "order")
	}

	return orders, nil
}

// UpdateStatus is idempotent: writing the current status again succeeds.
func (r *orderRepoImpl) UpdateStatus(ctx context.Context, orderID uint, status model.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if result.Error != nil {
		return translate(result.Error, "order")
	}

	if result.RowsAffected == 0 {
		// mysql reports zero affected rows when the value is unchanged
		var count int64
		err := r.db.WithContext(ctx).Model(&model.Order{}).
			Where("id = ?", orderID).
			Count(&count).Error
		if err != nil {
			return translate(err, "order")
		}
		if count == 0 {
			return apperr.E(apperr.ErrNotFound, "order not found")
		}
	}
	return nil
}
