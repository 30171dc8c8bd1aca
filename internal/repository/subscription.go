package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vpnshop/internal/model"
)

type SubscriptionRepository interface {
	FindByOrderID(ctx context.Context, orderID uint) (*model.Subscription, error)
	// CreateIfAbsent inserts sub unless a row for sub.OrderID exists. It reports
	// whether this call inserted the row.
	CreateIfAbsent(ctx context.Context, sub *model.Subscription) (bool, error)
}

type subscriptionRepoImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepoImpl{
		db: db,
	}
}

func (r *subscriptionRepoImpl) FindByOrderID(ctx context.Context, orderID uint) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&sub).
		Error

	if err != nil {
		return nil, translate(err, "subscription")
	}

	return &sub, nil
}

func (r *subscriptionRepoImpl) CreateIfAbsent(ctx context.Context, sub *model.Subscription) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoNothing: true,
	}).Create(sub)

	if result.Error != nil {
		return false, translate(result.Error, "subscription")
	}

	return result.RowsAffected == 1, nil
}
