package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vpnshop/internal/model"
)

type WebhookEventRepository interface {
	Exists(ctx context.Context, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, eventID, orderReference, status string) error
}

type webhookEventRepositoryIml struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepositoryIml{db: db}
}

func (r *webhookEventRepositoryIml) Exists(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WebhookEvent{}).
		Where("event_id = ?", eventID).
		Count(&count).Error

	return count > 0, translate(err, "webhook event")
}

// MarkProcessed tolerates a concurrent delivery having recorded the same event.
func (r *webhookEventRepositoryIml) MarkProcessed(ctx context.Context, eventID, orderReference, status string) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.WebhookEvent{
			EventID:        eventID,
			OrderReference: orderReference,
			Status:         status,
			ProcessedAt:    time.Now(),
		}).Error

	return translate(err, "webhook event")
}
