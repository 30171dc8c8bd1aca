package model

import "time"

type User struct {
	ID           uint       `gorm:"primaryKey"`
	Email        string     `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Name         string     `gorm:"size:255;not null"`
	Cart         ProductIDs `gorm:"type:text;not null;default:'[]'"`
	CartVersion  int64      `gorm:"not null;default:0"`
	IsAdmin      bool       `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Order items are a snapshot written at insert. Only Status changes afterwards.
// UserID is a historical reference: deleting the user keeps the order.
type Order struct {
	ID        uint        `gorm:"primaryKey"`
	UserID    uint        `gorm:"index;not null"`
	Items     ProductIDs  `gorm:"type:text;not null"`
	Status    OrderStatus `gorm:"size:16;index;not null"`
	CreatedAt time.Time   `gorm:"index"`
}

type Subscription struct {
	ID         uint   `gorm:"primaryKey"`
	OrderID    uint   `gorm:"uniqueIndex;not null"` // at most one credential per order
	ProductID  string `gorm:"size:64;not null"`
	Credential string `gorm:"size:512;not null"`
	ExpiresAt  *time.Time
	CreatedAt  time.Time
}

// WebhookEvent records a processed gateway delivery. EventID is the delivery signature,
// so a byte-identical redelivery maps to the same row.
type WebhookEvent struct {
	EventID        string `gorm:"primaryKey;size:128;not null"`
	OrderReference string `gorm:"size:128;index"`
	Status         string `gorm:"size:32"`
	ProcessedAt    time.Time
	CreatedAt      time.Time
}
