package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"vpnshop/internal/apperr"
	"vpnshop/internal/model"
	"vpnshop/internal/testutil"
)

func TestOrderCreateAndFind(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := &model.Order{UserID: 1, Items: model.NewProductIDs("vpn-germany-3m"), Status: model.OrderStatusPending}
	if err := repo.Create(ctx, db, order); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if order.ID == 0 {
		t.Fatal("Expected generated id")
	}

	got, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.Status != model.OrderStatusPending || len(got.Items) != 1 || got.Items[0] != "vpn-germany-3m" {
		t.Errorf("Unexpected order %+v", got)
	}

	if _, err := repo.FindByID(ctx, 999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestOrderListNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, item := range []string{"a", "b", "c"} {
		o := &model.Order{UserID: 5, Items: model.NewProductIDs(item), Status: model.OrderStatusSimulated, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.Create(ctx, db, o); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	other := &model.Order{UserID: 6, Items: model.NewProductIDs("z"), Status: model.OrderStatusPending}
	if err := repo.Create(ctx, db, other); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	orders, err := repo.ListByUser(ctx, 5)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("Expected 3 orders, got %d", len(orders))
	}
	if orders[0].Items[0] != "c" || orders[2].Items[0] != "a" {
		t.Errorf("Expected newest first, got %v, %v, %v", orders[0].Items, orders[1].Items, orders[2].Items)
	}

	all, err := repo.ListAll(ctx)
	if err != nil || len(all) != 4 {
		t.Fatalf("Expected 4 orders overall, got %d (%v)", len(all), err)
	}
}

func TestOrderUpdateStatusIsIdempotentAndKeepsItems(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := &model.Order{UserID: 1, Items: model.NewProductIDs("vpn-russia-1m", "vpn-germany-1m"), Status: model.OrderStatusPending}
	if err := repo.Create(ctx, db, order); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := repo.UpdateStatus(ctx, order.ID, model.OrderStatusCompleted); err != nil {
			t.Fatalf("UpdateStatus #%d failed: %v", i+1, err)
		}
	}

	got, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.Status != model.OrderStatusCompleted {
		t.Errorf("Expected completed, got %s", got.Status)
	}
	if len(got.Items) != 2 || got.Items[0] != "vpn-russia-1m" || got.Items[1] != "vpn-germany-1m" {
		t.Errorf("Items changed: %v", got.Items)
	}

	if err := repo.UpdateStatus(ctx, 12345, model.OrderStatusCompleted); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestOrderStorageFailureIsInternal(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm over sqlmock: %v", err)
	}

	mock.ExpectQuery(`SELECT (.+) FROM "orders"`).
		WillReturnError(errors.New("connection reset by peer"))

	_, err = NewOrderRepository(db).FindByID(context.Background(), 1)
	if !errors.Is(err, apperr.ErrInternal) {
		t.Fatalf("Expected internal error, got %v", err)
	}
	if apperr.PublicMessage(err) != "internal server error" {
		t.Errorf("Storage details leaked: %q", apperr.PublicMessage(err))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}
