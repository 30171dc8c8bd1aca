package repository

import (
	"context"
	"errors"
	"testing"

	"vpnshop/internal/apperr"
	"vpnshop/internal/model"
	"vpnshop/internal/testutil"
)

func TestSubscriptionCreateIfAbsent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	if _, err := repo.FindByOrderID(ctx, 1); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Expected not found, got %v", err)
	}

	created, err := repo.CreateIfAbsent(ctx, &model.Subscription{OrderID: 1, ProductID: "p", Credential: "first"})
	if err != nil || !created {
		t.Fatalf("Expected first insert to win, created=%v err=%v", created, err)
	}

	created, err = repo.CreateIfAbsent(ctx, &model.Subscription{OrderID: 1, ProductID: "p", Credential: "second"})
	if err != nil {
		t.Fatalf("Second insert failed: %v", err)
	}
	if created {
		t.Fatal("Expected second insert to be ignored")
	}

	sub, err := repo.FindByOrderID(ctx, 1)
	if err != nil {
		t.Fatalf("FindByOrderID failed: %v", err)
	}
	if sub.Credential != "first" {
		t.Errorf("Expected first credential to survive, got %s", sub.Credential)
	}

	var count int64
	db.Model(&model.Subscription{}).Where("order_id = ?", 1).Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly one row, got %d", count)
	}
}
