package repository

import (
	"context"
	"errors"
	"testing"

	"vpnshop/internal/apperr"
	"vpnshop/internal/model"
	"vpnshop/internal/testutil"
)

func TestUserCreateDuplicateEmail(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, &model.User{Email: "a@example.com", Name: "A", PasswordHash: "x"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	err := repo.Create(ctx, &model.User{Email: "a@example.com", Name: "B", PasswordHash: "y"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("Expected conflict, got %v", err)
	}
}

func TestCompareAndSwapCart(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "cart@example.com")

	ok, err := repo.CompareAndSwapCart(ctx, user.ID, user.CartVersion, model.NewProductIDs("a"))
	if err != nil || !ok {
		t.Fatalf("Expected first swap to succeed, ok=%v err=%v", ok, err)
	}

	// stale version loses
	ok, err = repo.CompareAndSwapCart(ctx, user.ID, user.CartVersion, model.NewProductIDs("b"))
	if err != nil {
		t.Fatalf("CompareAndSwapCart failed: %v", err)
	}
	if ok {
		t.Fatal("Expected stale swap to fail")
	}

	got, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if len(got.Cart) != 1 || got.Cart[0] != "a" || got.CartVersion != user.CartVersion+1 {
		t.Errorf("Unexpected cart state %v v%d", got.Cart, got.CartVersion)
	}
}

func TestResetCartAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "reset@example.com", "a", "b")

	// a stale version leaves the cart alone
	ok, err := repo.ResetCart(ctx, db, user.ID, user.CartVersion+1)
	if err != nil || ok {
		t.Fatalf("Expected stale reset to be refused, ok=%v err=%v", ok, err)
	}
	got, _ := repo.FindByID(ctx, user.ID)
	if len(got.Cart) != 2 {
		t.Fatalf("Expected cart untouched, got %v", got.Cart)
	}

	ok, err = repo.ResetCart(ctx, db, user.ID, user.CartVersion)
	if err != nil || !ok {
		t.Fatalf("ResetCart failed: ok=%v err=%v", ok, err)
	}
	got, _ = repo.FindByID(ctx, user.ID)
	if len(got.Cart) != 0 || got.CartVersion != user.CartVersion+1 {
		t.Errorf("Expected empty cart at next version, got %v v%d", got.Cart, got.CartVersion)
	}

	if err := repo.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.Delete(ctx, user.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected not found on second delete, got %v", err)
	}
	if ok, err := repo.ResetCart(ctx, db, user.ID, got.CartVersion); err != nil || ok {
		t.Errorf("Expected no reset for deleted user, ok=%v err=%v", ok, err)
	}
}

func TestSetAdmin(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	testutil.CreateUser(t, db, "boss@example.com")

	if err := repo.SetAdmin(ctx, "boss@example.com", true); err != nil {
		t.Fatalf("SetAdmin failed: %v", err)
	}
	u, _ := repo.FindByEmail(ctx, "boss@example.com")
	if !u.IsAdmin {
		t.Error("Expected admin flag")
	}
	if err := repo.SetAdmin(ctx, "ghost@example.com", true); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}
