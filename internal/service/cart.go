package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"vpnshop/internal/apperr"
	"vpnshop/internal/catalog"
	"vpnshop/internal/model"
	"vpnshop/internal/repository"
)

// cartRetries bounds the compare-and-swap loop on users.cart_version.
const cartRetries = 5

type CartService interface {
	AddItem(ctx context.Context, userID uint, productID string) ([]string, error)
	RemoveItem(ctx context.Context, userID uint, productID string) ([]string, error)
	GetItems(ctx context.Context, userID uint) ([]string, error)
	// Restore puts items back into the cart after a failed checkout.
	Restore(ctx context.Context, userID uint, items []string) ([]string, error)
}

type cartServiceImpl struct {
	userRepo repository.UserRepository
	catalog  *catalog.Catalog
	logger   *zap.Logger
}

func NewCartService(
	userRepo repository.UserRepository,
	catalog *catalog.Catalog,
	logger *zap.Logger,
) CartService {
	return &cartServiceImpl{
		userRepo: userRepo,
		catalog:  catalog,
		logger:   logger,
	}
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID uint, productID string) ([]string, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, apperr.E(apperr.ErrInvalidArgument, "productId is required")
	}
	if _, ok := s.catalog.Get(productID); !ok {
		return nil, apperr.E(apperr.ErrInvalidArgument, "unknown product "+productID)
	}

	return s.mutate(ctx, userID, func(cart model.ProductIDs) (model.ProductIDs, bool) {
		if cart.Contains(productID) {
			return cart, false
		}
		return append(cart, productID), true
	})
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID uint, productID string) ([]string, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, apperr.E(apperr.ErrInvalidArgument, "productId is required")
	}

	return s.mutate(ctx, userID, func(cart model.ProductIDs) (model.ProductIDs, bool) {
		if !cart.Contains(productID) {
			return cart, false
		}
		return cart.Without(productID), true
	})
}

func (s *cartServiceImpl) GetItems(ctx context.Context, userID uint) ([]string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return items(user.Cart), nil
}

func (s *cartServiceImpl) Restore(ctx context.Context, userID uint, restored []string) ([]string, error) {
	return s.mutate(ctx, userID, func(cart model.ProductIDs) (model.ProductIDs, bool) {
		merged := model.NewProductIDs(append(append([]string{}, cart...), restored...)...)
		return merged, len(merged) != len(cart)
	})
}

// mutate applies change to the stored cart, retrying when a concurrent writer bumps
// the version between read and write. change reports false for a no-op.
func (s *cartServiceImpl) mutate(
	ctx context.Context,
	userID uint,
	change func(cart model.ProductIDs) (model.ProductIDs, bool),
) ([]string, error) {
	for attempt := 1; attempt <= cartRetries; attempt++ {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}

		next, changed := change(model.NewProductIDs(user.Cart...))
		if !changed {
			return items(user.Cart), nil
		}

		ok, err := s.userRepo.CompareAndSwapCart(ctx, userID, user.CartVersion, next)
		if err != nil {
			return nil, err
		}
		if ok {
			return items(next), nil
		}

		s.logger.Debug("cart write conflict, retrying",
			zap.Uint("user_id", userID),
			zap.Int("attempt", attempt),
		)
	}

	return nil, apperr.E(apperr.ErrInternal, "cart is being modified concurrently")
}

func items(ids model.ProductIDs) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
