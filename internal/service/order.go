package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vpnshop/internal/apperr"
	"vpnshop/internal/catalog"
	"vpnshop/internal/dto"
	"vpnshop/internal/model"
	"vpnshop/internal/repository"
)

type OrderService interface {
	// CreateOrder records items for the user and clears the cart in the same
	// transaction. Only pending and simulated orders can be created.
	CreateOrder(ctx context.Context, userID uint, items []string, status model.OrderStatus) (*model.Order, error)
	CreateFromCart(ctx context.Context, userID uint) (*model.Order, error)
	GetOrder(ctx context.Context, orderID uint) (*model.Order, error)
	GetOrdersForUser(ctx context.Context, userID uint) ([]*dto.OrderResponse, error)
	SetStatus(ctx context.Context, orderID uint, status model.OrderStatus) error
	ListAll(ctx context.Context) ([]*dto.OrderResponse, error)
}

type orderServiceImpl struct {
	db             *gorm.DB
	orderRepo      repository.OrderRepository
	userRepo       repository.UserRepository
	catalog        *catalog.Catalog
	allowSimulated bool
	logger         *zap.Logger
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	catalog *catalog.Catalog,
	allowSimulated bool,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		db:             db,
		orderRepo:      orderRepo,
		userRepo:       userRepo,
		catalog:        catalog,
		allowSimulated: allowSimulated,
		logger:         logger,
	}
}

// errCartMoved rolls back an order whose cart changed after it was read.
var errCartMoved = errors.New("cart changed during checkout")

func (s *orderServiceImpl) CreateOrder(ctx context.Context, userID uint, items []string, status model.OrderStatus) (*model.Order, error) {
	ids := model.NewProductIDs(items...)
	if len(ids) == 0 {
		return nil, apperr.E(apperr.ErrInvalidArgument, "order must contain at least one item")
	}
	if status != model.OrderStatusPending && status != model.OrderStatusSimulated {
		return nil, apperr.E(apperr.ErrInvalidArgument, fmt.Sprintf("cannot create order with status %s", status))
	}

	return s.place(ctx, userID, status, func(*model.User) (model.ProductIDs, error) {
		return ids, nil
	})
}

func (s *orderServiceImpl) CreateFromCart(ctx context.Context, userID uint) (*model.Order, error) {
	if !s.allowSimulated {
		return nil, apperr.E(apperr.ErrForbidden, "simulated orders are disabled")
	}

	return s.place(ctx, userID, model.OrderStatusSimulated, func(user *model.User) (model.ProductIDs, error) {
		if len(user.Cart) == 0 {
			return nil, apperr.E(apperr.ErrInvalidArgument, "cart is empty")
		}
		return user.Cart, nil
	})
}

// place writes the order and clears the cart at the version pick saw. A cart
// that moved in between is read again, so the order and the cleared cart
// always describe the same snapshot.
func (s *orderServiceImpl) place(
	ctx context.Context,
	userID uint,
	status model.OrderStatus,
	pick func(user *model.User) (model.ProductIDs, error),
) (*model.Order, error) {
	for attempt := 1; attempt <= cartRetries; attempt++ {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		ids, err := pick(user)
		if err != nil {
			return nil, err
		}

		order := &model.Order{
			UserID: userID,
			Items:  ids,
			Status: status,
		}
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			ok, err := s.userRepo.ResetCart(ctx, tx, userID, user.CartVersion)
			if err != nil {
				return err
			}
			if !ok {
				return errCartMoved
			}
			return s.orderRepo.Create(ctx, tx, order)
		})
		if errors.Is(err, errCartMoved) {
			s.logger.Debug("cart changed during checkout, retrying",
				zap.Uint("user_id", userID),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return nil, err
		}

		s.logger.Info("order created",
			zap.Uint("order_id", order.ID),
			zap.Uint("user_id", userID),
			zap.String("status", string(status)),
			zap.Strings("items", ids),
		)
		return order, nil
	}

	return nil, apperr.E(apperr.ErrInternal, "cart is being modified concurrently")
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID uint) (*model.Order, error) {
	return s.orderRepo.FindByID(ctx, orderID)
}

func (s *orderServiceImpl) GetOrdersForUser(ctx context.Context, userID uint) ([]*dto.OrderResponse, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.views(orders, false), nil
}

func (s *orderServiceImpl) SetStatus(ctx context.Context, orderID uint, status model.OrderStatus) error {
	if _, err := model.ParseOrderStatus(string(status)); err != nil {
		return err
	}
	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}

	s.logger.Info("order status set",
		zap.Uint("order_id", orderID),
		zap.String("status", string(status)),
	)
	return nil
}

func (s *orderServiceImpl) ListAll(ctx context.Context) ([]*dto.OrderResponse, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(orders, true), nil
}

// views derives totals from current catalog prices; totals are never stored.
func (s *orderServiceImpl) views(orders []*model.Order, withUser bool) []*dto.OrderResponse {
	out := make([]*dto.OrderResponse, len(orders))
	for i, o := range orders {
		total, unavailable := s.catalog.Total(o.Items)
		view := &dto.OrderResponse{
			ID:          o.ID,
			Date:        o.CreatedAt,
			Status:      string(o.Status),
			Items:       items(o.Items),
			Total:       total,
			Unavailable: unavailable,
		}
		if withUser {
			view.UserID = o.UserID
		}
		out[i] = view
	}
	return out
}
