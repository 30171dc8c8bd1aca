package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"vpnshop/internal/apperr"
	"vpnshop/internal/catalog"
	"vpnshop/internal/config"
	"vpnshop/internal/events"
	"vpnshop/internal/metrics"
	"vpnshop/internal/model"
	"vpnshop/internal/repository"
)

type SubscriptionService interface {
	// GetOrCreate returns the credential of orderID, minting it on first use.
	// Concurrent callers for the same order all get the same record.
	GetOrCreate(ctx context.Context, orderID uint, productID string) (*model.Subscription, error)
	GetForUser(ctx context.Context, userID uint, orderID uint) (*model.Subscription, error)
}

type subscriptionServiceImpl struct {
	subscriptionRepo repository.SubscriptionRepository
	orderRepo        repository.OrderRepository
	catalog          *catalog.Catalog
	cfg              config.Provision
	allowSimulated   bool
	publisher        events.Publisher
	logger           *zap.Logger
}

func NewSubscriptionService(
	subscriptionRepo repository.SubscriptionRepository,
	orderRepo repository.OrderRepository,
	catalog *catalog.Catalog,
	cfg config.Provision,
	allowSimulated bool,
	publisher events.Publisher,
	logger *zap.Logger,
) SubscriptionService {
	return &subscriptionServiceImpl{
		subscriptionRepo: subscriptionRepo,
		orderRepo:        orderRepo,
		catalog:          catalog,
		cfg:              cfg,
		allowSimulated:   allowSimulated,
		publisher:        publisher,
		logger:           logger,
	}
}

func (s *subscriptionServiceImpl) GetForUser(ctx context.Context, userID uint, orderID uint) (*model.Subscription, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// someone else's order looks the same as a missing one
	if order.UserID != userID {
		return nil, apperr.E(apperr.ErrNotFound, "order not found")
	}
	if len(order.Items) == 0 {
		return nil, apperr.E(apperr.ErrInvalidArgument, "order has no items")
	}
	if !s.provisionable(order.Status) {
		return nil, apperr.E(apperr.ErrForbidden, fmt.Sprintf("order is %s, not paid", order.Status))
	}

	return s.GetOrCreate(ctx, order.ID, order.Items[0])
}

func (s *subscriptionServiceImpl) GetOrCreate(ctx context.Context, orderID uint, productID string) (*model.Subscription, error) {
	existing, err := s.subscriptionRepo.FindByOrderID(ctx, orderID)
	if err == nil {
		metrics.RecordSubscription("reused")
		return existing, nil
	}
	if apperr.KindOf(err) != apperr.ErrNotFound {
		return nil, err
	}

	credential, err := s.mintCredential(productID)
	if err != nil {
		return nil, err
	}
	sub := &model.Subscription{
		OrderID:    orderID,
		ProductID:  productID,
		Credential: credential,
		ExpiresAt:  s.expiresAt(productID, time.Now()),
	}

	created, err := s.subscriptionRepo.CreateIfAbsent(ctx, sub)
	if err != nil {
		return nil, err
	}
	if !created {
		// lost the race: the stored record wins
		metrics.RecordSubscription("reused")
		return s.subscriptionRepo.FindByOrderID(ctx, orderID)
	}

	metrics.RecordSubscription("issued")
	s.logger.Info("subscription issued",
		zap.Uint("order_id", orderID),
		zap.String("product_id", productID),
	)
	if err := s.publisher.Publish(ctx, events.Event{
		Type:    events.TypeSubscriptionIssued,
		OrderID: orderID,
		At:      time.Now(),
	}); err != nil {
		s.logger.Warn("publish subscription event", zap.Error(err))
	}
	return sub, nil
}

func (s *subscriptionServiceImpl) provisionable(status model.OrderStatus) bool {
	switch status {
	case model.OrderStatusCompleted:
		return true
	case model.OrderStatusSimulated:
		return s.allowSimulated
	default:
		return false
	}
}

// mintCredential builds https://<host>/<path>/<token>; German products are served from
// the apex domain, everything else from the msk. host.
func (s *subscriptionServiceImpl) mintCredential(productID string) (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", apperr.Wrap(apperr.ErrInternal, err, "generate subscription token")
	}
	token := hex.EncodeToString(buf)

	host, path := "msk."+s.cfg.Domain, s.cfg.RUPath
	if strings.Contains(strings.ToLower(productID), "germany") {
		host, path = s.cfg.Domain, s.cfg.DEPath
	}
	return fmt.Sprintf("https://%s/%s/%s", host, path, token), nil
}

func (s *subscriptionServiceImpl) expiresAt(productID string, now time.Time) *time.Time {
	product, ok := s.catalog.Get(productID)
	if !ok || product.DurationMonths <= 0 {
		return nil
	}
	t := now.AddDate(0, product.DurationMonths, 0)
	return &t
}
