package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"vpnshop/internal/apperr"
	"vpnshop/internal/catalog"
	"vpnshop/internal/client"
	"vpnshop/internal/config"
	"vpnshop/internal/dto"
	"vpnshop/internal/events"
	"vpnshop/internal/metrics"
	"vpnshop/internal/model"
	"vpnshop/internal/reference"
	"vpnshop/internal/repository"
	"vpnshop/internal/signing"
)

const (
	invoiceExpireSeconds = 3600
	defaultDescription   = "VPN service payment"
)

type PaymentService interface {
	CreateInvoice(ctx context.Context, userID uint, req *dto.InvoiceRequest) (*dto.InvoiceResponse, error)
	// HandleWebhook verifies and applies a gateway notification. payload must be
	// decoded with json.Decoder.UseNumber so numbers keep their wire form.
	HandleWebhook(ctx context.Context, payload map[string]any) (*dto.WebhookResponse, error)
}

type paymentServiceImpl struct {
	lavaClient       client.LavaClient
	lavaCfg          config.Lava
	serviceBaseUrl   string
	catalog          *catalog.Catalog
	userRepo         repository.UserRepository
	webhookEventRepo repository.WebhookEventRepository
	orderService     OrderService
	cartService      CartService
	publisher        events.Publisher
	logger           *zap.Logger
	now              func() time.Time
}

func NewPaymentService(
	lavaClient client.LavaClient,
	lavaCfg config.Lava,
	serviceBaseUrl string,
	catalog *catalog.Catalog,
	userRepo repository.UserRepository,
	webhookEventRepo repository.WebhookEventRepository,
	orderService OrderService,
	cartService CartService,
	publisher events.Publisher,
	logger *zap.Logger,
) PaymentService {
	return &paymentServiceImpl{
		lavaClient:       lavaClient,
		lavaCfg:          lavaCfg,
		serviceBaseUrl:   strings.TrimRight(serviceBaseUrl, "/"),
		catalog:          catalog,
		userRepo:         userRepo,
		webhookEventRepo: webhookEventRepo,
		orderService:     orderService,
		cartService:      cartService,
		publisher:        publisher,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *paymentServiceImpl) CreateInvoice(ctx context.Context, userID uint, req *dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	itemIDs := model.NewProductIDs(req.Items...)
	if len(itemIDs) == 0 {
		return nil, apperr.E(apperr.ErrInvalidArgument, "invalid payment data: no items")
	}
	total, unavailable := s.catalog.Total(itemIDs)
	if len(unavailable) > 0 {
		return nil, apperr.E(apperr.ErrInvalidArgument, "unknown products: "+strings.Join(unavailable, ", "))
	}
	if !req.Amount.IsPositive() {
		return nil, apperr.E(apperr.ErrInvalidArgument, "invalid payment data: amount must be positive")
	}
	if !req.Amount.Equal(total) {
		return nil, apperr.E(apperr.ErrInvalidArgument, "amount does not match the price of the items")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !s.lavaCfg.IsConfigured() {
		s.logger.Warn("lava merchant credentials are not configured")
	}

	// reserve the ledger row first so the reference can carry its id
	order, err := s.orderService.CreateOrder(ctx, userID, itemIDs, model.OrderStatusPending)
	if err != nil {
		return nil, err
	}
	ref := reference.Build(s.lavaCfg.OrderPrefix, s.now(), order.ID)

	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = user.Email
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = defaultDescription
	}

	payload := map[string]any{
		"merchantId":  s.lavaCfg.MerchantID,
		"orderId":     ref,
		"amount":      total.String(),
		"currency":    s.lavaCfg.Currency,
		"description": description,
		"email":       email,
		"returnUrl":   s.serviceBaseUrl + "/payment/success",
		"failUrl":     s.serviceBaseUrl + "/payment/fail",
		"hookUrl":     s.serviceBaseUrl + "/api/payments/lava/hook",
		"expire":      invoiceExpireSeconds,
		"customerId":  strconv.FormatUint(uint64(userID), 10),
	}
	payload[signing.Field] = signing.Sign(payload, s.lavaCfg.SecretKey)

	result, err := s.lavaClient.CreateInvoice(ctx, payload)
	if err != nil {
		s.rollbackReservation(ctx, order)
		return nil, s.gatewayError(err, ref)
	}

	metrics.RecordInvoice("created")
	s.logger.Info("invoice created",
		zap.String("reference", ref),
		zap.Uint("order_id", order.ID),
		zap.Uint("user_id", userID),
		zap.String("amount", total.String()),
	)
	if err := s.publisher.Publish(ctx, events.Event{
		Type:      events.TypeOrderPending,
		OrderID:   order.ID,
		UserID:    userID,
		Reference: ref,
		At:        s.now(),
	}); err != nil {
		s.logger.Warn("publish order event", zap.Error(err))
	}

	return &dto.InvoiceResponse{
		RedirectURL:   result.Data.URL,
		OrderID:       ref,
		LedgerOrderID: order.ID,
	}, nil
}

// rollbackReservation keeps the order for audit as cancelled and gives the items
// back to the cart.
func (s *paymentServiceImpl) rollbackReservation(ctx context.Context, order *model.Order) {
	// the request context may already be done; finish the cleanup regardless
	ctx = context.WithoutCancel(ctx)

	if err := s.orderService.SetStatus(ctx, order.ID, model.OrderStatusCancelled); err != nil {
		s.logger.Error("cancel reserved order", zap.Uint("order_id", order.ID), zap.Error(err))
	}
	if _, err := s.cartService.Restore(ctx, order.UserID, order.Items); err != nil {
		s.logger.Error("restore cart", zap.Uint("user_id", order.UserID), zap.Error(err))
	}
}

func (s *paymentServiceImpl) gatewayError(err error, ref string) error {
	var gwErr *client.GatewayError
	switch {
	case !s.lavaCfg.IsConfigured():
		metrics.RecordInvoice("unavailable")
		s.logger.Error("lava request failed without merchant credentials", zap.String("reference", ref), zap.Error(err))
		return apperr.Wrap(apperr.ErrPaymentUnavailable, err, "payment service unavailable")
	case errors.As(err, &gwErr):
		metrics.RecordInvoice("rejected")
		s.logger.Warn("lava rejected invoice",
			zap.String("reference", ref),
			zap.Int("status", gwErr.StatusCode),
			zap.String("message", gwErr.Message),
		)
		return apperr.Wrap(apperr.ErrPaymentProcessing, err, gwErr.Message)
	default:
		metrics.RecordInvoice("unavailable")
		s.logger.Error("lava unreachable", zap.String("reference", ref), zap.Error(err))
		return apperr.Wrap(apperr.ErrPaymentUnavailable, err, "payment service unavailable")
	}
}

func (s *paymentServiceImpl) HandleWebhook(ctx context.Context, payload map[string]any) (*dto.WebhookResponse, error) {
	signature, ok := payload[signing.Field].(string)
	if !ok || signature == "" {
		metrics.RecordWebhook("rejected")
		return nil, apperr.E(apperr.ErrForbidden, "invalid signature")
	}
	// an empty secret would let anyone sign
	if s.lavaCfg.SecretKey == "" || !signing.Verify(payload, s.lavaCfg.SecretKey) {
		metrics.RecordWebhook("rejected")
		s.logger.Warn("webhook signature mismatch")
		return nil, apperr.E(apperr.ErrForbidden, "invalid signature")
	}

	eventID := strings.ToLower(signature)
	processed, err := s.webhookEventRepo.Exists(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if processed {
		metrics.RecordWebhook("duplicate")
		s.logger.Info("webhook already processed", zap.String("event_id", eventID))
		return &dto.WebhookResponse{Success: true}, nil
	}

	status, _ := payload["status"].(string)
	ref, _ := payload["orderId"].(string)

	if status != "success" {
		metrics.RecordWebhook("not_completed")
		s.logger.Info("payment not completed", zap.String("status", status), zap.String("reference", ref))
		if err := s.webhookEventRepo.MarkProcessed(ctx, eventID, ref, status); err != nil {
			return nil, err
		}
		if status == "fail" {
			return &dto.WebhookResponse{Success: true, Message: "Payment failure recorded"}, nil
		}
		return &dto.WebhookResponse{Success: true, Message: "Webhook received"}, nil
	}

	if ref == "" {
		metrics.RecordWebhook("invalid")
		return nil, apperr.E(apperr.ErrInvalidArgument, "missing orderId")
	}
	orderID, err := reference.Parse(ref)
	if err != nil {
		metrics.RecordWebhook("invalid")
		return nil, err
	}

	if err := s.orderService.SetStatus(ctx, orderID, model.OrderStatusCompleted); err != nil {
		if apperr.KindOf(err) != apperr.ErrNotFound {
			return nil, err
		}
		metrics.RecordWebhook("unknown_order")
		s.logger.Warn("webhook for unknown order",
			zap.String("reference", ref),
			zap.Uint("order_id", orderID),
		)
		return &dto.WebhookResponse{Success: false, Message: "order not found"}, nil
	}

	if err := s.webhookEventRepo.MarkProcessed(ctx, eventID, ref, status); err != nil {
		return nil, err
	}

	metrics.RecordWebhook("completed")
	s.logger.Info("payment completed", zap.String("reference", ref), zap.Uint("order_id", orderID))
	if err := s.publisher.Publish(ctx, events.Event{
		Type:      events.TypeOrderCompleted,
		OrderID:   orderID,
		Reference: ref,
		At:        s.now(),
	}); err != nil {
		s.logger.Warn("publish order event", zap.Error(err))
	}

	return &dto.WebhookResponse{Success: true}, nil
}
