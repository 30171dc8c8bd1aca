package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"vpnshop/internal/catalog"
	"vpnshop/internal/client"
	"vpnshop/internal/config"
	"vpnshop/internal/events"
	"vpnshop/internal/repository"
	"vpnshop/internal/signing"
	"vpnshop/internal/testutil"
)

const testSecret = "test-secret"

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

type fakeGateway struct {
	mu       sync.Mutex
	calls    int
	payloads []map[string]any
	reply    func(w http.ResponseWriter, payload map[string]any)
}

func (g *fakeGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	_ = dec.Decode(&payload)

	g.mu.Lock()
	g.calls++
	g.payloads = append(g.payloads, payload)
	reply := g.reply
	g.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if reply != nil {
		reply(w, payload)
		return
	}
	// accept only correctly signed invoices, like the real gateway
	if !signing.Verify(payload, testSecret) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"invalid signature"}`))
		return
	}
	_, _ = w.Write([]byte(`{"success":true,"data":{"id":"inv-1","url":"https://pay.example/inv-1"}}`))
}

type testEnv struct {
	db        *gorm.DB
	catalog   *catalog.Catalog
	users     repository.UserRepository
	orders    repository.OrderRepository
	subs      repository.SubscriptionRepository
	publisher *recordingPublisher
	gateway   *fakeGateway
	lavaCfg   config.Lava

	cart         CartService
	order        OrderService
	payment      PaymentService
	subscription SubscriptionService
	user         UserService
	admin        AdminService
}

type envOption func(*testEnv)

func withoutMerchant() envOption {
	return func(e *testEnv) {
		e.lavaCfg.MerchantID = ""
		e.lavaCfg.SecretKey = ""
	}
}

func withGatewayURL(url string) envOption {
	return func(e *testEnv) { e.lavaCfg.BaseApiURL = url }
}

func newTestEnv(t *testing.T, allowSimulated bool, opts ...envOption) *testEnv {
	t.Helper()

	logger := zaptest.NewLogger(t)
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}

	gateway := &fakeGateway{}
	srv := httptest.NewServer(gateway)
	t.Cleanup(srv.Close)

	env := &testEnv{
		db:        testutil.NewDB(t),
		catalog:   cat,
		publisher: &recordingPublisher{},
		gateway:   gateway,
		lavaCfg: config.Lava{
			BaseApiURL:  srv.URL,
			MerchantID:  "merchant-1",
			SecretKey:   testSecret,
			Currency:    "RUB",
			OrderPrefix: "EPS",
		},
	}
	for _, opt := range opts {
		opt(env)
	}

	env.users = repository.NewUserRepository(env.db)
	env.orders = repository.NewOrderRepository(env.db)
	env.subs = repository.NewSubscriptionRepository(env.db)
	webhookEvents := repository.NewWebhookEventRepository(env.db)

	env.cart = NewCartService(env.users, cat, logger)
	env.order = NewOrderService(env.db, env.orders, env.users, cat, allowSimulated, logger)
	env.payment = NewPaymentService(
		client.NewLavaClient(&env.lavaCfg), env.lavaCfg, "https://shop.example",
		cat, env.users, webhookEvents, env.order, env.cart, env.publisher, logger,
	)
	env.subscription = NewSubscriptionService(env.subs, env.orders, cat, config.Provision{
		Domain: "vpn.example",
		DEPath: "de-path",
		RUPath: "ru-path",
	}, allowSimulated, env.publisher, logger)
	env.user = NewUserService(env.users, config.JWT{Secret: "jwt-secret", TTL: time.Hour}, newMemoryRevocations(), logger)
	env.admin = NewAdminService(env.users, env.order, logger)
	return env
}
