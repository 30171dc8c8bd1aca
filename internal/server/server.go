package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"vpnshop/internal/auth"
	"vpnshop/internal/catalog"
	"vpnshop/internal/config"
	"vpnshop/internal/handler"
	"vpnshop/internal/metrics"
	"vpnshop/internal/middleware"
	"vpnshop/internal/repository"
	"vpnshop/internal/service"
)

type Deps struct {
	Config              *config.Config
	Logger              *zap.Logger
	Catalog             *catalog.Catalog
	UserRepo            repository.UserRepository
	Revocations         auth.Revocations
	UserService         service.UserService
	CartService         service.CartService
	OrderService        service.OrderService
	PaymentService      service.PaymentService
	SubscriptionService service.SubscriptionService
	AdminService        service.AdminService
}

type Server struct {
	echo                *echo.Echo
	deps                Deps
	userHandler         *handler.UserHandler
	cartHandler         *handler.CartHandler
	orderHandler        *handler.OrderHandler
	paymentHandler      *handler.PaymentHandler
	subscriptionHandler *handler.SubscriptionHandler
	adminHandler        *handler.AdminHandler
	productHandler      *handler.ProductHandler
}

func NewServer(deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(deps.Logger)

	e.Use(echomw.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{deps.Config.BaseURL},
		AllowCredentials: true,
	}))
	e.Use(middleware.Metrics())
	e.Use(middleware.Session(&deps.Config.JWT, deps.Revocations, deps.Logger))

	s := &Server{
		echo:                e,
		deps:                deps,
		userHandler:         handler.NewUserHandler(deps.UserService, deps.Config.Environment.IsProduction()),
		cartHandler:         handler.NewCartHandler(deps.CartService),
		orderHandler:        handler.NewOrderHandler(deps.OrderService),
		paymentHandler:      handler.NewPaymentHandler(deps.PaymentService),
		subscriptionHandler: handler.NewSubscriptionHandler(deps.SubscriptionService),
		adminHandler:        handler.NewAdminHandler(deps.AdminService),
		productHandler:      handler.NewProductHandler(deps.Catalog),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	api.GET("/products", s.productHandler.ListProducts)

	// -------- auth --------
	api.POST("/register", s.userHandler.Register)
	api.POST("/login", s.userHandler.Login)
	api.POST("/logout", s.userHandler.Logout)

	requireUser := middleware.RequireUser()
	api.GET("/me", s.userHandler.Me, requireUser)

	// -------- cart & orders --------
	api.GET("/cart", s.cartHandler.GetCart, requireUser)
	api.POST("/cart/add", s.cartHandler.AddItem, requireUser)
	api.DELETE("/cart/remove", s.cartHandler.RemoveItem, requireUser)
	api.GET("/orders", s.orderHandler.ListOrders, requireUser)
	api.POST("/orders/simulate", s.orderHandler.SimulateOrder, requireUser)
	api.GET("/configs", s.subscriptionHandler.GetConfig, requireUser)

	// -------- lava --------
	api.POST("/payments/lava", s.paymentHandler.CreateInvoice, requireUser)
	api.POST("/payments/lava/hook", s.paymentHandler.LavaWebhook)

	// -------- admin --------
	api.GET("/admin/check", s.adminHandler.Check, requireUser)
	admin := api.Group("/admin", requireUser, middleware.RequireAdmin(s.deps.UserRepo))
	admin.GET("/users", s.adminHandler.ListUsers)
	admin.DELETE("/users/:id", s.adminHandler.DeleteUser)
	admin.GET("/orders", s.adminHandler.ListOrders)
	admin.POST("/orders", s.adminHandler.SetOrderStatus)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}
