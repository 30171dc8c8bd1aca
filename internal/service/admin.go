package service

import (
	"context"

	"go.uber.org/zap"

	"vpnshop/internal/apperr"
	"vpnshop/internal/dto"
	"vpnshop/internal/model"
	"vpnshop/internal/repository"
)

type AdminService interface {
	IsAdmin(ctx context.Context, userID uint) (bool, error)
	ListUsers(ctx context.Context) ([]*dto.UserResponse, error)
	// DeleteUser removes the account only; its orders stay as history.
	DeleteUser(ctx context.Context, actorID, userID uint) error
	ListOrders(ctx context.Context) ([]*dto.OrderResponse, error)
	SetOrderStatus(ctx context.Context, orderID uint, status string) error
	// EnsureAdmin promotes an existing account or creates a new admin account.
	EnsureAdmin(ctx context.Context, email, password, name string) (*model.User, error)
}

type adminServiceImpl struct {
	userRepo     repository.UserRepository
	orderService OrderService
	logger       *zap.Logger
}

func NewAdminService(
	userRepo repository.UserRepository,
	orderService OrderService,
	logger *zap.Logger,
) AdminService {
	return &adminServiceImpl{
		userRepo:     userRepo,
		orderService: orderService,
		logger:       logger,
	}
}

func (s *adminServiceImpl) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}

func (s *adminServiceImpl) ListUsers(ctx context.Context) ([]*dto.UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, len(users))
	for i, u := range users {
		out[i] = ToUserResponse(u)
	}
	return out, nil
}

func (s *adminServiceImpl) DeleteUser(ctx context.Context, actorID, userID uint) error {
	if actorID == userID {
		return apperr.E(apperr.ErrInvalidArgument, "cannot delete your own account")
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Uint("user_id", userID), zap.Uint("by", actorID))
	return nil
}

func (s *adminServiceImpl) ListOrders(ctx context.Context) ([]*dto.OrderResponse, error) {
	return s.orderService.ListAll(ctx)
}

func (s *adminServiceImpl) SetOrderStatus(ctx context.Context, orderID uint, status string) error {
	if orderID == 0 {
		return apperr.E(apperr.ErrInvalidArgument, "orderId is required")
	}
	parsed, err := model.ParseOrderStatus(status)
	if err != nil {
		return err
	}
	return s.orderService.SetStatus(ctx, orderID, parsed)
}

func (s *adminServiceImpl) EnsureAdmin(ctx context.Context, email, password, name string) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperr.E(apperr.ErrInvalidArgument, "email is required")
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.userRepo.SetAdmin(ctx, email, true); err != nil {
			return nil, err
		}
		existing.IsAdmin = true
		return existing, nil
	case apperr.KindOf(err) != apperr.ErrNotFound:
		return nil, err
	}

	if len(password) < minPasswordLength {
		return nil, apperr.E(apperr.ErrInvalidArgument, "password is too short")
	}
	if name == "" {
		name = "Administrator"
	}
	user, err := newUser(email, password, name)
	if err != nil {
		return nil, err
	}
	user.IsAdmin = true
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("admin created", zap.Uint("user_id", user.ID))
	return user, nil
}

func ToUserResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		IsAdmin: u.IsAdmin,
	}
}
