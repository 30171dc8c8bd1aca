package service

import (
	"context"
	"net/mail"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"vpnshop/internal/apperr"
	"vpnshop/internal/auth"
	"vpnshop/internal/config"
	"vpnshop/internal/dto"
	"vpnshop/internal/model"
	"vpnshop/internal/repository"
)

const minPasswordLength = 6

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, error)
	// Login checks credentials and issues a signed session token.
	Login(ctx context.Context, req *dto.LoginRequest) (string, *auth.Claims, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Me(ctx context.Context, userID uint) (*model.User, error)
}

type userServiceImpl struct {
	userRepo    repository.UserRepository
	jwtCfg      config.JWT
	revocations auth.Revocations
	logger      *zap.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	jwtCfg config.JWT,
	revocations auth.Revocations,
	logger *zap.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:    userRepo,
		jwtCfg:      jwtCfg,
		revocations: revocations,
		logger:      logger,
	}
}

func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || req.Password == "" || name == "" {
		return nil, apperr.E(apperr.ErrInvalidArgument, "email, password and name are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.E(apperr.ErrInvalidArgument, "invalid email")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperr.E(apperr.ErrInvalidArgument, "password is too short")
	}

	user, err := newUser(email, req.Password, name)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if apperr.KindOf(err) == apperr.ErrConflict {
			return nil, apperr.E(apperr.ErrConflict, "user already exists")
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

func (s *userServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (string, *auth.Claims, error) {
	invalid := apperr.E(apperr.ErrUnauthorized, "invalid email or password")

	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if apperr.KindOf(err) == apperr.ErrNotFound {
			return "", nil, invalid
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return "", nil, invalid
	}

	token, claims, err := auth.GenerateToken(&s.jwtCfg, user.ID, user.Email)
	if err != nil {
		return "", nil, apperr.Wrap(apperr.ErrInternal, err, "sign session token")
	}
	return token, claims, nil
}

func (s *userServiceImpl) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return apperr.Wrap(apperr.ErrInternal, err, "revoke session")
	}
	return nil
}

func (s *userServiceImpl) Me(ctx context.Context, userID uint) (*model.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func newUser(email, password, name string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, err, "hash password")
	}
	return &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Cart:         model.ProductIDs{},
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
