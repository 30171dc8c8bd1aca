package repository

import (
	"context"

	"gorm.io/gorm"

	"vpnshop/internal/apperr"
	"vpnshop/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Delete(ctx context.Context, userID uint) error
	SetAdmin(ctx context.Context, email string, isAdmin bool) error

	// CompareAndSwapCart stores cart only if the row still has version. It reports
	// false when another writer got there first.
	CompareAndSwapCart(ctx context.Context, userID uint, version int64, cart model.ProductIDs) (bool, error)
	// ResetCart empties the cart inside tx if it is still at expectedVersion.
	ResetCart(ctx context.Context, tx *gorm.DB, userID uint, expectedVersion int64) (bool, error)
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepoImpl{
		db: db,
	}
}

func (r *userRepoImpl) Create(ctx context.Context, user *model.User) error {
	if user.Cart == nil {
		user.Cart = model.ProductIDs{}
	}
	return translate(r.db.WithContext(ctx).Create(user).Error, "user")
}

func (r *userRepoImpl) FindByID(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "user")
	}

	return &user, nil
}

func (r *userRepoImpl) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "user")
	}

	return &user, nil
}

func (r *userRepoImpl) List(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, translate(err, "user")
	}

	return users, nil
}

func (r *userRepoImpl) Delete(ctx context.Context, userID uint) error {
	result := r.db.WithContext(ctx).Delete(&model.User{}, userID)
	if result.Error != nil {
		return translate(result.Error, "user")
	}
	if result.RowsAffected == 0 {
		return apperr.E(apperr.ErrNotFound, "user not found")
	}
	return nil
}

func (r *userRepoImpl) SetAdmin(ctx context.Context, email string, isAdmin bool) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Update("is_admin", isAdmin)
	if result.Error != nil {
		return translate(result.Error, "user")
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByEmail(ctx, email); err != nil {
			return err
		}
	}
	return nil
}

func (r *userRepoImpl) CompareAndSwapCart(ctx context.Context, userID uint, version int64, cart model.ProductIDs) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND cart_version = ?", userID, version).
		Updates(map[string]interface{}{
			"cart":         cart,
			"cart_version": gorm.Expr("cart_version + 1"),
		})
	if result.Error != nil {
		return false, translate(result.Error, "cart")
	}

	return result.RowsAffected == 1, nil
}

func (r *userRepoImpl) ResetCart(ctx context.Context, tx *gorm.DB, userID uint, expectedVersion int64) (bool, error) {
	result := tx.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND cart_version = ?", userID, expectedVersion).
		Updates(map[string]interface{}{
			"cart":         model.ProductIDs{},
			"cart_version": gorm.Expr("cart_version + 1"),
		})
	if result.Error != nil {
		return false, translate(result.Error, "cart")
	}

	return result.RowsAffected == 1, nil
}
