package repositories

import (
	"context"
	"strings"

	"homerent/internal/logger"
	. "homerent/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *User) error
	Save(ctx context.Context, tx *gorm.DB, user *User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error)
	List(ctx context.Context, tx *gorm.DB, role Role) ([]*User, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	log := logger.NewWithContext(ctx, "userRepository").Function("Create")

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := tx.WithContext(ctx).Create(user).Error; err != nil {
		return log.Err("failed to create user", err, "email", user.Email)
	}

	log.Info("User created", "id", user.ID, "role", user.Role)
	return nil
}

func (r *userRepository) Save(ctx context.Context, tx *gorm.DB, user *User) error {
	log := logger.NewWithContext(ctx, "userRepository").Function("Save")

	if err := tx.WithContext(ctx).Save(user).Error; err != nil {
		return log.Err("failed to save user", err, "id", user.ID)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error) {
	log := logger.NewWithContext(ctx, "userRepository").Function("GetByID")

	var user User
	if err := tx.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get user", err, "id", id)
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(
	ctx context.Context,
	tx *gorm.DB,
	email string,
) (*User, error) {
	log := logger.NewWithContext(ctx, "userRepository").Function("GetByEmail")

	var user User
	err := tx.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get user by email", err)
	}

	return &user, nil
}

func (r *userRepository) List(ctx context.Context, tx *gorm.DB, role Role) ([]*User, error) {
	log := logger.NewWithContext(ctx, "userRepository").Function("List")

	query := tx.WithContext(ctx)
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var users []*User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, log.Err("failed to list users", err, "role", role)
	}

	return users, nil
}

func (r *userRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "userRepository").Function("Delete")

	result := tx.WithContext(ctx).Delete(&User{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete user", result.Error, "id", id)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
