package storage

import (
	"context"
	"time"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
)

// Ensure interface compliance
var _ ports.UserRepository = (*SQLiteAdapter)(nil)

// UserModel is the GORM model for users.
type UserModel struct {
	ID           string `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	LastLogin    time.Time
}

func toUserModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
		LastLogin:    u.LastLogin,
	}
}

func toUserDomain(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		CreatedAt:    m.CreatedAt,
		LastLogin:    m.LastLogin,
	}
}

// SaveUser creates or updates a user.
func (a *SQLiteAdapter) SaveUser(ctx context.Context, user domain.User) error {
	model := toUserModel(user)
	return translateError(a.db.WithContext(ctx).Save(&model).Error)
}

// GetUserByUsername retrieves a user by their username.
func (a *SQLiteAdapter) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var model UserModel
	if err := a.db.WithContext(ctx).Where("username = ?", username).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	user := toUserDomain(model)
	return &user, nil
}

// GetUserByID retrieves a user by their ID.
func (a *SQLiteAdapter) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	var model UserModel
	if err := a.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	user := toUserDomain(model)
	return &user, nil
}

// ListUsers returns all users.
func (a *SQLiteAdapter) ListUsers(ctx context.Context) ([]domain.User, error) {
	var models []UserModel
	if err := a.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, translateError(err)
	}
	users := make([]domain.User, len(models))
	for i, m := range models {
		users[i] = toUserDomain(m)
	}
	return users, nil
}
