package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fleet-campus-admin/internal/domain/user"
	"fleet-campus-admin/internal/infrastructure/database/postgres/models"
	"fleet-campus-admin/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	u.ID = uuid.New()
	u.Email = strings.ToLower(u.Email)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt

	if err := r.db.conn(ctx).Create(toUserModel(u)).Error; err != nil {
		return translateError("create user", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getWhere(ctx, "email = ?", strings.ToLower(email))
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return r.getWhere(ctx, "id = ?", userID)
}

func (r *UserRepository) getWhere(ctx context.Context, query string, arg interface{}) (*user.User, error) {
	var dbModel models.UserModel
	err := r.db.conn(ctx).Where(query, arg).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) List(ctx context.Context, role *user.Role) ([]*user.User, error) {
	db := r.db.conn(ctx)
	if role != nil {
		db = db.Where("role = ?", string(*role))
	}

	var dbModels []models.UserModel
	if err := db.Order("created_at DESC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*user.User, len(dbModels))
	for i := range dbModels {
		users[i] = toUserEntity(&dbModels[i])
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now()

	result := r.db.conn(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"full_name":    u.FullName,
			"phone_number": u.PhoneNumber,
			"role":         string(u.Role),
			"is_active":    u.IsActive,
			"updated_at":   u.UpdatedAt,
		})
	if result.Error != nil {
		return translateError("update user", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	result := r.db.conn(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hashed": passwordHash,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) TouchLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	err := r.db.conn(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Update("last_login_at", at).Error
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

type RefreshTokenRepository struct {
	db *DB
}

func NewRefreshTokenRepository(db *DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, t *user.RefreshToken) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt

	dbModel := &models.RefreshTokenModel{
		ID:        t.ID,
		UserID:    t.UserID,
		TokenHash: utils.HashToken(t.Token),
		ExpiresAt: t.ExpiresAt,
		Revoked:   t.Revoked,
		RevokedAt: t.RevokedAt,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if err := r.db.conn(ctx).Create(dbModel).Error; err != nil {
		return translateError("store refresh token", err)
	}
	return nil
}

// GetByToken looks a token up by its digest; only the digest is persisted.
func (r *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (*user.RefreshToken, error) {
	var m models.RefreshTokenModel
	err := r.db.conn(ctx).
		Where("token_hash = ? AND revoked = ? AND expires_at > ?", utils.HashToken(token), false, time.Now()).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrRefreshTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return &user.RefreshToken{
		ID:        m.ID,
		UserID:    m.UserID,
		Token:     token,
		ExpiresAt: m.ExpiresAt,
		Revoked:   m.Revoked,
		RevokedAt: m.RevokedAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func (r *RefreshTokenRepository) Revoke(ctx context.Context, tokenID uuid.UUID) error {
	now := time.Now()
	result := r.db.conn(ctx).
		Model(&models.RefreshTokenModel{}).
		Where("id = ?", tokenID).
		Updates(map[string]interface{}{
			"revoked":    true,
			"revoked_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to revoke token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrRefreshTokenNotFound
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	err := r.db.conn(ctx).
		Model(&models.RefreshTokenModel{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Updates(map[string]interface{}{
			"revoked":    true,
			"revoked_at": now,
			"updated_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result := r.db.conn(ctx).
		Where("expires_at < ? OR (revoked = ? AND revoked_at < ?)", cutoff, true, cutoff).
		Delete(&models.RefreshTokenModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func toUserModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		PasswordHashed: u.PasswordHashed,
		FullName:       u.FullName,
		PhoneNumber:    u.PhoneNumber,
		Role:           string(u.Role),
		IsActive:       u.IsActive,
		LastLoginAt:    u.LastLoginAt,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func toUserEntity(m *models.UserModel) *user.User {
	return &user.User{
		ID:             m.ID,
		Username:       m.Username,
		Email:          m.Email,
		PasswordHashed: m.PasswordHashed,
		FullName:       m.FullName,
		PhoneNumber:    m.PhoneNumber,
		Role:           user.Role(m.Role),
		IsActive:       m.IsActive,
		LastLoginAt:    m.LastLoginAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
