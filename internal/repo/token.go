package repo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/task_manager/internal/models"
	"github.com/Skotchmaster/task_manager/internal/tokens"
)

func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func (r *GormRepo) SaveToken(ctx context.Context, token string, userID uuid.UUID, userName string, expiresAt time.Time, typ tokens.Type, blacklisted bool) (*models.RefreshToken, error) {
	rec := models.RefreshToken{
		Token:       Sha256Hex(token),
		UserID:      userID,
		UserName:    userName,
		ExpiresAt:   expiresAt.UTC(),
		Type:        typ,
		Blacklisted: blacklisted,
	}
	if err := r.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// FindActiveToken matches token, type and blacklisted=false. Expiry is left to the codec.
func (r *GormRepo) FindActiveToken(ctx context.Context, token string, typ tokens.Type) (*models.RefreshToken, error) {
	var rec models.RefreshToken
	if err := r.DB.WithContext(ctx).
		Where("token = ? AND type = ? AND blacklisted = ?", Sha256Hex(token), typ, false).
		First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// InvalidateToken deletes rec unless it was already deleted or blacklisted.
// ErrNotFound means another caller got there first.
func (r *GormRepo) InvalidateToken(ctx context.Context, rec *models.RefreshToken) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND blacklisted = ?", rec.ID, false).
		Delete(&models.RefreshToken{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) BlacklistToken(ctx context.Context, token string, typ tokens.Type) error {
	res := r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ? AND type = ? AND blacklisted = ?", Sha256Hex(token), typ, false).
		Update("blacklisted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
