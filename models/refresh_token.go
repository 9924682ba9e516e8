package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"artists/config"
	"artists/httperr"
)

// RefreshToken rows are never physically deleted; superseded and logged-out
// tokens stay revoked for audit.
type RefreshToken struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;index"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Token     string `gorm:"type:varchar(64);index:uniq_refresh_token,unique;not null"`
	ExpiresAt time.Time
	Revoked   bool `gorm:"not null;default:false"`
	CreatedAt time.Time
}

// IssueRefreshToken revokes every active token of the user and creates a new
// opaque one. Returning the raw value here is the only place it leaves the row.
func IssueRefreshToken(tx *gorm.DB, user *User) (string, error) {
	err := tx.Model(&RefreshToken{}).
		Where("user_id = ? AND revoked = ?", user.ID, false).
		Update("revoked", true).Error
	if err != nil {
		return "", err
	}
	rt := RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(time.Duration(config.JWT_REFRESH_DAYS) * 24 * time.Hour),
		Revoked:   false,
	}
	if err := tx.Create(&rt).Error; err != nil {
		return "", err
	}
	return rt.Token, nil
}

// ValidateRefreshToken resolves the owning user of a usable token. It does not
// revoke the token; rotation is the caller's job via IssueRefreshToken.
func ValidateRefreshToken(tx *gorm.DB, token string) (User, error) {
	rt, err := refreshTokenByValue(tx, token)
	if err != nil {
		return User{}, err
	}
	if rt.Revoked {
		return User{}, httperr.NotFound("Refresh token revogado")
	}
	if rt.ExpiresAt.Before(time.Now()) {
		return User{}, httperr.NotFound("Refresh token expirado")
	}
	return UserByID(tx, rt.UserID)
}

// RevokeRefreshToken marks the token revoked. Revoking an already-revoked
// token is not an error; the write simply happens again.
func RevokeRefreshToken(tx *gorm.DB, token string) error {
	rt, err := refreshTokenByValue(tx, token)
	if err != nil {
		return err
	}
	rt.Revoked = true
	return tx.Model(&rt).Update("revoked", true).Error
}

func refreshTokenByValue(tx *gorm.DB, token string) (RefreshToken, error) {
	var rt RefreshToken
	err := tx.First(&rt, "token = ?", token).Error
	if err == gorm.ErrRecordNotFound {
		return rt, httperr.NotFound("Refresh token inválido")
	}
	return rt, err
}
