package users

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrVerificationInvalid = errors.New("verification token invalid")
	ErrVerificationExpired = errors.New("verification token expired")
)

const verificationTTL = 30 * time.Minute

type EmailVerification struct {
	ID        string     `gorm:"primaryKey;column:id;type:char(36)"`
	UserID    string     `gorm:"column:user_id;type:char(36);not null;index:ix_email_verifications_user_id"`
	CodeHash  string     `gorm:"column:code_hash;type:char(64);not null;uniqueIndex:ux_email_verifications_code_hash"`
	ExpiresAt time.Time  `gorm:"column:expires_at;not null"`
	UsedAt    *time.Time `gorm:"column:used_at"`
	CreatedAt time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt time.Time  `gorm:"column:updated_at;not null"`
}

func (EmailVerification) TableName() string { return "email_verifications" }

type VerifyService struct {
	db         *gorm.DB
	log        *slog.Logger
	appBaseURL string
	now        func() time.Time
}

func NewVerifyService(db *gorm.DB, logger *slog.Logger, appBaseURL string) *VerifyService {
	return &VerifyService{
		db:         db,
		log:        logger,
		appBaseURL: appBaseURL,
		now:        time.Now,
	}
}

// Issue replaces any pending verification for userID and returns the raw token
// together with the link the user is expected to open.
func (s *VerifyService) Issue(ctx context.Context, userID string) (string, string, error) {
	rawToken, err := randomToken(32)
	if err != nil {
		return "", "", err
	}
	now := s.now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&EmailVerification{}).Error; err != nil {
			return err
		}
		return tx.Create(&EmailVerification{
			ID:        uuid.NewString(),
			UserID:    userID,
			CodeHash:  hashToken(rawToken),
			ExpiresAt: now.Add(verificationTTL),
			CreatedAt: now,
			UpdatedAt: now,
		}).Error
	})
	if err != nil {
		return "", "", err
	}

	verifyURL := strings.TrimRight(s.appBaseURL, "/") + "/verify?token=" + rawToken
	s.log.LogAttrs(ctx, slog.LevelInfo, "email_verification_issued", slog.String("user_id", userID))
	return rawToken, verifyURL, nil
}

// Verify consumes rawToken and marks the owner's email as verified.
func (s *VerifyService) Verify(ctx context.Context, rawToken string) (User, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return User{}, ErrVerificationInvalid
	}
	now := s.now()

	var u User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev EmailVerification
		if err := tx.First(&ev, "code_hash = ?", hashToken(rawToken)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVerificationInvalid
			}
			return err
		}
		if ev.UsedAt != nil {
			return ErrVerificationInvalid
		}
		if now.After(ev.ExpiresAt) {
			return ErrVerificationExpired
		}

		if err := tx.Model(&EmailVerification{}).Where("id = ?", ev.ID).
			Updates(map[string]any{"used_at": now, "updated_at": now}).Error; err != nil {
			return err
		}
		if err := tx.Model(&User{}).Where("id = ? AND email_verified_at IS NULL", ev.UserID).
			Updates(map[string]any{"email_verified_at": now, "updated_at": now}).Error; err != nil {
			return err
		}
		return tx.First(&u, "id = ?", ev.UserID).Error
	})
	if err != nil {
		return User{}, err
	}

	s.log.LogAttrs(ctx, slog.LevelInfo, "email_verified", slog.String("user_id", u.ID))
	return u, nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
