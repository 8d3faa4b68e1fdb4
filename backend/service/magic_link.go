package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"abrino-storage/backend/common"
	apierrors "abrino-storage/backend/common/errors"
	"abrino-storage/backend/model"

	"github.com/google/uuid"
)

// TelegramSender is the slice of the platform client the auth flows need.
type TelegramSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

func magicLinkKey(token string) string {
	return "magic_link:" + token
}

func twoFAKey(userID int64) string {
	return "2fa:" + strconv.FormatInt(userID, 10)
}

// IssueMagicLink creates a one-time login token for the user and delivers the
// link over Telegram. The user must have a linked chat identity.
func IssueMagicLink(ctx context.Context, tg TelegramSender, user *model.User) error {
	if user.TelegramID == 0 {
		return apierrors.New(apierrors.ErrTelegramNotLinked, "user is not linked to Telegram")
	}

	token := uuid.New().String()
	ttl := time.Duration(common.MagicLinkExpiry) * time.Minute
	if err := storeSet(magicLinkKey(token), strconv.FormatInt(user.ID, 10), ttl); err != nil {
		return fmt.Errorf("failed to store magic link token: %w", err)
	}

	link := fmt.Sprintf("%s/auth/verify?token=%s", common.FrontendURL, token)
	text := fmt.Sprintf("Your login link is valid for %d minutes:\n\n%s", common.MagicLinkExpiry, link)
	if err := tg.SendMessage(ctx, user.TelegramID, text); err != nil {
		storeDelete(magicLinkKey(token))
		return fmt.Errorf("failed to deliver magic link: %w", err)
	}
	return nil
}

// RedeemMagicLink exchanges a one-time token for the user it was issued to.
// The token is consumed whether or not the subsequent login completes.
func RedeemMagicLink(token string) (int64, error) {
	raw, ok := storeGet(magicLinkKey(token))
	if !ok {
		return 0, apierrors.New(apierrors.ErrExpiredMagicLink, "invalid or expired token")
	}
	storeDelete(magicLinkKey(token))
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt magic link entry: %w", err)
	}
	return userID, nil
}

// IssueTwoFACode generates a short-lived 6-digit code and pushes it to the
// user's Telegram chat.
func IssueTwoFACode(ctx context.Context, tg TelegramSender, user *model.User) error {
	if user.TelegramID == 0 {
		return apierrors.New(apierrors.ErrTelegramNotLinked, "user is not linked to Telegram")
	}

	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	if err := storeSet(twoFAKey(user.ID), code, 5*time.Minute); err != nil {
		return fmt.Errorf("failed to store 2FA code: %w", err)
	}
	text := "Your verification code is: " + code + "\n\nIt expires in 5 minutes."
	if err := tg.SendMessage(ctx, user.TelegramID, text); err != nil {
		storeDelete(twoFAKey(user.ID))
		return fmt.Errorf("failed to deliver 2FA code: %w", err)
	}
	return nil
}

// VerifyTwoFACode checks a submitted code and consumes it on success.
func VerifyTwoFACode(userID int64, code string) bool {
	stored, ok := storeGet(twoFAKey(userID))
	if !ok || code == "" || stored != code {
		return false
	}
	storeDelete(twoFAKey(userID))
	return true
}
