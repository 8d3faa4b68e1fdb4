package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"testing"

	"abrino-storage/backend/common"
	"abrino-storage/backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	common.SQLitePath = ":memory:"
	common.RedisEnabled = false
	common.JWTSecret = "test-signing-secret"
	if err := model.InitDB(); err != nil {
		fmt.Println("failed to initialize database: " + err.Error())
		os.Exit(1)
	}
	os.Exit(m.Run())
}

type fakeSender struct {
	messages []string
	fail     bool
}

func (f *fakeSender) SendMessage(_ context.Context, _ int64, text string) error {
	if f.fail {
		return errors.New("telegram unreachable")
	}
	f.messages = append(f.messages, text)
	return nil
}

func TestTokenRoundTrip(t *testing.T) {
	user := &model.User{Email: "token@example.com", Role: common.RoleCommonUser}
	user.ID = 42

	token, err := GenerateToken(user)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "token@example.com", claims.Email)
	assert.Equal(t, common.RoleCommonUser, claims.Role)
}

func TestTamperedTokenRejected(t *testing.T) {
	user := &model.User{Email: "tamper@example.com", Role: common.RoleCommonUser}
	user.ID = 43

	token, err := GenerateToken(user)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + ".c29tZXRoaW5nZWxzZQ"

	_, err = ValidateToken(tampered)
	assert.Error(t, err)
}

func TestRevokedTokenRejected(t *testing.T) {
	user := &model.User{Email: "revoke@example.com", Role: common.RoleCommonUser}
	user.ID = 44

	token, err := GenerateToken(user)
	require.NoError(t, err)
	_, err = ValidateToken(token)
	require.NoError(t, err)

	RevokeToken(token)
	_, err = ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revoked")
}

func TestMagicLinkFlow(t *testing.T) {
	user, err := model.RegisterTelegramUser(7001)
	require.NoError(t, err)

	sender := &fakeSender{}
	require.NoError(t, IssueMagicLink(context.Background(), sender, user))
	require.Len(t, sender.messages, 1)

	idx := strings.Index(sender.messages[0], "token=")
	require.Greater(t, idx, 0)
	token := strings.TrimSpace(sender.messages[0][idx+len("token="):])

	userID, err := RedeemMagicLink(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	// One-time use.
	_, err = RedeemMagicLink(token)
	assert.Error(t, err)
}

func TestMagicLinkRequiresLinkedTelegram(t *testing.T) {
	user := &model.User{Email: "nolink@example.com"}
	user.ID = 45

	err := IssueMagicLink(context.Background(), &fakeSender{}, user)
	assert.Error(t, err)
}

func TestMagicLinkDeliveryFailureInvalidatesToken(t *testing.T) {
	user, err := model.RegisterTelegramUser(7002)
	require.NoError(t, err)

	err = IssueMagicLink(context.Background(), &fakeSender{fail: true}, user)
	assert.Error(t, err)
}

func TestTwoFACodeFlow(t *testing.T) {
	user, err := model.RegisterTelegramUser(7003)
	require.NoError(t, err)

	sender := &fakeSender{}
	require.NoError(t, IssueTwoFACode(context.Background(), sender, user))
	require.Len(t, sender.messages, 1)

	code := regexp.MustCompile(`\d{6}`).FindString(sender.messages[0])
	require.NotEmpty(t, code)

	assert.False(t, VerifyTwoFACode(user.ID, "000000x"))
	assert.True(t, VerifyTwoFACode(user.ID, code))
	// Consumed on success.
	assert.False(t, VerifyTwoFACode(user.ID, code))
}
