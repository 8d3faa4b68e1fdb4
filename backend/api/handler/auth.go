package handler

import (
	"net/http"
	"strings"

	"abrino-storage/backend/common"
	apierrors "abrino-storage/backend/common/errors"
	"abrino-storage/backend/model"
	"abrino-storage/backend/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"omitempty,max=50"`
}

func Register(c *gin.Context) {
	if !common.RegisterEnabled {
		common.RespErrorCode(c, http.StatusForbidden, apierrors.ErrRegistrationOff, "Registration is currently disabled")
		return
	}
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespError(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	if model.IsEmailAlreadyTaken(req.Email) {
		common.RespErrorCode(c, http.StatusBadRequest, apierrors.ErrEmailTaken, "Email already registered")
		return
	}
	if req.DisplayName == "" {
		req.DisplayName = req.Email
	}
	user := model.User{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        common.RoleCommonUser,
		Status:      common.UserStatusEnabled,
	}
	if err := common.Validate.Struct(&user); err != nil {
		common.RespError(c, http.StatusBadRequest, "invalid input", err)
		return
	}
	if err := user.Insert(); err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to create user", err)
		return
	}
	common.RespSuccess(c, user.Profile())
}

type LoginRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	TwoFACode  string `json:"twofa_code"`
	RememberMe bool   `json:"remember_me"`
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespError(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	user := model.User{
		Email:    req.Email,
		Password: req.Password,
	}
	if err := user.ValidateAndFill(); err != nil {
		common.RespErrorCode(c, http.StatusUnauthorized, apierrors.CodeOf(err), "Invalid email or password")
		return
	}

	if user.TwoFAEnabled {
		if req.TwoFACode == "" {
			if TelegramClient == nil {
				common.RespErrorStr(c, http.StatusInternalServerError, "2FA delivery is not available")
				return
			}
			if err := service.IssueTwoFACode(c.Request.Context(), TelegramClient, &user); err != nil {
				common.SysError("failed to issue 2FA code: " + err.Error())
				common.RespErrorStr(c, http.StatusInternalServerError, "failed to deliver 2FA code")
				return
			}
			common.RespErrorWithData(c, http.StatusAccepted, "2FA code required", gin.H{
				"require_2fa": true,
			})
			return
		}
		if !service.VerifyTwoFACode(user.ID, req.TwoFACode) {
			common.RespErrorCode(c, http.StatusUnauthorized, apierrors.ErrInvalidTwoFACode, "Invalid 2FA code")
			return
		}
	}

	setupLogin(&user, c)
}

// setupLogin issues the bearer token, saves the session, and answers with both.
func setupLogin(user *model.User, c *gin.Context) {
	token, err := service.GenerateToken(user)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to generate token", err)
		return
	}

	session := sessions.Default(c)
	session.Set("id", user.ID)
	session.Set("email", user.Email)
	session.Set("role", user.Role)
	session.Set("status", user.Status)
	if err := session.Save(); err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to save session", err)
		return
	}

	common.RespSuccess(c, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user.Profile(),
	})
}

func Logout(c *gin.Context) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			service.RevokeToken(parts[1])
		}
	}
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to clear session", err)
		return
	}
	common.RespSuccessStr(c, "")
}

type MagicLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// TelegramMagicLink delivers a one-time login link to the user's linked chat.
func TelegramMagicLink(c *gin.Context) {
	var req MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespError(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	user, err := model.GetUserByEmail(req.Email)
	if err != nil || user.TelegramID == 0 {
		common.RespErrorCode(c, http.StatusNotFound, apierrors.ErrTelegramNotLinked, "User not found or not linked to Telegram")
		return
	}
	if TelegramClient == nil {
		common.RespErrorStr(c, http.StatusInternalServerError, "Failed to send magic link")
		return
	}
	if err := service.IssueMagicLink(c.Request.Context(), TelegramClient, user); err != nil {
		common.SysError("failed to send magic link: " + err.Error())
		common.RespErrorStr(c, http.StatusInternalServerError, "Failed to send magic link")
		return
	}
	common.RespSuccessStr(c, "Magic link sent to your Telegram")
}

// VerifyMagicLink redeems a one-time token for a bearer token.
func VerifyMagicLink(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		common.RespErrorStr(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	userID, err := service.RedeemMagicLink(token)
	if err != nil {
		common.RespErrorCode(c, http.StatusUnauthorized, apierrors.CodeOf(err), "Invalid or expired token")
		return
	}
	user, err := model.GetUserById(userID)
	if err != nil || user.Status != common.UserStatusEnabled {
		common.RespErrorStr(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	setupLogin(user, c)
}
