package handler

import (
	"net/http"

	"abrino-storage/backend/common"
	"abrino-storage/backend/model"

	"github.com/gin-gonic/gin"
)

func GetProfile(c *gin.Context) {
	userID := c.GetInt64("user_id")
	user, err := model.GetUserById(userID)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, "user not found")
		return
	}
	common.RespSuccess(c, user.Profile())
}

type LinkTelegramRequest struct {
	TelegramID int64 `json:"telegram_id" binding:"required"`
}

// LinkTelegram associates a chat identity with the current account. If a
// chat-only account already owns the identity, its files are merged in.
func LinkTelegram(c *gin.Context) {
	userID := c.GetInt64("user_id")
	var req LinkTelegramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespError(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	user, err := model.GetUserById(userID)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, "user not found")
		return
	}
	if err := model.LinkTelegramID(user, req.TelegramID); err != nil {
		common.RespError(c, http.StatusBadRequest, "failed to link Telegram account", err)
		return
	}
	common.RespSuccessStr(c, "Telegram account linked successfully")
}

func GetOptions(c *gin.Context) {
	options, err := model.AllOptions()
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to load options", err)
		return
	}
	common.RespSuccess(c, options)
}

type UpdateOptionRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

func UpdateOption(c *gin.Context) {
	var req UpdateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespError(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	if err := model.UpdateOption(req.Key, req.Value); err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to update option", err)
		return
	}
	common.RespSuccessStr(c, "")
}
