package handler

import (
	"net/http"
	"time"

	"abrino-storage/backend/common"
	"abrino-storage/backend/service"

	"github.com/gin-gonic/gin"
)

// TelegramAPI is the slice of the platform client the handlers need. It is set
// once during startup; endpoints that need Telegram answer 500 when it is
// absent instead of crashing.
type TelegramAPI interface {
	service.TelegramSender
	service.FileStreamer
	service.FileChecker
}

var TelegramClient TelegramAPI

// HealthCheck is exempt from rate limiting and authentication.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": common.FormatTime(time.Now()),
	})
}
