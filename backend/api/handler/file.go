package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"abrino-storage/backend/common"
	apierrors "abrino-storage/backend/common/errors"
	"abrino-storage/backend/model"
	"abrino-storage/backend/service"

	"github.com/gin-gonic/gin"
)

const maxListLimit = 100

// ListFiles serves the user's file listing cache-first, with optional category
// filter, name search and pagination.
func ListFiles(c *gin.Context) {
	userID := c.GetInt64("user_id")
	category := c.Query("category")
	search := c.Query("search")
	skip, _ := strconv.Atoi(c.Query("skip"))
	if skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	files, err := service.ListFiles(userID, category, search, skip, limit)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to list files", err)
		return
	}
	common.RespSuccess(c, files)
}

// DownloadFile streams the file's bytes from Telegram through to the caller.
// The copy is chunked, so large files never sit in memory; the client
// disconnecting cancels the upstream request through the request context.
func DownloadFile(c *gin.Context) {
	userID := c.GetInt64("user_id")
	fileID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, "File not found")
		return
	}
	file, err := model.GetFileById(fileID, userID)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, "File not found")
		return
	}
	if TelegramClient == nil {
		common.RespErrorStr(c, http.StatusInternalServerError, "Failed to download file")
		return
	}

	body, size, err := TelegramClient.OpenFileStream(c.Request.Context(), file.TelegramFileID)
	if err != nil {
		common.SysError("failed to open file stream: " + err.Error())
		common.RespErrorCode(c, http.StatusInternalServerError, apierrors.ErrUpstreamFailure, "Failed to download file")
		return
	}
	defer body.Close()

	if err := file.TouchAccess(); err != nil {
		common.SysError("failed to update access time: " + err.Error())
	}

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", file.Name),
	}
	c.DataFromReader(http.StatusOK, size, file.MimeType, body, extraHeaders)
}

type UploadFileRequest struct {
	Name           string `json:"name" binding:"required"`
	TelegramFileID string `json:"telegram_file_id" binding:"required"`
	Size           int64  `json:"size" binding:"gte=0"`
	MimeType       string `json:"mime_type"`
	Category       string `json:"category"`
}

// UploadFile registers metadata for content already delivered to Telegram.
// The category is derived from name and MIME type unless explicitly supplied.
func UploadFile(c *gin.Context) {
	userID := c.GetInt64("user_id")
	var req UploadFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespError(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	file, err := service.StoreFile(userID, req.Name, req.TelegramFileID, req.Size, req.MimeType, req.Category)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "Failed to upload file", err)
		return
	}
	common.RespSuccess(c, file)
}

func DeleteFile(c *gin.Context) {
	userID := c.GetInt64("user_id")
	fileID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, "File not found")
		return
	}
	if err := service.DeleteFile(userID, fileID); err != nil {
		common.RespErrorStr(c, http.StatusNotFound, "File not found")
		return
	}
	common.RespSuccessStr(c, "File deleted successfully")
}

// GetCategories serves the user's distinct categories cache-first.
func GetCategories(c *gin.Context) {
	userID := c.GetInt64("user_id")
	categories, err := service.ListCategories(userID)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to list categories", err)
		return
	}
	common.RespSuccess(c, gin.H{"categories": categories})
}

// ReconcileFiles sweeps all metadata rows against Telegram and reports the
// divergent ones. Admin only; this is the manual path for the dual-write gap.
func ReconcileFiles(c *gin.Context) {
	if TelegramClient == nil {
		common.RespErrorStr(c, http.StatusInternalServerError, "Telegram client is not available")
		return
	}
	issues, err := service.ReconcileFiles(c.Request.Context(), TelegramClient)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "reconciliation failed", err)
		return
	}
	common.RespSuccess(c, gin.H{
		"issues": issues,
		"count":  len(issues),
	})
}
