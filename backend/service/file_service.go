package service

import (
	"context"
	"fmt"
	"io"

	"abrino-storage/backend/common"
	"abrino-storage/backend/library/cache"
	"abrino-storage/backend/library/classifier"
	"abrino-storage/backend/model"
)

// FileStreamer opens a byte stream for a stored file handle.
type FileStreamer interface {
	OpenFileStream(ctx context.Context, fileID string) (io.ReadCloser, int64, error)
}

// FileChecker verifies that a stored handle still resolves on the platform.
type FileChecker interface {
	CheckFile(ctx context.Context, fileID string) error
}

// StoreFile records metadata for content already uploaded to Telegram. The
// category is derived once here unless the caller supplied one. The bytes are
// on the platform before this runs, so a failed insert is a divergence between
// the two stores: it gets an inconsistency marker for the reconciliation pass.
func StoreFile(userID int64, name string, telegramFileID string, size int64, mimeType string, category string) (*model.File, error) {
	if category == "" {
		category = classifier.Classify(name, mimeType)
	}
	file := &model.File{
		UserID:         userID,
		Name:           name,
		TelegramFileID: telegramFileID,
		Size:           size,
		MimeType:       mimeType,
		Category:       category,
	}
	if err := file.Insert(); err != nil {
		common.SysInconsistency(fmt.Sprintf(
			"telegram file %s exists for user %d but metadata insert failed: %s",
			telegramFileID, userID, err.Error()))
		return nil, fmt.Errorf("failed to save file record: %w", err)
	}
	cache.GetFileCache().Invalidate(userID)
	return file, nil
}

// DeleteFile removes a file's metadata. The platform copy is intentionally left
// alone (the handle simply becomes unreferenced), so no compensation is needed.
func DeleteFile(userID int64, fileID int64) error {
	file, err := model.GetFileById(fileID, userID)
	if err != nil {
		return err
	}
	if err := file.Delete(); err != nil {
		return fmt.Errorf("failed to delete file record %d: %w", fileID, err)
	}
	cache.GetFileCache().Invalidate(userID)
	return nil
}

// ListFiles serves a user's file listing cache-first.
func ListFiles(userID int64, category string, search string, skip int, limit int) ([]*model.File, error) {
	fc := cache.GetFileCache()
	if files, ok := fc.GetFiles(userID, category, search, skip, limit); ok {
		return files, nil
	}
	files, err := model.GetFilesByUser(userID, category, search, skip, limit)
	if err != nil {
		return nil, err
	}
	fc.SetFiles(userID, category, search, skip, limit, files)
	return files, nil
}

// ListCategories serves a user's distinct categories cache-first.
func ListCategories(userID int64) ([]string, error) {
	fc := cache.GetFileCache()
	if categories, ok := fc.GetCategories(userID); ok {
		return categories, nil
	}
	categories, err := model.GetUserCategories(userID)
	if err != nil {
		return nil, err
	}
	fc.SetCategories(userID, categories)
	return categories, nil
}

// ReconcileIssue describes a metadata row whose platform handle no longer
// resolves.
type ReconcileIssue struct {
	FileID  int64  `json:"file_id"`
	UserID  int64  `json:"user_id"`
	Name    string `json:"name"`
	Problem string `json:"problem"`
}

// ReconcileFiles sweeps every metadata row and checks its handle against the
// platform. It reports divergence; resolving it is an operator decision.
func ReconcileFiles(ctx context.Context, tg FileChecker) ([]ReconcileIssue, error) {
	var issues []ReconcileIssue
	const batch = 200
	for skip := 0; ; skip += batch {
		files, err := model.GetAllFiles(skip, batch)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			break
		}
		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := tg.CheckFile(ctx, file.TelegramFileID); err != nil {
				common.SysInconsistency(fmt.Sprintf(
					"file %d (user %d) has unresolvable telegram handle: %s",
					file.ID, file.UserID, err.Error()))
				issues = append(issues, ReconcileIssue{
					FileID:  file.ID,
					UserID:  file.UserID,
					Name:    file.Name,
					Problem: err.Error(),
				})
			}
		}
		if len(files) < batch {
			break
		}
	}
	return issues, nil
}
