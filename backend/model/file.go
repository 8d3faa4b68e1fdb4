package model

import (
	"errors"
	"fmt"
	"sort"
	"time"

	apierrors "abrino-storage/backend/common/errors"

	"github.com/burugo/thing"
)

// File is a piece of stored content. The bytes live on Telegram; this row only
// holds the reference handle and the metadata the API serves. Category is
// derived once at creation time and persisted for query efficiency.
type File struct {
	thing.BaseModel
	UserID         int64     `db:"user_id,index" json:"user_id"`
	Name           string    `db:"name,index" json:"name"`
	TelegramFileID string    `db:"telegram_file_id,uniqueIndex" json:"telegram_file_id"`
	Size           int64     `db:"size" json:"size"`
	MimeType       string    `db:"mime_type" json:"mime_type"`
	Category       string    `db:"category,index" json:"category"`
	LastAccessedAt time.Time `db:"last_accessed_at" json:"last_accessed_at"`
}

func (f *File) TableName() string {
	return "files"
}

var FileDB *thing.Thing[*File]

func FileInit() error {
	var err error
	FileDB, err = thing.Use[*File]()
	if err != nil {
		return fmt.Errorf("failed to initialize FileDB: %w", err)
	}
	return nil
}

func (file *File) Insert() error {
	return FileDB.Save(file)
}

func (file *File) Delete() error {
	if file.ID == 0 {
		return errors.New("id is empty")
	}
	return FileDB.Delete(file)
}

// GetFileById returns the file only when it exists and belongs to userID.
// Ownership failures are indistinguishable from absence on purpose.
func GetFileById(id int64, userID int64) (*File, error) {
	if id == 0 {
		return nil, errors.New("id is empty")
	}
	file, err := FileDB.ByID(id)
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.ErrFileNotFound, fmt.Sprintf("file %d not found", id))
	}
	if file.UserID != userID {
		return nil, apierrors.New(apierrors.ErrFileNotFound, fmt.Sprintf("file %d not found", id))
	}
	return file, nil
}

// GetFilesByUser lists a user's files with optional category filter and name
// search, newest first.
func GetFilesByUser(userID int64, category string, search string, skip int, limit int) ([]*File, error) {
	query := FileDB.Query(thing.QueryParams{}).Where("user_id = ?", userID)
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	return query.Order("created_at DESC").Fetch(skip, limit)
}

// GetUserCategories returns the distinct categories of a user's files, sorted.
// The vocabulary is closed and small, so deduplication happens in memory.
func GetUserCategories(userID int64) ([]string, error) {
	files, err := FileDB.Where("user_id = ?", userID).Fetch(0, 10000)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var categories []string
	for _, file := range files {
		if !seen[file.Category] {
			seen[file.Category] = true
			categories = append(categories, file.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// TouchAccess records that the file's bytes were just served.
func (file *File) TouchAccess() error {
	file.LastAccessedAt = time.Now()
	return FileDB.Save(file)
}

// GetAllFiles pages through every file row, newest first. Admin use only.
func GetAllFiles(startIdx int, num int) ([]*File, error) {
	return FileDB.Order("id DESC").Fetch(startIdx, num)
}

// ReassignFiles moves every file of fromUserID to toUserID. Used when a
// chat-only account merges into a web account.
func ReassignFiles(fromUserID int64, toUserID int64) error {
	files, err := FileDB.Where("user_id = ?", fromUserID).Fetch(0, 10000)
	if err != nil {
		return err
	}
	for _, file := range files {
		file.UserID = toUserID
		if err := FileDB.Save(file); err != nil {
			return err
		}
	}
	return nil
}
