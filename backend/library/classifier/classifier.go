// Package classifier assigns a category tag to a file from its declared MIME
// type and, failing that, its extension. It is a pure lookup: no I/O, no shared
// state, safe to call on every upload.
package classifier

import (
	"path/filepath"
	"strings"
)

const CategoryOther = "other"

// Categories is the closed vocabulary, fallback included.
var Categories = []string{
	"image", "video", "audio", "document", "spreadsheet",
	"presentation", "archive", "code", CategoryOther,
}

var mimeCategories = map[string]string{
	"image/jpeg":    "image",
	"image/png":     "image",
	"image/gif":     "image",
	"image/webp":    "image",
	"image/svg+xml": "image",

	"video/mp4":       "video",
	"video/mpeg":      "video",
	"video/quicktime": "video",
	"video/webm":      "video",

	"audio/mpeg": "audio",
	"audio/mp4":  "audio",
	"audio/ogg":  "audio",
	"audio/wav":  "audio",
	"audio/webm": "audio",

	"application/pdf":    "document",
	"application/msword": "document",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "document",

	"application/vnd.ms-excel": "spreadsheet",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": "spreadsheet",

	"application/vnd.ms-powerpoint": "presentation",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "presentation",

	"application/zip":              "archive",
	"application/x-rar-compressed": "archive",
	"application/x-tar":            "archive",
	"application/gzip":             "archive",

	"text/plain":             "code",
	"application/json":       "code",
	"text/html":              "code",
	"text/css":               "code",
	"application/javascript": "code",
}

var extensionCategories = map[string]string{
	".jpg": "image", ".jpeg": "image", ".png": "image", ".gif": "image",
	".webp": "image", ".svg": "image",

	".mp4": "video", ".mpeg": "video", ".mov": "video", ".webm": "video",
	".avi": "video", ".mkv": "video",

	".mp3": "audio", ".m4a": "audio", ".ogg": "audio", ".wav": "audio",
	".flac": "audio",

	".pdf": "document", ".doc": "document", ".docx": "document",
	".txt": "document", ".rtf": "document",

	".xls": "spreadsheet", ".xlsx": "spreadsheet", ".csv": "spreadsheet",

	".ppt": "presentation", ".pptx": "presentation",

	".zip": "archive", ".rar": "archive", ".tar": "archive",
	".gz": "archive", ".7z": "archive",

	".py": "code", ".js": "code", ".html": "code", ".css": "code",
	".json": "code", ".xml": "code", ".java": "code", ".c": "code",
	".cpp": "code",
}

// Classify maps (file name, declared MIME type) to a category tag.
// MIME type wins over extension; anything unknown is "other".
func Classify(fileName string, mimeType string) string {
	if category, ok := mimeCategories[mimeType]; ok {
		return category
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if category, ok := extensionCategories[ext]; ok {
		return category
	}
	return CategoryOther
}
