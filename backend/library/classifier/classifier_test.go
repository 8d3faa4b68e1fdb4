package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_KnownMimeType(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		want     string
	}{
		{"photo.jpg", "image/jpeg", "image"},
		{"clip.mov", "video/quicktime", "video"},
		{"song.mp3", "audio/mpeg", "audio"},
		{"report.pdf", "application/pdf", "document"},
		{"sheet.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "spreadsheet"},
		{"deck.pptx", "application/vnd.openxmlformats-officedocument.presentationml.presentation", "presentation"},
		{"bundle.zip", "application/zip", "archive"},
		{"data.json", "application/json", "code"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.name, tt.mimeType), tt.name)
	}
}

func TestClassify_MimeTypeWinsOverExtension(t *testing.T) {
	// The declared MIME type takes priority regardless of the name.
	assert.Equal(t, "image", Classify("archive.zip", "image/png"))
	assert.Equal(t, "document", Classify("movie.mp4", "application/pdf"))
}

func TestClassify_ExtensionFallback(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"photo.PNG", "image"},
		{"clip.MKV", "video"},
		{"track.flac", "audio"},
		{"notes.txt", "document"},
		{"numbers.csv", "spreadsheet"},
		{"slides.ppt", "presentation"},
		{"backup.7z", "archive"},
		{"main.cpp", "code"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.name, "application/octet-stream"), tt.name)
		assert.Equal(t, tt.want, Classify(tt.name, ""), tt.name)
	}
}

func TestClassify_Other(t *testing.T) {
	assert.Equal(t, CategoryOther, Classify("mystery.bin", "application/octet-stream"))
	assert.Equal(t, CategoryOther, Classify("noextension", ""))
	assert.Equal(t, CategoryOther, Classify("", ""))
}
