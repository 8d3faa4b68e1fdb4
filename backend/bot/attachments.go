package bot

import (
	"context"
	"fmt"
	"time"

	"abrino-storage/backend/service"

	"github.com/go-telegram/bot/models"
)

// incoming is the attachment metadata common to every kind Telegram sends.
type incoming struct {
	name     string
	fileID   string
	size     int64
	mimeType string
}

func (d *Dispatcher) handleDocument(ctx context.Context, msg *models.Message, reply replyFunc) error {
	doc := msg.Document
	name := doc.FileName
	if name == "" {
		name = "document_" + timestamp()
	}
	return d.saveAttachment(ctx, msg, incoming{
		name:     name,
		fileID:   doc.FileID,
		size:     doc.FileSize,
		mimeType: doc.MimeType,
	}, reply)
}

func (d *Dispatcher) handlePhoto(ctx context.Context, msg *models.Message, reply replyFunc) error {
	// Telegram sends several resolutions; the last entry is the largest.
	photo := msg.Photo[len(msg.Photo)-1]
	return d.saveAttachment(ctx, msg, incoming{
		name:     "photo_" + timestamp() + ".jpg",
		fileID:   photo.FileID,
		size:     int64(photo.FileSize),
		mimeType: "image/jpeg",
	}, reply)
}

func (d *Dispatcher) handleAudio(ctx context.Context, msg *models.Message, reply replyFunc) error {
	audio := msg.Audio
	name := audio.FileName
	if name == "" {
		name = "audio_" + timestamp() + ".mp3"
	}
	return d.saveAttachment(ctx, msg, incoming{
		name:     name,
		fileID:   audio.FileID,
		size:     audio.FileSize,
		mimeType: audio.MimeType,
	}, reply)
}

func (d *Dispatcher) handleVideo(ctx context.Context, msg *models.Message, reply replyFunc) error {
	video := msg.Video
	name := video.FileName
	if name == "" {
		name = "video_" + timestamp() + ".mp4"
	}
	return d.saveAttachment(ctx, msg, incoming{
		name:     name,
		fileID:   video.FileID,
		size:     video.FileSize,
		mimeType: video.MimeType,
	}, reply)
}

func (d *Dispatcher) handleVoice(ctx context.Context, msg *models.Message, reply replyFunc) error {
	voice := msg.Voice
	mimeType := voice.MimeType
	if mimeType == "" {
		mimeType = "audio/ogg"
	}
	return d.saveAttachment(ctx, msg, incoming{
		name:     "voice_" + timestamp() + ".ogg",
		fileID:   voice.FileID,
		size:     voice.FileSize,
		mimeType: mimeType,
	}, reply)
}

// saveAttachment provisions the sender on first contact, records the file and
// confirms with its name, detected category and size.
func (d *Dispatcher) saveAttachment(ctx context.Context, msg *models.Message, in incoming, reply replyFunc) error {
	user, err := resolveOrProvision(msg.From.ID)
	if err != nil {
		return err
	}
	file, err := service.StoreFile(user.ID, in.name, in.fileID, in.size, in.mimeType, "")
	if err != nil {
		return err
	}
	return reply(ctx, fmt.Sprintf("Saved %s\nCategory: %s\nSize: %s", file.Name, file.Category, formatSize(file.Size)))
}

func timestamp() string {
	return time.Now().Format("20060102_150405")
}
