package bot

import (
	"context"
	"fmt"
	"os"
	"testing"

	"abrino-storage/backend/common"
	"abrino-storage/backend/model"
	"abrino-storage/backend/service"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	common.SQLitePath = ":memory:"
	common.RedisEnabled = false
	if err := model.InitDB(); err != nil {
		fmt.Println("failed to initialize database: " + err.Error())
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// recorder collects everything a handler replied with.
type recorder struct {
	replies []string
}

func (r *recorder) reply(_ context.Context, text string) error {
	r.replies = append(r.replies, text)
	return nil
}

func messageFrom(telegramID int64, text string) *models.Message {
	return &models.Message{
		Text: text,
		From: &models.User{ID: telegramID},
		Chat: models.Chat{ID: telegramID},
	}
}

func TestStartProvisionsChatOnlyAccount(t *testing.T) {
	d := NewDispatcher()
	rec := &recorder{}

	d.dispatch(context.Background(), messageFrom(5001, "/start"), rec.reply)
	require.Len(t, rec.replies, 1)
	assert.Contains(t, rec.replies[0], "Send me any file")

	// Sending a document registers the sender on first contact.
	doc := messageFrom(5001, "")
	doc.Document = &models.Document{
		FileID:   "tg-doc-5001",
		FileName: "notes.txt",
		MimeType: "text/plain",
		FileSize: 128,
	}
	d.dispatch(context.Background(), doc, rec.reply)
	require.Len(t, rec.replies, 2)
	assert.Contains(t, rec.replies[1], "Saved notes.txt")
	assert.Contains(t, rec.replies[1], "Category: code")

	user, err := model.GetUserByTelegramID(5001)
	require.NoError(t, err)

	// A second /start greets the existing account instead of re-registering.
	d.dispatch(context.Background(), messageFrom(5001, "/start"), rec.reply)
	require.Len(t, rec.replies, 3)
	assert.Contains(t, rec.replies[2], "Welcome back")

	files, err := service.ListFiles(user.ID, "all", "", 0, 10)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "notes.txt", files[0].Name)
}

func TestCommandsRequireRegistration(t *testing.T) {
	d := NewDispatcher()
	rec := &recorder{}

	d.dispatch(context.Background(), messageFrom(5002, "/files"), rec.reply)
	require.Len(t, rec.replies, 1)
	assert.Equal(t, "Please use /start to register first.", rec.replies[0])
}

func TestFilesAndSearchListing(t *testing.T) {
	user, err := model.RegisterTelegramUser(5003)
	require.NoError(t, err)
	_, err = service.StoreFile(user.ID, "report.pdf", "tg-5003-a", 2*1024*1024, "application/pdf", "")
	require.NoError(t, err)
	_, err = service.StoreFile(user.ID, "beach.png", "tg-5003-b", 512, "image/png", "")
	require.NoError(t, err)

	d := NewDispatcher()
	rec := &recorder{}

	d.dispatch(context.Background(), messageFrom(5003, "/files document"), rec.reply)
	require.Len(t, rec.replies, 1)
	assert.Contains(t, rec.replies[0], "report.pdf")
	assert.NotContains(t, rec.replies[0], "beach.png")
	assert.Contains(t, rec.replies[0], "2.00 MB")

	d.dispatch(context.Background(), messageFrom(5003, "/search beach"), rec.reply)
	require.Len(t, rec.replies, 2)
	assert.Contains(t, rec.replies[1], "beach.png")
	assert.NotContains(t, rec.replies[1], "report.pdf")

	d.dispatch(context.Background(), messageFrom(5003, "/categories"), rec.reply)
	require.Len(t, rec.replies, 3)
	assert.Contains(t, rec.replies[2], "document")
	assert.Contains(t, rec.replies[2], "image")
}

func TestUnknownCommand(t *testing.T) {
	d := NewDispatcher()
	rec := &recorder{}

	d.dispatch(context.Background(), messageFrom(5004, "/bogus"), rec.reply)
	require.Len(t, rec.replies, 1)
	assert.Contains(t, rec.replies[0], "Unknown command")
}

func TestSplitCommand(t *testing.T) {
	name, args := splitCommand("/files docs old")
	assert.Equal(t, "/files", name)
	assert.Equal(t, "docs old", args)

	name, args = splitCommand("/start@abrino_storage_bot")
	assert.Equal(t, "/start", name)
	assert.Equal(t, "", args)
}
