// Package telegram wraps the Bot API client shared by the HTTP handlers and
// the chat front end. Telegram is the actual byte store: the rest of the system
// only ever holds file_id handles.
package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbot "github.com/go-telegram/bot"
)

type Client struct {
	bot        *tgbot.Bot
	httpClient *http.Client
}

// NewClient builds the shared client. Extra options (e.g. the chat front end's
// default handler) are forwarded to the underlying bot.
func NewClient(token string, opts ...tgbot.Option) (*Client, error) {
	b, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("telegram: create bot: %w", err)
	}
	return &Client{
		bot: b,
		// No overall timeout: downloads legitimately run long. Cancellation
		// comes from the request context.
		httpClient: &http.Client{},
	}, nil
}

// Bot exposes the underlying bot for the long-poll runner.
func (c *Client) Bot() *tgbot.Bot {
	return c.bot
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := c.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("telegram: send message to %d: %w", chatID, err)
	}
	return nil
}

// OpenFileStream resolves a file handle and opens an HTTP stream of its bytes.
// The caller owns the returned body and must close it on every path; closing it
// (or cancelling ctx) releases the upstream connection.
func (c *Client) OpenFileStream(ctx context.Context, fileID string) (io.ReadCloser, int64, error) {
	file, err := c.bot.GetFile(ctx, &tgbot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, 0, fmt.Errorf("telegram: get file %s: %w", fileID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.bot.FileDownloadLink(file), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("telegram: build download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("telegram: download file %s: %w", fileID, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("telegram: download file %s: unexpected status %d", fileID, resp.StatusCode)
	}
	return resp.Body, resp.ContentLength, nil
}

// CheckFile verifies that a stored handle still resolves on the platform.
// Used by the reconciliation pass.
func (c *Client) CheckFile(ctx context.Context, fileID string) error {
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := c.bot.GetFile(checkCtx, &tgbot.GetFileParams{FileID: fileID})
	if err != nil {
		return fmt.Errorf("telegram: file %s unresolvable: %w", fileID, err)
	}
	return nil
}
