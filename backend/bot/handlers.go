package bot

import (
	"context"
	"fmt"
	"strings"

	"abrino-storage/backend/model"
	"abrino-storage/backend/service"
)

const listPageSize = 10

const helpText = `Here is what I can do:

/files [category] - list your stored files
/categories - show the categories you have files in
/search <term> - find files by name
/recent - show your most recently uploaded files
/help - show this message

Send me any document, photo, audio, video or voice message and I will store it for you.`

func (d *Dispatcher) handleStart(ctx context.Context, user *model.User, _ string, reply replyFunc) error {
	return reply(ctx, fmt.Sprintf("Welcome back, %s! Send me a file to store it, or type /help for the command list.", user.DisplayName))
}

func (d *Dispatcher) handleHelp(ctx context.Context, _ *model.User, _ string, reply replyFunc) error {
	return reply(ctx, helpText)
}

func (d *Dispatcher) handleFiles(ctx context.Context, user *model.User, args string, reply replyFunc) error {
	category := "all"
	if args != "" {
		category = strings.ToLower(args)
	}
	files, err := service.ListFiles(user.ID, category, "", 0, listPageSize)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		if category == "all" {
			return reply(ctx, "You have no stored files yet. Send me one to get started!")
		}
		return reply(ctx, fmt.Sprintf("You have no files in the %q category.", category))
	}
	header := "Your files:"
	if category != "all" {
		header = fmt.Sprintf("Your %s files:", category)
	}
	return reply(ctx, formatFileList(header, files))
}

func (d *Dispatcher) handleCategories(ctx context.Context, user *model.User, _ string, reply replyFunc) error {
	categories, err := service.ListCategories(user.ID)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		return reply(ctx, "You have no stored files yet. Send me one to get started!")
	}
	var sb strings.Builder
	sb.WriteString("Your categories:\n")
	for _, c := range categories {
		sb.WriteString("\n- " + c)
	}
	sb.WriteString("\n\nUse /files <category> to list the files in one of them.")
	return reply(ctx, sb.String())
}

func (d *Dispatcher) handleSearch(ctx context.Context, user *model.User, args string, reply replyFunc) error {
	if args == "" {
		return reply(ctx, "Usage: /search <term>")
	}
	files, err := service.ListFiles(user.ID, "all", args, 0, listPageSize)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return reply(ctx, fmt.Sprintf("No files matching %q.", args))
	}
	return reply(ctx, formatFileList(fmt.Sprintf("Files matching %q:", args), files))
}

func (d *Dispatcher) handleRecent(ctx context.Context, user *model.User, _ string, reply replyFunc) error {
	files, err := service.ListFiles(user.ID, "all", "", 0, listPageSize)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return reply(ctx, "You have no stored files yet. Send me one to get started!")
	}
	return reply(ctx, formatFileList("Your most recent files:", files))
}

func formatFileList(header string, files []*model.File) string {
	var sb strings.Builder
	sb.WriteString(header)
	for i, f := range files {
		sb.WriteString(fmt.Sprintf("\n\n%d. %s\n   %s, %s", i+1, f.Name, f.Category, formatSize(f.Size)))
	}
	return sb.String()
}

func formatSize(size int64) string {
	return fmt.Sprintf("%.2f MB", float64(size)/(1024*1024))
}
