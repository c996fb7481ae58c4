package common

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Helper functions для всех callback handlers

// AnswerCallback отвечает на callback query (без alert)
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback извлекает сообщение из callback query
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// ParseIDFromCallback извлекает ID из callback data
// Например: "regen_preview:123" -> 123
func ParseIDFromCallback(data string) (int64, error) {
	ids, err := ParseIDsFromCallback(data, 1)
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// ParseIDsFromCallback извлекает n числовых параметров после префикса
// Например: "chunk_commit:5:1" -> [5, 1]
func ParseIDsFromCallback(data string, n int) ([]int64, error) {
	parts := strings.Split(data, ":")
	if len(parts) != n+1 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}

	ids := make([]int64, n)
	for i, p := range parts[1:] {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
		}
		ids[i] = id
	}
	return ids, nil
}

// EditOrSend редактирует сообщение с кнопками, а если его нет - отправляет новое
func EditOrSend(ctx context.Context, b *bot.Bot, chatID int64, msg *models.Message, text string, markup *models.InlineKeyboardMarkup) {
	if msg != nil {
		_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   msg.ID,
			Text:        text,
			ReplyMarkup: markup,
		})
		if err == nil {
			return
		}
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
}
