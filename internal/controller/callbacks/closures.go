package callbacks

import (
	"context"
	"strconv"
	"strings"

	"github.com/Freeeeeet/tuition_scheduler/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func (h *Handler) handleDeleteClosure(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	closureID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		h.fail(ctx, b, callback, "delete_closure", err)
		return
	}

	if err := h.Closures.Delete(ctx, closureID); err != nil {
		h.fail(ctx, b, callback, "delete_closure", err)
		return
	}

	closures, err := h.Closures.List(ctx)
	if err != nil {
		h.fail(ctx, b, callback, "delete_closure", err)
		return
	}

	text, kb := common.BuildClosuresScreen(closures)
	common.EditOrSend(ctx, b, chatID(callback), common.GetMessageFromCallback(callback), text, kb)
	common.AnswerCallback(ctx, b, callback.ID, "🗑 Закрытие удалено")
}

func (h *Handler) handleExport(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	size, err := strconv.Atoi(strings.TrimPrefix(callback.Data, common.ExportSize))
	if err != nil {
		h.fail(ctx, b, callback, "export", common.ErrInvalidFormat)
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "📊 Готовлю файл...")
	if err := common.SendDashboard(ctx, b, chatID(callback), h.Schedules, size); err != nil {
		h.fail(ctx, b, callback, "export", err)
	}
}
