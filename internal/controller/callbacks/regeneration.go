package callbacks

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tuition_scheduler/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// handleRegenPreview показывает пересчитанные даты без сохранения
func (h *Handler) handleRegenPreview(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	packageID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		h.fail(ctx, b, callback, "regen_preview", err)
		return
	}

	preview, err := h.Schedules.PreviewRegeneration(ctx, packageID)
	if err != nil {
		h.fail(ctx, b, callback, "regen_preview", err)
		return
	}

	text, kb := common.BuildPreviewScreen(preview)
	common.EditOrSend(ctx, b, chatID(callback), common.GetMessageFromCallback(callback), text, kb)
	common.AnswerCallback(ctx, b, callback.ID, "")
}

// handleRegenCommit применяет пересчёт. Пока коммит идёт, повторные нажатия отклоняются
func (h *Handler) handleRegenCommit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	packageID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		h.fail(ctx, b, callback, "regen_commit", err)
		return
	}

	if !h.State.TryBeginCommit(packageID, callback.From.ID) {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrCommitRunning))
		return
	}
	defer h.State.EndCommit(packageID)

	cs, err := h.Schedules.CommitRegeneration(ctx, packageID)
	if err != nil {
		h.fail(ctx, b, callback, "regen_commit", err)
		return
	}

	h.Logger.Info("Regeneration committed from bot",
		zap.Int64("package_id", packageID),
		zap.String("changeset_id", cs.ID.String()),
		zap.Int64("operator_id", callback.From.ID),
	)

	common.AnswerCallback(ctx, b, callback.ID, fmt.Sprintf("✅ Обновлено уроков: %d", len(cs.Rows)))
	h.showPackage(ctx, b, callback, packageID)
}
