package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/tuition_scheduler/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *Handler) {
	data := callback.Data

	h.Logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	switch {
	case data == common.Noop:
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== Students & packages =====
	case strings.HasPrefix(data, common.ViewStudent):
		h.handleViewStudent(ctx, b, callback)
	case strings.HasPrefix(data, common.ViewPackage):
		h.handleViewPackage(ctx, b, callback)
	case strings.HasPrefix(data, common.AddPackage):
		h.handleAddPackage(ctx, b, callback)
	case strings.HasPrefix(data, common.TogglePayment):
		h.handleTogglePayment(ctx, b, callback)
	case strings.HasPrefix(data, common.ConfirmDeleteP):
		h.handleConfirmDeletePackage(ctx, b, callback)
	case strings.HasPrefix(data, common.DeletePackage):
		h.handleDeletePackage(ctx, b, callback)

	// ===== Regeneration: preview -> commit =====
	case strings.HasPrefix(data, common.RegenPreview):
		h.handleRegenPreview(ctx, b, callback)
	case strings.HasPrefix(data, common.RegenCommit):
		h.handleRegenCommit(ctx, b, callback)

	// ===== Chunks =====
	case strings.HasPrefix(data, common.ChunksPreview):
		h.handleChunksPreview(ctx, b, callback, false)
	case strings.HasPrefix(data, common.ChunksExtend):
		h.handleChunksPreview(ctx, b, callback, true)
	case strings.HasPrefix(data, common.ChunkCommit):
		h.handleChunkCommit(ctx, b, callback)

	// ===== Lessons =====
	case strings.HasPrefix(data, common.PinLesson):
		h.handlePinLesson(ctx, b, callback)
	case strings.HasPrefix(data, common.MoveLesson):
		h.handleMoveLesson(ctx, b, callback)
	case strings.HasPrefix(data, common.MarkAttended):
		h.handleMarkAttended(ctx, b, callback)
	case strings.HasPrefix(data, common.AddMakeup):
		h.handleAddMakeup(ctx, b, callback)
	case strings.HasPrefix(data, common.DeleteMakeup):
		h.handleDeleteMakeup(ctx, b, callback)

	// ===== Closures & export =====
	case strings.HasPrefix(data, common.DeleteClosure):
		h.handleDeleteClosure(ctx, b, callback)
	case strings.HasPrefix(data, common.ExportSize):
		h.handleExport(ctx, b, callback)

	default:
		h.Logger.Warn("Unknown callback", zap.String("data", data))
		common.AnswerCallback(ctx, b, callback.ID, "Неизвестная команда")
	}
}
