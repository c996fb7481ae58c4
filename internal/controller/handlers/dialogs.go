package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/tuition_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tuition_scheduler/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/tuition_scheduler/internal/controller/state"
	"github.com/Freeeeeet/tuition_scheduler/internal/errs"
	"github.com/Freeeeeet/tuition_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	h.logger.Debug("HandleTextMessage called",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	switch currentState {
	case state.StateAddMakeupDate:
		h.handleMakeupDateInput(ctx, b, update)
	case state.StateMoveLessonDate:
		h.handleMoveDateInput(ctx, b, update)
	default:
		// Если нет активного состояния, игнорируем
	}
}

func (h *Handlers) handleMakeupDateInput(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	packageID, ok := h.stateManager.GetInt64(telegramID, state.KeyPackageID)
	h.stateManager.ClearState(telegramID)
	if !ok {
		h.reply(ctx, b, update, common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	h.addMakeup(ctx, b, update, packageID, update.Message.Text)
}

func (h *Handlers) handleMoveDateInput(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	date, err := formatting.ParseDate(update.Message.Text)
	if err != nil {
		// состояние сохраняем, чтобы оператор мог прислать дату ещё раз
		h.replyError(ctx, b, update, "move_lesson", errs.NewValidationError("date", "use 2024-01-18 or 18.01.2024"))
		return
	}

	lessonID, ok := h.stateManager.GetInt64(telegramID, state.KeyLessonID)
	h.stateManager.ClearState(telegramID)
	if !ok {
		h.reply(ctx, b, update, common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	lesson, err := h.schedules.EditLesson(ctx, lessonID, service.LessonPatch{Date: &date})
	if err != nil {
		h.replyError(ctx, b, update, "move_lesson", err)
		return
	}

	pkg, err := h.schedules.GetPackage(ctx, lesson.PackageID)
	if err != nil {
		h.replyError(ctx, b, update, "move_lesson", err)
		return
	}

	text, kb := common.BuildPackageScreen(pkg)
	h.replyWithKeyboard(ctx, b, update, "✅ Урок перенесён и закреплён\n\n"+text, kb)
}
