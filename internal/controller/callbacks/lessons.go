package callbacks

import (
	"context"

	"github.com/Freeeeeet/tuition_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tuition_scheduler/internal/controller/state"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
	"github.com/Freeeeeet/tuition_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// handlePinLesson переключает ручную фиксацию урока
func (h *Handler) handlePinLesson(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	lessonID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		h.fail(ctx, b, callback, "pin_lesson", err)
		return
	}

	lesson, err := h.Schedules.GetLesson(ctx, lessonID)
	if err != nil {
		h.fail(ctx, b, callback, "pin_lesson", err)
		return
	}

	pinned := !lesson.IsManualOverride
	if _, err := h.Schedules.EditLesson(ctx, lessonID, service.LessonPatch{IsManualOverride: &pinned}); err != nil {
		h.fail(ctx, b, callback, "pin_lesson", err)
		return
	}

	text := "🔓 Урок откреплён"
	if pinned {
		text = "📌 Урок закреплён"
	}
	common.AnswerCallback(ctx, b, callback.ID, text)
	h.showPackage(ctx, b, callback, lesson.PackageID)
}

// handleMoveLesson просит оператора прислать новую дату урока
func (h *Handler) handleMoveLesson(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	lessonID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		h.fail(ctx, b, callback, "move_lesson", err)
		return
	}

	h.State.SetState(callback.From.ID, state.StateMoveLessonDate)
	h.State.SetData(callback.From.ID, state.KeyLessonID, lessonID)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID(callback),
		Text:   "✏️ Пришлите новую дату урока (2024-01-18 или 18.01.2024).\nУрок будет закреплён.\n\n/cancel - отмена",
	})
	common.AnswerCallback(ctx, b, callback.ID, "")
}

func (h *Handler) handleMarkAttended(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	lessonID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		h.fail(ctx, b, callback, "mark_attended", err)
		return
	}

	status := model.LessonStatusAttended
	lesson, err := h.Schedules.EditLesson(ctx, lessonID, service.LessonPatch{Status: &status})
	if err != nil {
		h.fail(ctx, b, callback, "mark_attended", err)
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "✔️ Отмечено")
	h.showPackage(ctx, b, callback, lesson.PackageID)
}

// handleAddMakeup просит дату отработки
func (h *Handler) handleAddMakeup(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	packageID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		h.fail(ctx, b, callback, "add_makeup", err)
		return
	}

	h.State.SetState(callback.From.ID, state.StateAddMakeupDate)
	h.State.SetData(callback.From.ID, state.KeyPackageID, packageID)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID(callback),
		Text:   "↩️ Пришлите дату отработки (2024-01-13 или 13.01.2024)\n\n/cancel - отмена",
	})
	common.AnswerCallback(ctx, b, callback.ID, "")
}

func (h *Handler) handleDeleteMakeup(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	lessonID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		h.fail(ctx, b, callback, "delete_makeup", err)
		return
	}

	lesson, err := h.Schedules.GetLesson(ctx, lessonID)
	if err != nil {
		h.fail(ctx, b, callback, "delete_makeup", err)
		return
	}

	if err := h.Schedules.DeleteLesson(ctx, lessonID); err != nil {
		h.fail(ctx, b, callback, "delete_makeup", err)
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "🗑 Отработка удалена")
	h.showPackage(ctx, b, callback, lesson.PackageID)
}
