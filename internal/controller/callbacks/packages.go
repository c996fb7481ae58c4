package callbacks

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tuition_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tuition_scheduler/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func (h *Handler) handleViewStudent(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	studentID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		h.fail(ctx, b, callback, "view_student", err)
		return
	}
	h.showStudent(ctx, b, callback, studentID)
	common.AnswerCallback(ctx, b, callback.ID, "")
}

func (h *Handler) handleViewPackage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	packageID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		h.fail(ctx, b, callback, "view_package", err)
		return
	}
	h.showPackage(ctx, b, callback, packageID)
	common.AnswerCallback(ctx, b, callback.ID, "")
}

func (h *Handler) handleAddPackage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	studentID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		h.fail(ctx, b, callback, "add_package", err)
		return
	}

	if !h.State.TryBeginStudentCommit(studentID, callback.From.ID) {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrCommitRunning))
		return
	}
	defer h.State.EndStudentCommit(studentID)

	pkg, err := h.Schedules.AddPackage(ctx, studentID)
	if err != nil {
		h.fail(ctx, b, callback, "add_package", err)
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, fmt.Sprintf("✅ Пакет #%d создан", pkg.ID))
	h.showStudent(ctx, b, callback, studentID)
}

func (h *Handler) handleTogglePayment(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	packageID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		h.fail(ctx, b, callback, "toggle_payment", err)
		return
	}

	pkg, err := h.Schedules.GetPackage(ctx, packageID)
	if err != nil {
		h.fail(ctx, b, callback, "toggle_payment", err)
		return
	}

	paid := !pkg.PaymentStatus
	if err := h.Schedules.SetPaymentStatus(ctx, packageID, paid); err != nil {
		h.fail(ctx, b, callback, "toggle_payment", err)
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "✅ Сохранено")
	h.showPackage(ctx, b, callback, packageID)
}

func (h *Handler) handleDeletePackage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	packageID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		h.fail(ctx, b, callback, "delete_package", err)
		return
	}

	kb := keyboard.NewBuilder().
		Row(
			keyboard.IDButton("🗑 Да, удалить", common.ConfirmDeleteP, packageID),
			keyboard.IDButton("⬅️ Отмена", common.ViewPackage, packageID),
		).
		Build()

	common.EditOrSend(ctx, b, chatID(callback), common.GetMessageFromCallback(callback),
		fmt.Sprintf("Удалить пакет #%d вместе со всеми уроками?", packageID), kb)
	common.AnswerCallback(ctx, b, callback.ID, "")
}

func (h *Handler) handleConfirmDeletePackage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	packageID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		h.fail(ctx, b, callback, "delete_package", err)
		return
	}

	if err := h.Schedules.DeletePackage(ctx, packageID); err != nil {
		h.fail(ctx, b, callback, "delete_package", err)
		return
	}

	common.EditOrSend(ctx, b, chatID(callback), common.GetMessageFromCallback(callback),
		fmt.Sprintf("🗑 Пакет #%d удалён", packageID), keyboard.Empty())
	common.AnswerCallback(ctx, b, callback.ID, "")
}

func (h *Handler) showStudent(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, studentID int64) {
	student, err := h.Students.Get(ctx, studentID)
	if err != nil {
		h.fail(ctx, b, callback, "view_student", err)
		return
	}

	text, kb := common.BuildStudentScreen(student)
	common.EditOrSend(ctx, b, chatID(callback), common.GetMessageFromCallback(callback), text, kb)
}

func (h *Handler) showPackage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, packageID int64) {
	pkg, err := h.Schedules.GetPackage(ctx, packageID)
	if err != nil {
		h.fail(ctx, b, callback, "view_package", err)
		return
	}

	text, kb := common.BuildPackageScreen(pkg)
	common.EditOrSend(ctx, b, chatID(callback), common.GetMessageFromCallback(callback), text, kb)
}
