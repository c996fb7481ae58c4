package callbacks

import (
	"context"

	"github.com/Freeeeeet/tuition_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tuition_scheduler/internal/controller/state"
	"github.com/Freeeeeet/tuition_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handler обрабатывает нажатия на inline кнопки
type Handler struct {
	Schedules  *service.ScheduleService
	Students   *service.StudentService
	Closures   *service.ClosureService
	State      *state.Manager
	IsOperator func(telegramID int64) bool
	Logger     *zap.Logger
}

// NewHandler создаёт обработчик callback запросов
func NewHandler(
	schedules *service.ScheduleService,
	students *service.StudentService,
	closures *service.ClosureService,
	stateManager *state.Manager,
	isOperator func(telegramID int64) bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Schedules:  schedules,
		Students:   students,
		Closures:   closures,
		State:      stateManager,
		IsOperator: isOperator,
		Logger:     logger,
	}
}

// HandleCallbackQuery точка входа для всех callback query
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	if !h.IsOperator(callback.From.ID) {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrNotOperator))
		return
	}

	Route(ctx, b, callback, h)
}

// fail логирует ошибку и показывает её оператору
func (h *Handler) fail(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, action string, err error) {
	h.Logger.Error("Callback failed",
		zap.String("action", action),
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
		zap.Error(err),
	)
	common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
}

func chatID(callback *models.CallbackQuery) int64 {
	if msg := common.GetMessageFromCallback(callback); msg != nil {
		return msg.Chat.ID
	}
	return callback.From.ID
}
