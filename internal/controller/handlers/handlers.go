package handlers

import (
	"context"

	"github.com/Freeeeeet/tuition_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tuition_scheduler/internal/controller/state"
	"github.com/Freeeeeet/tuition_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handlers обрабатывает команды и текстовые сообщения операторов
type Handlers struct {
	schedules    *service.ScheduleService
	students     *service.StudentService
	closures     *service.ClosureService
	stateManager *state.Manager
	isOperator   func(telegramID int64) bool
	logger       *zap.Logger
}

func NewHandlers(
	schedules *service.ScheduleService,
	students *service.StudentService,
	closures *service.ClosureService,
	stateManager *state.Manager,
	isOperator func(telegramID int64) bool,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		schedules:    schedules,
		students:     students,
		closures:     closures,
		stateManager: stateManager,
		isOperator:   isOperator,
		logger:       logger,
	}
}

// OperatorOnly пропускает к обработчику только операторов
func (h *Handlers) OperatorOnly(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		if !h.isOperator(update.Message.From.ID) {
			h.reply(ctx, b, update, common.ErrorMessage(common.ErrNotOperator))
			return
		}
		next(ctx, b, update)
	}
}

func (h *Handlers) reply(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   text,
	})
}

func (h *Handlers) replyWithKeyboard(ctx context.Context, b *bot.Bot, update *models.Update, text string, markup *models.InlineKeyboardMarkup) {
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        text,
		ReplyMarkup: markup,
	})
}

func (h *Handlers) replyError(ctx context.Context, b *bot.Bot, update *models.Update, command string, err error) {
	h.logger.Error("Command failed",
		zap.String("command", command),
		zap.Int64("telegram_id", update.Message.From.ID),
		zap.Error(err),
	)
	h.reply(ctx, b, update, common.ErrorMessage(err))
}
