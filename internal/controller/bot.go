package controller

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tuition_scheduler/internal/controller/callbacks"
	"github.com/Freeeeeet/tuition_scheduler/internal/controller/handlers"
	"github.com/Freeeeeet/tuition_scheduler/internal/controller/state"
	"github.com/Freeeeeet/tuition_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	operatorIDs     []int64
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	schedules *service.ScheduleService,
	students *service.StudentService,
	closures *service.ClosureService,
	operatorIDs []int64,
	isOperator func(telegramID int64) bool,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний, общий для команд и callback
	stateManager := state.NewManager()

	cmdHandlers := handlers.NewHandlers(schedules, students, closures, stateManager, isOperator, logger)
	callbackHandler := callbacks.NewHandler(schedules, students, closures, stateManager, isOperator, logger)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		operatorIDs:     operatorIDs,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд.
// Команды сопоставляются по bot_command, поэтому /student не перехватывает /students.
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	h := c.handlers

	commands := map[string]bot.HandlerFunc{
		"start":         h.HandleStart,
		"help":          h.HandleHelp,
		"cancel":        h.HandleCancel,
		"students":      h.HandleStudents,
		"student":       h.HandleStudent,
		"addstudent":    h.HandleAddStudent,
		"editstudent":   h.HandleEditStudent,
		"deletestudent": h.HandleDeleteStudent,
		"package":       h.HandlePackage,
		"preview":       h.HandlePreview,
		"chunks":        h.HandleChunks,
		"addpackage":    h.HandleAddPackage,
		"paid":          h.HandlePaid,
		"unpaid":        h.HandleUnpaid,
		"makeup":        h.HandleMakeup,
		"stale":         h.HandleStale,
		"closures":      h.HandleClosures,
		"closure":       h.HandleAddClosure,
		"export":        h.HandleExport,
	}
	for name, fn := range commands {
		c.bot.RegisterHandler(bot.HandlerTypeMessageText, name, bot.MatchTypeCommand, h.OperatorOnly(fn))
	}

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// DefaultHandler получает сообщения без команды (ввод дат в диалогах)
func (c *BotController) DefaultHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	c.handlers.OperatorOnly(c.handlers.HandleTextMessage)(ctx, b, update)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "students", Description: "📋 Сетка учеников и пакетов"},
		{Command: "addstudent", Description: "➕ Добавить ученика"},
		{Command: "stale", Description: "🔄 Пакеты для пересчёта"},
		{Command: "closures", Description: "🏖 Праздники и закрытия"},
		{Command: "export", Description: "📊 Выгрузка в Excel"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "cancel", Description: "❌ Отменить ввод"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// NotifyStale отправляет операторам список пакетов, которым нужен пересчёт
func (c *BotController) NotifyStale(ctx context.Context, ids []int64) {
	if len(ids) == 0 {
		return
	}

	text, kb := handlers.BuildStaleScreen(ids)
	for _, chatID := range c.operatorIDs {
		_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        text,
			ReplyMarkup: kb,
		})
		if err != nil {
			c.logger.Error("Failed to notify operator",
				zap.Int64("chat_id", chatID),
				zap.Error(fmt.Errorf("send stale list: %w", err)))
		}
	}
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
