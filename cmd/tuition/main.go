package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/tuition_scheduler/internal/app"
	"github.com/Freeeeeet/tuition_scheduler/internal/config"
	"github.com/Freeeeeet/tuition_scheduler/internal/controller"
	"github.com/Freeeeeet/tuition_scheduler/internal/grid"
	"github.com/Freeeeeet/tuition_scheduler/internal/repository"
	"github.com/Freeeeeet/tuition_scheduler/internal/schedule"
	"github.com/Freeeeeet/tuition_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting tuition scheduler",
		zap.String("environment", cfg.Environment),
		zap.Int("horizon_days", cfg.HorizonDays),
		zap.Int("operators", len(cfg.OperatorIDs)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	// Redis необязателен: без него закрытия читаются напрямую из БД
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unavailable, closure cache disabled", zap.Error(err))
			_ = rdb.Close()
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	students := repository.NewStudentRepository(pool)
	packages := repository.NewPackageRepository(pool, logger)
	lessons := repository.NewLessonRepository(pool, logger)
	closureRepo := repository.NewCachedClosureRepository(repository.NewClosureRepository(pool), rdb, logger)

	projector, err := grid.NewProjectorForLocale(cfg.GridLocale)
	if err != nil {
		logger.Fatal("Invalid grid locale", zap.Error(err))
	}
	generator := schedule.NewGenerator(cfg.HorizonDays)

	closureService := service.NewClosureService(closureRepo, logger)
	studentService := service.NewStudentService(students, packages, lessons, closureService, generator, logger)
	scheduleService := service.NewScheduleService(students, packages, lessons, closureService, generator, projector, logger)

	// Контроллер создаётся после бота, а обработчик по умолчанию нужен уже в bot.New
	var ctrl *controller.BotController
	b, err := bot.New(cfg.TelegramToken, bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		ctrl.DefaultHandler(ctx, b, update)
	}))
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	ctrl = controller.NewBotController(b, scheduleService, studentService, closureService,
		cfg.OperatorIDs, cfg.IsOperator, logger)
	if err := ctrl.RegisterHandlers(ctx); err != nil {
		logger.Warn("Failed to register bot commands menu", zap.Error(err))
	}

	scheduler := app.NewScheduler(scheduleService, ctrl.NotifyStale, cfg.StaleCheckInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	if err := ctrl.Start(ctx); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}
	logger.Info("Shutdown complete")
}
