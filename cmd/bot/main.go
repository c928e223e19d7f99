package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"duty_rotation_bot/internal/app"
	"duty_rotation_bot/internal/domain/rotation"
	"duty_rotation_bot/internal/infra/config"
	idb "duty_rotation_bot/internal/infra/database"
	"duty_rotation_bot/internal/infra/logger"
	"duty_rotation_bot/internal/infra/scheduler"
	"duty_rotation_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Duty Rotation Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	mainLogger := logger.Get().WithField("component", "main")
	mainLogger.WithFields(logrus.Fields{
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
		"admin_id":    cfg.AdminTelegramID,
	}).Info("Configuration loaded")

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully")

	// Initialize Repositories
	staffRepo := idb.NewPostgresStaffRepository(db)
	rotationRepo := idb.NewPostgresRotationRepository(db)
	holidayRepo := idb.NewPostgresHolidayRepository(db)
	mainLogger.Info("Repositories initialized")

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := logger.Get().WithField("component", "telebot").WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(logrus.Fields{
					"message": c.Text(),
					"sender":  c.Sender().ID,
					"chat":    c.Chat().ID,
				})
			}
			entry.Error("Telegram handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}
	telegramClient := telegram.NewTelebotAdapter(bot)

	// Initialize Services
	adminService := app.NewAdminService(staffRepo, cfg.AdminTelegramID)
	rotationService := app.NewRotationServiceImpl(
		staffRepo,
		rotationRepo,
		holidayRepo,
		rotation.NewGenerator(nil),
		telegramClient,
		logger.Get().WithField("component", "rotation_service"),
		cfg.AnnounceChatID,
	)
	mainLogger.Info("Services initialized")

	// Initialize RotationScheduler
	rotScheduler := scheduler.NewRotationScheduler(
		rotationService,
		rotationRepo,
		logger.Get().WithField("component", "scheduler"),
		cfg.CronSpecRollover,
		cfg.CronSpecWeeklyDigest,
	)
	rotScheduler.Start()

	// Register Handlers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	telegram.RegisterAdminHandlers(ctx, bot, adminService, rotationService, cfg.AdminTelegramID, logger.Get().WithField("component", "admin_handlers"))
	telegram.RegisterBotCommands(ctx, bot, cfg, staffRepo, rotationRepo, logger.Get().WithField("component", "bot_commands"))
	mainLogger.Info("Command handlers registered")

	mainLogger.Info("Application setup complete. Bot and scheduler are starting...")

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	rotScheduler.Stop()
	bot.Stop()
	mainLogger.Info("Application shut down gracefully")
}
