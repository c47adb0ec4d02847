package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentry "github.com/getsentry/sentry-go"
	telego "github.com/mymmrac/telego"

	appBot "promobot/bot"
	"promobot/internal/auth"
	"promobot/internal/config"
	"promobot/internal/database"
	"promobot/internal/handlers"
	"promobot/internal/leads"
	"promobot/internal/locales"
	"promobot/internal/posting"
	"promobot/internal/scheduler"
	"promobot/internal/sessions"
	"promobot/internal/settings"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	locales.Init(cfg.DefaultLanguage)

	err = sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		Release:          cfg.Version,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
		Debug:            cfg.Debug,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := database.ConnectDB(ctx, cfg)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}
	defer func() {
		if err = client.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
			sentry.CaptureException(err)
		} else {
			log.Println("Disconnected from MongoDB.")
		}
	}()

	if err = database.EnsureIndexes(ctx, db); err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	contentRepo := database.NewMongoContentRepository(db)
	scheduleRepo := database.NewMongoScheduleRepository(db)
	leadRepo := database.NewMongoLeadRepository(db)
	postLogRepo := database.NewMongoPostLogRepository(db)
	settingsRepo := database.NewMongoSettingsRepository(db)
	adminRepo := database.NewMongoAdminRepository(db)
	userRepo := database.NewMongoUserRepository(db)

	var tgBot *telego.Bot
	if cfg.Debug {
		tgBot, err = telego.NewBot(cfg.BotToken, telego.WithDefaultDebugLogger())
	} else {
		tgBot, err = telego.NewBot(cfg.BotToken, telego.WithDefaultLogger(false, false))
	}
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to create telego bot: %v", err)
	}

	me, err := tgBot.GetMe(ctx)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to get bot identity: %v", err)
	}
	log.Printf("Authorized as @%s", me.Username)

	authChecker, err := auth.NewChecker(cfg.OwnerIDs, adminRepo)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}

	settingsStore := settings.NewStore(settingsRepo)

	defaultLocalizer := locales.NewLocalizer(locales.GetDefaultLanguageTag().String())
	contactText := locales.GetMessage(defaultLocalizer, "BtnContact", nil)

	publisher, err := posting.NewTelegramPublisher(tgBot, me.Username, contactText)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}

	dispatcher, err := posting.NewDispatcher(settingsStore, scheduleRepo, contentRepo, postLogRepo, publisher)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}

	runner, err := scheduler.NewRunner(dispatcher, cfg.SchedulerTimezone)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}
	if err = runner.Sync(ctx, scheduleRepo); err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to sync schedules: %v", err)
	}
	runner.Start()
	defer runner.Stop()

	notifier := handlers.NewLeadNotifier(tgBot)
	leadService, err := leads.NewService(leadRepo, userRepo, settingsStore, notifier, cfg.LeadRateLimit, cfg.LeadRateWindow)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}

	sessionStore := sessions.NewStore(sessions.DefaultTTL)

	messageHandler := handlers.NewMessageHandler(handlers.Deps{
		Bot:         tgBot,
		AuthChecker: authChecker,
		ContentRepo: contentRepo,
		Schedules:   scheduleRepo,
		AdminRepo:   adminRepo,
		PostLog:     postLogRepo,
		Settings:    settingsStore,
		Dispatcher:  dispatcher,
		LeadService: leadService,
		Sessions:    sessionStore,
		Runner:      runner,
	})

	if err = messageHandler.SetupCommands(ctx); err != nil {
		log.Printf("Failed to set bot commands: %v", err)
		sentry.CaptureException(err)
	}

	updates, err := tgBot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to start long polling: %v", err)
	}

	b, err := appBot.New(appBot.Deps{
		UpdatesChan: updates,
		Handler:     messageHandler,
		Debug:       cfg.Debug,
	})
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}

	go b.Start(ctx)

	<-ctx.Done()
	log.Println("Shutting down bot...")
	log.Println("Bot shutdown complete.")
}
