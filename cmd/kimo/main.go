package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kimobot/backend/internal/chart"
	"github.com/kimobot/backend/internal/config"
	"github.com/kimobot/backend/internal/conversation"
	"github.com/kimobot/backend/internal/domain"
	"github.com/kimobot/backend/internal/engine"
	"github.com/kimobot/backend/internal/httpapi"
	"github.com/kimobot/backend/internal/nlp"
	"github.com/kimobot/backend/internal/repository"
	"github.com/kimobot/backend/internal/scheduler"
	"github.com/kimobot/backend/internal/transcribe"
	"github.com/kimobot/backend/internal/whatsapp"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	if err := domain.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	users := repository.NewUserRepository(db)
	configs := repository.NewDriverConfigRepository(db)
	fixedCosts := repository.NewFixedCostRepository(db)
	trips := repository.NewTripRepository(db)
	expenses := repository.NewExpenseRepository(db)
	summaries := repository.NewDailySummaryRepository(db)
	pendingTrips := repository.NewPendingTripRepository(db)

	breakeven := engine.NewCalculateBreakeven(configs, fixedCosts, summaries)
	weeklyProgress := engine.NewGetWeeklyProgress(users, summaries)
	evaluateTrip := engine.NewEvaluateTrip(configs, summaries)

	messenger := whatsapp.NewClient(cfg.WhatsAppBaseURL, cfg.WhatsAppInstance, cfg.WhatsAppAPIKey, log)

	convDeps := conversation.Deps{
		Sessions:  conversation.NewMemoryStore(),
		Messenger: messenger,
		Chart:     chart.NewBuilder(),

		Users:        users,
		Configs:      configs,
		FixedCosts:   fixedCosts,
		Trips:        trips,
		Expenses:     expenses,
		Summaries:    summaries,
		PendingTrips: pendingTrips,

		CreateUser:      engine.NewCreateUser(users),
		RegisterTrip:    engine.NewRegisterTrip(trips),
		RegisterExpense: engine.NewRegisterExpense(expenses),
		DailySummary:    engine.NewCalculateDailySummary(trips, expenses, summaries),
		Breakeven:       breakeven,
		SuggestedGoal:   engine.NewCalculateSuggestedGoal(configs, fixedCosts),
		EvaluateTrip:    evaluateTrip,
		Insights:        engine.NewGetInsights(configs, fixedCosts, trips, expenses),
		WeeklyProgress:  weeklyProgress,

		Log: log,
	}
	if cfg.GroqAPIKey != "" {
		convDeps.Transcriber = transcribe.NewGroqTranscriber(cfg.GroqAPIKey)
	}
	if cfg.GeminiAPIKey != "" {
		convDeps.Extractor = nlp.NewGeminiExtractor(cfg.GeminiAPIKey)
	}
	conv := conversation.NewService(convDeps)

	sched := scheduler.New(log, cfg.Timezone)
	jobs := []scheduler.Entry{
		{Spec: scheduler.SpecDailyGreeting, Job: scheduler.NewDailyGreetingJob(users, summaries, breakeven, messenger, log)},
		{Spec: scheduler.SpecWeeklySummary, Job: scheduler.NewWeeklySummaryJob(users, weeklyProgress, messenger, log)},
		{Spec: scheduler.SpecRegistrationReminder, Job: scheduler.NewRegistrationReminderJob(users, summaries, messenger, log)},
		{Spec: scheduler.SpecPendingTripReminder, Job: scheduler.NewPendingTripReminderJob(users, pendingTrips, messenger, log)},
	}
	for _, entry := range jobs {
		if err := sched.Register(entry); err != nil {
			log.WithError(err).WithField("job", entry.Job.Name()).Fatal("failed to register job")
		}
	}
	sched.Start()

	router := httpapi.NewRouter(httpapi.Deps{
		Conversation: conv,
		EvaluateTrip: evaluateTrip,
		Users:        users,
		Configs:      configs,
		Log:          log,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
	log.Info("bye")
}
