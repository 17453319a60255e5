package main

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"github.com/manoj0277/agrirent-backend/config"
	"github.com/manoj0277/agrirent-backend/cron"
	"github.com/manoj0277/agrirent-backend/database"
	bookingRepo "github.com/manoj0277/agrirent-backend/database/repository/booking"
	itemRepo "github.com/manoj0277/agrirent-backend/database/repository/item"
	ledgerRepo "github.com/manoj0277/agrirent-backend/database/repository/ledger"
	partyRepo "github.com/manoj0277/agrirent-backend/database/repository/party"
	"github.com/manoj0277/agrirent-backend/handlers"
	"github.com/manoj0277/agrirent-backend/middleware"
	"github.com/manoj0277/agrirent-backend/models"
	"github.com/manoj0277/agrirent-backend/routes"
	"github.com/manoj0277/agrirent-backend/services/booking"
	"github.com/manoj0277/agrirent-backend/services/notification"
	"github.com/manoj0277/agrirent-backend/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	items := itemRepo.NewMongoItemRepo()
	ledger := ledgerRepo.NewMongoLedger()
	parties := partyRepo.NewMongoPartyRepo()

	// Notification emitter: FCM when credentials are configured, otherwise
	// log-only delivery.
	var notifier notification.Service
	if config.AppConfig.FirebaseCredentialsFile != "" {
		fcm, err := notification.NewFCMService(context.Background(), config.AppConfig.FirebaseCredentialsFile, parties)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize FCM notifier: %v", err)
		}
		notifier = fcm
	} else {
		notifier = &notification.LogService{Logger: logger}
	}

	lifecycle := &booking.DefaultLifecycleService{
		Bookings: bookings,
		Items:    items,
		Ledger:   ledger,
		Payments: booking.NewSimulatedPaymentProcessor(logger, config.AppConfig.Currency),
		Notifier: notifier,
		Logger:   logger,
	}

	// Reminder worker and daily scan.
	cron.InitReminderWorker(notifier)
	asynqClient := asynq.NewClient(cron.RedisClientOpt())
	defer asynqClient.Close()

	scheduler := &cron.ReminderScheduler{
		Bookings:  bookings,
		Lifecycle: lifecycle,
		Cache:     utils.GetCacheClient(),
		Logger:    logger,
		Enqueue: func(payload models.ReminderPayload, fireAt time.Time) error {
			task, opts, err := cron.NewReminderTask(payload, fireAt)
			if err != nil {
				return err
			}
			_, err = asynqClient.Enqueue(task, opts...)
			return err
		},
	}
	schedCtx, cancelSched := context.WithCancel(context.Background())
	defer cancelSched()
	go scheduler.Run(schedCtx, time.Hour)

	// HTTP surface.
	router := routes.SetupRouter()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RateLimitMiddleware())

	bookingHandler := handlers.NewBookingHandler(lifecycle, logger)
	routes.RegisterBookingRoutes(router, bookingHandler)

	logger.Sugar().Infof("main: listening on :%s", config.AppConfig.AppPort)
	if err := router.Run(":" + config.AppConfig.AppPort); err != nil {
		logger.Sugar().Fatalf("main: server exited: %v", err)
	}
}
