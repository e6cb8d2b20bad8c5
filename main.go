package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spabook/config"
	"spabook/cron"
	"spabook/database"
	bookingRepo "spabook/database/repository/booking"
	chatRepo "spabook/database/repository/chat"
	notificationLogRepo "spabook/database/repository/notificationlog"
	recordsRepo "spabook/database/repository/records"
	"spabook/handlers"
	"spabook/routes"
	"spabook/services/booking"
	"spabook/services/events"
	"spabook/services/notification"
	"spabook/services/scheduler"
	"spabook/services/tasks"
	"spabook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// indexer is implemented by every Mongo repository.
type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	database.InitDB()
	utils.InitCache()
	utils.InitEventsCache()
	utils.FirebaseInit()

	// repositories.
	db := database.Database()
	bookings := bookingRepo.NewMongoBookingRepo(db)
	chats := chatRepo.NewMongoChatRepo(db)
	notificationLogs := notificationLogRepo.NewMongoNotificationLogRepo(db)
	commissions := recordsRepo.NewMongoRecordRepo(db)

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	for _, repo := range []indexer{bookings, chats, notificationLogs, commissions} {
		if err := repo.EnsureIndexes(indexCtx); err != nil {
			logger.Fatal("main: failed to ensure indexes", zap.Error(err))
		}
	}
	cancelIndexes()

	// notifications.
	tokenStore := notification.NewTokenStore(utils.GetCacheClient())
	fcmNotifier, err := notification.NewFCMNotifier(utils.FCMClient, tokenStore, logger)
	if err != nil {
		logger.Fatal("main: failed to initialize push notifier", zap.Error(err))
	}
	dispatcher := notification.NewDispatcher(fcmNotifier, notificationLogs, logger)

	// deadlines, reminders and events.
	deadlines := scheduler.New(logger)

	addr, password, queueDB := utils.ReminderQueueRedisOpt()
	queueOpt := asynq.RedisClientOpt{Addr: addr, Password: password, DB: queueDB}
	reminderClient := asynq.NewClient(queueOpt)
	reminderInspector := asynq.NewInspector(queueOpt)
	reminderPlanner := tasks.NewReminderPlanner(reminderClient, reminderInspector, config.Location(), logger)

	publisher := events.NewRedisPublisher(utils.GetEventsClient(), utils.BookingEventsChannel, logger)

	coordinator, err := booking.NewCoordinator(booking.Deps{
		Bookings:    bookings,
		Chats:       chats,
		Commissions: commissions,
		Notifier:    dispatcher,
		Scheduler:   deadlines,
		Reminders:   reminderPlanner,
		Events:      publisher,
		Logger:      logger,
	},
		booking.WithCommissionRate(config.AppConfig.CommissionRate),
		booking.WithDuplicateWindow(config.DuplicateWindow()),
	)
	if err != nil {
		logger.Fatal("main: failed to initialize booking coordinator", zap.Error(err))
	}

	// background jobs.
	sweeper, err := cron.NewExpirySweeper(coordinator, config.AppConfig.ExpirySweepSchedule, config.AppConfig.ExpirySweepBatch, logger)
	if err != nil {
		logger.Fatal("main: failed to schedule expiry sweep", zap.Error(err))
	}
	// Bookings left pending by a previous process expire right away.
	sweeper.RunOnce(context.Background())
	sweeper.Start()

	reminderWorker := cron.NewReminderWorker(dispatcher, coordinator, logger)
	reminderWorker.Start()

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	utils.StartHealthMonitor(monitorCtx, []*redis.Client{utils.GetCacheClient(), utils.GetEventsClient()}, database.MongoClient)

	// handlers.
	bookingHandler := handlers.NewBookingHandler(coordinator, logger)
	notificationHandler := handlers.NewNotificationHandler(tokenStore, dispatcher)
	commissionHandler := handlers.NewCommissionHandler(commissions)
	handlerBundle := handlers.NewHandlerBundle(bookingHandler, notificationHandler, commissionHandler)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	routes.RegisterRoutes(router, handlerBundle, logger)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	deadlines.Stop()
	select {
	case <-sweeper.Stop().Done():
	case <-ctx.Done():
	}
	reminderWorker.Shutdown()
	if err := reminderClient.Close(); err != nil {
		logger.Warn("main: failed to close reminder client", zap.Error(err))
	}
	if err := reminderInspector.Close(); err != nil {
		logger.Warn("main: failed to close reminder inspector", zap.Error(err))
	}
	stopMonitor()
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: failed to disconnect from MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
