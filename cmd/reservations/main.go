package main

import (
	"context"

	"studiodesk/internal/availability"
	ledgerhandler "studiodesk/internal/ledger/handler"
	ledgerrepo "studiodesk/internal/ledger/repository"
	ledgerservice "studiodesk/internal/ledger/service"
	"studiodesk/internal/notifications/bus"
	notificationhandler "studiodesk/internal/notifications/handler"
	notificationrepo "studiodesk/internal/notifications/repository"
	notificationservice "studiodesk/internal/notifications/service"
	reservationhandler "studiodesk/internal/reservations/handler"
	"studiodesk/internal/reservations/repository"
	"studiodesk/internal/reservations/service"
	"studiodesk/internal/reservations/sweeper"
	"studiodesk/internal/reservations/validator"
	rosterrepo "studiodesk/internal/roster/repository"
	rosterservice "studiodesk/internal/roster/service"
	"studiodesk/internal/seed"
	"studiodesk/pkg/app"
	"studiodesk/pkg/clock"
	"studiodesk/pkg/config"
	"studiodesk/pkg/db"
	"studiodesk/pkg/db/memory"
	mongodb "studiodesk/pkg/db/mongo"
	"studiodesk/pkg/kafka"
	kafka_config "studiodesk/pkg/kafka/config"
	kafka_middleware "studiodesk/pkg/kafka/middleware"
	"studiodesk/pkg/validation"
)

const ServiceName = "reservations"

type repositories struct {
	reservations  repository.ReservationRepository
	locks         repository.LockRepository
	members       ledgerrepo.MemberRepository
	journal       ledgerrepo.JournalRepository
	professionals rosterrepo.ProfessionalRepository
	users         rosterrepo.UserRepository
	notifications notificationrepo.NotificationRepository
	receipts      notificationrepo.ReceiptRepository
	txManager     db.TransactionManager
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Reservations service", "storage", cfg.StorageBackend)

	repos := initRepositories(cfg)
	if cfg.SeedFile != "" {
		applySeed(cfg, repos)
	}

	serverApp := app.NewApplication(cfg)
	clk := clock.New(cfg.Location)

	directory := rosterservice.NewDirectory(repos.professionals, repos.users, cfg.Log)
	ledger := ledgerservice.NewLedgerService(repos.members, repos.journal, repos.txManager, validation.New(), clk, cfg.Log)
	resolver := availability.NewResolver(repos.reservations, directory, availability.Facilities{
		TrainingRoomID: cfg.TrainingRoomID,
		RentalRoomID:   cfg.RentalRoomID,
	}, clk, cfg.Location)

	publisher := initPublisher(cfg, serverApp)
	dispatcher := notificationservice.NewDispatcher(repos.notifications, directory, publisher, validation.New(), clk, cfg.Location, cfg.Log)
	mailbox := notificationservice.NewMailbox(repos.notifications, repos.receipts, clk, cfg.AdminNotificationRetention, cfg.Log)

	reservationService := service.NewReservationService(
		repos.reservations,
		repos.locks,
		ledger,
		resolver,
		directory,
		dispatcher,
		repos.txManager,
		validator.NewReservationValidator(),
		clk,
		cfg,
		cfg.Log,
	)

	sweep, err := sweeper.New(reservationService, cfg.SweepSchedule, cfg.Location, cfg.WriteTimeout, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Invalid sweep schedule", "schedule", cfg.SweepSchedule, "error", err)
	}
	sweep.Start()
	serverApp.OnShutdown(sweep.Stop)
	serverApp.OnShutdown(func(context.Context) { cfg.GracefulShutdown() })

	serverApp.SetApp(
		reservationhandler.NewReservationHandler(reservationService, cfg.Location, cfg.Log),
		notificationhandler.NewNotificationHandler(mailbox, dispatcher, cfg.Log),
		ledgerhandler.NewMemberHandler(ledger, cfg.Log),
	)
	serverApp.Run()
}

func initRepositories(cfg *config.Config) *repositories {
	if cfg.UsesMongo() {
		cfg.SetMongo()
		cfg.Log.Info("Using Mongo storage", "database", cfg.MongoDatabaseName)
		return &repositories{
			reservations:  repository.NewMongoReservationRepository(cfg),
			locks:         repository.NewMongoLockRepository(cfg),
			members:       ledgerrepo.NewMongoMemberRepository(cfg),
			journal:       ledgerrepo.NewMongoJournalRepository(cfg),
			professionals: rosterrepo.NewMongoProfessionalRepository(cfg),
			users:         rosterrepo.NewMongoUserRepository(cfg),
			notifications: notificationrepo.NewMongoNotificationRepository(cfg),
			receipts:      notificationrepo.NewMongoReceiptRepository(cfg),
			txManager:     mongodb.NewTransactionManager(cfg.Client.Mongo),
		}
	}

	store := memory.NewStore()
	cfg.Log.Warn("Using in-memory storage; data is lost on restart")
	return &repositories{
		reservations:  repository.NewMemoryReservationRepository(store),
		locks:         repository.NewMemoryLockRepository(),
		members:       ledgerrepo.NewMemoryMemberRepository(store),
		journal:       ledgerrepo.NewMemoryJournalRepository(store),
		professionals: rosterrepo.NewMemoryProfessionalRepository(store),
		users:         rosterrepo.NewMemoryUserRepository(store),
		notifications: notificationrepo.NewMemoryNotificationRepository(store),
		receipts:      notificationrepo.NewMemoryReceiptRepository(store),
		txManager:     store.TransactionManager(),
	}
}

func applySeed(cfg *config.Config, repos *repositories) {
	f, err := seed.Load(cfg.SeedFile)
	if err != nil {
		cfg.Log.Fatal("Failed to load seed file", "path", cfg.SeedFile, "error", err)
	}
	err = seed.Apply(context.Background(), f, seed.Repositories{
		Members:       repos.members,
		Professionals: repos.professionals,
		Users:         repos.users,
	}, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to apply seed file", "path", cfg.SeedFile, "error", err)
	}
}

// initPublisher sends notifications to Kafka for the notifier service when
// enabled, and otherwise delivers them in-process.
func initPublisher(cfg *config.Config, serverApp *app.Application) bus.Publisher {
	if !cfg.KafkaEnabled {
		broker := bus.NewBroker(cfg.Log)
		broker.Subscribe(bus.NewLogNotifier(cfg.Log).Deliver)
		cfg.Log.Info("Notifications delivered in-process")
		return broker
	}

	kafkaCfg, err := kafka_config.Load(ServiceName)
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.ReservationEventsTopic, cfg.ReservationEventsDLQ, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafka_middleware.MetricsProducerMiddleware())
	serverApp.OnShutdown(func(context.Context) {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})

	cfg.Log.Info("Notifications published to Kafka", "topic", cfg.ReservationEventsTopic)
	return bus.NewKafkaPublisher(producer, ServiceName)
}
