package main

import (
	"context"
	"time"

	eventshandler "eventify/internal/events/handler"
	eventsrepository "eventify/internal/events/repository"
	eventsservice "eventify/internal/events/service"
	eventsvalidator "eventify/internal/events/validator"
	reservationshandler "eventify/internal/reservations/handler"
	mongoMigration "eventify/internal/migrations/mongo"
	"eventify/internal/reservations/publisher"
	reservationsrepository "eventify/internal/reservations/repository"
	reservationsservice "eventify/internal/reservations/service"
	reservationsvalidator "eventify/internal/reservations/validator"
	ticketshandler "eventify/internal/tickets/handler"
	"eventify/internal/tickets/renderer"
	ticketsservice "eventify/internal/tickets/service"
	usersrepository "eventify/internal/users/repository"
	"eventify/internal/users/seed"
	"eventify/pkg/app"
	"eventify/pkg/cache"
	"eventify/pkg/config"
	mongotx "eventify/pkg/db/mongo"
	"eventify/pkg/kafka"
	kafka_middleware "eventify/pkg/kafka/middleware"
)

const (
	ServiceName = "eventify"

	seedTimeout = 30 * time.Second
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Eventify service")
	serverApp := app.NewApplication(cfg)

	ensureSchema(cfg)
	users := usersrepository.NewMongoUserRepository(cfg)
	seedAdmin(cfg, users)

	events := initEvents(cfg)
	reservations := initReservations(cfg, serverApp, events, users)
	tickets := ticketsservice.NewTicketService(reservations, events, users, renderer.NewPDFRenderer(), cfg)

	policy := serverApp.Policy()
	serverApp.SetApp(
		eventshandler.NewEventHandler(events, policy, cfg.Log),
		reservationshandler.NewReservationHandler(reservations, policy, cfg.Log),
		ticketshandler.NewTicketHandler(tickets, policy, cfg.Log),
	)
	serverApp.Run()
}

// ensureSchema applies the collection validators and indexes. The server still
// starts when it fails, the migrate job can be rerun separately.
func ensureSchema(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	if err := mongoMigration.RunMigration(ctx, db, cfg.Log); err != nil {
		cfg.Log.Error("Failed to apply schema, run the migrate job", "error", err)
	}
}

func seedAdmin(cfg *config.Config, users usersrepository.UserRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	result := seed.EnsureAdmin(ctx, users, cfg)
	cfg.Log.Info("Admin seed finished", "result", result)
}

func initEvents(cfg *config.Config) eventsservice.EventService {
	var eventsCache cache.Cache = cache.Noop{}
	if cfg.Client.Redis != nil {
		eventsCache = cache.New(cfg.Client.Redis, ServiceName)
	}

	eventService := eventsservice.NewEventService(
		eventsrepository.NewMongoEventRepository(cfg),
		eventsvalidator.NewEventValidator(cfg.Log),
		eventsCache,
		cfg,
	)

	cfg.Log.Info("Event service initialized", "database", cfg.MongoDatabaseName, "cache", cfg.Client.Redis != nil)
	return eventService
}

func initReservations(
	cfg *config.Config,
	serverApp *app.Application,
	events eventsservice.EventService,
	users usersrepository.UserRepository,
) reservationsservice.ReservationService {
	txManager := mongotx.NewPassthroughTransactionManager()
	if cfg.MongoTransactions {
		txManager = mongotx.NewTransactionManager(cfg.Client.Mongo)
	}

	reservationService := reservationsservice.NewReservationService(
		reservationsrepository.NewMongoReservationRepository(cfg),
		events,
		users,
		txManager,
		initPublisher(cfg, serverApp),
		reservationsvalidator.NewReservationValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "transactions", cfg.MongoTransactions)
	return reservationService
}

func initPublisher(cfg *config.Config, serverApp *app.Application) publisher.Publisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, reservation lifecycle records are not published")
		return publisher.Noop{}
	}

	producer, err := kafka.NewProducer(cfg.Kafka, cfg.KafkaReservationsTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	serverApp.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})

	cfg.Log.Info("Kafka producer initialized", "topic", producer.Topic(), "brokers", cfg.Kafka.Brokers)
	return publisher.NewKafkaPublisher(producer, cfg.Log)
}
