//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/TQS-Project-OLS/backend-sub001/internal/application"
	listingDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/listing"
	marketplaceEvents "github.com/TQS-Project-OLS/backend-sub001/internal/events"
	"github.com/TQS-Project-OLS/backend-sub001/internal/repository"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/kafka"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/lock"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Redis        *redis.Client
	Cleanup      func()
}

// marketplaceStack holds the wired-up application services.
type marketplaceStack struct {
	Listings        *application.ListingService
	Bookings        *application.BookingService
	Payments        *application.PaymentService
	Reviews         *application.ReviewService
	Consumer        *marketplaceEvents.NotificationConsumer
	CleanupProducer func()
}

// setupContainers starts PostgreSQL, Kafka and Redis testcontainers and
// returns connected clients.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	// Start PostgreSQL container with log-based wait strategy.
	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_marketplace",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_marketplace sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(
		&repository.UserModel{},
		&repository.ListingModel{},
		&repository.BookingModel{},
		&repository.UnavailabilityModel{},
		&repository.PaymentModel{},
		&repository.ReviewModel{},
	))

	// Start Redis container for the booking lock.
	redisReq := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForLog("Ready to accept connections").
			WithStartupTimeout(30 * time.Second),
	}
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: redisReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start Redis container")

	redisHost, err := redisContainer.Host(ctx)
	require.NoError(t, err)
	redisPort, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err)

	redisClient := lock.NewClient(net.JoinHostPort(redisHost, redisPort.Port()), "", 0)
	require.NoError(t, redisClient.Ping(ctx).Err())

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	// Pre-create required topics.
	createTopics(t, kafkaBrokers,
		marketplaceEvents.TopicBookingEvents,
		marketplaceEvents.TopicPaymentEvents,
		marketplaceEvents.TopicReviewEvents,
	)

	cleanup := func() {
		_ = redisClient.Close()
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := redisContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Redis container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Redis:        redisClient,
		Cleanup:      cleanup,
	}
}

// setupMarketplaceStack wires up the full marketplace service stack.
func setupMarketplaceStack(t *testing.T, infra *testInfra) *marketplaceStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	bookingRepo := repository.NewGormBookingRepository(infra.DB)
	unavailabilityRepo := repository.NewGormUnavailabilityRepository(infra.DB)
	listingRepo := repository.NewGormListingRepository(infra.DB)
	paymentRepo := repository.NewGormPaymentRepository(infra.DB)
	reviewRepo := repository.NewGormReviewRepository(infra.DB)

	producer := kafka.NewProducer(infra.KafkaBrokers, logger)
	locker := lock.NewRedisLocker(infra.Redis, "test")
	availability := application.NewAvailabilityChecker(bookingRepo, unavailabilityRepo)

	listingSvc := application.NewListingService(listingRepo, unavailabilityRepo, logger)
	bookingSvc := application.NewBookingService(bookingRepo, listingRepo, availability, locker, producer, logger)
	paymentSvc := application.NewPaymentService(paymentRepo, bookingRepo, listingRepo, bookingSvc, producer, logger)
	reviewSvc := application.NewReviewService(reviewRepo, bookingRepo, listingRepo, producer, logger)

	groupID := fmt.Sprintf("test-marketplace-%s", uuid.New().String()[:8])
	consumer := marketplaceEvents.NewNotificationConsumer(infra.KafkaBrokers, groupID, logger)

	return &marketplaceStack{
		Listings:        listingSvc,
		Bookings:        bookingSvc,
		Payments:        paymentSvc,
		Reviews:         reviewSvc,
		Consumer:        consumer,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// createActiveListing creates an instrument listing through the service layer.
func createActiveListing(t *testing.T, stack *marketplaceStack, ownerID uuid.UUID, dailyPriceCents int64) *application.ListingDTO {
	t.Helper()
	dto, err := stack.Listings.CreateListing(context.Background(), ownerID, application.CreateListingRequest{
		Kind:            "instrument",
		Title:           "Yamaha C40 Classical Guitar",
		Description:     "full size, good condition",
		DailyPriceCents: dailyPriceCents,
		Currency:        "EUR",
		Instrument: &listingDomain.InstrumentDetails{
			Category: "guitar",
			Brand:    "Yamaha",
			Model:    "C40",
		},
	})
	require.NoError(t, err, "failed to create listing")
	return dto
}

// waitForBookingStatus polls the bookings table until the status matches.
func waitForBookingStatus(t *testing.T, db *gorm.DB, bookingID uuid.UUID, expectedStatus string, timeout time.Duration) repository.BookingModel {
	t.Helper()
	var result repository.BookingModel
	require.Eventually(t, func() bool {
		var model repository.BookingModel
		err := db.Where("id = ?", bookingID).First(&model).Error
		if err != nil {
			return false
		}
		if model.Status == expectedStatus {
			result = model
			return true
		}
		return false
	}, timeout, 200*time.Millisecond, "booking did not transition to %s", expectedStatus)
	return result
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
