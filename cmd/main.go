package main

import (
	"context"
	"log"

	"rental-service/config"
	bookingHandler "rental-service/internal/module/booking/handler"
	bookingRepositories "rental-service/internal/module/booking/repositories"
	bookingUsecases "rental-service/internal/module/booking/usecases"
	customerHandler "rental-service/internal/module/customer/handler"
	customerRepositories "rental-service/internal/module/customer/repositories"
	customerUsecases "rental-service/internal/module/customer/usecases"
	sequenceRepositories "rental-service/internal/module/sequence/repositories"
	"rental-service/internal/pkg/database"
	"rental-service/internal/pkg/gateway"
	"rental-service/internal/pkg/helpers"
	"rental-service/internal/pkg/http"
	"rental-service/internal/pkg/httpclient"
	"rental-service/internal/pkg/lock"
	log_internal "rental-service/internal/pkg/log"
	"rental-service/internal/pkg/messagestream"
	"rental-service/internal/pkg/middleware"
	"rental-service/internal/pkg/notifier"
	"rental-service/internal/pkg/redis"
	"rental-service/internal/pkg/scheduler"
	router "rental-service/internal/route"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
)

func main() {
	cfg := config.InitConfig()

	app, messageRouters := initService(cfg)

	for _, router := range messageRouters {
		ctx := context.Background()
		go func(router *message.Router) {
			err := router.Run(ctx)
			if err != nil {
				log.Fatal(err)
			}
		}(router)
	}

	// start http server
	http.StartHttpServer(app, cfg.HttpServer.Port)
}

func initService(cfg *config.Config) (*fiber.App, []*message.Router) {
	ctx := context.Background()

	// init logger
	logZap := log_internal.SetupLogger()
	log_internal.Init(logZap)
	logger := log_internal.GetLogger()

	// init database
	db := database.GetConnection(&cfg.Database)
	if err := database.InitialiseDB(ctx, db); err != nil {
		log.Fatalf("error initialise database: %v", err)
	}
	// init redis
	redisClient := redis.SetupClient(&cfg.Redis)
	locker := lock.NewRedisLocker(redisClient)

	// init http clients, one breaker per upstream
	catalogClient := httpclient.InitHttpClient(&cfg.HttpClient, httpclient.InitCircuitBreaker(&cfg.HttpClient, cfg.HttpClient.Type))
	gatewayHttpCfg := cfg.HttpClient
	gatewayHttpCfg.Timeout = cfg.Gateway.Timeout
	gatewayClient := httpclient.InitHttpClient(&gatewayHttpCfg, httpclient.InitCircuitBreaker(&gatewayHttpCfg, gatewayHttpCfg.Type))
	paymentGateway := gateway.New(&cfg.Gateway, gatewayClient, logger)

	// init message stream
	amqp := messagestream.NewAmpq(&cfg.MessageStream, log_internal.NewWatermillAdapter(logger))

	// Init Subscriber
	subscriber, err := amqp.NewSubscriber()
	if err != nil {
		log.Fatalf("error create subscriber: %v", err)
	}

	// Init Publisher
	publisher, err := amqp.NewPublisher()
	if err != nil {
		log.Fatalf("error create publisher: %v", err)
	}
	notify := notifier.New(publisher, logger)

	// init scheduler
	sch := scheduler.Scheduler{Log: logger}
	tasks := scheduler.NewTaskQueue(sch.InitClient(&cfg.Redis), sch.InitInspector(&cfg.Redis))

	sequenceRepo := sequenceRepositories.New(db, logger)

	customerRepo := customerRepositories.New(db, logger)
	customerUsecase := customerUsecases.New(customerRepo, logger, notify)

	bookingRepo := bookingRepositories.New(db, logger, catalogClient, redisClient, &cfg.CatalogService, &cfg.Booking, sequenceRepo, tasks)
	bookingUsecase := bookingUsecases.New(bookingRepo, customerUsecase, paymentGateway, locker, notify, cfg, logger)

	validator := helpers.NewValidator()
	handlerBooking := bookingHandler.BookingHandler{
		Log:       logger,
		Validator: validator,
		Usecase:   bookingUsecase,
		Publish:   publisher,
	}
	handlerCustomer := customerHandler.CustomerHandler{
		Log:       logger,
		Validator: validator,
		Usecase:   customerUsecase,
	}
	m := middleware.Middleware{
		Log: logger,
		Cfg: &cfg.App,
	}

	go sch.StartHandler(&cfg.Redis, cfg.Scheduler.Concurrency,
		[]string{scheduler.TypeVerifyPendingPayment},
		[]func(ctx context.Context, t *asynq.Task) error{handlerBooking.VerifyPendingPayment},
	)
	go sch.StartMonitoring(&cfg.Redis, cfg.Scheduler.MonitoringPort)

	var messageRouters []*message.Router

	verificationRouter, err := messagestream.NewRouter(
		publisher,
		bookingHandler.TopicPaymentVerificationPoisoned,
		"payment_verification_handler",
		bookingHandler.TopicPaymentVerification,
		subscriber,
		amqp.Logger(),
		handlerBooking.ConsumeVerificationQueue,
	)
	if err != nil {
		logger.Error(ctx, "Failed to create payment_verification router", err)
	} else {
		messageRouters = append(messageRouters, verificationRouter)
	}

	serverHttp := http.SetupHttpEngine()

	r := router.Initialize(serverHttp, &handlerBooking, &handlerCustomer, &m)

	return r, messageRouters

}
