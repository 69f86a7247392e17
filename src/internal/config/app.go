package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"googlemaps.github.io/maps"

	"dispatch-service/src/internal/delivery/http"
	"dispatch-service/src/internal/delivery/http/middleware"
	"dispatch-service/src/internal/delivery/http/route"
	"dispatch-service/src/internal/gateway/geoservice"
	"dispatch-service/src/internal/gateway/messaging"
	"dispatch-service/src/internal/pricing"
	"dispatch-service/src/internal/repository"
	"dispatch-service/src/internal/usecase"
	"dispatch-service/src/pkg/databases/mysql"
	kafkaPkg "dispatch-service/src/pkg/kafka"
	"dispatch-service/src/pkg/log"
)

type BootstrapConfig struct {
	DB          mysql.DBInterface
	App         *fiber.App
	Log         log.Log
	Validate    *validator.Validate
	Config      *viper.Viper
	Producer    kafkaPkg.Producer
	Redis       redis.UniversalClient
	Geoservice  *GeoService
	AsynqClient *asynq.Client
	Async       *asynq.ServeMux
}

func Bootstrap(config *BootstrapConfig) {
	// setup repositories
	orderRepository := repository.NewOrderRepository(config.DB)
	riderRepository := repository.NewRiderRepository(config.DB)
	walletRepository := repository.NewWalletRepository(config.DB)
	transactionRepository := repository.NewTransactionRepository(config.DB)
	payoutRepository := repository.NewPayoutRepository(config.DB)
	denyListRepository := repository.NewDenyListRepository(config.DB)
	locationRepository := repository.NewRiderLocationRepository(config.Redis)

	// setup gateways
	orderProducer := messaging.NewOrderProducer(config.Producer, config.Log)
	dispatchProducer := messaging.NewDispatchProducer(config.Producer, config.Log)
	payoutProducer := messaging.NewPayoutProducer(config.Producer, config.Log)

	var mapsClient *maps.Client
	if config.Geoservice != nil {
		mapsClient = config.Geoservice.Client
	}
	distance := geoservice.NewGoogleDistance(mapsClient, config.Log,
		time.Duration(config.Config.GetInt("geo.google.timeout_seconds"))*time.Second)

	fareConfig := pricing.FromViper(config.Config)

	// setup use cases
	dispatchUseCase := usecase.NewDispatchUseCase(
		config.Log,
		config.Validate,
		config.Config,
		riderRepository,
		locationRepository,
		distance,
		dispatchProducer,
	)

	discount := usecase.NewGoldDiscountPolicy(config.Config, time.Now)
	ledgerUseCase := usecase.NewLedgerUseCase(
		config.Log,
		config.Config,
		orderRepository,
		riderRepository,
		walletRepository,
		transactionRepository,
		payoutRepository,
		discount,
	)

	orderUseCase := usecase.NewOrderUseCase(
		config.Log,
		config.Validate,
		config.Config,
		fareConfig,
		orderRepository,
		riderRepository,
		walletRepository,
		orderProducer,
		dispatchUseCase,
		ledgerUseCase,
	)

	riderUseCase := usecase.NewRiderUseCase(
		config.Log,
		config.Validate,
		config.Config,
		riderRepository,
		locationRepository,
		walletRepository,
		denyListRepository,
	)

	payoutUseCase := usecase.NewPayoutUseCase(
		config.Log,
		config.Validate,
		config.Config,
		payoutRepository,
		orderRepository,
		riderRepository,
		transactionRepository,
		denyListRepository,
		locationRepository,
		payoutProducer,
		config.AsynqClient,
	)

	// setup controllers
	orderController := http.NewOrderController(orderUseCase, dispatchUseCase, config.Log)
	riderController := http.NewRiderController(riderUseCase, config.Log)
	payoutController := http.NewPayoutController(payoutUseCase, config.Log)
	adminController := http.NewAdminController(orderUseCase, riderUseCase, payoutUseCase, config.Log)

	// setup middleware
	authMiddleware := middleware.VerifyBearer(config.Config)

	if config.Async != nil {
		config.Async.HandleFunc(usecase.TaskPayoutGenerate, payoutUseCase.HandleGenerateTask)
		config.Async.HandleFunc(usecase.TaskPayoutRemind, payoutUseCase.HandleRemindTask)
		config.Async.HandleFunc(usecase.TaskPayoutBlock, payoutUseCase.HandleBlockTask)
	}

	routeConfig := route.RouteConfig{
		App:              config.App,
		OrderController:  orderController,
		RiderController:  riderController,
		PayoutController: payoutController,
		AdminController:  adminController,
		AuthMiddleware:   authMiddleware,
	}
	routeConfig.Setup()
}
