package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ahara/configs"
	"ahara/controllers"
	"ahara/middlewares"
	"ahara/pkg/cache"
	"ahara/pkg/events"
	"ahara/pkg/gateway"
	"ahara/pkg/logger"
	"ahara/pkg/resp"
	"ahara/repository"
	"ahara/routes"
	"ahara/services"
	"ahara/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		panic("load config: " + err.Error())
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Env: cfg.Env})
	if err != nil {
		panic("init logger: " + err.Error())
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// DB
	db, err := configs.OpenDB(cfg.DBDriver, cfg.DBSource)
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}
	if err := configs.SetupDatabase(db); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}
	if err := configs.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword, log); err != nil {
		log.Fatal("seed admin", zap.Error(err))
	}
	if cfg.SeedDemo {
		if err := configs.SeedDemo(db, log); err != nil {
			log.Fatal("seed demo", zap.Error(err))
		}
	}

	// Rating cache
	var ratingCache cache.RatingCache = cache.Nop{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, ratings will be read from the database", zap.Error(err))
		}
		ratingCache = cache.NewRedisRatingCache(rdb, cfg.Redis.TTL)
	}

	repoOrder := repository.NewOrderRepository(db)
	repoMenu := repository.NewMenuRepository(db)
	repoRest := repository.NewRestaurantRepository(db)
	repoAddr := repository.NewAddressRepository(db)
	repoPartner := repository.NewDeliveryPartnerRepository(db)
	repoTxn := repository.NewTransactionRepository(db)
	repoReview := repository.NewReviewRepository(db)
	repoUser := repository.NewUserRepository(db)

	repoAdmin := repository.NewAdminRepository(db)

	// Events: websocket hub always, kafka when brokers are configured
	hub := ws.NewOrderHub(services.NewOrderAccess(db, repoOrder, repoPartner), log)
	go hub.Run(ctx)
	pub := events.Multi{hub}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPublisher(events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		defer kp.Close()
		pub = append(pub, kp)
	}

	gw := gateway.NewRazorpay(gateway.Config{
		KeyID:     cfg.Razorpay.KeyID,
		KeySecret: cfg.Razorpay.KeySecret,
		BaseURL:   cfg.Razorpay.BaseURL,
		Timeout:   cfg.Razorpay.Timeout,
	})

	authSvc := services.NewAuthService(db, repoUser, repoPartner, repoRest, cfg.JWTSecret, cfg.JWTTTL, log)
	appSvc := services.NewRestaurantApplicationService(db, authSvc, repoRest, repoAdmin, log)
	restSvc := services.NewRestaurantService(db, repoRest, repoMenu, repoAddr, log)
	menuSvc := services.NewMenuService(db, repoMenu, repoRest, log)
	orderSvc := services.NewOrderService(db, repoOrder, repoMenu, repoRest, repoAddr, repoPartner, pub, log)
	paySvc := services.NewPaymentService(db, repoOrder, repoTxn, gw, pub, log)
	reviewSvc := services.NewReviewService(db, repoReview, repoOrder, repoRest, repoPartner, ratingCache, pub, log)
	deliverySvc := services.NewDeliveryService(db, repoPartner, repoOrder, log)
	adminSvc := services.NewAdminService(db, repoAdmin, repoUser, repoPartner, repoRest, log)

	// HTTP
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	resp.UseJSONFieldNames()
	r := gin.New()
	r.Use(middlewares.RequestID(), middlewares.AccessLog(log), middlewares.Recovery(log))
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))

	routes.RegisterRoutes(r, routes.Deps{
		JWTSecret:  cfg.JWTSecret,
		Auth:       controllers.NewAuthController(authSvc, log),
		Restaurant: controllers.NewRestaurantController(restSvc, log),
		Menu:       controllers.NewMenuController(menuSvc, log),
		Apps:       controllers.NewRestaurantApplicationController(appSvc, log),
		Order:      controllers.NewOrderController(orderSvc, log),
		Payment:    controllers.NewPaymentController(paySvc, log),
		Delivery:   controllers.NewDeliveryController(deliverySvc, log),
		Admin:      controllers.NewAdminController(adminSvc, log),
		Review:     controllers.NewReviewController(reviewSvc, log),
		Hub:        hub,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
