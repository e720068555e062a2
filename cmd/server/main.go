package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pistanero/storefront/internal/cart"
	"github.com/pistanero/storefront/internal/checkout"
	"github.com/pistanero/storefront/internal/config"
	"github.com/pistanero/storefront/internal/handlers"
	"github.com/pistanero/storefront/internal/logging"
	authmw "github.com/pistanero/storefront/internal/middleware/auth"
	"github.com/pistanero/storefront/internal/middleware/ratelim"
	"github.com/pistanero/storefront/internal/notify"
	"github.com/pistanero/storefront/internal/orders"
	"github.com/pistanero/storefront/internal/search"
	"github.com/pistanero/storefront/internal/storage"
	httpserver "github.com/pistanero/storefront/internal/transport/http"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	jwtSecret := []byte(cfg.JWT_SECRET)
	refreshSecret := []byte(cfg.REFRESH_SECRET)

	producer := notify.NewProducer([]string{cfg.KAFKA_ADDRESS})
	mailer := notify.NewMailer(notify.MailerConfig{
		Endpoint: cfg.MAIL_ENDPOINT,
		APIKey:   cfg.MAIL_API_KEY,
		From:     cfg.MAIL_FROM,
	}, logger)

	esClient, err := search.NewClient(cfg)
	if err != nil {
		log.Fatalf("elasticsearch init error: %v", err)
	}
	indexer := &search.Indexer{ES: esClient, Index: search.ProductIndex, Log: logger}

	cartStore := cart.NewStore(db)
	sessions := checkout.NewRedisStore(cfg.REDIS_ADDR)
	orderSvc := &orders.Service{
		DB:       db,
		Cart:     cartStore,
		Sessions: sessions,
		Notifier: &notify.OrderNotifier{Events: producer, Mailer: mailer, Log: logger},
		Log:      logger,
	}

	tokens := &authmw.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}
	images := storage.NewImageStore(cfg.UPLOAD_DIR, cfg.PUBLIC_BASE_URL)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Static("/uploads", cfg.UPLOAD_DIR)

	deps := httpserver.Deps{
		AuthHandler:     &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Events: producer},
		ProductHandler:  &handlers.ProductHandler{DB: db, Events: producer, Indexer: indexer},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: search.ProductIndex},
		CartHandler:     &handlers.CartHandler{DB: db, Cart: cartStore, Events: producer},
		CheckoutHandler: &handlers.CheckoutHandler{DB: db, Cart: cartStore, Sessions: sessions, Orders: orderSvc, Events: producer},
		OrderHandler:    &handlers.OrderHandler{Orders: orderSvc},
		EventHandler:    &handlers.EventHandler{DB: db},
		UserHandler:     &handlers.UserHandler{DB: db},
		UploadHandler:   &handlers.UploadHandler{Images: images},
		Tokens:          tokens,
		LoginLimiter:    ratelim.New(5, 5),
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         cfg.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}
	mailer.Close()

	log.Println("shutdown complete")
}
