package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Recepciones-api/internal/application/auth"
	apprecv "github.com/jhoicas/Recepciones-api/internal/application/receiving"
	"github.com/jhoicas/Recepciones-api/internal/application/usecase"
	infrakafka "github.com/jhoicas/Recepciones-api/internal/infrastructure/kafka"
	infrapdf "github.com/jhoicas/Recepciones-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Recepciones-api/internal/infrastructure/postgres"
	infralock "github.com/jhoicas/Recepciones-api/internal/infrastructure/redislock"
	infraxml "github.com/jhoicas/Recepciones-api/internal/infrastructure/xml"
	httpRouter "github.com/jhoicas/Recepciones-api/internal/interfaces/http"
	"github.com/jhoicas/Recepciones-api/pkg/config"
	"github.com/jhoicas/Recepciones-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	receiptRepo := postgres.NewGoodsReceiptRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Lock distribuido: opcional, solo con REDIS_ADDR configurado. Sin Redis la
	// API corre en una sola réplica y el lock no aplica.
	var locker apprecv.DocumentLocker
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		locker = infralock.New(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("lock distribuido habilitado")
	}

	// Eventos de integración: opcional, solo con KAFKA_BROKERS configurado.
	var publisher apprecv.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := infrakafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publicador de eventos habilitado")
	}

	noteParser := infraxml.NewDeliveryNoteParser()
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	receivingUC := apprecv.NewWorkflowUseCase(
		txRunner, receiptRepo, poRepo, warehouseRepo, productRepo,
		locker, publisher, noteParser, pdfGenerator, log,
	)
	userUC := usecase.NewUserUseCase(userRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	poUC := usecase.NewPurchaseOrderUseCase(poRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Recepciones API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		UserUC:          userUC,
		WarehouseUC:     warehouseUC,
		ProductUC:       productUC,
		PurchaseOrderUC: poUC,
		ReceivingUC:     receivingUC,
		AuthUC:          authUC,
		JWTSecret:       cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
