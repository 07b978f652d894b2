package main

import (
	"context"
	"os"
	"time"

	"armonia-backend/config"
	"armonia-backend/database"
	billingapi "armonia-backend/internal/api/billing"
	meteringapi "armonia-backend/internal/api/metering"
	notificationsapi "armonia-backend/internal/api/notifications"
	routes "armonia-backend/internal/app/http"
	"armonia-backend/internal/app/http/middleware"
	engine "armonia-backend/internal/billing"
	"armonia-backend/internal/infra/gateway"
	"armonia-backend/internal/infra/notify"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	database.InitDB()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	var gw gateway.Client
	if config.STRIPE_SECRET_KEY != "" {
		gw = gateway.NewStripe(config.STRIPE_SECRET_KEY, config.APP_URL)
		log.Info("payment gateway: stripe")
	} else {
		gw = gateway.NewMock(config.APP_URL)
		log.Info("payment gateway: mock (STRIPE_SECRET_KEY not set)")
	}

	var sender notify.Sender
	if len(config.KAFKA_BROKERS) > 0 {
		ks := notify.NewKafkaSender(config.KAFKA_BROKERS, config.KAFKA_TOPIC)
		defer ks.Close()
		sender = ks
		log.Info("notifications: kafka", zap.Strings("brokers", config.KAFKA_BROKERS))
	} else {
		sender = notify.NewLogSender(log)
		log.Info("notifications: log only (KAFKA_BROKERS not set)")
	}

	eng := engine.NewEngine(gw, sender, log)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("CORS_ORIGIN")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.Metrics())

	routes.RegisterRoutes(r, routes.Deps{
		Billing:       billingapi.NewHandler(eng),
		Metering:      meteringapi.NewHandler(eng),
		Notifications: notificationsapi.NewHandler(sender, log),
	})

	go sweepExpiredLoop(eng, log)

	r.Run(":" + config.PORT)
}

// sweepExpiredLoop fails PENDING transactions past their expiry, visiting
// every tenant schema once per tick.
func sweepExpiredLoop(eng *engine.Engine, log *zap.Logger) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		schemas, err := database.TenantSchemas()
		if err != nil {
			log.Error("sweep: list tenant schemas", zap.Error(err))
			continue
		}
		for _, schema := range schemas {
			tdb, err := database.Tenant(schema)
			if err != nil {
				log.Error("sweep: open tenant", zap.String("schema", schema), zap.Error(err))
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			n, err := eng.SweepExpired(ctx, tdb)
			cancel()
			if err != nil {
				log.Error("sweep: expire pending", zap.String("schema", schema), zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("expired pending payments", zap.String("schema", schema), zap.Int64("count", n))
			}
		}
	}
}
