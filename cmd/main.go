package main

import (
	"database/sql"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"pricing-service/internal/api"
	"pricing-service/internal/cache"
	"pricing-service/internal/config"
	"pricing-service/internal/consumer"
	"pricing-service/internal/repository"
	"pricing-service/internal/service"
	"pricing-service/migrations"
)

func connectDB() (*sql.DB, error) {
	db, err := sql.Open("mysql", config.DatabaseDSN())
	if err != nil {
		return nil, err
	}
	return db, nil
}

func main() {
	db, err := connectDB()
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigratePricingFormulas(3, db); err != nil {
		panic(err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: config.RedisAddr(),
	})

	kafkaWriter := config.NewKafkaWriter(config.FormulaTopic)

	// Initialize pricing service
	formulaRepo := repository.NewFormulaRepository(db)
	formulaCache := cache.NewFormulaCache(rdb, cache.DefaultTTL)
	pricingService := service.NewPricingService(formulaRepo, formulaCache, kafkaWriter)
	pricingHandler := api.NewPricingHandler(pricingService)

	// Formula events from other instances invalidate the local cache
	formulaConsumer := consumer.NewConsumer(formulaCache)
	go formulaConsumer.StartKafkaConsumer()

	// Initialize echo
	e := echo.New()
	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Routes
	e.POST("/pricing/calculate", pricingHandler.CalculatePrice)
	e.GET("/pricing/tiers/:productType", pricingHandler.GetQuantityTiers)

	// Formula administration requires a JWT
	admin := e.Group("/admin")
	admin.Use(echojwt.JWT([]byte(config.JWTSecret())))
	admin.POST("/formulas", pricingHandler.CreateFormula)
	admin.GET("/formulas", pricingHandler.ListFormulas)
	admin.GET("/formulas/:id", pricingHandler.GetFormula)
	admin.PUT("/formulas/:id", pricingHandler.UpdateFormula)
	admin.DELETE("/formulas/:id", pricingHandler.DeleteFormula)

	e.GET("/pricing/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "pricing-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// Start the server
	e.Logger.Fatal(e.Start(":" + config.Port()))
}
