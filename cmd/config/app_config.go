package config

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"github.com/yosbany/ordenes-sub000/internal/api/handlers"
	"github.com/yosbany/ordenes-sub000/internal/api/routes"
	"github.com/yosbany/ordenes-sub000/internal/middleware"
	"github.com/yosbany/ordenes-sub000/internal/utils"
	"github.com/yosbany/ordenes-sub000/pkg/alert"
	"github.com/yosbany/ordenes-sub000/pkg/conversion"
	"github.com/yosbany/ordenes-sub000/pkg/fixedcosts"
	"github.com/yosbany/ordenes-sub000/pkg/product"
	"github.com/yosbany/ordenes-sub000/pkg/recipe"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "America/Montevideo",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// Repository
	recipeRepository := recipe.NewRecipeRepository(db)
	productRepository := product.NewProductRepository(db)
	conversionRepository := conversion.NewConversionRepository(db)
	fixedCostsRepository := fixedcosts.NewFixedCostsRepository(db)

	// Service
	alertService := alert.NewAlertService()
	recipeService := recipe.NewRecipeService(
		recipeRepository,
		productRepository,
		conversionRepository,
		fixedCostsRepository,
		alertService,
	)
	productService := product.NewProductService(productRepository, recipeService)
	conversionService := conversion.NewConversionService(conversionRepository)
	fixedCostsService := fixedcosts.NewFixedCostsService(fixedCostsRepository, recipeService)

	// Handler
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	productHandler := handlers.NewProductHandler(productService, validator)
	conversionHandler := handlers.NewConversionHandler(conversionService, validator)
	fixedCostsHandler := handlers.NewFixedCostsHandler(fixedCostsService, validator)

	// routes
	routesConfig := routes.Config{
		App:               app,
		RecipeHandler:     recipeHandler,
		ProductHandler:    productHandler,
		ConversionHandler: conversionHandler,
		FixedCostsHandler: fixedCostsHandler,
		Middleware:        middlewares,
	}
	routesConfig.Setup()
	return app, nil
}
