package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yosbany/ordenes-sub000/internal/api/handlers"
	"github.com/yosbany/ordenes-sub000/internal/middleware"
)

type Config struct {
	App               *fiber.App
	RecipeHandler     handlers.RecipeHandler
	ProductHandler    handlers.ProductHandler
	ConversionHandler handlers.ConversionHandler
	FixedCostsHandler handlers.FixedCostsHandler
	Middleware        middleware.Middleware
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Recipes()
	c.Products()
	c.Conversions()
	c.FixedCosts()
	c.GuestRoute()
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes")

	// Basic CRUD operations
	recipes.Post("", c.RecipeHandler.CreateRecipe)
	recipes.Get("", c.RecipeHandler.GetRecipes)
	recipes.Get("/:id", c.RecipeHandler.GetRecipeDetail)
	recipes.Put("/:id", c.RecipeHandler.UpdateRecipe)
	recipes.Delete("/:id", c.RecipeHandler.DeleteRecipe)

	// Cost engine operations
	recipes.Post("/recalculate-all", c.RecipeHandler.RecalculateAll)
	recipes.Post("/:id/recalculate", c.RecipeHandler.RecalculateRecipe)
	recipes.Get("/:id/history", c.RecipeHandler.GetCostHistory)
}

func (c *Config) Products() {
	products := c.App.Group("/api/v1/products")

	products.Post("", c.ProductHandler.CreateProduct)
	products.Get("", c.ProductHandler.GetProducts)
	products.Get("/:id", c.ProductHandler.GetProductDetail)
	products.Patch("/:id/price", c.ProductHandler.UpdatePrice)
}

func (c *Config) Conversions() {
	conversions := c.App.Group("/api/v1/conversions")

	conversions.Post("", c.ConversionHandler.CreateConversion)
	conversions.Get("", c.ConversionHandler.GetConversions)
	conversions.Put("/:id", c.ConversionHandler.UpdateConversion)
	conversions.Delete("/:id", c.ConversionHandler.DeleteConversion)
}

func (c *Config) FixedCosts() {
	fixedCosts := c.App.Group("/api/v1/fixed-costs")

	fixedCosts.Get("", c.FixedCostsHandler.GetFixedCosts)
	fixedCosts.Put("", c.FixedCostsHandler.UpsertFixedCosts)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
