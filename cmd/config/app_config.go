package config

import (
	"os"
	"time"

	"github.com/davwin/foodgram-project-react/internal/api/handlers"
	"github.com/davwin/foodgram-project-react/internal/api/routes"
	"github.com/davwin/foodgram-project-react/internal/metrics"
	"github.com/davwin/foodgram-project-react/internal/middleware"
	"github.com/davwin/foodgram-project-react/internal/utils"
	"github.com/davwin/foodgram-project-react/internal/utils/storage"
	"github.com/davwin/foodgram-project-react/pkg/ingredient"
	"github.com/davwin/foodgram-project-react/pkg/jwt"
	"github.com/davwin/foodgram-project-react/pkg/recipe"
	"github.com/davwin/foodgram-project-react/pkg/relation"
	"github.com/davwin/foodgram-project-react/pkg/shopping"
	"github.com/davwin/foodgram-project-react/pkg/subscription"
	"github.com/davwin/foodgram-project-react/pkg/tag"
	"github.com/davwin/foodgram-project-react/pkg/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	metrics.InitMetrics()
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
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	userRepository := user.NewUserRepository(db)
	tagRepository := tag.NewTagRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	relationRepository := relation.NewRelationRepository(db)
	shoppingRepository := shopping.NewShoppingRepository(db)
	subscriptionRepository := subscription.NewSubscriptionRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	relationService := relation.NewRelationService(relationRepository)
	userService := user.NewUserService(userRepository, relationService, jwtService)
	tagService := tag.NewTagService(tagRepository)
	ingredientService := ingredient.NewIngredientService(ingredientRepository)
	recipeService := recipe.NewRecipeService(recipeRepository, tagRepository, ingredientRepository, relationService)
	shoppingService := shopping.NewShoppingService(shoppingRepository, recipeRepository, relationService)
	subscriptionService := subscription.NewSubscriptionService(subscriptionRepository, userRepository, recipeRepository, relationService)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	tagHandler := handlers.NewTagHandler(tagService)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, shoppingService, s3, validator)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		TagHandler:          tagHandler,
		IngredientHandler:   ingredientHandler,
		RecipeHandler:       recipeHandler,
		SubscriptionHandler: subscriptionHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
