package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/davwin/foodgram-project-react/entities"
	"github.com/davwin/foodgram-project-react/internal/testutils"
	"github.com/davwin/foodgram-project-react/pkg/ingredient"
	"github.com/davwin/foodgram-project-react/pkg/recipe"
	"github.com/davwin/foodgram-project-react/pkg/relation"
	"github.com/davwin/foodgram-project-react/pkg/shopping"
	"github.com/davwin/foodgram-project-react/pkg/tag"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadShoppingCartAttachment(t *testing.T) {
	db := testutils.NewTestDB(t)
	ctx := context.Background()

	recipeRepository := recipe.NewRecipeRepository(db)
	relationService := relation.NewRelationService(relation.NewRelationRepository(db))
	shoppingService := shopping.NewShoppingService(shopping.NewShoppingRepository(db), recipeRepository, relationService)
	recipeService := recipe.NewRecipeService(
		recipeRepository,
		tag.NewTagRepository(db),
		ingredient.NewIngredientRepository(db),
		relationService,
	)
	handler := NewRecipeHandler(recipeService, shoppingService, nil, validator.New())

	user := testutils.SeedUser(t, db, "alice")
	flour := testutils.SeedIngredient(t, db, "flour", "g")
	r := &entities.Recipe{
		AuthorID:    user.ID,
		Name:        "Pancakes",
		Text:        "steps",
		CookingTime: 10,
		PubDate:     time.Now().UTC(),
		Ingredients: []entities.RecipeIngredient{{IngredientID: flour.ID, Amount: 200}},
	}
	require.NoError(t, recipeRepository.Create(ctx, r))
	_, err := shoppingService.AddToCart(ctx, r.ID.String(), user.ID.String())
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/api/recipes/download_shopping_cart", func(c *fiber.Ctx) error {
		c.Locals("user_id", user.ID.String())
		return c.Next()
	}, handler.DownloadShoppingCart)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/recipes/download_shopping_cart", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), `filename="purchase_list.txt"`)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/plain")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "flour (g) - 200")
}
