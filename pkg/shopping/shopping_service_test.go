package shopping

import (
	"context"
	"testing"
	"time"

	"github.com/davwin/foodgram-project-react/domain"
	"github.com/davwin/foodgram-project-react/entities"
	"github.com/davwin/foodgram-project-react/internal/testutils"
	"github.com/davwin/foodgram-project-react/pkg/recipe"
	"github.com/davwin/foodgram-project-react/pkg/relation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (ShoppingService, recipe.RecipeRepository, *gorm.DB) {
	t.Helper()

	db := testutils.NewTestDB(t)
	recipeRepository := recipe.NewRecipeRepository(db)
	service := NewShoppingService(
		NewShoppingRepository(db),
		recipeRepository,
		relation.NewRelationService(relation.NewRelationRepository(db)),
	)
	return service, recipeRepository, db
}

func seedRecipe(t *testing.T, db *gorm.DB, repo recipe.RecipeRepository, author *entities.User, name string, lines []entities.RecipeIngredient) *entities.Recipe {
	t.Helper()

	r := &entities.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "steps",
		CookingTime: 10,
		PubDate:     time.Now().UTC(),
		Ingredients: lines,
	}
	require.NoError(t, repo.Create(context.Background(), r))
	return r
}

func TestAggregateSumsByNameAndUnit(t *testing.T) {
	service, repo, db := newService(t)
	ctx := context.Background()

	author := testutils.SeedUser(t, db, "alice")
	flour := testutils.SeedIngredient(t, db, "flour", "g")
	eggs := testutils.SeedIngredient(t, db, "eggs", "pcs")
	milk := testutils.SeedIngredient(t, db, "milk", "ml")

	pancakes := seedRecipe(t, db, repo, author, "Pancakes", []entities.RecipeIngredient{
		{IngredientID: flour.ID, Amount: 200},
		{IngredientID: eggs.ID, Amount: 2},
	})
	bread := seedRecipe(t, db, repo, author, "Bread", []entities.RecipeIngredient{
		{IngredientID: flour.ID, Amount: 100},
		{IngredientID: milk.ID, Amount: 50},
	})

	_, err := service.AddToCart(ctx, pancakes.ID.String(), author.ID.String())
	require.NoError(t, err)
	_, err = service.AddToCart(ctx, bread.ID.String(), author.ID.String())
	require.NoError(t, err)

	items, err := service.DownloadShoppingList(ctx, author.ID.String())
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, domain.PurchaseItem{Name: "eggs", MeasurementUnit: "pcs", TotalAmount: 2}, items[0])
	assert.Equal(t, domain.PurchaseItem{Name: "flour", MeasurementUnit: "g", TotalAmount: 300}, items[1])
	assert.Equal(t, domain.PurchaseItem{Name: "milk", MeasurementUnit: "ml", TotalAmount: 50}, items[2])
}

func TestAggregateIgnoresOtherCarts(t *testing.T) {
	service, repo, db := newService(t)
	ctx := context.Background()

	alice := testutils.SeedUser(t, db, "alice")
	bob := testutils.SeedUser(t, db, "bob")
	flour := testutils.SeedIngredient(t, db, "flour", "g")

	pancakes := seedRecipe(t, db, repo, alice, "Pancakes", []entities.RecipeIngredient{
		{IngredientID: flour.ID, Amount: 200},
	})

	_, err := service.AddToCart(ctx, pancakes.ID.String(), alice.ID.String())
	require.NoError(t, err)

	items, err := service.DownloadShoppingList(ctx, bob.ID.String())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartToggle(t *testing.T) {
	service, repo, db := newService(t)
	ctx := context.Background()

	author := testutils.SeedUser(t, db, "alice")
	flour := testutils.SeedIngredient(t, db, "flour", "g")

	pancakes := seedRecipe(t, db, repo, author, "Pancakes", []entities.RecipeIngredient{
		{IngredientID: flour.ID, Amount: 200},
	})

	compact, err := service.AddToCart(ctx, pancakes.ID.String(), author.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", compact.Name)

	_, err = service.AddToCart(ctx, pancakes.ID.String(), author.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyInCart)

	require.NoError(t, service.RemoveFromCart(ctx, pancakes.ID.String(), author.ID.String()))
	err = service.RemoveFromCart(ctx, pancakes.ID.String(), author.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotInCart)

	_, err = service.AddToCart(ctx, "00000000-0000-0000-0000-000000000000", author.ID.String())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestDeletedRecipeLeavesTheList(t *testing.T) {
	service, repo, db := newService(t)
	ctx := context.Background()

	author := testutils.SeedUser(t, db, "alice")
	flour := testutils.SeedIngredient(t, db, "flour", "g")

	pancakes := seedRecipe(t, db, repo, author, "Pancakes", []entities.RecipeIngredient{
		{IngredientID: flour.ID, Amount: 200},
	})

	_, err := service.AddToCart(ctx, pancakes.ID.String(), author.ID.String())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, pancakes.ID))

	items, err := service.DownloadShoppingList(ctx, author.ID.String())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRenderShoppingList(t *testing.T) {
	service, _, _ := newService(t)

	text := service.RenderShoppingList([]domain.PurchaseItem{
		{Name: "flour", MeasurementUnit: "g", TotalAmount: 300},
		{Name: "milk", MeasurementUnit: "ml", TotalAmount: 50},
	})

	assert.Contains(t, text, "flour (g) - 300")
	assert.Contains(t, text, "milk (ml) - 50")
}
