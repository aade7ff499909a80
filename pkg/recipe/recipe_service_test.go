package recipe

import (
	"context"
	"testing"
	"time"

	"github.com/davwin/foodgram-project-react/domain"
	"github.com/davwin/foodgram-project-react/entities"
	"github.com/davwin/foodgram-project-react/internal/testutils"
	"github.com/davwin/foodgram-project-react/pkg/ingredient"
	"github.com/davwin/foodgram-project-react/pkg/relation"
	"github.com/davwin/foodgram-project-react/pkg/tag"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (RecipeService, relation.RelationService, *gorm.DB) {
	t.Helper()

	db := testutils.NewTestDB(t)
	relationService := relation.NewRelationService(relation.NewRelationRepository(db))
	service := NewRecipeService(
		NewRecipeRepository(db),
		tag.NewTagRepository(db),
		ingredient.NewIngredientRepository(db),
		relationService,
	)
	return service, relationService, db
}

func draft(tags []string, ingredients []domain.IngredientAmountRequest) domain.RecipeRequest {
	return domain.RecipeRequest{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		Image:       "https://img.example.com/pancakes.png",
		CookingTime: 20,
		Tags:        tags,
		Ingredients: ingredients,
	}
}

func TestCreateAndGetRecipe(t *testing.T) {
	service, _, db := newService(t)
	ctx := context.Background()

	author := testutils.SeedUser(t, db, "alice")
	breakfast := testutils.SeedTag(t, db, "breakfast")
	flour := testutils.SeedIngredient(t, db, "flour", "g")
	milk := testutils.SeedIngredient(t, db, "milk", "ml")

	created, err := service.CreateRecipe(ctx, draft(
		[]string{breakfast.ID.String()},
		[]domain.IngredientAmountRequest{
			{ID: flour.ID.String(), Amount: 300},
			{ID: milk.ID.String(), Amount: 200},
		},
	), author.ID.String())
	require.NoError(t, err)

	got, err := service.GetRecipeDetail(ctx, created.ID, &author.ID)
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", got.Name)
	assert.Equal(t, 20, got.CookingTime)
	assert.Equal(t, author.Username, got.Author.Username)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "breakfast", got.Tags[0].Slug)

	require.Len(t, got.Ingredients, 2)
	amounts := map[string]int{}
	for _, line := range got.Ingredients {
		amounts[line.Name] = line.Amount
		assert.NotEmpty(t, line.MeasurementUnit)
	}
	assert.Equal(t, map[string]int{"flour": 300, "milk": 200}, amounts)

	assert.False(t, got.IsFavorited)
	assert.False(t, got.IsInShoppingCart)
}

func TestCreateValidatesReferences(t *testing.T) {
	service, _, db := newService(t)
	ctx := context.Background()

	author := testutils.SeedUser(t, db, "alice")
	breakfast := testutils.SeedTag(t, db, "breakfast")
	flour := testutils.SeedIngredient(t, db, "flour", "g")

	_, err := service.CreateRecipe(ctx, draft(
		[]string{breakfast.ID.String()},
		[]domain.IngredientAmountRequest{
			{ID: flour.ID.String(), Amount: 100},
			{ID: flour.ID.String(), Amount: 200},
		},
	), author.ID.String())
	assert.ErrorIs(t, err, domain.ErrDuplicateIngredient)

	_, err = service.CreateRecipe(ctx, draft(
		[]string{"00000000-0000-0000-0000-000000000000"},
		[]domain.IngredientAmountRequest{{ID: flour.ID.String(), Amount: 100}},
	), author.ID.String())
	assert.ErrorIs(t, err, domain.ErrTagNotFound)

	_, err = service.CreateRecipe(ctx, draft(
		[]string{breakfast.ID.String()},
		[]domain.IngredientAmountRequest{{ID: "00000000-0000-0000-0000-000000000000", Amount: 100}},
	), author.ID.String())
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)

	// Nothing was written for the rejected drafts.
	var count int64
	require.NoError(t, db.Model(&entities.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateReplacesIngredientsAndTags(t *testing.T) {
	service, _, db := newService(t)
	ctx := context.Background()

	author := testutils.SeedUser(t, db, "alice")
	breakfast := testutils.SeedTag(t, db, "breakfast")
	dinner := testutils.SeedTag(t, db, "dinner")
	flour := testutils.SeedIngredient(t, db, "flour", "g")
	milk := testutils.SeedIngredient(t, db, "milk", "ml")
	salt := testutils.SeedIngredient(t, db, "salt", "g")

	created, err := service.CreateRecipe(ctx, draft(
		[]string{breakfast.ID.String()},
		[]domain.IngredientAmountRequest{
			{ID: flour.ID.String(), Amount: 2},
			{ID: milk.ID.String(), Amount: 3},
		},
	), author.ID.String())
	require.NoError(t, err)

	replacement := draft(
		[]string{dinner.ID.String()},
		[]domain.IngredientAmountRequest{{ID: salt.ID.String(), Amount: 1}},
	)
	replacement.Name = "Salted Pancakes"

	updated, err := service.UpdateRecipe(ctx, created.ID, replacement, author.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Salted Pancakes", updated.Name)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "dinner", updated.Tags[0].Slug)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "salt", updated.Ingredients[0].Name)
	assert.Equal(t, 1, updated.Ingredients[0].Amount)

	// The old lines are gone, not merged.
	var lines int64
	require.NoError(t, db.Model(&entities.RecipeIngredient{}).Count(&lines).Error)
	assert.Equal(t, int64(1), lines)
}

func TestOnlyAuthorCanModify(t *testing.T) {
	service, _, db := newService(t)
	ctx := context.Background()

	author := testutils.SeedUser(t, db, "alice")
	intruder := testutils.SeedUser(t, db, "bob")
	breakfast := testutils.SeedTag(t, db, "breakfast")
	flour := testutils.SeedIngredient(t, db, "flour", "g")

	request := draft(
		[]string{breakfast.ID.String()},
		[]domain.IngredientAmountRequest{{ID: flour.ID.String(), Amount: 100}},
	)
	created, err := service.CreateRecipe(ctx, request, author.ID.String())
	require.NoError(t, err)

	_, err = service.UpdateRecipe(ctx, created.ID, request, intruder.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotRecipeAuthor)

	err = service.DeleteRecipe(ctx, created.ID, intruder.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotRecipeAuthor)

	_, err = service.GetRecipeDetail(ctx, created.ID, nil)
	assert.NoError(t, err)
}

func TestDeleteCleansUpReferences(t *testing.T) {
	service, _, db := newService(t)
	ctx := context.Background()

	author := testutils.SeedUser(t, db, "alice")
	fan := testutils.SeedUser(t, db, "bob")
	breakfast := testutils.SeedTag(t, db, "breakfast")
	flour := testutils.SeedIngredient(t, db, "flour", "g")

	created, err := service.CreateRecipe(ctx, draft(
		[]string{breakfast.ID.String()},
		[]domain.IngredientAmountRequest{{ID: flour.ID.String(), Amount: 100}},
	), author.ID.String())
	require.NoError(t, err)

	_, err = service.FavoriteRecipe(ctx, created.ID, fan.ID.String())
	require.NoError(t, err)

	require.NoError(t, service.DeleteRecipe(ctx, created.ID, author.ID.String()))

	_, err = service.GetRecipeDetail(ctx, created.ID, nil)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	var favorites, lines int64
	require.NoError(t, db.Model(&entities.Favorite{}).Count(&favorites).Error)
	require.NoError(t, db.Model(&entities.RecipeIngredient{}).Count(&lines).Error)
	assert.Zero(t, favorites)
	assert.Zero(t, lines)

	// Reference data survives recipe deletion.
	var tags, ingredients int64
	require.NoError(t, db.Model(&entities.Tag{}).Count(&tags).Error)
	require.NoError(t, db.Model(&entities.Ingredient{}).Count(&ingredients).Error)
	assert.Equal(t, int64(1), tags)
	assert.Equal(t, int64(1), ingredients)
}

func TestFavoriteToggle(t *testing.T) {
	service, _, db := newService(t)
	ctx := context.Background()

	author := testutils.SeedUser(t, db, "alice")
	fan := testutils.SeedUser(t, db, "bob")
	breakfast := testutils.SeedTag(t, db, "breakfast")
	flour := testutils.SeedIngredient(t, db, "flour", "g")

	created, err := service.CreateRecipe(ctx, draft(
		[]string{breakfast.ID.String()},
		[]domain.IngredientAmountRequest{{ID: flour.ID.String(), Amount: 100}},
	), author.ID.String())
	require.NoError(t, err)

	compact, err := service.FavoriteRecipe(ctx, created.ID, fan.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, compact.ID)
	assert.Equal(t, "Pancakes", compact.Name)

	_, err = service.FavoriteRecipe(ctx, created.ID, fan.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyFavorited)

	got, err := service.GetRecipeDetail(ctx, created.ID, &fan.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFavorited)

	require.NoError(t, service.UnfavoriteRecipe(ctx, created.ID, fan.ID.String()))
	err = service.UnfavoriteRecipe(ctx, created.ID, fan.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFavorited)
}

func TestListFilters(t *testing.T) {
	service, relationService, db := newService(t)
	ctx := context.Background()

	alice := testutils.SeedUser(t, db, "alice")
	bob := testutils.SeedUser(t, db, "bob")
	breakfast := testutils.SeedTag(t, db, "breakfast")
	dinner := testutils.SeedTag(t, db, "dinner")
	flour := testutils.SeedIngredient(t, db, "flour", "g")

	line := []domain.IngredientAmountRequest{{ID: flour.ID.String(), Amount: 100}}

	pancakes, err := service.CreateRecipe(ctx, draft([]string{breakfast.ID.String()}, line), alice.ID.String())
	require.NoError(t, err)

	stewDraft := draft([]string{dinner.ID.String()}, line)
	stewDraft.Name = "Stew"
	stew, err := service.CreateRecipe(ctx, stewDraft, bob.ID.String())
	require.NoError(t, err)

	// Newest first.
	all, total, err := service.GetRecipes(ctx, domain.RecipeFilter{}, nil, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, all, 2)
	assert.Equal(t, stew.ID, all[0].ID)
	assert.Equal(t, pancakes.ID, all[1].ID)

	byTag, _, err := service.GetRecipes(ctx, domain.RecipeFilter{Tags: []string{"breakfast"}}, nil, 1, 10)
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, pancakes.ID, byTag[0].ID)

	byAuthor, _, err := service.GetRecipes(ctx, domain.RecipeFilter{Author: bob.ID.String()}, nil, 1, 10)
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, stew.ID, byAuthor[0].ID)

	favorited := true
	pancakesID := mustRecipeUUID(t, db, pancakes.ID)
	require.NoError(t, relationService.Add(ctx, relation.KindFavorite, bob.ID, pancakesID))

	onlyFavorited, _, err := service.GetRecipes(ctx, domain.RecipeFilter{IsFavorited: &favorited}, &bob.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, onlyFavorited, 1)
	assert.Equal(t, pancakes.ID, onlyFavorited[0].ID)
	assert.True(t, onlyFavorited[0].IsFavorited)

	// Anonymous viewers get the unfiltered list.
	anonymous, _, err := service.GetRecipes(ctx, domain.RecipeFilter{IsFavorited: &favorited}, nil, 1, 10)
	require.NoError(t, err)
	assert.Len(t, anonymous, 2)
}

func TestStorageRejectsNonPositiveAmounts(t *testing.T) {
	service, _, db := newService(t)
	ctx := context.Background()

	author := testutils.SeedUser(t, db, "alice")
	breakfast := testutils.SeedTag(t, db, "breakfast")
	flour := testutils.SeedIngredient(t, db, "flour", "g")

	created, err := service.CreateRecipe(ctx, draft(
		[]string{breakfast.ID.String()},
		[]domain.IngredientAmountRequest{{ID: flour.ID.String(), Amount: 100}},
	), author.ID.String())
	require.NoError(t, err)

	// The check constraints hold even for writes that bypass the request
	// validator.
	recipeID := mustRecipeUUID(t, db, created.ID)
	milk := testutils.SeedIngredient(t, db, "milk", "ml")
	err = db.Create(&entities.RecipeIngredient{
		RecipeID:     recipeID,
		IngredientID: milk.ID,
		Amount:       0,
	}).Error
	assert.Error(t, err)

	err = db.Create(&entities.Recipe{
		AuthorID:    author.ID,
		Name:        "Raw",
		Text:        "steps",
		CookingTime: 0,
		PubDate:     time.Now().UTC(),
	}).Error
	assert.Error(t, err)
}

func mustRecipeUUID(t *testing.T, db *gorm.DB, id string) uuid.UUID {
	t.Helper()

	var r entities.Recipe
	require.NoError(t, db.Where("id = ?", id).First(&r).Error)
	return r.ID
}
