package relation

import (
	"context"
	"testing"
	"time"

	"github.com/davwin/foodgram-project-react/domain"
	"github.com/davwin/foodgram-project-react/entities"
	"github.com/davwin/foodgram-project-react/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (RelationService, *gorm.DB) {
	db := testutils.NewTestDB(t)
	return NewRelationService(NewRelationRepository(db)), db
}

func seedRecipe(t *testing.T, db *gorm.DB, author *entities.User) *entities.Recipe {
	t.Helper()

	recipe := &entities.Recipe{
		AuthorID:    author.ID,
		Name:        "borscht",
		Text:        "beets and time",
		Image:       "https://img.example.com/borscht.png",
		CookingTime: 90,
		PubDate:     time.Now(),
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}

func TestAddAndExists(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	user := testutils.SeedUser(t, db, "alice")
	author := testutils.SeedUser(t, db, "bob")
	recipe := seedRecipe(t, db, author)

	for _, kind := range []Kind{KindFavorite, KindCart} {
		require.NoError(t, svc.Add(ctx, kind, user.ID, recipe.ID))

		exists, err := svc.Exists(ctx, kind, user.ID, recipe.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = svc.Exists(ctx, kind, author.ID, recipe.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	}

	require.NoError(t, svc.Add(ctx, KindFollow, user.ID, author.ID))
	exists, err := svc.Exists(ctx, KindFollow, user.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDuplicateAddConflicts(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	user := testutils.SeedUser(t, db, "alice")
	author := testutils.SeedUser(t, db, "bob")
	recipe := seedRecipe(t, db, author)

	require.NoError(t, svc.Add(ctx, KindFavorite, user.ID, recipe.ID))
	assert.ErrorIs(t, svc.Add(ctx, KindFavorite, user.ID, recipe.ID), domain.ErrAlreadyFavorited)

	require.NoError(t, svc.Add(ctx, KindCart, user.ID, recipe.ID))
	assert.ErrorIs(t, svc.Add(ctx, KindCart, user.ID, recipe.ID), domain.ErrAlreadyInCart)

	require.NoError(t, svc.Add(ctx, KindFollow, user.ID, author.ID))
	assert.ErrorIs(t, svc.Add(ctx, KindFollow, user.ID, author.ID), domain.ErrAlreadyFollowing)
}

func TestRemoveAbsentPair(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	user := testutils.SeedUser(t, db, "alice")
	author := testutils.SeedUser(t, db, "bob")
	recipe := seedRecipe(t, db, author)

	assert.ErrorIs(t, svc.Remove(ctx, KindFavorite, user.ID, recipe.ID), domain.ErrNotFavorited)
	assert.ErrorIs(t, svc.Remove(ctx, KindCart, user.ID, recipe.ID), domain.ErrNotInCart)
	assert.ErrorIs(t, svc.Remove(ctx, KindFollow, user.ID, author.ID), domain.ErrNotFollowing)
}

func TestAddRemoveRoundTrip(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	user := testutils.SeedUser(t, db, "alice")
	author := testutils.SeedUser(t, db, "bob")
	recipe := seedRecipe(t, db, author)

	require.NoError(t, svc.Add(ctx, KindCart, user.ID, recipe.ID))
	require.NoError(t, svc.Remove(ctx, KindCart, user.ID, recipe.ID))

	exists, err := svc.Exists(ctx, KindCart, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	// The pair can be re-added after removal.
	require.NoError(t, svc.Add(ctx, KindCart, user.ID, recipe.ID))
}

func TestSelfFollowRejected(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	user := testutils.SeedUser(t, db, "alice")

	assert.ErrorIs(t, svc.Add(ctx, KindFollow, user.ID, user.ID), domain.ErrSelfFollow)

	var count int64
	require.NoError(t, db.Model(&entities.Follow{}).Count(&count).Error)
	assert.Zero(t, count)
}
