package recipe

import (
	"context"

	"github.com/davwin/foodgram-project-react/domain"
	"github.com/davwin/foodgram-project-react/entities"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeRepository interface {
		Create(ctx context.Context, recipe *entities.Recipe) error
		Replace(ctx context.Context, recipe *entities.Recipe, tags []entities.Tag, lines []entities.RecipeIngredient) error
		Delete(ctx context.Context, id uuid.UUID) error
		GetByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		List(ctx context.Context, filter domain.RecipeFilter, viewerID *uuid.UUID, page, limit int) ([]*entities.Recipe, int64, error)
		ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*entities.Recipe, error)
		CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// Create persists the recipe row together with its tag links and ingredient
// lines. Gorm wraps the association writes in one transaction.
func (r *recipeRepository) Create(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

// Replace is full-replace semantics: scalar fields are overwritten and the
// tag set and ingredient lines are swapped for the given ones, atomically.
// AuthorID and PubDate are never touched.
func (r *recipeRepository) Replace(ctx context.Context, recipe *entities.Recipe, tags []entities.Tag, lines []entities.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         recipe.Name,
			"image":        recipe.Image,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
		}
		if err := tx.Model(&entities.Recipe{}).
			Where("id = ?", recipe.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Model(&entities.Recipe{ID: recipe.ID}).
			Association("Tags").Replace(tags); err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).
			Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the recipe and everything referencing it: ingredient
// lines, tag links, favorites and cart rows.
func (r *recipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Recipe{}).Error
	})
}

func (r *recipeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) List(ctx context.Context, filter domain.RecipeFilter, viewerID *uuid.UUID, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.Recipe{})

	if len(filter.Tags) > 0 {
		tagged := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.Tags)
		query = query.Where("recipes.id IN (?)", tagged)
	}

	if filter.Author != "" {
		query = query.Where("recipes.author_id = ?", filter.Author)
	}

	// The viewer-relative filters only apply to authenticated viewers;
	// for anonymous requests they are ignored, not errors.
	if viewerID != nil {
		if filter.IsFavorited != nil {
			favorited := r.db.Table("favorites").
				Select("favorites.recipe_id").
				Where("favorites.user_id = ?", *viewerID)
			if *filter.IsFavorited {
				query = query.Where("recipes.id IN (?)", favorited)
			} else {
				query = query.Where("recipes.id NOT IN (?)", favorited)
			}
		}
		if filter.IsInShoppingCart != nil {
			carted := r.db.Table("cart_items").
				Select("cart_items.recipe_id").
				Where("cart_items.user_id = ?", *viewerID)
			if *filter.IsInShoppingCart {
				query = query.Where("recipes.id IN (?)", carted)
			} else {
				query = query.Where("recipes.id NOT IN (?)", carted)
			}
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("pub_date desc, id asc").
		Offset(offset).
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	query := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date desc, id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
