package ingredient

import (
	"context"
	"strings"

	"github.com/davwin/foodgram-project-react/entities"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	IngredientRepository interface {
		Search(ctx context.Context, name string) ([]*entities.Ingredient, error)
		GetByID(ctx context.Context, id uuid.UUID) (*entities.Ingredient, error)
		GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entities.Ingredient, error)
	}

	ingredientRepository struct {
		db *gorm.DB
	}
)

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

// Search lists prefix matches first, then the remaining substring matches,
// both case-insensitive. An empty name returns everything.
func (r *ingredientRepository) Search(ctx context.Context, name string) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient

	if name == "" {
		if err := r.db.WithContext(ctx).Order("name asc").Find(&ingredients).Error; err != nil {
			return nil, err
		}
		return ingredients, nil
	}

	pattern := strings.ToLower(name)
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", pattern+"%").
		Order("name asc").
		Find(&ingredients).Error; err != nil {
		return nil, err
	}

	var contains []*entities.Ingredient
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? AND LOWER(name) NOT LIKE ?", "%"+pattern+"%", pattern+"%").
		Order("name asc").
		Find(&contains).Error; err != nil {
		return nil, err
	}

	return append(ingredients, contains...), nil
}

func (r *ingredientRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entities.Ingredient, error) {
	var ingredients []entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}
