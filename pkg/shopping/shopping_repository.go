package shopping

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/davwin/foodgram-project-react/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ShoppingRepository interface {
		Aggregate(ctx context.Context, userID uuid.UUID) ([]domain.PurchaseItem, error)
	}

	shoppingRepository struct {
		db *gorm.DB
	}
)

func NewShoppingRepository(db *gorm.DB) ShoppingRepository {
	return &shoppingRepository{db: db}
}

// Aggregate sums the ingredient amounts across every recipe in the user's
// cart. Ingredients are identified by their (name, unit) pair, so two
// ingredient rows that share both collapse into a single line.
func (r *shoppingRepository) Aggregate(ctx context.Context, userID uuid.UUID) ([]domain.PurchaseItem, error) {
	sql, args, err := sq.
		Select(
			"ingredients.name",
			"ingredients.measurement_unit",
			"SUM(recipe_ingredients.amount) AS total_amount",
		).
		From("recipe_ingredients").
		Join("ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Join("cart_items ON cart_items.recipe_id = recipe_ingredients.recipe_id").
		Where(sq.Eq{"cart_items.user_id": userID}).
		GroupBy("ingredients.name", "ingredients.measurement_unit").
		OrderBy("ingredients.name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var items []domain.PurchaseItem
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
