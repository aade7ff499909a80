package shopping

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/davwin/foodgram-project-react/domain"
	"github.com/davwin/foodgram-project-react/pkg/recipe"
	"github.com/davwin/foodgram-project-react/pkg/relation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ShoppingService interface {
		AddToCart(ctx context.Context, recipeID string, userID string) (domain.RecipeCompactResponse, error)
		RemoveFromCart(ctx context.Context, recipeID string, userID string) error
		DownloadShoppingList(ctx context.Context, userID string) ([]domain.PurchaseItem, error)
		RenderShoppingList(items []domain.PurchaseItem) string
	}

	shoppingService struct {
		shoppingRepository ShoppingRepository
		recipeRepository   recipe.RecipeRepository
		relationService    relation.RelationService
	}
)

func NewShoppingService(
	shoppingRepository ShoppingRepository,
	recipeRepository recipe.RecipeRepository,
	relationService relation.RelationService,
) ShoppingService {
	return &shoppingService{
		shoppingRepository: shoppingRepository,
		recipeRepository:   recipeRepository,
		relationService:    relationService,
	}
}

func (s *shoppingService) AddToCart(ctx context.Context, recipeID string, userID string) (domain.RecipeCompactResponse, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeCompactResponse{}, domain.ErrParseUUID
	}
	id, err := uuid.Parse(recipeID)
	if err != nil {
		return domain.RecipeCompactResponse{}, domain.ErrRecipeNotFound
	}

	r, err := s.recipeRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeCompactResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeCompactResponse{}, err
	}

	if err := s.relationService.Add(ctx, relation.KindCart, user, r.ID); err != nil {
		return domain.RecipeCompactResponse{}, err
	}

	return domain.RecipeCompactResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}, nil
}

func (s *shoppingService) RemoveFromCart(ctx context.Context, recipeID string, userID string) error {
	user, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	id, err := uuid.Parse(recipeID)
	if err != nil {
		return domain.ErrRecipeNotFound
	}
	return s.relationService.Remove(ctx, relation.KindCart, user, id)
}

func (s *shoppingService) DownloadShoppingList(ctx context.Context, userID string) ([]domain.PurchaseItem, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	return s.shoppingRepository.Aggregate(ctx, user)
}

// RenderShoppingList formats the aggregated items as the plain text file
// handed to the client, one purchase per line.
func (s *shoppingService) RenderShoppingList(items []domain.PurchaseItem) string {
	var b strings.Builder
	b.WriteString("Shopping list:\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "%s (%s) - %d\n", item.Name, item.MeasurementUnit, item.TotalAmount)
	}
	return b.String()
}
