package recipe

import (
	"context"
	"errors"
	"time"

	"github.com/davwin/foodgram-project-react/domain"
	"github.com/davwin/foodgram-project-react/entities"
	"github.com/davwin/foodgram-project-react/pkg/ingredient"
	"github.com/davwin/foodgram-project-react/pkg/relation"
	"github.com/davwin/foodgram-project-react/pkg/tag"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID *uuid.UUID, page, limit int) ([]domain.RecipeResponse, int64, error)
		GetRecipeDetail(ctx context.Context, recipeID string, viewerID *uuid.UUID) (domain.RecipeResponse, error)
		CreateRecipe(ctx context.Context, req domain.RecipeRequest, userID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.RecipeRequest, userID string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID string, userID string) error
		FavoriteRecipe(ctx context.Context, recipeID string, userID string) (domain.RecipeCompactResponse, error)
		UnfavoriteRecipe(ctx context.Context, recipeID string, userID string) error
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		tagRepository        tag.TagRepository
		ingredientRepository ingredient.IngredientRepository
		relationService      relation.RelationService
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	tagRepository tag.TagRepository,
	ingredientRepository ingredient.IngredientRepository,
	relationService relation.RelationService,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		tagRepository:        tagRepository,
		ingredientRepository: ingredientRepository,
		relationService:      relationService,
	}
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID *uuid.UUID, page, limit int) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.List(ctx, filter, viewerID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]domain.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		response, err := s.toResponse(ctx, r, viewerID)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, response)
	}
	return responses, count, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID string, viewerID *uuid.UUID) (domain.RecipeResponse, error) {
	r, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.toResponse(ctx, r, viewerID)
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.RecipeRequest, userID string) (domain.RecipeResponse, error) {
	authorID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	tags, lines, err := s.resolveDraft(ctx, req)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	r := &entities.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Image:       req.Image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		PubDate:     time.Now().UTC(),
		Tags:        tags,
		Ingredients: lines,
	}
	if err := s.recipeRepository.Create(ctx, r); err != nil {
		return domain.RecipeResponse{}, err
	}

	created, err := s.recipeRepository.GetByID(ctx, r.ID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.toResponse(ctx, created, &authorID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.RecipeRequest, userID string) (domain.RecipeResponse, error) {
	r, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if r.AuthorID.String() != userID {
		return domain.RecipeResponse{}, domain.ErrNotRecipeAuthor
	}

	tags, lines, err := s.resolveDraft(ctx, req)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	r.Name = req.Name
	r.Image = req.Image
	r.Text = req.Text
	r.CookingTime = req.CookingTime
	if err := s.recipeRepository.Replace(ctx, r, tags, lines); err != nil {
		return domain.RecipeResponse{}, err
	}

	updated, err := s.recipeRepository.GetByID(ctx, r.ID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.toResponse(ctx, updated, &r.AuthorID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, userID string) error {
	r, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if r.AuthorID.String() != userID {
		return domain.ErrNotRecipeAuthor
	}
	return s.recipeRepository.Delete(ctx, r.ID)
}

func (s *recipeService) FavoriteRecipe(ctx context.Context, recipeID string, userID string) (domain.RecipeCompactResponse, error) {
	viewerID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeCompactResponse{}, domain.ErrParseUUID
	}
	r, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeCompactResponse{}, err
	}
	if err := s.relationService.Add(ctx, relation.KindFavorite, viewerID, r.ID); err != nil {
		return domain.RecipeCompactResponse{}, err
	}
	return toCompactResponse(r), nil
}

func (s *recipeService) UnfavoriteRecipe(ctx context.Context, recipeID string, userID string) error {
	viewerID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	r, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	return s.relationService.Remove(ctx, relation.KindFavorite, viewerID, r.ID)
}

func (s *recipeService) getRecipe(ctx context.Context, recipeID string) (*entities.Recipe, error) {
	id, err := uuid.Parse(recipeID)
	if err != nil {
		return nil, domain.ErrRecipeNotFound
	}
	r, err := s.recipeRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return r, nil
}

// resolveDraft validates the referenced tags and ingredients and turns the
// request into persistable rows. A recipe may name each ingredient only
// once; repeats are rejected rather than summed.
func (s *recipeService) resolveDraft(ctx context.Context, req domain.RecipeRequest) ([]entities.Tag, []entities.RecipeIngredient, error) {
	tagIDs := make([]uuid.UUID, 0, len(req.Tags))
	seenTags := make(map[uuid.UUID]bool, len(req.Tags))
	for _, raw := range req.Tags {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, nil, domain.ErrTagNotFound
		}
		if seenTags[id] {
			continue
		}
		seenTags[id] = true
		tagIDs = append(tagIDs, id)
	}
	tags, err := s.tagRepository.GetByIDs(ctx, tagIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, nil, domain.ErrTagNotFound
	}

	lines := make([]entities.RecipeIngredient, 0, len(req.Ingredients))
	ingredientIDs := make([]uuid.UUID, 0, len(req.Ingredients))
	seen := make(map[uuid.UUID]bool, len(req.Ingredients))
	for _, item := range req.Ingredients {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			return nil, nil, domain.ErrIngredientNotFound
		}
		if seen[id] {
			return nil, nil, domain.ErrDuplicateIngredient
		}
		seen[id] = true
		ingredientIDs = append(ingredientIDs, id)
		lines = append(lines, entities.RecipeIngredient{IngredientID: id, Amount: item.Amount})
	}
	ingredients, err := s.ingredientRepository.GetByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(ingredients) != len(ingredientIDs) {
		return nil, nil, domain.ErrIngredientNotFound
	}

	return tags, lines, nil
}

func (s *recipeService) toResponse(ctx context.Context, r *entities.Recipe, viewerID *uuid.UUID) (domain.RecipeResponse, error) {
	response := domain.RecipeResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Image:       r.Image,
		Text:        r.Text,
		CookingTime: r.CookingTime,
		Tags:        make([]domain.TagResponse, 0, len(r.Tags)),
		Ingredients: make([]domain.IngredientAmountResponse, 0, len(r.Ingredients)),
	}

	for _, t := range r.Tags {
		response.Tags = append(response.Tags, domain.TagResponse{
			ID:    t.ID.String(),
			Name:  t.Name,
			Color: t.Color,
			Slug:  t.Slug,
		})
	}

	for _, line := range r.Ingredients {
		item := domain.IngredientAmountResponse{
			ID:     line.IngredientID.String(),
			Amount: line.Amount,
		}
		if line.Ingredient != nil {
			item.Name = line.Ingredient.Name
			item.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		response.Ingredients = append(response.Ingredients, item)
	}

	if r.Author != nil {
		response.Author = domain.UserResponse{
			ID:        r.Author.ID.String(),
			Email:     r.Author.Email,
			Username:  r.Author.Username,
			FirstName: r.Author.FirstName,
			LastName:  r.Author.LastName,
		}
	}

	if viewerID != nil {
		favorited, err := s.relationService.Exists(ctx, relation.KindFavorite, *viewerID, r.ID)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		inCart, err := s.relationService.Exists(ctx, relation.KindCart, *viewerID, r.ID)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		response.IsFavorited = favorited
		response.IsInShoppingCart = inCart

		if r.Author != nil {
			subscribed, err := s.relationService.Exists(ctx, relation.KindFollow, *viewerID, r.AuthorID)
			if err != nil {
				return domain.RecipeResponse{}, err
			}
			response.Author.IsSubscribed = subscribed
		}
	}

	return response, nil
}

func toCompactResponse(r *entities.Recipe) domain.RecipeCompactResponse {
	return domain.RecipeCompactResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}
