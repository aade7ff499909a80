package subscription

import (
	"context"
	"errors"

	"github.com/davwin/foodgram-project-react/domain"
	"github.com/davwin/foodgram-project-react/entities"
	"github.com/davwin/foodgram-project-react/pkg/recipe"
	"github.com/davwin/foodgram-project-react/pkg/relation"
	"github.com/davwin/foodgram-project-react/pkg/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	SubscriptionService interface {
		Subscribe(ctx context.Context, authorID string, userID string, recipesLimit int) (domain.SubscriptionResponse, error)
		Unsubscribe(ctx context.Context, authorID string, userID string) error
		GetSubscriptions(ctx context.Context, userID string, page, limit, recipesLimit int) ([]domain.SubscriptionResponse, int64, error)
	}

	subscriptionService struct {
		subscriptionRepository SubscriptionRepository
		userRepository         user.UserRepository
		recipeRepository       recipe.RecipeRepository
		relationService        relation.RelationService
	}
)

func NewSubscriptionService(
	subscriptionRepository SubscriptionRepository,
	userRepository user.UserRepository,
	recipeRepository recipe.RecipeRepository,
	relationService relation.RelationService,
) SubscriptionService {
	return &subscriptionService{
		subscriptionRepository: subscriptionRepository,
		userRepository:         userRepository,
		recipeRepository:       recipeRepository,
		relationService:        relationService,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, authorID string, userID string, recipesLimit int) (domain.SubscriptionResponse, error) {
	follower, err := uuid.Parse(userID)
	if err != nil {
		return domain.SubscriptionResponse{}, domain.ErrParseUUID
	}
	author, err := s.getAuthor(ctx, authorID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}

	if err := s.relationService.Add(ctx, relation.KindFollow, follower, author.ID); err != nil {
		return domain.SubscriptionResponse{}, err
	}

	return s.toResponse(ctx, author, recipesLimit)
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, authorID string, userID string) error {
	follower, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	author, err := s.getAuthor(ctx, authorID)
	if err != nil {
		return err
	}
	return s.relationService.Remove(ctx, relation.KindFollow, follower, author.ID)
}

func (s *subscriptionService) GetSubscriptions(ctx context.Context, userID string, page, limit, recipesLimit int) ([]domain.SubscriptionResponse, int64, error) {
	follower, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}

	authors, count, err := s.subscriptionRepository.GetFollowedAuthors(ctx, follower, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]domain.SubscriptionResponse, 0, len(authors))
	for _, author := range authors {
		response, err := s.toResponse(ctx, author, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, response)
	}
	return responses, count, nil
}

func (s *subscriptionService) getAuthor(ctx context.Context, authorID string) (*entities.User, error) {
	id, err := uuid.Parse(authorID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	author, err := s.userRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return author, nil
}

// toResponse embeds a recipes_limit-capped preview of the author's recipes
// while recipes_count always reflects the full total.
func (s *subscriptionService) toResponse(ctx context.Context, author *entities.User, recipesLimit int) (domain.SubscriptionResponse, error) {
	recipes, err := s.recipeRepository.ListByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	count, err := s.recipeRepository.CountByAuthor(ctx, author.ID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}

	response := domain.SubscriptionResponse{
		ID:           author.ID.String(),
		Email:        author.Email,
		Username:     author.Username,
		FirstName:    author.FirstName,
		LastName:     author.LastName,
		IsSubscribed: true,
		Recipes:      make([]domain.RecipeCompactResponse, 0, len(recipes)),
		RecipesCount: count,
	}
	for _, r := range recipes {
		response.Recipes = append(response.Recipes, domain.RecipeCompactResponse{
			ID:          r.ID.String(),
			Name:        r.Name,
			Image:       r.Image,
			CookingTime: r.CookingTime,
		})
	}
	return response, nil
}
