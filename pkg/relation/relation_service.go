package relation

import (
	"context"
	"errors"

	"github.com/davwin/foodgram-project-react/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// RelationService manages idempotent membership in the unique pair
	// tables (favorite, shopping cart, follow). Explicit duplicate adds
	// and removes of absent pairs are client errors, not no-ops.
	RelationService interface {
		Add(ctx context.Context, kind Kind, userID, targetID uuid.UUID) error
		Remove(ctx context.Context, kind Kind, userID, targetID uuid.UUID) error
		Exists(ctx context.Context, kind Kind, userID, targetID uuid.UUID) (bool, error)
	}

	relationService struct {
		relationRepository RelationRepository
	}
)

func NewRelationService(relationRepository RelationRepository) RelationService {
	return &relationService{relationRepository: relationRepository}
}

func (s *relationService) Add(ctx context.Context, kind Kind, userID, targetID uuid.UUID) error {
	if kind == KindFollow && userID == targetID {
		return domain.ErrSelfFollow
	}

	if err := s.relationRepository.Add(ctx, kind, userID, targetID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return conflictError(kind)
		}
		return err
	}
	return nil
}

func (s *relationService) Remove(ctx context.Context, kind Kind, userID, targetID uuid.UUID) error {
	removed, err := s.relationRepository.Remove(ctx, kind, userID, targetID)
	if err != nil {
		return err
	}
	if !removed {
		return notFoundError(kind)
	}
	return nil
}

func (s *relationService) Exists(ctx context.Context, kind Kind, userID, targetID uuid.UUID) (bool, error) {
	return s.relationRepository.Exists(ctx, kind, userID, targetID)
}

func conflictError(kind Kind) error {
	switch kind {
	case KindFavorite:
		return domain.ErrAlreadyFavorited
	case KindCart:
		return domain.ErrAlreadyInCart
	default:
		return domain.ErrAlreadyFollowing
	}
}

func notFoundError(kind Kind) error {
	switch kind {
	case KindFavorite:
		return domain.ErrNotFavorited
	case KindCart:
		return domain.ErrNotInCart
	default:
		return domain.ErrNotFollowing
	}
}
