package relation

import (
	"context"
	"fmt"

	"github.com/davwin/foodgram-project-react/entities"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind selects which unique (user, target) pair table an operation acts on.
type Kind string

const (
	KindFavorite Kind = "favorite"
	KindCart     Kind = "shopping_cart"
	KindFollow   Kind = "follow"
)

type (
	RelationRepository interface {
		Add(ctx context.Context, kind Kind, userID, targetID uuid.UUID) error
		// Remove reports whether a row was actually deleted.
		Remove(ctx context.Context, kind Kind, userID, targetID uuid.UUID) (bool, error)
		Exists(ctx context.Context, kind Kind, userID, targetID uuid.UUID) (bool, error)
	}

	relationRepository struct {
		db *gorm.DB
	}
)

func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

func (r *relationRepository) Add(ctx context.Context, kind Kind, userID, targetID uuid.UUID) error {
	// No existence pre-check: the unique index is the authority on
	// duplicates, also under concurrent requests.
	switch kind {
	case KindFavorite:
		return r.db.WithContext(ctx).Create(&entities.Favorite{
			UserID:   userID,
			RecipeID: targetID,
		}).Error
	case KindCart:
		return r.db.WithContext(ctx).Create(&entities.CartItem{
			UserID:   userID,
			RecipeID: targetID,
		}).Error
	case KindFollow:
		return r.db.WithContext(ctx).Create(&entities.Follow{
			UserID:   userID,
			AuthorID: targetID,
		}).Error
	default:
		return fmt.Errorf("unknown relation kind %q", kind)
	}
}

func (r *relationRepository) Remove(ctx context.Context, kind Kind, userID, targetID uuid.UUID) (bool, error) {
	var res *gorm.DB
	switch kind {
	case KindFavorite:
		res = r.db.WithContext(ctx).
			Where("user_id = ? AND recipe_id = ?", userID, targetID).
			Delete(&entities.Favorite{})
	case KindCart:
		res = r.db.WithContext(ctx).
			Where("user_id = ? AND recipe_id = ?", userID, targetID).
			Delete(&entities.CartItem{})
	case KindFollow:
		res = r.db.WithContext(ctx).
			Where("user_id = ? AND author_id = ?", userID, targetID).
			Delete(&entities.Follow{})
	default:
		return false, fmt.Errorf("unknown relation kind %q", kind)
	}
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *relationRepository) Exists(ctx context.Context, kind Kind, userID, targetID uuid.UUID) (bool, error) {
	var count int64
	var err error
	switch kind {
	case KindFavorite:
		err = r.db.WithContext(ctx).Model(&entities.Favorite{}).
			Where("user_id = ? AND recipe_id = ?", userID, targetID).
			Count(&count).Error
	case KindCart:
		err = r.db.WithContext(ctx).Model(&entities.CartItem{}).
			Where("user_id = ? AND recipe_id = ?", userID, targetID).
			Count(&count).Error
	case KindFollow:
		err = r.db.WithContext(ctx).Model(&entities.Follow{}).
			Where("user_id = ? AND author_id = ?", userID, targetID).
			Count(&count).Error
	default:
		return false, fmt.Errorf("unknown relation kind %q", kind)
	}
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
