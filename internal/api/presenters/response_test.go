package presenters

import (
	"errors"
	"testing"

	"github.com/davwin/foodgram-project-react/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, StatusFromError(domain.ErrRecipeNotFound))
	assert.Equal(t, fiber.StatusNotFound, StatusFromError(domain.ErrNotFollowing))

	assert.Equal(t, fiber.StatusConflict, StatusFromError(domain.ErrAlreadyFavorited))
	assert.Equal(t, fiber.StatusConflict, StatusFromError(domain.ErrEmailTaken))

	// Both ownership violations are forbidden, not bad requests.
	assert.Equal(t, fiber.StatusForbidden, StatusFromError(domain.ErrNotRecipeAuthor))
	assert.Equal(t, fiber.StatusForbidden, StatusFromError(domain.ErrSelfFollow))

	assert.Equal(t, fiber.StatusUnauthorized, StatusFromError(domain.ErrInvalidCredentials))
	assert.Equal(t, fiber.StatusUnauthorized, StatusFromError(domain.ErrTokenExpired))

	assert.Equal(t, fiber.StatusBadRequest, StatusFromError(domain.ErrDuplicateIngredient))
	assert.Equal(t, fiber.StatusBadRequest, StatusFromError(errors.New("anything else")))
}
