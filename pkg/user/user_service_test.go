package user

import (
	"context"
	"testing"

	"github.com/davwin/foodgram-project-react/domain"
	"github.com/davwin/foodgram-project-react/internal/testutils"
	"github.com/davwin/foodgram-project-react/pkg/jwt"
	"github.com/davwin/foodgram-project-react/pkg/relation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func mustParse(t *testing.T, id string) uuid.UUID {
	t.Helper()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	return parsed
}

func newService(t *testing.T) (UserService, *gorm.DB) {
	db := testutils.NewTestDB(t)
	relationService := relation.NewRelationService(relation.NewRelationRepository(db))
	return NewUserService(NewUserRepository(db), relationService, jwt.NewJWTService()), db
}

func register(t *testing.T, svc UserService, username string) domain.UserResponse {
	t.Helper()

	res, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "hunter2",
	})
	require.NoError(t, err)
	return res
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, db := newService(t)

	res := register(t, svc, "alice")
	assert.Equal(t, "alice", res.Username)
	assert.False(t, res.IsSubscribed)

	var stored struct{ Password string }
	require.NoError(t, db.Table("users").Where("username = ?", "alice").Take(&stored).Error)
	assert.NotEqual(t, "hunter2", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("hunter2")))
}

func TestRegisterRejectsReservedUsername(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:    "me@example.com",
		Username: "me",
		Password: "hunter2",
	})
	assert.ErrorIs(t, err, domain.ErrUsernameReserved)

	_, err = svc.Register(context.Background(), domain.RegisterRequest{
		Email:    "me2@example.com",
		Username: "ME",
		Password: "hunter2",
	})
	assert.ErrorIs(t, err, domain.ErrUsernameReserved)
}

func TestRegisterRejectsInvalidCharacters(t *testing.T) {
	svc, _ := newService(t)

	for _, username := range []string{"has space", "юзер", "semi;colon", "sla/sh"} {
		_, err := svc.Register(context.Background(), domain.RegisterRequest{
			Email:    "x@example.com",
			Username: username,
			Password: "hunter2",
		})
		assert.ErrorIs(t, err, domain.ErrUsernameInvalid, username)
	}

	register(t, svc, "ok.user+tag_1@x-y")
}

func TestRegisterDuplicates(t *testing.T) {
	svc, _ := newService(t)
	register(t, svc, "alice")

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice2",
		Password: "hunter2",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = svc.Register(context.Background(), domain.RegisterRequest{
		Email:    "other@example.com",
		Username: "alice",
		Password: "hunter2",
	})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t)
	register(t, svc, "alice")

	// By email and by username.
	for _, identifier := range []string{"alice@example.com", "alice"} {
		res, err := svc.Login(context.Background(), domain.LoginRequest{
			Email:    identifier,
			Password: "hunter2",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, res.AuthToken)
	}

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "hunter2",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestSetPassword(t *testing.T) {
	svc, _ := newService(t)
	res := register(t, svc, "alice")

	err := svc.SetPassword(context.Background(), domain.SetPasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "correct-horse",
	}, res.ID)
	assert.ErrorIs(t, err, domain.ErrWrongPassword)

	require.NoError(t, svc.SetPassword(context.Background(), domain.SetPasswordRequest{
		CurrentPassword: "hunter2",
		NewPassword:     "correct-horse",
	}, res.ID))

	_, err = svc.Login(context.Background(), domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	assert.NoError(t, err)
}

func TestGetUserSubscribedFlag(t *testing.T) {
	svc, db := newService(t)
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")

	relationService := relation.NewRelationService(relation.NewRelationRepository(db))
	aliceID := mustParse(t, alice.ID)
	bobID := mustParse(t, bob.ID)
	require.NoError(t, relationService.Add(context.Background(), relation.KindFollow, aliceID, bobID))

	res, err := svc.GetUser(context.Background(), bob.ID, &aliceID)
	require.NoError(t, err)
	assert.True(t, res.IsSubscribed)

	// Anonymous viewers never see is_subscribed set.
	res, err = svc.GetUser(context.Background(), bob.ID, nil)
	require.NoError(t, err)
	assert.False(t, res.IsSubscribed)

	_, err = svc.GetUser(context.Background(), "00000000-0000-0000-0000-000000000000", nil)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
