package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyago/travelplanner/internal/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*models.User),
		byID:    make(map[uuid.UUID]*models.User),
	}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, user *models.User) error {
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := r.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

type fakeSessions struct {
	tokens  map[string]uuid.UUID
	counter int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: make(map[string]uuid.UUID)}
}

func (s *fakeSessions) Create(_ context.Context, userID uuid.UUID) (string, error) {
	s.counter++
	token := fmt.Sprintf("token-%d", s.counter)
	s.tokens[token] = userID
	return token, nil
}

func (s *fakeSessions) Delete(_ context.Context, token string) error {
	delete(s.tokens, token)
	return nil
}

func TestRegisterValidation(t *testing.T) {
	uc := NewUseCase(newFakeUserRepo(), newFakeSessions())

	tests := []struct {
		name    string
		req     models.RegisterRequest
		wantErr error
	}{
		{
			name:    "malformed email",
			req:     models.RegisterRequest{Email: "not-an-email", Password: "secret1"},
			wantErr: ErrInvalidEmail,
		},
		{
			name:    "short password",
			req:     models.RegisterRequest{Email: "a@b.co", Password: "short"},
			wantErr: ErrWeakPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Register(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	sessions := newFakeSessions()
	uc := NewUseCase(repo, sessions)

	resp, err := uc.Register(context.Background(), &models.RegisterRequest{
		Email:    "Traveler@Example.com",
		Password: "secret1",
		FullName: "  Ana Traveler  ",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "traveler@example.com", resp.User.Email)
	assert.Equal(t, "Ana Traveler", resp.User.FullName)
	assert.NotEqual(t, "secret1", resp.User.PasswordHash)

	// Duplicate registration is rejected.
	_, err = uc.Register(context.Background(), &models.RegisterRequest{
		Email: "traveler@example.com", Password: "secret1",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// Login with the right password issues a new session.
	login, err := uc.Login(context.Background(), &models.LoginRequest{
		Email: "traveler@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEqual(t, resp.Token, login.Token)

	// Wrong password and unknown email fail the same way.
	_, err = uc.Login(context.Background(), &models.LoginRequest{Email: "traveler@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = uc.Login(context.Background(), &models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesSession(t *testing.T) {
	repo := newFakeUserRepo()
	sessions := newFakeSessions()
	uc := NewUseCase(repo, sessions)

	resp, err := uc.Register(context.Background(), &models.RegisterRequest{
		Email: "a@b.co", Password: "secret1",
	})
	require.NoError(t, err)

	require.NoError(t, uc.Logout(context.Background(), resp.Token))
	_, live := sessions.tokens[resp.Token]
	assert.False(t, live)
}

func TestChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUseCase(repo, newFakeSessions())

	resp, err := uc.Register(context.Background(), &models.RegisterRequest{
		Email: "a@b.co", Password: "oldpass",
	})
	require.NoError(t, err)
	userID := resp.User.ID

	err = uc.ChangePassword(context.Background(), userID, &models.ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "newpass",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = uc.ChangePassword(context.Background(), userID, &models.ChangePasswordRequest{
		OldPassword: "oldpass", NewPassword: "newpass",
	})
	require.NoError(t, err)

	user, err := repo.GetUserByID(context.Background(), userID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("newpass")))

	err = uc.ChangePassword(context.Background(), userID, &models.ChangePasswordRequest{
		OldPassword: "newpass", NewPassword: "short",
	})
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestUpdateProfileAppliesNonEmptyFields(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUseCase(repo, newFakeSessions())

	resp, err := uc.Register(context.Background(), &models.RegisterRequest{
		Email: "a@b.co", Password: "secret1", FullName: "Before", Phone: "123",
	})
	require.NoError(t, err)

	user, err := uc.UpdateProfile(context.Background(), resp.User.ID, &models.UpdateProfileRequest{
		FullName: "After",
	})
	require.NoError(t, err)
	assert.Equal(t, "After", user.FullName)
	assert.Equal(t, "123", user.Phone)
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	uc := NewUseCase(newFakeUserRepo(), newFakeSessions())
	_, err := uc.UpdateProfile(context.Background(), uuid.New(), &models.UpdateProfileRequest{})
	assert.True(t, errors.Is(err, ErrUserNotFound))
}
