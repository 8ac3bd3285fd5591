package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcastellanos/prestamos-api/internal/config"
	"github.com/jcastellanos/prestamos-api/internal/models"
	"github.com/jcastellanos/prestamos-api/internal/repository"
)

type mockUserRepo struct {
	repository.UserRepository
	mockFindByUsername func(ctx context.Context, username string) (*models.User, error)
	mockFindByID       func(ctx context.Context, id uint) (*models.User, error)
	mockTouch          func(ctx context.Context, id uint) error
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.mockFindByUsername(ctx, username)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return m.mockFindByID(ctx, id)
}

type mockRTRepo struct {
	repository.RefreshTokenRepository
	mockFindByToken func(ctx context.Context, token string) (*models.RefreshToken, error)
	mockCreate      func(ctx context.Context, rt *models.RefreshToken) error
	mockDelete      func(ctx context.Context, token string) error
}

func (m *mockRTRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	return m.mockFindByToken(ctx, token)
}

func (m *mockRTRepo) Create(ctx context.Context, rt *models.RefreshToken) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, rt)
	}
	return nil
}

func (m *mockRTRepo) Delete(ctx context.Context, token string) error {
	if m.mockDelete != nil {
		return m.mockDelete(ctx, token)
	}
	return nil
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	mockRepo := &mockUserRepo{}
	service := NewAuthService(mockRepo, nil, &config.Config{JWTSecret: "test", JWTExpirationHours: 1})

	mockRepo.mockFindByUsername = func(ctx context.Context, username string) (*models.User, error) {
		return &models.User{
			Username: username,
			Active:   false,
		}, nil
	}

	result, err := service.Login(context.Background(), "inactivo", "password")
	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Equal(t, "cuenta inactiva o suspendida", err.Error())
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	mockRepo := &mockUserRepo{}
	service := NewAuthService(mockRepo, nil, &config.Config{JWTSecret: "test", JWTExpirationHours: 1})

	hash, _ := HashPassword("correcta123")
	mockRepo.mockFindByUsername = func(ctx context.Context, username string) (*models.User, error) {
		return &models.User{Username: username, PasswordHash: hash, Active: true}, nil
	}

	result, err := service.Login(context.Background(), "admin", "incorrecta")
	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Equal(t, "credenciales inválidas", err.Error())
}

func TestAuthService_RefreshToken_Rotates(t *testing.T) {
	mockRepo := &mockUserRepo{}
	rtRepo := &mockRTRepo{}
	service := NewAuthService(mockRepo, rtRepo, &config.Config{JWTSecret: "test", JWTExpirationHours: 1})

	rtRepo.mockFindByToken = func(ctx context.Context, token string) (*models.RefreshToken, error) {
		return &models.RefreshToken{UserID: 1, Token: token}, nil
	}
	mockRepo.mockFindByID = func(ctx context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "admin", Role: models.RoleAdmin, Active: true}, nil
	}

	deleted := false
	rtRepo.mockDelete = func(ctx context.Context, token string) error {
		deleted = true
		return nil
	}

	var storedToken string
	rtRepo.mockCreate = func(ctx context.Context, rt *models.RefreshToken) error {
		storedToken = rt.Token
		return nil
	}

	result, err := service.RefreshToken(context.Background(), "viejo-token")
	assert.NoError(t, err)
	assert.True(t, deleted, "the old refresh token must be invalidated")
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, storedToken, result.RefreshToken)
	assert.NotEqual(t, "viejo-token", result.RefreshToken)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secreto123")
	assert.NoError(t, err)
	assert.True(t, VerifyPassword("secreto123", hash))
	assert.False(t, VerifyPassword("otro", hash))
}
