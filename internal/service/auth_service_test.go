package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/escrow-backend/internal/models"
	"github.com/ignatzorin/escrow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/escrow-backend/internal/repository"
)

type mockClientRepo struct {
	mock.Mock
}

func (m *mockClientRepo) GetByClientID(ctx context.Context, clientID string) (*models.APIClient, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.APIClient), args.Error(1)
}

func (m *mockClientRepo) TouchLastSeen(ctx context.Context, clientID string) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}

func testClient(t *testing.T, secret string) *models.APIClient {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	assert.NoError(t, err)
	return &models.APIClient{
		ClientID:   "billing-service",
		SecretHash: string(hash),
		Name:       "Billing",
		Role:       models.ClientRoleService,
		IsActive:   true,
	}
}

func TestAuthService_IssueToken_Success(t *testing.T) {
	repo := new(mockClientRepo)
	svc := NewAuthService(repo, NewTokenManager("test-secret", time.Hour))
	ctx := context.Background()

	client := testClient(t, "s3cret")
	repo.On("GetByClientID", ctx, "billing-service").Return(client, nil)
	repo.On("TouchLastSeen", ctx, "billing-service").Return(nil)

	result, err := svc.IssueToken(ctx, "billing-service", "s3cret")
	assert.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, models.ClientRoleService, result.Role)
	assert.Equal(t, int64(3600), result.ExpiresIn)
}

func TestAuthService_IssueToken_WrongSecret(t *testing.T) {
	repo := new(mockClientRepo)
	svc := NewAuthService(repo, NewTokenManager("test-secret", time.Hour))
	ctx := context.Background()

	client := testClient(t, "s3cret")
	repo.On("GetByClientID", ctx, "billing-service").Return(client, nil)

	_, err := svc.IssueToken(ctx, "billing-service", "wrong")
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeUnauthorized, apperror.CodeOf(err))
}

func TestAuthService_IssueToken_UnknownClient(t *testing.T) {
	repo := new(mockClientRepo)
	svc := NewAuthService(repo, NewTokenManager("test-secret", time.Hour))
	ctx := context.Background()

	repo.On("GetByClientID", ctx, "ghost").Return(nil, repository.ErrClientNotFound)

	_, err := svc.IssueToken(ctx, "ghost", "s3cret")
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeUnauthorized, apperror.CodeOf(err))
	// Текст отказа не раскрывает, существует ли клиент
	assert.Contains(t, err.Error(), "неверные учётные данные")
}

func TestAuthService_IssueToken_InactiveClient(t *testing.T) {
	repo := new(mockClientRepo)
	svc := NewAuthService(repo, NewTokenManager("test-secret", time.Hour))
	ctx := context.Background()

	client := testClient(t, "s3cret")
	client.IsActive = false
	repo.On("GetByClientID", ctx, "billing-service").Return(client, nil)

	_, err := svc.IssueToken(ctx, "billing-service", "s3cret")
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeUnauthorized, apperror.CodeOf(err))
}

func TestAuthService_Authenticate_Success(t *testing.T) {
	repo := new(mockClientRepo)
	manager := NewTokenManager("test-secret", time.Hour)
	svc := NewAuthService(repo, manager)
	ctx := context.Background()

	client := testClient(t, "s3cret")
	repo.On("GetByClientID", ctx, "billing-service").Return(client, nil)

	token, _, err := manager.Generate("billing-service", models.ClientRoleService)
	assert.NoError(t, err)

	authenticated, err := svc.Authenticate(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, "billing-service", authenticated.ClientID)
}

func TestAuthService_Authenticate_BadToken(t *testing.T) {
	repo := new(mockClientRepo)
	svc := NewAuthService(repo, NewTokenManager("test-secret", time.Hour))

	_, err := svc.Authenticate(context.Background(), "garbage")
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeUnauthorized, apperror.CodeOf(err))
}
