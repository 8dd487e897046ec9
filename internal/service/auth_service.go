package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/escrow-backend/internal/models"
	"github.com/ignatzorin/escrow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/escrow-backend/internal/repository"
)

// ClientRepository описывает зависимости AuthService от слоя хранилища.
type ClientRepository interface {
	GetByClientID(ctx context.Context, clientID string) (*models.APIClient, error)
	TouchLastSeen(ctx context.Context, clientID string) error
}

// AuthService аутентифицирует внешние системы по client_id/client_secret
// и выпускает для них JWT.
type AuthService struct {
	clients      ClientRepository
	tokenManager *TokenManager
}

func NewAuthService(clients ClientRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		clients:      clients,
		tokenManager: tokenManager,
	}
}

// TokenResult — выпущенный токен.
type TokenResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
	Role        string    `json:"role"`
}

// IssueToken проверяет секрет клиента и выпускает токен.
// Неизвестный клиент и неверный секрет не различаются в ответе.
func (s *AuthService) IssueToken(ctx context.Context, clientID, clientSecret string) (*TokenResult, error) {
	client, err := s.clients.GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return nil, apperror.New(apperror.ErrCodeUnauthorized, "неверные учётные данные клиента")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить клиента")
	}
	if !client.IsActive {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "клиент деактивирован")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(client.SecretHash), []byte(clientSecret)); err != nil {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "неверные учётные данные клиента")
	}

	token, expiresAt, err := s.tokenManager.Generate(client.ClientID, client.Role)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токен")
	}

	// Неуспех отметки не должен ломать выдачу токена
	_ = s.clients.TouchLastSeen(ctx, client.ClientID)

	return &TokenResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenManager.TTL().Seconds()),
		ExpiresAt:   expiresAt,
		Role:        client.Role,
	}, nil
}

// Authenticate проверяет токен и возвращает клиента.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.APIClient, error) {
	clientID, _, err := s.tokenManager.Parse(token)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	client, err := s.clients.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}
	if !client.IsActive {
		return nil, apperror.ErrUnauthorized
	}
	return client, nil
}
