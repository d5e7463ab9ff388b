package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fathima-sithara/poseidon-service/internal/models"
	"github.com/fathima-sithara/poseidon-service/internal/repository"
	"github.com/fathima-sithara/poseidon-service/internal/utils"
)

type userLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type tokenRecorder interface {
	Create(ctx context.Context, t *models.Token) error
}

// AuthService checks credentials and issues/validates signed tokens.
type AuthService struct {
	users     userLookup
	tokens    tokenRecorder
	hasher    PasswordHasher
	jwt       *utils.JWTManager
	dummyHash string
	log       *zap.Logger
}

func NewAuthService(users userLookup, tokens tokenRecorder, hasher PasswordHasher, jwt *utils.JWTManager, log *zap.Logger) (*AuthService, error) {
	// Compared against when the email is unknown so both failure paths cost the same.
	dummy, err := hasher.Hash("poseidon-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		jwt:       jwt,
		dummyHash: dummy,
		log:       log,
	}, nil
}

// Login returns a signed token, or ErrInvalidCredentials for an unknown email
// and a wrong password alike.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(s.dummyHash, password)
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !s.hasher.Verify(u.Password, password) {
		return "", ErrInvalidCredentials
	}

	userID := u.ID.Hex()
	token, exp, err := s.jwt.Generate(userID, u.Role)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	if err := s.tokens.Create(ctx, &models.Token{UserID: userID, JwtToken: token, Expiration: exp}); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}

	s.log.Info("user logged in", zap.String("user_id", userID), zap.String("role", u.Role.String()))
	return token, nil
}

// ValidateToken never fails loudly: any problem yields ok == false.
func (s *AuthService) ValidateToken(token string) (*utils.CustomClaims, bool) {
	claims, err := s.jwt.Verify(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}
