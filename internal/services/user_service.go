package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fathima-sithara/poseidon-service/internal/events"
	"github.com/fathima-sithara/poseidon-service/internal/models"
	"github.com/fathima-sithara/poseidon-service/internal/repository"
)

type tokenRecordCleaner interface {
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

type UserService struct {
	users  repository.UserRepository
	tokens tokenRecordCleaner
	hasher PasswordHasher
	auth   *AuthService
	events events.Publisher
	log    *zap.Logger
}

func NewUserService(users repository.UserRepository, tokens tokenRecordCleaner, hasher PasswordHasher, auth *AuthService, pub events.Publisher, log *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		auth:   auth,
		events: pub,
		log:    log,
	}
}

// Register creates a user with a hashed password. Role defaults to User.
func (s *UserService) Register(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	role := models.RoleUser
	if req.Role != "" {
		r, err := models.ParseRole(req.Role)
		if err != nil {
			return nil, err
		}
		role = r
	}

	if err := s.ensureUnique(ctx, "", req.Email, req.Username); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		Role:     role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, s.classifyDuplicate(ctx, "", req.Email, req.Username, err)
		}
		return nil, err
	}

	s.publish(ctx, events.UserCreated, u.ID.Hex())
	return u, nil
}

func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	return s.auth.Login(ctx, req.Email, req.Password)
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// Update applies the present fields. Only admins may change roles.
func (s *UserService) Update(ctx context.Context, actorRole models.Role, id string, req models.UpdateUserRequest) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	var email, username string
	if req.Email != nil && *req.Email != u.Email {
		email = *req.Email
		u.Email = email
	}
	if req.Username != nil && *req.Username != u.Username {
		username = *req.Username
		u.Username = username
	}
	if req.Role != nil {
		r, err := models.ParseRole(*req.Role)
		if err != nil {
			return err
		}
		if r != u.Role && actorRole != models.RoleAdmin {
			return ErrForbidden
		}
		u.Role = r
	}

	if err := s.ensureUnique(ctx, id, email, username); err != nil {
		return err
	}
	if err := s.users.Update(ctx, id, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return s.classifyDuplicate(ctx, id, email, username, err)
		}
		return err
	}

	s.publish(ctx, events.UserUpdated, id)
	return nil
}

// Delete removes the user and the stored records of tokens issued to them.
// Tokens are not checked against the store, so an issued JWT stays valid
// until it expires.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if n, err := s.tokens.DeleteByUser(ctx, id); err != nil {
		s.log.Warn("failed to remove tokens of deleted user", zap.String("user_id", id), zap.Error(err))
	} else if n > 0 {
		s.log.Info("removed tokens of deleted user", zap.String("user_id", id), zap.Int64("count", n))
	}
	s.publish(ctx, events.UserDeleted, id)
	return nil
}

// CanAccess reports whether the actor may read or modify the target user.
func CanAccess(actorID string, actorRole models.Role, targetID string) error {
	if actorRole == models.RoleAdmin || actorID == targetID {
		return nil
	}
	return ErrForbidden
}

// ensureUnique checks non-empty email/username against users other than selfID.
func (s *UserService) ensureUnique(ctx context.Context, selfID, email, username string) error {
	if email != "" {
		taken, err := takenByOther(selfID)(s.users.FindByEmail(ctx, email))
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}
	}
	if username != "" {
		taken, err := takenByOther(selfID)(s.users.FindByUsername(ctx, username))
		if err != nil {
			return err
		}
		if taken {
			return ErrUsernameTaken
		}
	}
	return nil
}

// classifyDuplicate names the field behind a unique index violation that a
// concurrent write slipped past ensureUnique. dupErr is returned when the
// conflicting user is already gone.
func (s *UserService) classifyDuplicate(ctx context.Context, selfID, email, username string, dupErr error) error {
	if err := s.ensureUnique(ctx, selfID, email, username); err != nil {
		return err
	}
	return dupErr
}

func takenByOther(selfID string) func(*models.User, error) (bool, error) {
	return func(u *models.User, err error) (bool, error) {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return u.ID.Hex() != selfID, nil
	}
}

func (s *UserService) publish(ctx context.Context, t events.Type, id string) {
	if err := s.events.Publish(ctx, events.New(t, id)); err != nil {
		s.log.Warn("event publish failed", zap.String("type", string(t)), zap.Error(err))
	}
}
