// internal/services/auth/service.go

// Package auth is the identity provider: registration, credential login,
// and token verification for the command surface.
package auth

import (
	"context"

	userstore "github.com/dalemusser/taskforge/internal/app/store/users"
	"github.com/dalemusser/taskforge/internal/app/system/apperr"
	"github.com/dalemusser/taskforge/internal/app/system/normalize"
	"github.com/dalemusser/taskforge/internal/bus"
	"github.com/dalemusser/taskforge/internal/domain/models"
	"github.com/dalemusser/taskforge/internal/messages"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor used for stored password hashes.
const bcryptCost = 12

// UserStore is the slice of the user store the service needs.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Service implements the identity commands.
type Service struct {
	users  UserStore
	tokens *TokenCodec
	log    *zap.Logger
}

func New(users UserStore, tokens *TokenCodec, log *zap.Logger) *Service {
	return &Service{users: users, tokens: tokens, log: log}
}

// Bind registers the service's command handlers on the bus.
func (s *Service) Bind(b *bus.Bus) {
	b.Register(messages.CmdRegister, func(ctx context.Context, payload any) (any, error) {
		return s.Register(ctx, payload.(messages.Register))
	})
	b.Register(messages.CmdLogin, func(ctx context.Context, payload any) (any, error) {
		return s.Login(ctx, payload.(messages.Login))
	})
	b.Register(messages.CmdVerify, func(ctx context.Context, payload any) (any, error) {
		return s.Verify(ctx, payload.(messages.Verify))
	})
	b.Register(messages.CmdTestAuth, func(ctx context.Context, payload any) (any, error) {
		return s.TestAuth(ctx, payload.(messages.TestAuth))
	})
}

// Register creates an account and returns the profile with a fresh token.
func (s *Service) Register(ctx context.Context, cmd messages.Register) (*messages.AuthResult, error) {
	email := normalize.Email(cmd.Email)

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcryptCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "password could not be processed")
	}

	u := &models.User{
		Name:         normalize.Name(cmd.Name),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if err == userstore.ErrDuplicateEmail {
			return nil, apperr.Conflict("an account with this email already exists")
		}
		return nil, err
	}

	token, err := s.tokens.Mint(u.ID.Hex(), u.Email)
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", u.ID.Hex()))
	return &messages.AuthResult{User: u, Token: token}, nil
}

// Login verifies credentials and returns the profile with a fresh token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, cmd messages.Login) (*messages.AuthResult, error) {
	email := normalize.Email(cmd.Email)

	u, err := s.users.GetByEmail(ctx, email)
	if err == userstore.ErrNotFound {
		// Burn comparable time so a missing account is not observable
		// through response latency.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(cmd.Password))
		return nil, apperr.Auth("invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(cmd.Password)); err != nil {
		return nil, apperr.Auth("invalid email or password")
	}

	token, err := s.tokens.Mint(u.ID.Hex(), u.Email)
	if err != nil {
		return nil, err
	}
	s.log.Info("user logged in", zap.String("user_id", u.ID.Hex()))
	return &messages.AuthResult{User: u, Token: token}, nil
}

// dummyHash is a bcrypt hash of an unguessable value, used to equalize
// login timing when the email is unknown.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("taskforge-timing-filler"), bcryptCost)

// Verify validates a token and returns the user id it carries.
func (s *Service) Verify(_ context.Context, cmd messages.Verify) (primitive.ObjectID, error) {
	idHex, err := s.tokens.Verify(cmd.Token)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return primitive.NilObjectID, apperr.Auth("invalid token")
	}
	return id, nil
}

// TestAuth validates a token and loads the profile it belongs to.
func (s *Service) TestAuth(ctx context.Context, cmd messages.TestAuth) (*models.User, error) {
	id, err := s.Verify(ctx, messages.Verify{Token: cmd.Token})
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err == userstore.ErrNotFound {
		return nil, apperr.Auth("account no longer exists")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
