package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"homebanking/internal/apperr"
	"homebanking/internal/auth"
	"homebanking/internal/models"
	"homebanking/internal/store"
	"homebanking/internal/validator"

	"github.com/google/uuid"
)

type UserService struct {
	txRunner store.TxRunner
	users    UserStore
}

func NewUserService(txRunner store.TxRunner, users UserStore) *UserService {
	return &UserService{txRunner: txRunner, users: users}
}

type NewUser struct {
	Username    string
	Password    string
	DisplayName string
	IsAdmin     bool
}

// Register signs up a regular user. Self-registration never grants admin.
func (s *UserService) Register(ctx context.Context, req NewUser) (models.User, error) {
	req.IsAdmin = false
	return s.create(ctx, req)
}

// Create is the administrative variant of Register and may grant admin.
func (s *UserService) Create(ctx context.Context, identity auth.Identity, req NewUser) (models.User, error) {
	if err := requireAdmin(identity); err != nil {
		return models.User{}, err
	}
	return s.create(ctx, req)
}

func (s *UserService) create(ctx context.Context, req NewUser) (models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return models.User{}, apperr.Wrap(apperr.ErrRequiredField, fmt.Errorf("username and password are required"))
	}
	if err := validator.ValidateUsername(username); err != nil {
		return models.User{}, apperr.Wrap(apperr.ErrInvalidInput, err)
	}
	if err := validator.ValidatePassword(req.Password); err != nil {
		return models.User{}, apperr.Wrap(apperr.ErrInvalidInput, err)
	}
	secret, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = username
	}
	user := models.User{
		ID:             uuid.NewString(),
		Username:       username,
		PasswordSecret: secret,
		DisplayName:    displayName,
		IsAdmin:        req.IsAdmin,
	}
	err = s.txRunner.WithTx(ctx, func(tx *store.Tx) error {
		return s.users.Create(ctx, tx, user)
	})
	if err != nil {
		return models.User{}, err
	}
	log.Printf("user %s created (admin=%t)", user.Username, user.IsAdmin)
	return user, nil
}

// Authenticate checks a username and password. Unknown users and wrong
// passwords fail the same way.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if apperr.KindOf(err) == apperr.KindNotFound {
		return models.User{}, apperr.ErrBadCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if !auth.CheckPassword(user.PasswordSecret, password) {
		return models.User{}, apperr.ErrBadCredentials
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *UserService) List(ctx context.Context, identity auth.Identity) ([]models.User, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// Delete removes a user with its accounts and cards in one exclusive
// section. Deleting the last administrator is refused.
func (s *UserService) Delete(ctx context.Context, identity auth.Identity, userID string) error {
	if err := requireAdmin(identity); err != nil {
		return err
	}
	return s.txRunner.WithTx(ctx, func(tx *store.Tx) error {
		if _, err := s.users.GetForUpdate(ctx, tx, userID); err != nil {
			return err
		}
		return s.users.Delete(ctx, tx, userID)
	})
}
