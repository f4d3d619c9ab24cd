package services

import (
	"context"

	"phonebook-backend/application/ports"
	"phonebook-backend/domain/entities"
	"phonebook-backend/pkg/auth"
	"phonebook-backend/pkg/errors"
	"phonebook-backend/pkg/utils"

	"go.uber.org/zap"
)

// CreateUserInput carries the createUser mutation arguments. The password
// minimum applies to the plaintext, before hashing.
type CreateUserInput struct {
	Username string `validate:"required,min=3"`
	Password string `validate:"required,min=5"`
}

// AccountService implements account registration, login and the friends list
type AccountService struct {
	userRepo   ports.UserRepository
	personRepo ports.PersonRepository
	tokens     *auth.JWTManager
	logger     *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	userRepo ports.UserRepository,
	personRepo ports.PersonRepository,
	tokens *auth.JWTManager,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		userRepo:   userRepo,
		personRepo: personRepo,
		tokens:     tokens,
		logger:     logger,
	}
}

// Me returns the session's account, or nil for an empty session
func (s *AccountService) Me(ctx context.Context) *entities.User {
	currentUser, _ := auth.CurrentUser(ctx)
	return currentUser
}

// CreateUser registers a new account with a bcrypt-hashed password
func (s *AccountService) CreateUser(ctx context.Context, input CreateUserInput) (*entities.User, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, errors.NewValidationError("Creating the user failed").
			WithInvalidArgs(input.Username).
			WithCause(err)
	}

	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, errors.NewInternalError("Creating the user failed", err)
	}

	user := entities.NewUser(input.Username, passwordHash)
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.IsType(err, errors.ErrorTypeValidation) || errors.IsType(err, errors.ErrorTypeConflict) {
			return nil, errors.NewValidationError("Creating the user failed").
				WithInvalidArgs(input.Username).
				WithCause(err)
		}
		return nil, err
	}

	s.logger.Info("user created", zap.String("username", user.Username))
	return user, nil
}

// Login verifies the credentials and returns a signed token. Unknown username
// and wrong password fail identically so accounts cannot be enumerated.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	passwordCorrect := false
	if user != nil {
		passwordCorrect = auth.CheckPassword(password, user.PasswordHash)
	}

	if user == nil || !passwordCorrect {
		return "", errors.NewUnauthenticatedError("wrong credentials")
	}

	token, err := s.tokens.IssueToken(user.ID, user.Username)
	if err != nil {
		return "", errors.NewInternalError("failed to issue token", err)
	}

	return token, nil
}

// AddAsFriend appends an existing person to the caller's friends list.
// Calling it again for the same person is a no-op; the account is persisted
// either way and returned.
func (s *AccountService) AddAsFriend(ctx context.Context, name string) (*entities.User, error) {
	currentUser, ok := auth.CurrentUser(ctx)
	if !ok {
		return nil, errors.NewUnauthenticatedError("Not authenticated")
	}

	person, err := s.personRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, errors.NewNotFoundError("person").WithInvalidArgs(name)
	}

	currentUser.AddFriend(person)

	if err := s.userRepo.SaveFriends(ctx, currentUser); err != nil {
		return nil, err
	}

	return currentUser, nil
}
