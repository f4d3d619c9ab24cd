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

// AddPersonInput carries the addPerson mutation arguments
type AddPersonInput struct {
	Name   string  `validate:"required"`
	Phone  *string `validate:"omitempty,min=5"`
	Street string  `validate:"required"`
	City   string  `validate:"required"`
}

// EditNumberInput carries the editNumber mutation arguments
type EditNumberInput struct {
	Name  string `validate:"required"`
	Phone string `validate:"required,min=5"`
}

// DirectoryService implements the phonebook queries and mutations over the
// person repository
type DirectoryService struct {
	personRepo ports.PersonRepository
	logger     *zap.Logger
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(personRepo ports.PersonRepository, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{
		personRepo: personRepo,
		logger:     logger,
	}
}

// PersonCount returns the number of directory entries
func (s *DirectoryService) PersonCount(ctx context.Context) (int, error) {
	return s.personRepo.Count(ctx)
}

// AllPersons lists directory entries. yesNo is the raw enum argument: "YES"
// selects entries with a phone, "NO" entries without one, nil everything.
func (s *DirectoryService) AllPersons(ctx context.Context, yesNo *string) ([]*entities.Person, error) {
	var filter *ports.PhoneFilter
	if yesNo != nil {
		filter = &ports.PhoneFilter{HasPhone: *yesNo == "YES"}
	}
	return s.personRepo.FindAll(ctx, filter)
}

// FindPerson looks a person up by name; nil, nil when absent
func (s *DirectoryService) FindPerson(ctx context.Context, name string) (*entities.Person, error) {
	return s.personRepo.FindByName(ctx, name)
}

// AddPerson inserts a new person and links it to the caller's friends list.
// Requires an authenticated session; both writes ride one transaction.
func (s *DirectoryService) AddPerson(ctx context.Context, input AddPersonInput) (*entities.Person, error) {
	currentUser, ok := auth.CurrentUser(ctx)
	if !ok {
		return nil, errors.NewUnauthenticatedError("Not authenticated")
	}

	if err := utils.ValidateStruct(input); err != nil {
		return nil, errors.NewValidationError("Saving user failed").
			WithInvalidArgs(input.Name).
			WithCause(err)
	}

	person := entities.NewPerson(input.Name, input.Phone, input.Street, input.City)

	if err := s.personRepo.CreateWithOwner(ctx, person, currentUser); err != nil {
		if errors.IsType(err, errors.ErrorTypeValidation) {
			return nil, errors.NewValidationError("Saving user failed").
				WithInvalidArgs(input.Name).
				WithCause(err)
		}
		return nil, err
	}

	// Link only after the write landed so a failed insert cannot leave a
	// never-persisted person on the session user's list
	currentUser.AddFriend(person)

	s.logger.Info("person added",
		zap.String("name", person.Name),
		zap.String("owner", currentUser.Username),
	)

	return person, nil
}

// EditNumber overwrites a person's phone number
func (s *DirectoryService) EditNumber(ctx context.Context, input EditNumberInput) (*entities.Person, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, errors.NewValidationError("Editing number failed").
			WithInvalidArgs(input.Name).
			WithCause(err)
	}

	person, err := s.personRepo.FindByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, errors.NewNotFoundError("person").WithInvalidArgs(input.Name)
	}

	if err := s.personRepo.UpdatePhone(ctx, person, input.Phone); err != nil {
		if errors.IsType(err, errors.ErrorTypeValidation) {
			return nil, errors.NewValidationError("Editing number failed").
				WithInvalidArgs(input.Name).
				WithCause(err)
		}
		return nil, err
	}

	person.Phone = &input.Phone
	return person, nil
}
