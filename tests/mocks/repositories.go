package mocks

import (
	"context"

	"phonebook-backend/application/ports"
	"phonebook-backend/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockPersonRepository is a testify mock for ports.PersonRepository
type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockPersonRepository) FindAll(ctx context.Context, filter *ports.PhoneFilter) ([]*entities.Person, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Person), args.Error(1)
}

func (m *MockPersonRepository) FindByName(ctx context.Context, name string) (*entities.Person, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Person), args.Error(1)
}

func (m *MockPersonRepository) FindByIDs(ctx context.Context, ids []string) ([]*entities.Person, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Person), args.Error(1)
}

func (m *MockPersonRepository) CreateWithOwner(ctx context.Context, person *entities.Person, owner *entities.User) error {
	args := m.Called(ctx, person, owner)
	return args.Error(0)
}

func (m *MockPersonRepository) UpdatePhone(ctx context.Context, person *entities.Person, phone string) error {
	args := m.Called(ctx, person, phone)
	return args.Error(0)
}

// MockUserRepository is a testify mock for ports.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SaveFriends(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
