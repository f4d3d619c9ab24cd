package graphql

import (
	"context"

	"phonebook-backend/application/services"
	"phonebook-backend/domain/entities"

	graphql "github.com/graph-gophers/graphql-go"
)

// Resolver is the root resolver for the GraphQL schema
type Resolver struct {
	directory *services.DirectoryService
	accounts  *services.AccountService
}

// NewResolver creates the root resolver
func NewResolver(directory *services.DirectoryService, accounts *services.AccountService) *Resolver {
	return &Resolver{
		directory: directory,
		accounts:  accounts,
	}
}

// PersonCount resolves Query.personCount
func (r *Resolver) PersonCount(ctx context.Context) (int32, error) {
	count, err := r.directory.PersonCount(ctx)
	return int32(count), err
}

// AllPersons resolves Query.allPersons
func (r *Resolver) AllPersons(ctx context.Context, args struct{ Phone *string }) ([]*PersonResolver, error) {
	persons, err := r.directory.AllPersons(ctx, args.Phone)
	if err != nil {
		return nil, err
	}
	return wrapPersons(persons), nil
}

// FindPerson resolves Query.findPerson
func (r *Resolver) FindPerson(ctx context.Context, args struct{ Name string }) (*PersonResolver, error) {
	person, err := r.directory.FindPerson(ctx, args.Name)
	if err != nil {
		return nil, err
	}
	return wrapPerson(person), nil
}

// Me resolves Query.me; null for an empty session
func (r *Resolver) Me(ctx context.Context) *UserResolver {
	return wrapUser(r.accounts.Me(ctx))
}

// AddPerson resolves Mutation.addPerson
func (r *Resolver) AddPerson(ctx context.Context, args struct {
	Name   string
	Phone  *string
	Street string
	City   string
}) (*PersonResolver, error) {
	person, err := r.directory.AddPerson(ctx, services.AddPersonInput{
		Name:   args.Name,
		Phone:  args.Phone,
		Street: args.Street,
		City:   args.City,
	})
	if err != nil {
		return nil, err
	}
	return wrapPerson(person), nil
}

// EditNumber resolves Mutation.editNumber
func (r *Resolver) EditNumber(ctx context.Context, args struct{ Name, Phone string }) (*PersonResolver, error) {
	person, err := r.directory.EditNumber(ctx, services.EditNumberInput{
		Name:  args.Name,
		Phone: args.Phone,
	})
	if err != nil {
		return nil, err
	}
	return wrapPerson(person), nil
}

// CreateUser resolves Mutation.createUser
func (r *Resolver) CreateUser(ctx context.Context, args struct{ Username, Password string }) (*UserResolver, error) {
	user, err := r.accounts.CreateUser(ctx, services.CreateUserInput{
		Username: args.Username,
		Password: args.Password,
	})
	if err != nil {
		return nil, err
	}
	return wrapUser(user), nil
}

// Login resolves Mutation.login
func (r *Resolver) Login(ctx context.Context, args struct{ Username, Password string }) (*TokenResolver, error) {
	token, err := r.accounts.Login(ctx, args.Username, args.Password)
	if err != nil {
		return nil, err
	}
	return &TokenResolver{value: token}, nil
}

// AddAsFriend resolves Mutation.addAsFriend
func (r *Resolver) AddAsFriend(ctx context.Context, args struct{ Name string }) (*UserResolver, error) {
	user, err := r.accounts.AddAsFriend(ctx, args.Name)
	if err != nil {
		return nil, err
	}
	return wrapUser(user), nil
}

// PersonResolver resolves the Person type
type PersonResolver struct {
	person *entities.Person
}

func (r *PersonResolver) Name() string   { return r.person.Name }
func (r *PersonResolver) Phone() *string { return r.person.Phone }
func (r *PersonResolver) ID() graphql.ID { return graphql.ID(r.person.ID) }

// Address resolves the address projection from the stored street and city
func (r *PersonResolver) Address() *AddressResolver {
	return &AddressResolver{address: r.person.Address()}
}

// AddressResolver resolves the Address type
type AddressResolver struct {
	address entities.Address
}

func (r *AddressResolver) Street() string { return r.address.Street }
func (r *AddressResolver) City() string   { return r.address.City }

// UserResolver resolves the User type
type UserResolver struct {
	user *entities.User
}

func (r *UserResolver) Username() string { return r.user.Username }
func (r *UserResolver) ID() graphql.ID   { return graphql.ID(r.user.ID) }

// Password is part of the published schema but the stored hash never leaves
// the server; the field always resolves to null.
func (r *UserResolver) Password() *string { return nil }

func (r *UserResolver) Friends() []*PersonResolver {
	return wrapPersons(r.user.Friends)
}

// TokenResolver resolves the Token type
type TokenResolver struct {
	value string
}

func (r *TokenResolver) Value() string { return r.value }

func wrapPerson(person *entities.Person) *PersonResolver {
	if person == nil {
		return nil
	}
	return &PersonResolver{person: person}
}

func wrapPersons(persons []*entities.Person) []*PersonResolver {
	resolvers := make([]*PersonResolver, len(persons))
	for i, person := range persons {
		resolvers[i] = &PersonResolver{person: person}
	}
	return resolvers
}

func wrapUser(user *entities.User) *UserResolver {
	if user == nil {
		return nil
	}
	return &UserResolver{user: user}
}
