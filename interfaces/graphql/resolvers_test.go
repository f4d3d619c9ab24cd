package graphql

import (
	"context"
	"encoding/json"
	"testing"

	"phonebook-backend/application/ports"
	"phonebook-backend/application/services"
	"phonebook-backend/domain/entities"
	"phonebook-backend/pkg/auth"
	"phonebook-backend/pkg/errors"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryStore is an in-memory stand-in for the DynamoDB tables
type memoryStore struct {
	persons []*entities.Person
	users   []*entities.User
}

type memoryPersonRepo struct{ store *memoryStore }

func (r *memoryPersonRepo) Count(ctx context.Context) (int, error) {
	return len(r.store.persons), nil
}

func (r *memoryPersonRepo) FindAll(ctx context.Context, filter *ports.PhoneFilter) ([]*entities.Person, error) {
	if filter == nil {
		return r.store.persons, nil
	}
	var out []*entities.Person
	for _, p := range r.store.persons {
		if p.HasPhone() == filter.HasPhone {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryPersonRepo) FindByName(ctx context.Context, name string) (*entities.Person, error) {
	for _, p := range r.store.persons {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memoryPersonRepo) FindByIDs(ctx context.Context, ids []string) ([]*entities.Person, error) {
	var out []*entities.Person
	for _, id := range ids {
		for _, p := range r.store.persons {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (r *memoryPersonRepo) CreateWithOwner(ctx context.Context, person *entities.Person, owner *entities.User) error {
	for _, p := range r.store.persons {
		if p.Name == person.Name {
			return errors.NewValidationError("person name already taken").WithInvalidArgs(person.Name)
		}
	}
	r.store.persons = append(r.store.persons, person)
	owner.Version++
	return nil
}

func (r *memoryPersonRepo) UpdatePhone(ctx context.Context, person *entities.Person, phone string) error {
	person.Phone = &phone
	return nil
}

type memoryUserRepo struct{ store *memoryStore }

func (r *memoryUserRepo) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	for _, u := range r.store.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) FindByID(ctx context.Context, id string) (*entities.User, error) {
	for _, u := range r.store.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) Create(ctx context.Context, user *entities.User) error {
	for _, u := range r.store.users {
		if u.Username == user.Username {
			return errors.NewValidationError("username already taken").WithInvalidArgs(user.Username)
		}
	}
	r.store.users = append(r.store.users, user)
	return nil
}

func (r *memoryUserRepo) SaveFriends(ctx context.Context, user *entities.User) error {
	user.Version++
	return nil
}

func newTestSchema(t *testing.T, store *memoryStore) *graphql.Schema {
	t.Helper()

	logger := zap.NewNop()
	personRepo := &memoryPersonRepo{store: store}
	userRepo := &memoryUserRepo{store: store}

	tokens, err := auth.NewJWTManager(auth.JWTConfig{
		SecretKey: "test-secret",
		Issuer:    "phonebook-backend",
	})
	require.NoError(t, err)

	directory := services.NewDirectoryService(personRepo, logger)
	accounts := services.NewAccountService(userRepo, personRepo, tokens, logger)

	schema, err := graphql.ParseSchema(Schema, NewResolver(directory, accounts))
	require.NoError(t, err)
	return schema
}

func seedPerson(store *memoryStore, name string, phone *string, street, city string) *entities.Person {
	person := entities.NewPerson(name, phone, street, city)
	store.persons = append(store.persons, person)
	return person
}

func execData(t *testing.T, schema *graphql.Schema, ctx context.Context, query string) map[string]interface{} {
	t.Helper()
	resp := schema.Exec(ctx, query, "", nil)
	require.Empty(t, resp.Errors, "unexpected GraphQL errors: %+v", resp.Errors)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data
}

func TestSchema_PersonCountAndFind(t *testing.T) {
	store := &memoryStore{}
	seedPerson(store, "Ada", nil, "1 Main", "X")
	phone := "040-123456"
	seedPerson(store, "Bob", &phone, "2 Side", "Y")
	schema := newTestSchema(t, store)
	ctx := context.Background()

	data := execData(t, schema, ctx, `{ personCount }`)
	assert.Equal(t, float64(2), data["personCount"])

	data = execData(t, schema, ctx, `{
		findPerson(name: "Ada") {
			name
			phone
			address { street city }
		}
	}`)
	ada := data["findPerson"].(map[string]interface{})
	assert.Equal(t, "Ada", ada["name"])
	assert.Nil(t, ada["phone"])
	assert.Equal(t, map[string]interface{}{"street": "1 Main", "city": "X"}, ada["address"])

	// Unknown name resolves to null, not an error
	data = execData(t, schema, ctx, `{ findPerson(name: "Nobody") { name } }`)
	assert.Nil(t, data["findPerson"])
}

func TestSchema_AllPersonsPhoneFilter(t *testing.T) {
	store := &memoryStore{}
	seedPerson(store, "Ada", nil, "1 Main", "X")
	phone := "040-123456"
	seedPerson(store, "Bob", &phone, "2 Side", "Y")
	schema := newTestSchema(t, store)
	ctx := context.Background()

	names := func(data map[string]interface{}) []string {
		var out []string
		for _, item := range data["allPersons"].([]interface{}) {
			out = append(out, item.(map[string]interface{})["name"].(string))
		}
		return out
	}

	assert.ElementsMatch(t, []string{"Ada", "Bob"}, names(execData(t, schema, ctx, `{ allPersons { name } }`)))
	assert.Equal(t, []string{"Bob"}, names(execData(t, schema, ctx, `{ allPersons(phone: YES) { name } }`)))
	assert.Equal(t, []string{"Ada"}, names(execData(t, schema, ctx, `{ allPersons(phone: NO) { name } }`)))
}

func TestSchema_AddPersonRequiresSession(t *testing.T) {
	store := &memoryStore{}
	schema := newTestSchema(t, store)

	resp := schema.Exec(context.Background(), `mutation {
		addPerson(name: "Ada", street: "1 Main", city: "X") { name }
	}`, "", nil)

	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, "Not authenticated")
	assert.Equal(t, "UNAUTHENTICATED", resp.Errors[0].Extensions["code"])
	assert.Empty(t, store.persons)
}

func TestSchema_AddPersonLinksFriend(t *testing.T) {
	store := &memoryStore{}
	owner := entities.NewUser("ada", "hash")
	store.users = append(store.users, owner)
	schema := newTestSchema(t, store)

	ctx := auth.WithCurrentUser(context.Background(), owner)
	data := execData(t, schema, ctx, `mutation {
		addPerson(name: "Bob", phone: "040-123456", street: "2 Side", city: "Y") {
			name
			address { street city }
		}
	}`)

	added := data["addPerson"].(map[string]interface{})
	assert.Equal(t, "Bob", added["name"])
	assert.Equal(t, map[string]interface{}{"street": "2 Side", "city": "Y"}, added["address"])
	require.Len(t, owner.Friends, 1)
	assert.Equal(t, "Bob", owner.Friends[0].Name)

	// The new person is visible to queries and to me.friends
	data = execData(t, schema, ctx, `{ me { username friends { name } } }`)
	me := data["me"].(map[string]interface{})
	assert.Equal(t, "ada", me["username"])
	friends := me["friends"].([]interface{})
	require.Len(t, friends, 1)
	assert.Equal(t, "Bob", friends[0].(map[string]interface{})["name"])
}

func TestSchema_MeWithoutSessionIsNull(t *testing.T) {
	schema := newTestSchema(t, &memoryStore{})

	data := execData(t, schema, context.Background(), `{ me { username } }`)
	assert.Nil(t, data["me"])
}

func TestSchema_CreateUserAndLogin(t *testing.T) {
	store := &memoryStore{}
	schema := newTestSchema(t, store)
	ctx := context.Background()

	data := execData(t, schema, ctx, `mutation {
		createUser(username: "ada", password: "secret") { username password }
	}`)
	created := data["createUser"].(map[string]interface{})
	assert.Equal(t, "ada", created["username"])
	// The hash never leaves the server
	assert.Nil(t, created["password"])

	data = execData(t, schema, ctx, `mutation {
		login(username: "ada", password: "secret") { value }
	}`)
	token := data["login"].(map[string]interface{})["value"].(string)
	assert.NotEmpty(t, token)

	resp := schema.Exec(ctx, `mutation {
		login(username: "ada", password: "wrong") { value }
	}`, "", nil)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, "wrong credentials")
}

func TestSchema_EditNumber(t *testing.T) {
	store := &memoryStore{}
	seedPerson(store, "Ada", nil, "1 Main", "X")
	schema := newTestSchema(t, store)
	ctx := context.Background()

	data := execData(t, schema, ctx, `mutation {
		editNumber(name: "Ada", phone: "040-123456") { name phone }
	}`)
	edited := data["editNumber"].(map[string]interface{})
	assert.Equal(t, "040-123456", edited["phone"])

	resp := schema.Exec(ctx, `mutation {
		editNumber(name: "Nobody", phone: "040-123456") { name }
	}`, "", nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "NOT_FOUND", resp.Errors[0].Extensions["code"])
}

func TestSchema_AddAsFriend(t *testing.T) {
	store := &memoryStore{}
	seedPerson(store, "Ada", nil, "1 Main", "X")
	owner := entities.NewUser("bob", "hash")
	store.users = append(store.users, owner)
	schema := newTestSchema(t, store)

	ctx := auth.WithCurrentUser(context.Background(), owner)
	query := `mutation { addAsFriend(name: "Ada") { friends { name } } }`

	data := execData(t, schema, ctx, query)
	friends := data["addAsFriend"].(map[string]interface{})["friends"].([]interface{})
	require.Len(t, friends, 1)

	// Idempotent on repeat
	data = execData(t, schema, ctx, query)
	friends = data["addAsFriend"].(map[string]interface{})["friends"].([]interface{})
	require.Len(t, friends, 1)
	assert.Equal(t, "Ada", friends[0].(map[string]interface{})["name"])
}
