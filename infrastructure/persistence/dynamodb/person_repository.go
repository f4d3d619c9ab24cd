package dynamodb

import (
	"context"
	"fmt"

	"phonebook-backend/application/ports"
	"phonebook-backend/domain/entities"
	apperrors "phonebook-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// PersonRepository implements the PersonRepository port using DynamoDB
type PersonRepository struct {
	client    DynamoDBAPI
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewPersonRepository creates a new PersonRepository
func NewPersonRepository(client DynamoDBAPI, tableName, indexName string, logger *zap.Logger) ports.PersonRepository {
	return &PersonRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// Count returns the number of persons in the directory
func (r *PersonRepository) Count(ctx context.Context) (int, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("GSI1PK").Equal(expression.Value(entityTypePerson))).
		Build()
	if err != nil {
		return 0, fmt.Errorf("failed to build count expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Select:                    types.SelectCount,
	}

	count := 0
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, apperrors.NewDatabaseError("failed to count persons", err)
		}
		count += int(page.Count)
	}

	return count, nil
}

// FindAll retrieves all persons ordered by name, optionally filtered by
// phone presence
func (r *PersonRepository) FindAll(ctx context.Context, filter *ports.PhoneFilter) ([]*entities.Person, error) {
	builder := expression.NewBuilder().
		WithKeyCondition(expression.Key("GSI1PK").Equal(expression.Value(entityTypePerson)))

	if filter != nil {
		if filter.HasPhone {
			builder = builder.WithFilter(expression.AttributeExists(expression.Name("Phone")))
		} else {
			builder = builder.WithFilter(expression.AttributeNotExists(expression.Name("Phone")))
		}
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build list expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var persons []*entities.Person
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperrors.NewDatabaseError("failed to list persons", err)
		}

		var items []personItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal persons: %w", err)
		}
		for _, item := range items {
			persons = append(persons, item.toEntity())
		}
	}

	return persons, nil
}

// FindByName retrieves a person by name via the name guard item; nil, nil
// when absent
func (r *PersonRepository) FindByName(ctx context.Context, name string) (*entities.Person, error) {
	guard, err := getGuard(ctx, r.client, r.tableName, personNameKey(name))
	if err != nil {
		return nil, err
	}
	if guard == nil {
		return nil, nil
	}
	return r.findByID(ctx, guard.EntityID)
}

// FindByIDs retrieves persons by id, preserving the input order
func (r *PersonRepository) FindByIDs(ctx context.Context, ids []string) ([]*entities.Person, error) {
	if len(ids) == 0 {
		return []*entities.Person{}, nil
	}

	byID := make(map[string]*entities.Person, len(ids))

	// BatchGetItem caps at 100 keys per request
	for start := 0; start < len(ids); start += 100 {
		end := start + 100
		if end > len(ids) {
			end = len(ids)
		}

		keys := make([]map[string]types.AttributeValue, 0, end-start)
		for _, id := range ids[start:end] {
			keys = append(keys, map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: personKey(id)},
				"SK": &types.AttributeValueMemberS{Value: skMetadata},
			})
		}

		requested := map[string]types.KeysAndAttributes{
			r.tableName: {Keys: keys},
		}

		for len(requested) > 0 {
			out, err := r.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
				RequestItems: requested,
			})
			if err != nil {
				return nil, apperrors.NewDatabaseError("failed to batch get persons", err)
			}

			var items []personItem
			if err := attributevalue.UnmarshalListOfMaps(out.Responses[r.tableName], &items); err != nil {
				return nil, fmt.Errorf("failed to unmarshal persons: %w", err)
			}
			for _, item := range items {
				byID[item.PersonID] = item.toEntity()
			}

			requested = out.UnprocessedKeys
		}
	}

	persons := make([]*entities.Person, 0, len(ids))
	for _, id := range ids {
		if person, ok := byID[id]; ok {
			persons = append(persons, person)
		}
	}
	return persons, nil
}

// CreateWithOwner persists a new person, its name guard, and the owner's
// friends list extended with the new person, in a single transaction. The
// friends update is conditional on the owner's version so concurrent list
// changes cannot be lost, and either every write lands or none does. The
// owner entity itself is not mutated; the caller links the person after
// success.
func (r *PersonRepository) CreateWithOwner(ctx context.Context, person *entities.Person, owner *entities.User) error {
	personAV, err := attributevalue.MarshalMap(newPersonItem(person))
	if err != nil {
		return fmt.Errorf("failed to marshal person: %w", err)
	}

	guardAV, err := attributevalue.MarshalMap(guardItem{
		PK:         personNameKey(person.Name),
		SK:         skGuard,
		EntityType: "PERSONNAME",
		EntityID:   person.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal name guard: %w", err)
	}

	friendsAV, err := attributevalue.Marshal(append(owner.FriendIDs(), person.ID))
	if err != nil {
		return fmt.Errorf("failed to marshal friend ids: %w", err)
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(r.tableName),
					Item:                personAV,
					ConditionExpression: aws.String("attribute_not_exists(PK)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(r.tableName),
					Item:                guardAV,
					ConditionExpression: aws.String("attribute_not_exists(PK)"),
				},
			},
			{
				Update: &types.Update{
					TableName: aws.String(r.tableName),
					Key: map[string]types.AttributeValue{
						"PK": &types.AttributeValueMemberS{Value: userKey(owner.ID)},
						"SK": &types.AttributeValueMemberS{Value: skMetadata},
					},
					UpdateExpression:    aws.String("SET FriendIDs = :friends ADD Version :one"),
					ConditionExpression: aws.String("Version = :version"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":friends": friendsAV,
						":one":     &types.AttributeValueMemberN{Value: "1"},
						":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", owner.Version)},
					},
				},
			},
		},
	})
	if err != nil {
		// TransactItems order: person put, name guard put, owner update
		if conditionFailedAt(err, 2) {
			return apperrors.NewConflictError("account was modified concurrently").WithCause(err)
		}
		if transactionConditionFailed(err) {
			return apperrors.NewValidationError("person name already taken").
				WithInvalidArgs(person.Name).
				WithCause(err)
		}
		r.logger.Error("person write failed",
			zap.String("personID", person.ID),
			zap.String("awsError", awsErrorCode(err)),
			zap.Error(err),
		)
		return apperrors.NewDatabaseError("failed to save person", err)
	}

	owner.Version++

	r.logger.Debug("person persisted",
		zap.String("personID", person.ID),
		zap.String("ownerID", owner.ID),
	)

	return nil
}

// UpdatePhone overwrites the person's phone number
func (r *PersonRepository) UpdatePhone(ctx context.Context, person *entities.Person, phone string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: personKey(person.ID)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
		UpdateExpression:    aws.String("SET Phone = :phone"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":phone": &types.AttributeValueMemberS{Value: phone},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return apperrors.NewNotFoundError("person").WithInvalidArgs(person.Name)
		}
		return apperrors.NewDatabaseError("failed to update phone", err)
	}

	return nil
}

// findByID retrieves a person by id; nil, nil when absent
func (r *PersonRepository) findByID(ctx context.Context, id string) (*entities.Person, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: personKey(id)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to get person", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var item personItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal person: %w", err)
	}
	return item.toEntity(), nil
}
