package dynamodb

import (
	"context"
	"fmt"

	"phonebook-backend/application/ports"
	"phonebook-backend/domain/entities"
	apperrors "phonebook-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// UserRepository implements the UserRepository port using DynamoDB. Friends
// hydration goes through the person repository so both sides agree on the
// person item shape.
type UserRepository struct {
	client     DynamoDBAPI
	tableName  string
	personRepo ports.PersonRepository
	logger     *zap.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(client DynamoDBAPI, tableName string, personRepo ports.PersonRepository, logger *zap.Logger) ports.UserRepository {
	return &UserRepository{
		client:     client,
		tableName:  tableName,
		personRepo: personRepo,
		logger:     logger,
	}
}

// FindByUsername retrieves an account by username via the username guard
// item; nil, nil when absent
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	guard, err := getGuard(ctx, r.client, r.tableName, usernameKey(username))
	if err != nil {
		return nil, err
	}
	if guard == nil {
		return nil, nil
	}
	return r.FindByID(ctx, guard.EntityID)
}

// FindByID retrieves an account by id with its friends list hydrated to full
// person records, preserving list order; nil, nil when absent
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userKey(id)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to get user", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	friends, err := r.personRepo.FindByIDs(ctx, item.FriendIDs)
	if err != nil {
		return nil, err
	}

	return &entities.User{
		ID:           item.UserID,
		Username:     item.Username,
		PasswordHash: item.PasswordHash,
		Friends:      friends,
		Version:      item.Version,
	}, nil
}

// Create persists a new account and its username guard in one transaction.
// A taken username fails the guard condition.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	userAV, err := attributevalue.MarshalMap(newUserItem(user))
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	guardAV, err := attributevalue.MarshalMap(guardItem{
		PK:         usernameKey(user.Username),
		SK:         skGuard,
		EntityType: "USERNAME",
		EntityID:   user.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal username guard: %w", err)
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(r.tableName),
					Item:                userAV,
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
		},
	})
	if err != nil {
		if transactionConditionFailed(err) {
			return apperrors.NewValidationError("username already taken").
				WithInvalidArgs(user.Username).
				WithCause(err)
		}
		return apperrors.NewDatabaseError("failed to save user", err)
	}

	r.logger.Debug("user persisted", zap.String("userID", user.ID))
	return nil
}

// SaveFriends persists the account's friends list, conditional on the stored
// version. A concurrent update of the same account surfaces as a conflict
// instead of a lost write.
func (r *UserRepository) SaveFriends(ctx context.Context, user *entities.User) error {
	friendsAV, err := attributevalue.Marshal(user.FriendIDs())
	if err != nil {
		return fmt.Errorf("failed to marshal friend ids: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userKey(user.ID)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
		UpdateExpression:    aws.String("SET FriendIDs = :friends ADD Version :one"),
		ConditionExpression: aws.String("Version = :version"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":friends": friendsAV,
			":one":     &types.AttributeValueMemberN{Value: "1"},
			":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", user.Version)},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return apperrors.NewConflictError("account was modified concurrently").WithCause(err)
		}
		r.logger.Error("friends write failed",
			zap.String("userID", user.ID),
			zap.String("awsError", awsErrorCode(err)),
			zap.Error(err),
		)
		return apperrors.NewDatabaseError("failed to save friends", err)
	}

	user.Version++
	return nil
}
