package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"phonebook-backend/domain/entities"
	apperrors "phonebook-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// DynamoDBAPI is the subset of the DynamoDB client the repositories use
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Single-table layout. Every entity lives under a typed partition key with a
// METADATA sort key; uniqueness of person names and usernames is enforced by
// guard items written in the same transaction as the entity.
const (
	skMetadata = "METADATA"
	skGuard    = "GUARD"

	entityTypePerson = "PERSON"
	entityTypeUser   = "USER"
)

func personKey(id string) string    { return fmt.Sprintf("PERSON#%s", id) }
func personNameKey(n string) string { return fmt.Sprintf("PERSONNAME#%s", n) }
func userKey(id string) string      { return fmt.Sprintf("USER#%s", id) }
func usernameKey(u string) string   { return fmt.Sprintf("USERNAME#%s", u) }

// personItem represents the DynamoDB item structure for a person
type personItem struct {
	PK         string  `dynamodbav:"PK"`
	SK         string  `dynamodbav:"SK"`
	GSI1PK     string  `dynamodbav:"GSI1PK"` // entity-type partition for listing
	GSI1SK     string  `dynamodbav:"GSI1SK"` // name, for ordered listings
	EntityType string  `dynamodbav:"EntityType"`
	PersonID   string  `dynamodbav:"PersonID"`
	Name       string  `dynamodbav:"Name"`
	Phone      *string `dynamodbav:"Phone,omitempty"`
	Street     string  `dynamodbav:"Street"`
	City       string  `dynamodbav:"City"`
}

func newPersonItem(p *entities.Person) personItem {
	return personItem{
		PK:         personKey(p.ID),
		SK:         skMetadata,
		GSI1PK:     entityTypePerson,
		GSI1SK:     p.Name,
		EntityType: entityTypePerson,
		PersonID:   p.ID,
		Name:       p.Name,
		Phone:      p.Phone,
		Street:     p.Street,
		City:       p.City,
	}
}

func (i personItem) toEntity() *entities.Person {
	return &entities.Person{
		ID:     i.PersonID,
		Name:   i.Name,
		Phone:  i.Phone,
		Street: i.Street,
		City:   i.City,
	}
}

// guardItem reserves a unique natural key (person name, username) and points
// back at the owning entity
type guardItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	EntityID   string `dynamodbav:"EntityID"`
}

// userItem represents the DynamoDB item structure for an account
type userItem struct {
	PK           string   `dynamodbav:"PK"`
	SK           string   `dynamodbav:"SK"`
	EntityType   string   `dynamodbav:"EntityType"`
	UserID       string   `dynamodbav:"UserID"`
	Username     string   `dynamodbav:"Username"`
	PasswordHash string   `dynamodbav:"PasswordHash"`
	FriendIDs    []string `dynamodbav:"FriendIDs"`
	Version      int      `dynamodbav:"Version"`
}

func newUserItem(u *entities.User) userItem {
	return userItem{
		PK:           userKey(u.ID),
		SK:           skMetadata,
		EntityType:   entityTypeUser,
		UserID:       u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		FriendIDs:    u.FriendIDs(),
		Version:      u.Version,
	}
}

// getGuard fetches a uniqueness guard item; nil, nil when absent
func getGuard(ctx context.Context, client DynamoDBAPI, tableName, pk string) (*guardItem, error) {
	out, err := client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: skGuard},
		},
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to get guard item", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var item guardItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal guard item: %w", err)
	}
	return &item, nil
}

// awsErrorCode extracts the service error code for logging, or empty when the
// error did not come from the service
func awsErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// isConditionalCheckFailed reports whether err is a failed condition on a
// single-item write
func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// transactionConditionFailed reports whether a TransactWriteItems error was a
// cancellation caused by a failed condition check
func transactionConditionFailed(err error) bool {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return false
	}
	for _, reason := range tce.CancellationReasons {
		if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
			return true
		}
	}
	return false
}

// conditionFailedAt reports whether the i-th item of a cancelled transaction
// failed its condition check. Cancellation reasons are positional, matching
// the TransactItems order.
func conditionFailedAt(err error, i int) bool {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) || i >= len(tce.CancellationReasons) {
		return false
	}
	reason := tce.CancellationReasons[i]
	return reason.Code != nil && *reason.Code == "ConditionalCheckFailed"
}
