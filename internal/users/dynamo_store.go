package users

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBAPI is the part of the DynamoDB client the store uses.
// *dynamodb.Client satisfies it; tests substitute a fake.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

var _ DynamoDBAPI = (*dynamodb.Client)(nil)

// DynamoStore implements UserStore on a DynamoDB table whose hash key is
// the string attribute "userId".
type DynamoStore struct {
	client    DynamoDBAPI
	tableName string
	pageSize  int32
}

// NewDynamoStore creates a store for tableName. pageSize caps the items per
// scan page; zero leaves the page size to DynamoDB.
func NewDynamoStore(client DynamoDBAPI, tableName string, pageSize int32) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		pageSize:  pageSize,
	}
}

func userKey(userID string) (map[string]types.AttributeValue, error) {
	return attributevalue.MarshalMap(map[string]string{
		"userId": userID,
	})
}

func (s *DynamoStore) GetUser(ctx context.Context, userID string) (*User, error) {
	key, err := userKey(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to build key: %w", err)
	}

	output, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if len(output.Item) == 0 {
		return nil, nil
	}

	var user User
	if err := attributevalue.UnmarshalMap(output.Item, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &user, nil
}

func (s *DynamoStore) PutUser(ctx context.Context, user *User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put user: %w", err)
	}
	return nil
}

func (s *DynamoStore) DeleteUser(ctx context.Context, userID string) error {
	key, err := userKey(userID)
	if err != nil {
		return fmt.Errorf("failed to build key: %w", err)
	}

	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ScanUsers walks every page of a full table scan.
func (s *DynamoStore) ScanUsers(ctx context.Context) ([]*User, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
		Select:    types.SelectAllAttributes,
	}
	if s.pageSize > 0 {
		input.Limit = aws.Int32(s.pageSize)
	}

	result := make([]*User, 0)
	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan users: %w", err)
		}

		var users []User
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &users); err != nil {
			return nil, fmt.Errorf("failed to decode users: %w", err)
		}
		for i := range users {
			result = append(result, &users[i])
		}
	}
	return result, nil
}
