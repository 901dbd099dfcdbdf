package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of the DynamoDB client used by DynamoStore
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoStore keeps client state in a DynamoDB table keyed by "key" (S).
type DynamoStore struct {
	client    DynamoAPI
	tableName string
}

// dynamoItem represents the DynamoDB item structure
type dynamoItem struct {
	Key       string `dynamodbav:"key"`
	Value     []byte `dynamodbav:"value"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

func NewDynamoStore(client DynamoAPI, tableName string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
	}
}

// NewDynamoClient builds a DynamoDB client from the default AWS config chain
func NewDynamoClient(ctx context.Context) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

// Get retrieves the value stored under key
func (ds *DynamoStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	result, err := ds.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(ds.tableName),
		Key:            ds.itemKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get item: %w", err)
	}
	if len(result.Item) == 0 {
		return nil, false, nil
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return item.Value, true, nil
}

// Set overwrites the value stored under key
func (ds *DynamoStore) Set(ctx context.Context, key string, value []byte) error {
	av, err := attributevalue.MarshalMap(dynamoItem{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = ds.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(ds.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}
	return nil
}

// Delete removes key
func (ds *DynamoStore) Delete(ctx context.Context, key string) error {
	_, err := ds.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(ds.tableName),
		Key:       ds.itemKey(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func (ds *DynamoStore) itemKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"key": &types.AttributeValueMemberS{Value: key},
	}
}
