package store

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo keeps items in memory keyed by the "key" attribute
type fakeDynamo struct {
	items map[string]map[string]types.AttributeValue
	err   error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func keyOf(m map[string]types.AttributeValue) string {
	return m["key"].(*types.AttributeValueMemberS).Value
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[keyOf(in.Key)]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.items[keyOf(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	delete(f.items, keyOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestDynamoStore_RoundTrip(t *testing.T) {
	fake := newFakeDynamo()
	ds := NewDynamoStore(fake, "storage")
	ctx := context.Background()

	require.NoError(t, ds.Set(ctx, "default:cartItems", []byte(`[]`)))

	item := fake.items["default:cartItems"]
	require.NotNil(t, item)
	assert.IsType(t, &types.AttributeValueMemberB{}, item["value"])
	assert.Contains(t, item, "updated_at")

	value, found, err := ds.Get(ctx, "default:cartItems")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, string(value))

	require.NoError(t, ds.Delete(ctx, "default:cartItems"))
	_, found, err = ds.Get(ctx, "default:cartItems")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDynamoStore_ClientError(t *testing.T) {
	fake := newFakeDynamo()
	fake.err = errors.New("throttled")
	ds := NewDynamoStore(fake, "storage")

	_, _, err := ds.Get(context.Background(), "k")
	assert.ErrorContains(t, err, "throttled")

	err = ds.Set(context.Background(), "k", []byte("v"))
	assert.ErrorContains(t, err, "throttled")
}
