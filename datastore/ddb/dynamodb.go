/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/appdata/datastore"
	"github.com/suparena/appdata/storagemodels"
)

// Attribute names of the single-table layout.
const (
	attrPK   = "PK"
	attrSK   = "SK"
	attrData = "Data"
)

// API is the subset of the DynamoDB client used by Store.
// *sdk.Client satisfies it; tests substitute an in-memory fake.
type API interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *sdk.BatchWriteItemInput, optFns ...func(*sdk.Options)) (*sdk.BatchWriteItemOutput, error)
}

// Compile-time interface check.
var _ datastore.Store = (*Store)(nil)

// record is the item shape persisted for every entity record.
type record struct {
	PK   string `dynamodbav:"PK"`
	SK   []byte `dynamodbav:"SK"`
	Data []byte `dynamodbav:"Data"`
}

// Store implements datastore.Store on one DynamoDB table.
// The bucket becomes the partition key and the encoded record key the binary sort key,
// so a bucket scan is a single ordered Query.
type Store struct {
	client    API
	tableName string
	options   storagemodels.ScanOptions

	mu     sync.RWMutex
	closed bool
}

// Config holds what is needed to reach the table.
type Config struct {
	Region    string
	Table     string
	AccessKey string
	SecretKey string
}

// NewDynamoDBClient initializes a DynamoDB client. Static credentials are used
// when an access key is given, otherwise the default AWS credential chain applies.
func NewDynamoDBClient(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(awsRegion)}
	if awsAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(cfg), nil
}

// Open builds a client from cfg and returns a Store on cfg.Table.
func Open(ctx context.Context, cfg Config, opts ...storagemodels.ScanOption) (*Store, error) {
	if cfg.Table == "" {
		return nil, errors.New("ddb: table name is required")
	}

	client, err := NewDynamoDBClient(ctx, cfg.AccessKey, cfg.SecretKey, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}

	slog.Info("dynamodb store initialized", "table", cfg.Table, "region", cfg.Region)
	return New(client, cfg.Table, opts...), nil
}

// New wraps an existing client.
func New(client API, tableName string, opts ...storagemodels.ScanOption) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		options:   storagemodels.ApplyScanOptions(opts...),
	}
}

// Get implements datastore.Store.
func (d *Store) Get(ctx context.Context, bucket string, key []byte) ([]byte, error) {
	if err := d.check(bucket); err != nil {
		return nil, err
	}

	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName:      &d.tableName,
		Key:            itemKey(bucket, key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		return nil, datastore.ErrKeyNotFound
	}

	var rec record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return rec.Data, nil
}

// Put implements datastore.Store.
func (d *Store) Put(ctx context.Context, bucket string, key, value []byte) error {
	if err := d.check(bucket); err != nil {
		return err
	}

	av, err := marshalRecord(bucket, key, value)
	if err != nil {
		return err
	}

	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &d.tableName,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("PutItem failed: %w", err)
	}
	return nil
}

// Delete implements datastore.Store.
func (d *Store) Delete(ctx context.Context, bucket string, key []byte) error {
	if err := d.check(bucket); err != nil {
		return err
	}

	_, err := d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: &d.tableName,
		Key:       itemKey(bucket, key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	return nil
}

// Has implements datastore.Store.
func (d *Store) Has(ctx context.Context, bucket string, key []byte) (bool, error) {
	if err := d.check(bucket); err != nil {
		return false, err
	}

	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName:            &d.tableName,
		Key:                  itemKey(bucket, key),
		ConsistentRead:       aws.Bool(true),
		ProjectionExpression: aws.String(attrPK),
	})
	if err != nil {
		return false, fmt.Errorf("GetItem error: %w", err)
	}
	return out.Item != nil, nil
}

// Flush implements datastore.Store. DynamoDB acknowledges writes durably, so
// there is nothing to force.
func (d *Store) Flush(context.Context) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return datastore.ErrStoreClosed
	}
	return nil
}

// Close implements datastore.Store. The SDK client holds no resources to release.
func (d *Store) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *Store) check(bucket string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return datastore.ErrStoreClosed
	}
	if bucket == "" {
		return datastore.ErrNilBucket
	}
	return nil
}

func itemKey(bucket string, key []byte) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrPK: &types.AttributeValueMemberS{Value: bucket},
		attrSK: &types.AttributeValueMemberB{Value: key},
	}
}

func marshalRecord(bucket string, key, value []byte) (map[string]types.AttributeValue, error) {
	if value == nil {
		value = []byte{}
	}
	av, err := attributevalue.MarshalMap(record{PK: bucket, SK: key, Data: value})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	return av, nil
}
