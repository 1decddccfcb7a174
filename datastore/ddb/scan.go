/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/appdata/storagemodels"
)

// maxBatchWrite is the DynamoDB limit on items per BatchWriteItem call.
const maxBatchWrite = 25

// Scan implements datastore.Store. The bucket partition is read page by page
// in ascending sort-key order; transient errors are retried per page.
func (d *Store) Scan(ctx context.Context, bucket string, fn func(storagemodels.Item) error) error {
	if err := d.check(bucket); err != nil {
		return err
	}

	startTime := time.Now()
	var itemsProcessed int64
	var pageNumber int

	reportProgress := func() {
		if d.options.ProgressHandler != nil {
			d.options.ProgressHandler(storagemodels.ScanProgress{
				Bucket:         bucket,
				ItemsProcessed: itemsProcessed,
				PagesProcessed: pageNumber,
				StartTime:      startTime,
			})
		}
	}

	keyCond := "PK = :pkVal"
	input := &sdk.QueryInput{
		TableName:              &d.tableName,
		KeyConditionExpression: &keyCond,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pkVal": &types.AttributeValueMemberS{Value: bucket},
		},
		ConsistentRead:   aws.Bool(true),
		ScanIndexForward: aws.Bool(true),
		Limit:            aws.Int32(d.options.PageSize),
	}

	for {
		out, err := d.queryWithRetry(ctx, input)
		if err != nil {
			return err
		}
		pageNumber++

		for _, av := range out.Items {
			var rec record
			if err := attributevalue.UnmarshalMap(av, &rec); err != nil {
				return fmt.Errorf("failed to unmarshal item: %w", err)
			}
			if err := fn(storagemodels.Item{Key: rec.SK, Value: rec.Data}); err != nil {
				return err
			}
			itemsProcessed++
		}

		reportProgress()

		if len(out.LastEvaluatedKey) == 0 {
			return nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// queryWithRetry executes a query with linear backoff on retryable errors
func (d *Store) queryWithRetry(ctx context.Context, input *sdk.QueryInput) (*sdk.QueryOutput, error) {
	var lastErr error

	for attempt := 0; attempt <= d.options.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := d.client.Query(ctx, input)
		if err == nil {
			return out, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			return nil, fmt.Errorf("query error: %w", err)
		}

		if attempt < d.options.MaxRetries {
			if err := d.backoff(ctx, attempt); err != nil {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("query failed after %d retries: %w", d.options.MaxRetries, lastErr)
}

// PutAll implements datastore.Store. Items are deduplicated by key keeping the
// last occurrence, then written in batches of at most BatchSize (capped at 25).
// Unprocessed items returned by DynamoDB are resubmitted with backoff.
func (d *Store) PutAll(ctx context.Context, bucket string, items []storagemodels.Item) error {
	if err := d.check(bucket); err != nil {
		return err
	}

	items = lastWriteWins(items)

	batchSize := d.options.BatchSize
	if batchSize <= 0 || batchSize > maxBatchWrite {
		batchSize = maxBatchWrite
	}

	startTime := time.Now()
	var written int64
	var batches int

	for start := 0; start < len(items); start += batchSize {
		end := min(start+batchSize, len(items))

		requests := make([]types.WriteRequest, 0, end-start)
		for _, item := range items[start:end] {
			av, err := marshalRecord(bucket, item.Key, item.Value)
			if err != nil {
				return err
			}
			requests = append(requests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: av},
			})
		}

		if err := d.batchWriteWithRetry(ctx, requests); err != nil {
			return err
		}

		written += int64(end - start)
		batches++
		if d.options.ProgressHandler != nil {
			d.options.ProgressHandler(storagemodels.ScanProgress{
				Bucket:         bucket,
				ItemsProcessed: written,
				PagesProcessed: batches,
				StartTime:      startTime,
			})
		}
	}
	return nil
}

func (d *Store) batchWriteWithRetry(ctx context.Context, requests []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{d.tableName: requests}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		out, err := d.client.BatchWriteItem(ctx, &sdk.BatchWriteItemInput{RequestItems: pending})
		switch {
		case err != nil && !isRetryableError(err):
			return fmt.Errorf("BatchWriteItem failed: %w", err)
		case err == nil && len(out.UnprocessedItems[d.tableName]) == 0:
			return nil
		case err == nil:
			pending = map[string][]types.WriteRequest{d.tableName: out.UnprocessedItems[d.tableName]}
		}

		if attempt >= d.options.MaxRetries {
			if err != nil {
				return fmt.Errorf("BatchWriteItem failed after %d retries: %w", d.options.MaxRetries, err)
			}
			return fmt.Errorf("BatchWriteItem left %d unprocessed items after %d retries",
				len(pending[d.tableName]), d.options.MaxRetries)
		}
		if err := d.backoff(ctx, attempt); err != nil {
			return err
		}
	}
}

func (d *Store) backoff(ctx context.Context, attempt int) error {
	wait := time.Duration(attempt+1) * d.options.RetryBackoff
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

// lastWriteWins drops every item whose key appears again later in the slice.
// A single BatchWriteItem call rejects duplicate keys.
func lastWriteWins(items []storagemodels.Item) []storagemodels.Item {
	last := make(map[string]int, len(items))
	for i, item := range items {
		last[string(item.Key)] = i
	}
	if len(last) == len(items) {
		return items
	}

	out := make([]storagemodels.Item, 0, len(last))
	for i, item := range items {
		if last[string(item.Key)] == i {
			out = append(out, item)
		}
	}
	return out
}

// isRetryableError determines if a DynamoDB error is retryable
func isRetryableError(err error) bool {
	var throughput *types.ProvisionedThroughputExceededException
	var limit *types.RequestLimitExceeded
	var internal *types.InternalServerError
	if errors.As(err, &throughput) || errors.As(err, &limit) || errors.As(err, &internal) {
		return true
	}

	// Check for AWS SDK retryable errors
	var retryable interface{ RetryableError() bool }
	if errors.As(err, &retryable) {
		return retryable.RetryableError()
	}

	return false
}
