/*
Package storagemodels defines the data structures shared by the datastore backends.

Key Types:

Item:
One raw record of a bucket, as handed to and returned from a store:

	item := storagemodels.Item{
	    Key:   datastore.EncodeKey(42),
	    Value: encoded,
	}

ScanOptions:
Configuration for paginated reads and batched writes:

	opts := []ScanOption{
	    WithPageSize(25),
	    WithBatchSize(25),
	    WithMaxRetries(3),
	    WithProgressHandler(progressFunc),
	}

These types provide a consistent interface across different storage implementations.
*/
package storagemodels
