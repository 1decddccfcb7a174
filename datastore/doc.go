/*
Package datastore defines the key-value capability the appdata persistence layer is built on.

The main interface is Store, a byte-level store grouped by bucket:

	type Store interface {
	    Get(ctx context.Context, bucket string, key []byte) ([]byte, error)
	    Put(ctx context.Context, bucket string, key, value []byte) error
	    Delete(ctx context.Context, bucket string, key []byte) error
	    Has(ctx context.Context, bucket string, key []byte) (bool, error)
	    Scan(ctx context.Context, bucket string, fn func(storagemodels.Item) error) error
	    PutAll(ctx context.Context, bucket string, items []storagemodels.Item) error
	    Flush(ctx context.Context) error
	    Close() error
	}

Buckets are entity store names; keys are numeric record keys encoded with
EncodeKey so that byte order equals numeric order.

Implementations:
  - sqlite: embedded durable store on a single SQLite file (default)
  - ddb: DynamoDB table, one partition per bucket
  - mock: in-memory store with error injection for testing

The process-wide handle is installed once with Init and read with Default.
*/
package datastore
