/*
Package ddb provides a DynamoDB implementation of the datastore.Store interface.

All buckets share one table using a single-table layout:

	PK   (S)  bucket name, e.g. "UserProfile"
	SK   (B)  4-byte big-endian record key
	Data (B)  msgpack-encoded record

Because binary sort keys compare byte-wise, a Query on one partition returns
records in ascending numeric key order.

Bulk operations honour storagemodels.ScanOptions:

	store := ddb.New(client, "appdata",
	    storagemodels.WithPageSize(100),
	    storagemodels.WithMaxRetries(3),
	    storagemodels.WithProgressHandler(func(p storagemodels.ScanProgress) {
	        slog.Info("scan progress", "bucket", p.Bucket, "items", p.ItemsProcessed)
	    }),
	)

Throttling and internal server errors are retried with linear backoff; items
left unprocessed by BatchWriteItem are resubmitted the same way.
*/
package ddb
