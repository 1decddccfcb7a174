/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"time"
)

// ScanOptions configures bulk reads and writes against a store
type ScanOptions struct {
	PageSize        int32              // Items per page for paginated backends (default: 100)
	BatchSize       int                // Items per write batch on import (default: 25)
	MaxRetries      int                // Retry attempts for transient errors (default: 3)
	RetryBackoff    time.Duration      // Backoff between retries (default: 1s)
	ProgressHandler func(ScanProgress) // Optional progress callback
}

// ScanProgress tracks bulk operation progress
type ScanProgress struct {
	Bucket         string    // Bucket being scanned or written
	ItemsProcessed int64     // Total items processed
	PagesProcessed int       // Total pages or batches processed
	StartTime      time.Time // When the operation started
}

// ScanOption is a functional option for configuring scans
type ScanOption func(*ScanOptions)

// DefaultScanOptions returns default scan options
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		PageSize:     100,
		BatchSize:    25,
		MaxRetries:   3,
		RetryBackoff: time.Second,
	}
}

// ApplyScanOptions returns the defaults with opts applied in order
func ApplyScanOptions(opts ...ScanOption) ScanOptions {
	options := DefaultScanOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// WithPageSize sets the page size
func WithPageSize(size int32) ScanOption {
	return func(opts *ScanOptions) {
		opts.PageSize = size
	}
}

// WithBatchSize sets the write batch size
func WithBatchSize(size int) ScanOption {
	return func(opts *ScanOptions) {
		opts.BatchSize = size
	}
}

// WithMaxRetries sets the maximum retry attempts
func WithMaxRetries(retries int) ScanOption {
	return func(opts *ScanOptions) {
		opts.MaxRetries = retries
	}
}

// WithRetryBackoff sets the retry backoff duration
func WithRetryBackoff(backoff time.Duration) ScanOption {
	return func(opts *ScanOptions) {
		opts.RetryBackoff = backoff
	}
}

// WithProgressHandler sets a progress callback
func WithProgressHandler(handler func(ScanProgress)) ScanOption {
	return func(opts *ScanOptions) {
		opts.ProgressHandler = handler
	}
}
