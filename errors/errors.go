/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a data set, record or configuration is not found
	ErrNotFound = errors.New("not found")

	// ErrDuplicateRegistration is returned when a store name is registered twice
	ErrDuplicateRegistration = errors.New("duplicate registration")

	// ErrDecoding is returned when a payload cannot be decoded into its entity type
	ErrDecoding = errors.New("decoding failed")

	// ErrEncoding is returned when an entity cannot be encoded for the boundary
	ErrEncoding = errors.New("encoding failed")

	// ErrStore is returned when the underlying key-value store fails
	ErrStore = errors.New("store operation failed")

	// ErrKeyOverflow is returned when the key space is exhausted
	ErrKeyOverflow = errors.New("key overflow")

	// ErrAlreadyInitialized is returned when a process-wide component is initialized twice
	ErrAlreadyInitialized = errors.New("already initialized")

	// ErrNotInitialized is returned when a process-wide component is used before Init
	ErrNotInitialized = errors.New("not initialized")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// NotFoundError represents an error when a data set or record is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Type)
	}
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DuplicateRegistrationError is returned when a store name is already taken.
// The existing registration is left untouched.
type DuplicateRegistrationError struct {
	ID           string
	ExistingType string
	NewType      string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("data set %q already registered: type=%s, new_type=%s", e.ID, e.ExistingType, e.NewType)
}

func (e *DuplicateRegistrationError) Is(target error) bool {
	return target == ErrDuplicateRegistration
}

// DecodingError wraps a failure to turn external bytes into an entity
type DecodingError struct {
	ID  string
	Err error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.ID, e.Err)
}

func (e *DecodingError) Is(target error) bool {
	return target == ErrDecoding
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

// EncodingError wraps a failure to encode an entity
type EncodingError struct {
	ID  string
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.ID, e.Err)
}

func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// StoreError wraps an I/O failure of the underlying key-value store
type StoreError struct {
	Op    string
	Store string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Store, e.Err)
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// KeyOverflowError is returned when no key is available at or above Start
type KeyOverflowError struct {
	Store string
	Start uint32
}

func (e *KeyOverflowError) Error() string {
	return fmt.Sprintf("%s: no available key at or above %d", e.Store, e.Start)
}

func (e *KeyOverflowError) Is(target error) bool {
	return target == ErrKeyOverflow
}

// AlreadyInitializedError names the component that was initialized twice
type AlreadyInitializedError struct {
	Component string
}

func (e *AlreadyInitializedError) Error() string {
	return fmt.Sprintf("%s already initialized", e.Component)
}

func (e *AlreadyInitializedError) Is(target error) bool {
	return target == ErrAlreadyInitialized
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewDuplicateRegistrationError creates a new DuplicateRegistrationError
func NewDuplicateRegistrationError(id, existingType, newType string) error {
	return &DuplicateRegistrationError{ID: id, ExistingType: existingType, NewType: newType}
}

// NewDecodingError creates a new DecodingError
func NewDecodingError(id string, err error) error {
	return &DecodingError{ID: id, Err: err}
}

// NewEncodingError creates a new EncodingError
func NewEncodingError(id string, err error) error {
	return &EncodingError{ID: id, Err: err}
}

// NewStoreError creates a new StoreError
func NewStoreError(op, store string, err error) error {
	return &StoreError{Op: op, Store: store, Err: err}
}

// NewKeyOverflowError creates a new KeyOverflowError
func NewKeyOverflowError(store string, start uint32) error {
	return &KeyOverflowError{Store: store, Start: start}
}

// NewAlreadyInitializedError creates a new AlreadyInitializedError
func NewAlreadyInitializedError(component string) error {
	return &AlreadyInitializedError{Component: component}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateRegistration checks if an error is a duplicate registration error
func IsDuplicateRegistration(err error) bool {
	return errors.Is(err, ErrDuplicateRegistration)
}

// IsDecoding checks if an error is a decoding error
func IsDecoding(err error) bool {
	return errors.Is(err, ErrDecoding)
}

// IsEncoding checks if an error is an encoding error
func IsEncoding(err error) bool {
	return errors.Is(err, ErrEncoding)
}

// IsStore checks if an error is a store error
func IsStore(err error) bool {
	return errors.Is(err, ErrStore)
}

// IsKeyOverflow checks if an error is a key overflow error
func IsKeyOverflow(err error) bool {
	return errors.Is(err, ErrKeyOverflow)
}

// IsAlreadyInitialized checks if an error is an already initialized error
func IsAlreadyInitialized(err error) bool {
	return errors.Is(err, ErrAlreadyInitialized)
}

// IsNotInitialized checks if an error is a not initialized error
func IsNotInitialized(err error) bool {
	return errors.Is(err, ErrNotInitialized)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
