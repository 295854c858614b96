package errors

import "fmt"

type DatabaseError struct {
	Operation string
	Err       error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error during %s: %v", e.Operation, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a missing resource. Message, when set, replaces the
// generated text.
type NotFoundError struct {
	Resource   string
	Identifier string
	Message    string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Identifier)
}

// ValidationError reports malformed or out-of-range input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ConflictError reports a request that is well formed but not allowed in the
// current state of the resource.
type ConflictError struct {
	Resource string
	Message  string
}

func (e *ConflictError) Error() string {
	return e.Message
}

type AuthError struct {
	Message   string
	Forbidden bool
}

func (e *AuthError) Error() string {
	return e.Message
}

type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s - %v", e.StatusCode, e.Message, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

type WebSocketError struct {
	Operation string
	Err       error
}

func (e *WebSocketError) Error() string {
	return fmt.Sprintf("WebSocket error during %s: %v", e.Operation, e.Err)
}

func (e *WebSocketError) Unwrap() error {
	return e.Err
}

type PaymentError struct {
	PaymentID string
	Err       error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment %s settlement failed: %v", e.PaymentID, e.Err)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}
