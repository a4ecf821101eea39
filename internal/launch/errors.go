package launch

import (
	"fmt"

	"launchcontrol/internal/models"
)

// ValidationError means the caller's input was malformed or incomplete.
// Nothing has happened yet; safe to fix and resend.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// UploadError means a blob store write failed during prepare. No on-chain
// or database side effects exist; the whole prepare may be retried.
type UploadError struct {
	Op  string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed (%s): %v", e.Op, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PreparationError means the curve service or the network failed while
// building the transaction set. No side effects; retry from scratch.
type PreparationError struct {
	Err error
}

func (e *PreparationError) Error() string {
	return fmt.Sprintf("failed to prepare launch: %v", e.Err)
}

func (e *PreparationError) Unwrap() error { return e.Err }

// SubmissionError means an on-chain submission or confirmation failed.
// Submitted lists the transactions that were already confirmed before the
// failure; those are final and will not be rolled back.
type SubmissionError struct {
	Stage     string
	Submitted []models.TransactionRecord
	Err       error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("failed to submit %s transaction after %d confirmed: %v", e.Stage, len(e.Submitted), e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// PersistenceError means the database write failed after the on-chain
// submissions succeeded. Only the persist step should be retried.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist launch record: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
