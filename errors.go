package cloak

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrMissingKey indicates the default cipher was selected without key material.
	ErrMissingKey = errors.New("missing key")

	// ErrInvalidAlgorithm indicates an unknown encryption algorithm was configured.
	ErrInvalidAlgorithm = errors.New("invalid algorithm")

	// ErrMarshal indicates a body codec failed to marshal the request payload.
	ErrMarshal = errors.New("marshal failed")

	// ErrUnmarshal indicates a body codec failed to unmarshal the response payload.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrEncrypt indicates encryption of a request part failed.
	ErrEncrypt = errors.New("encrypt failed")

	// ErrDecrypt indicates decryption of a response body failed.
	ErrDecrypt = errors.New("decrypt failed")

	// ErrUnsupportedPayload indicates a response body that is neither
	// ciphertext text nor a binary payload.
	ErrUnsupportedPayload = errors.New("unsupported payload")
)

// ConfigError represents a pipeline configuration error.
// It wraps a sentinel error with additional context about the field and algorithm.
type ConfigError struct {
	Err       error  // Underlying sentinel error (ErrMissingKey, etc.)
	Field     string // Config field that triggered the error
	Algorithm string // Algorithm that was missing/invalid
}

func (e *ConfigError) Error() string {
	if e.Field != "" && e.Algorithm != "" {
		return fmt.Sprintf("%s for algorithm %q (field %s)", e.Err.Error(), e.Algorithm, e.Field)
	}
	if e.Algorithm != "" {
		return fmt.Sprintf("%s for algorithm %q", e.Err.Error(), e.Algorithm)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s (field %s)", e.Err.Error(), e.Field)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TransformError represents a failure while transforming one part of a
// request or response. It matches both its sentinel and the original cause
// under errors.Is, so a cipher's own errors surface unchanged.
type TransformError struct {
	Err       error  // Underlying sentinel error (ErrEncrypt, ErrDecrypt, ...)
	Field     string // Part that failed (data, params, query, path[2])
	Operation string // Operation that failed (encrypt, decrypt, marshal)
	Cause     error  // Original error from the cipher or codec
}

func (e *TransformError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %v", e.Operation, e.Field, e.Cause)
	}
	return fmt.Sprintf("%s %s", e.Operation, e.Field)
}

func (e *TransformError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err         error  // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	ContentType string // Content type of the codec that failed
	Cause       error  // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Err.Error(), e.ContentType, e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// newConfigError creates a ConfigError for invalid configuration.
func newConfigError(sentinel error, algorithm, field string) error {
	return &ConfigError{
		Err:       sentinel,
		Algorithm: algorithm,
		Field:     field,
	}
}

// newTransformError creates a TransformError for part transformation failures.
func newTransformError(sentinel error, operation, field string, cause error) error {
	return &TransformError{
		Err:       sentinel,
		Field:     field,
		Operation: operation,
		Cause:     cause,
	}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, contentType string, cause error) error {
	return &CodecError{
		Err:         sentinel,
		ContentType: contentType,
		Cause:       cause,
	}
}
