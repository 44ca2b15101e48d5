package cloak

import (
	"errors"
	"testing"
)

func TestConfigError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigError
		want string
	}{
		{
			name: "field and algorithm",
			err:  &ConfigError{Err: ErrMissingKey, Field: "Key", Algorithm: "aes"},
			want: `missing key for algorithm "aes" (field Key)`,
		},
		{
			name: "algorithm only",
			err:  &ConfigError{Err: ErrInvalidAlgorithm, Algorithm: "rot13"},
			want: `invalid algorithm for algorithm "rot13"`,
		},
		{
			name: "field only",
			err:  &ConfigError{Err: ErrMissingKey, Field: "Key"},
			want: "missing key (field Key)",
		},
		{
			name: "sentinel only",
			err:  &ConfigError{Err: ErrMissingKey},
			want: "missing key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigError_Unwrap(t *testing.T) {
	err := newConfigError(ErrMissingKey, "aes", "Key")
	if !errors.Is(err, ErrMissingKey) {
		t.Error("errors.Is should match ErrMissingKey")
	}
}

func TestTransformError(t *testing.T) {
	cause := errors.New("kms unavailable")
	err := newTransformError(ErrEncrypt, opEncrypt, "path[2]", cause)

	if got := err.Error(); got != "encrypt path[2]: kms unavailable" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrEncrypt) {
		t.Error("errors.Is should match the sentinel")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should match the cipher's own error")
	}

	var te *TransformError
	if !errors.As(err, &te) || te.Field != "path[2]" {
		t.Errorf("errors.As failed or wrong field: %+v", te)
	}
}

func TestTransformError_NoCause(t *testing.T) {
	err := &TransformError{Err: ErrDecrypt, Operation: opDecrypt, Field: fieldData}
	if got := err.Error(); got != "decrypt data" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrDecrypt) {
		t.Error("errors.Is should match the sentinel")
	}
}

func TestCodecError(t *testing.T) {
	cause := errors.New("bad document")
	err := newCodecError(ErrMarshal, "application/bson", cause)

	if got := err.Error(); got != "marshal failed (application/bson): bad document" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrMarshal) || !errors.Is(err, cause) {
		t.Error("errors.Is should match sentinel and cause")
	}
	if got := (&CodecError{Err: ErrUnmarshal}).Error(); got != "unmarshal failed" {
		t.Errorf("Error() without cause = %q", got)
	}
}
