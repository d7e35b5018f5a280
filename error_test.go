package postpdf_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/postpdf"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := postpdf.Errorf(postpdf.ENOTFOUND, "post %q not found", "123")

	assert.Equal(t, postpdf.ENOTFOUND, postpdf.ErrorCode(err))
	assert.Equal(t, "post \"123\" not found", postpdf.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, postpdf.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, postpdf.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("extracting: %w", postpdf.Errorf(postpdf.ETIMEOUT, "navigation timed out"))

	assert.Equal(t, postpdf.ETIMEOUT, postpdf.ErrorCode(err))
	assert.Equal(t, "navigation timed out", postpdf.ErrorMessage(err))
}

func TestErrorCode_PlainError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, postpdf.EINTERNAL, postpdf.ErrorCode(err))
	assert.Equal(t, "Internal error.", postpdf.ErrorMessage(err))
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"timeout", postpdf.Errorf(postpdf.ETIMEOUT, "x"), true},
		{"launch failure", postpdf.Errorf(postpdf.ELAUNCH, "x"), true},
		{"not found", postpdf.Errorf(postpdf.ENOTFOUND, "x"), false},
		{"invalid url", postpdf.Errorf(postpdf.EINVALIDURL, "x"), false},
		{"unrecognized shape", postpdf.Errorf(postpdf.ESHAPE, "x"), false},
		{"plain error", errors.New("x"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, postpdf.Retryable(tt.err))
		})
	}
}
