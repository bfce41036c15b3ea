package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapWithCode(t *testing.T) {
	base := errors.New("connection reset")
	err := WrapWithCode(base, CodeStorage, "list feed")

	assert.Equal(t, "list feed: connection reset", err.Error())
	assert.Equal(t, CodeStorage, GetCode(err))
	assert.ErrorIs(t, err, base)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "noop"))
	assert.Nil(t, WrapWithCode(nil, CodeBlob, "noop"))
}

func TestGetCodeOutermost(t *testing.T) {
	inner := WrapWithCode(errors.New("eof"), CodeTransport, "download")
	outer := WrapWithCode(fmt.Errorf("store image: %w", inner), CodeBlob, "upload")

	assert.Equal(t, CodeBlob, GetCode(outer))
	assert.Equal(t, CodeTransport, GetCode(inner))
	assert.Equal(t, "", GetCode(errors.New("plain")))
}

func TestDomainNotFoundSharesRoot(t *testing.T) {
	postMissing := Wrap(ErrNotFound, "post")
	err := fmt.Errorf("load post 7: %w", postMissing)

	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, postMissing)
	assert.False(t, IsNotFound(errors.New("timeout")))
}
