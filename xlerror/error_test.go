package xlerror_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"xlfp/xlerror"
)

func TestFromCodeReturnsKnownSingleton(t *testing.T) {
	assert.Same(t, xlerror.ErrDivZero, xlerror.FromCode(xlerror.DivZero))
	assert.Same(t, xlerror.ErrNA, xlerror.FromCode(xlerror.NA))
}

func TestFromCodeFallsBackToGenericForUnknownCode(t *testing.T) {
	assert.Same(t, xlerror.ErrGeneric, xlerror.FromCode(xlerror.Code("#WEIRD!")))
}

func TestWithfPreservesCodeWhileAttachingMessage(t *testing.T) {
	withMsg := xlerror.ErrValue.Withf("bad formula near token")
	assert.Equal(t, xlerror.ErrValue.Code, withMsg.Code)
	assert.Contains(t, withMsg.Error(), "bad formula near token")
}
