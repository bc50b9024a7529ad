package errorsx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/pkg/response"
	"github.com/wyfcoding/pkg/xerrors"
)

func TestKindOf(t *testing.T) {
	t.Run("finds wrapped business error", func(t *testing.T) {
		err := fmt.Errorf("add line: %w", Validation("only %d units available", 3))
		assert.Equal(t, KindValidation, KindOf(err))
		assert.True(t, Is(err, KindValidation))
		assert.Equal(t, "only 3 units available", Message(err))
	})

	t.Run("plain errors are internal", func(t *testing.T) {
		err := errors.New("boom")
		assert.Equal(t, KindInternal, KindOf(err))
		assert.Equal(t, "boom", Message(err))
	})

	t.Run("nil is never a kind", func(t *testing.T) {
		assert.False(t, Is(nil, KindInternal))
	})
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, "save cart")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "save cart: connection refused", err.Error())
	assert.Equal(t, "internal", KindOf(err).String())
}

func TestNotFound(t *testing.T) {
	err := NotFound("product")
	assert.Equal(t, "product not found", err.Error())
	assert.Equal(t, "not_found", err.Kind().String())
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    *Error
		status int
		kind   Kind
	}{
		{"validation", Validation("bad"), 400, KindValidation},
		{"not found", NotFound("cart"), 404, KindNotFound},
		{"unauthorized", Unauthorized("log in"), 401, KindUnauthorized},
		{"forbidden", Forbidden("staff only"), 403, KindForbidden},
		{"internal", Wrap(errors.New("disk"), "save"), 500, KindInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p response.HTTPStatusProvider = tc.err
			assert.Equal(t, tc.status, p.HTTPStatus())
			assert.Equal(t, tc.kind, KindOf(fmt.Errorf("op: %w", tc.err)))
			assert.NotEmpty(t, tc.err.Stack())
		})
	}
}

func TestPlainXErrors(t *testing.T) {
	err := fmt.Errorf("lookup: %w", xerrors.NotFound("session not found"))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "session not found", Message(err))

	var x *xerrors.Error
	require.ErrorAs(t, Validation("bad"), &x)
}
