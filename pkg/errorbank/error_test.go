package errorbank

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
		code   codes.Code
	}{
		{BadRequest("bad"), http.StatusBadRequest, codes.InvalidArgument},
		{Conflict("dup"), http.StatusConflict, codes.AlreadyExists},
		{NotFound("missing"), http.StatusNotFound, codes.NotFound},
		{Unprocessable("nope"), http.StatusUnprocessableEntity, codes.FailedPrecondition},
		{Internal("boom"), http.StatusInternalServerError, codes.Internal},
	}

	for _, tc := range cases {
		t.Run(string(tc.err.Kind()), func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.StatusCode())
			assert.Equal(t, tc.code, tc.err.GRPCCode())
		})
	}
}

func TestWithCauseUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("db write failed", WithCause(cause))

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "db write failed")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWithDetail(t *testing.T) {
	err := BadRequest("unknown report period", WithDetail("period", "quarter"))
	require.NotNil(t, err.Details())
	assert.Equal(t, "quarter", err.Details()["period"])
}

func TestFrom(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, From(nil))
	})

	t.Run("app error passes through", func(t *testing.T) {
		orig := NotFound("order not found")
		assert.Same(t, orig, From(orig))
	})

	t.Run("wrapped app error is recovered", func(t *testing.T) {
		orig := NotFound("order not found")
		wrapped := fmt.Errorf("handler: %w", orig)
		assert.Same(t, orig, From(wrapped))
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		err := From(errors.New("boom"))
		assert.Equal(t, KindInternal, err.Kind())
		assert.Equal(t, http.StatusInternalServerError, err.StatusCode())
	})
}

func TestEmptyMessageFallsBackToKind(t *testing.T) {
	err := New(KindConflict, "")
	assert.Equal(t, string(KindConflict), err.Message())
}
