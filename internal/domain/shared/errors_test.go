package shared

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewValidation("bad"), http.StatusBadRequest},
		{NewConflict("dup"), http.StatusBadRequest},
		{NewNotFound("missing"), http.StatusNotFound},
		{NewAuth("nope"), http.StatusUnauthorized},
		{NewRateLimit("slow down"), http.StatusTooManyRequests},
		{Wrap(errors.New("db down"), "load producer"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("outer: %w", NewNotFound("producer not found")), http.StatusNotFound},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestPublicMessageHidesInternalCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, "load producer")

	assert.Equal(t, "internal server error", PublicMessage(err))
	assert.Equal(t, "internal server error", PublicMessage(cause))
	assert.Equal(t, "producer not found", PublicMessage(NewNotFound("producer not found")))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "load producer: connection refused", err.Error())
}
