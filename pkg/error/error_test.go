package error

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsImplementGenericError(t *testing.T) {
	tests := []struct {
		err    GenericError
		code   string
		status int
	}{
		{ValidationError("bad"), "VALIDATION_ERROR", http.StatusBadRequest},
		{NotFoundError("missing"), "NOT_FOUND_ERROR", http.StatusNotFound},
		{InternalServerError("boom"), "INTERNAL_SERVER_ERROR", http.StatusInternalServerError},
		{QueueFullError("busy"), "QUEUE_FULL", http.StatusServiceUnavailable},
		{ProviderError("upstream"), "PROVIDER_ERROR", http.StatusBadGateway},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.ErrCode())
		assert.Equal(t, tt.status, tt.err.StatusCode())
		assert.NotEmpty(t, tt.err.Error())
	}
}
