package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	pkgError "github.com/AzielCF/az-content/pkg/error"
	"github.com/AzielCF/az-content/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPanicApp(value any) *fiber.App {
	app := fiber.New()
	app.Use(Recovery())
	app.Get("/", func(c *fiber.Ctx) error {
		panic(value)
	})
	return app
}

func decode(t *testing.T, app *fiber.App) (int, utils.ResponseData) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body utils.ResponseData
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestRecovery_GenericError(t *testing.T) {
	status, body := decode(t, newPanicApp(pkgError.ValidationError("topic: cannot be blank")))

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, "topic: cannot be blank", body.Message)
}

func TestRecovery_WrappedGenericError(t *testing.T) {
	err := fmt.Errorf("prefetch: %w", pkgError.QueueFullError("generation queue is full"))
	status, body := decode(t, newPanicApp(err))

	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "QUEUE_FULL", body.Code)
}

func TestRecovery_PlainValues(t *testing.T) {
	status, body := decode(t, newPanicApp(errors.New("boom")))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Code)
	assert.Equal(t, "boom", body.Message)

	status, body = decode(t, newPanicApp("nil map"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "nil map", body.Message)
}
