package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/AzielCF/az-content/domains/health"
	pkgError "github.com/AzielCF/az-content/pkg/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthService_CheckAll(t *testing.T) {
	svc := NewHealthService()
	ctx := context.Background()

	fail := true
	svc.Register(health.ComponentCache, func(context.Context) (string, error) { return "12 items", nil })
	svc.Register(health.ComponentValkey, func(context.Context) (string, error) {
		if fail {
			return "", errors.New("connection refused")
		}
		return "pong", nil
	})

	status, err := svc.GetStatus(ctx)
	require.NoError(t, err)
	require.Len(t, status, 2)
	assert.Equal(t, health.StatusUnknown, status[0].Status)

	records, err := svc.CheckAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, health.ComponentCache, records[0].Component)
	assert.Equal(t, health.StatusOk, records[0].Status)
	assert.NotNil(t, records[0].LastSuccess)
	assert.Equal(t, health.StatusError, records[1].Status)
	assert.Equal(t, "connection refused", records[1].LastMessage)
	assert.Nil(t, records[1].LastSuccess)

	fail = false
	rec, err := svc.Check(ctx, health.ComponentValkey)
	require.NoError(t, err)
	assert.Equal(t, health.StatusOk, rec.Status)
	assert.NotNil(t, rec.LastSuccess)
}

func TestHealthService_UnknownComponent(t *testing.T) {
	_, err := NewHealthService().Check(context.Background(), health.ComponentDatabase)
	assert.IsType(t, pkgError.NotFoundError(""), err)
}
