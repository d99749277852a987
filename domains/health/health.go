package health

import (
	"context"
	"time"
)

type Component string

const (
	ComponentDatabase   Component = "database"
	ComponentValkey     Component = "valkey"
	ComponentProvider   Component = "ai_provider"
	ComponentWorkerPool Component = "worker_pool"
	ComponentCache      Component = "content_cache"
)

type Status string

const (
	StatusOk      Status = "OK"
	StatusError   Status = "ERROR"
	StatusUnknown Status = "UNKNOWN"
)

type HealthRecord struct {
	Component   Component  `json:"component"`
	Status      Status     `json:"status"`
	LastMessage string     `json:"last_message"`
	LastChecked time.Time  `json:"last_checked"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
}

// Checker probes one component and returns a short status message.
type Checker func(ctx context.Context) (string, error)

type IHealthUsecase interface {
	Register(component Component, check Checker)
	Check(ctx context.Context, component Component) (HealthRecord, error)
	CheckAll(ctx context.Context) ([]HealthRecord, error)
	GetStatus(ctx context.Context) ([]HealthRecord, error)
	StartPeriodicChecks(ctx context.Context, interval time.Duration)
}
