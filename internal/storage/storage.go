// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"

	"buyee_bot/internal/model"
)

// Storage is the interface for all persistence operations.
type Storage interface {
	CreateAlert(ctx context.Context, alert *model.Alert) error
	FindAlert(ctx context.Context, userID int64, name string) (*model.Alert, error)
	ListAlerts(ctx context.Context) ([]model.Alert, error)
	ListUserAlerts(ctx context.Context, userID int64) ([]model.Alert, error)
	DeleteAlert(ctx context.Context, userID int64, name string) error

	Close() error
}
