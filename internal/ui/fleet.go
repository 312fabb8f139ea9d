package ui

import (
	"context"

	"cya/models"
)

// Fleet defines the inventory operations the dashboard uses.
// A subset of api.Fleet, kept separate so the packages stay independent.
type Fleet interface {
	ListHosts(ctx context.Context) ([]models.Host, error)
	GetHost(ctx context.Context, name string, withContainers bool) (models.Host, error)
	RemoveContainer(ctx context.Context, host, name string) error
	RecreateContainer(ctx context.Context, host, name string) error
	SetContainerState(ctx context.Context, host, name string, keepRunning bool) error
}
