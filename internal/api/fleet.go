package api

import (
	"context"

	"cya/models"
)

// Fleet defines the inventory operations used by the API handlers.
type Fleet interface {
	Ping(ctx context.Context) error
	ListHosts(ctx context.Context) ([]models.Host, error)
	GetHost(ctx context.Context, name string, withContainers bool) (models.Host, error)
	RegisterHost(ctx context.Context, req models.RegisterHostRequest) (models.Host, error)
	UpdateHost(ctx context.Context, name string, req models.UpdateHostRequest) error
	DeleteHost(ctx context.Context, name string) error
	SetEnlisted(ctx context.Context, name string, enlisted bool) error
	VerifyHostKey(ctx context.Context, name, key string) error
	CreateContainer(ctx context.Context, req models.CreateContainerRequest) (models.CreateContainerResponse, error)
	UpdateContainer(ctx context.Context, host, name string, req models.UpdateContainerRequest) error
}
