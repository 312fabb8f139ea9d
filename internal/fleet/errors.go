package fleet

import (
	"errors"

	"cya/models"
)

var (
	// ErrHostNotFound is returned when a host does not exist.
	ErrHostNotFound = errors.New("host not found")

	// ErrContainerNotFound is returned when a host has no such container.
	ErrContainerNotFound = errors.New("container not found")

	// ErrNotRecreatable is returned for containers the host reported on its
	// own: without a template there is nothing to rebuild them from.
	ErrNotRecreatable = errors.New("container has no template to re-create from")

	ErrHostExists      = errors.New("host already exists")
	ErrContainerExists = errors.New("container already exists")

	// ErrNoHosts is returned when no enlisted host can take a container.
	ErrNoHosts = errors.New("no enlisted hosts available")

	ErrUnauthorized  = errors.New("invalid host api key")
	ErrInvalidAPIKey = errors.New("api key must be 1 to 72 bytes")

	ErrInvalidTemplate = models.ErrInvalidTemplate
	ErrInvalidRelease  = models.ErrInvalidRelease
)
