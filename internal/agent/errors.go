package agent

import "errors"

var (
	// ErrHostNotFound is returned when the server does not know this host.
	ErrHostNotFound = errors.New("host not registered")

	ErrContainerNotFound = errors.New("container not known to server")

	ErrHostExists   = errors.New("host already registered")
	ErrUnauthorized = errors.New("server rejected host api key")

	// ErrLocked is returned when another agent process holds the lock file.
	ErrLocked = errors.New("another agent run is in progress")
)
