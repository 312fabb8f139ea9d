package dispatch

import (
	"errors"
	"maps"
)

// Paths served by the dashboard for each action.
const (
	PathRemoveContainer   = "/container/remove/"
	PathRecreateContainer = "/container/recreate/"
	PathStartContainer    = "/container/start/"
)

// ErrUnknownAction is returned when an action has no bound endpoint.
var ErrUnknownAction = errors.New("no endpoint bound to action")

// Endpoints binds each action to a fixed server path.
type Endpoints map[Action]string

// DefaultEndpoints returns the paths the dashboard server registers.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		ActionRemoveContainer:   PathRemoveContainer,
		ActionRecreateContainer: PathRecreateContainer,
		ActionStartContainer:    PathStartContainer,
	}
}

// endpointFor looks up the path for an action. The result depends on the
// action alone.
func (e Endpoints) endpointFor(a Action) (string, error) {
	path, ok := e[a]
	if !ok || path == "" {
		return "", ErrUnknownAction
	}
	return path, nil
}

func (e Endpoints) clone() Endpoints {
	if e == nil {
		return DefaultEndpoints()
	}
	return maps.Clone(e)
}
