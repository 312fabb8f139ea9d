// Package dispatch submits container lifecycle commands to the dashboard the
// way the dashboard's own pages do: a form post carrying the host, the
// container name and the page to come back to.
package dispatch

import (
	"context"
	"fmt"
	"net/url"
)

// PageContext is the page a command is issued from. It knows its own address
// and can perform a submission that navigates away from it.
type PageContext interface {
	CurrentURL() string
	Submit(ctx context.Context, endpoint string, fields url.Values) error
}

// Dispatcher turns lifecycle requests into form submissions.
type Dispatcher struct {
	page      PageContext
	endpoints Endpoints
}

// New creates a Dispatcher submitting through page. The endpoint table is
// copied, so later changes to endpoints have no effect. A nil table selects
// DefaultEndpoints.
func New(page PageContext, endpoints Endpoints) *Dispatcher {
	return &Dispatcher{page: page, endpoints: endpoints.clone()}
}

// RequestRemoveContainer asks the server to remove a container from a host.
func (d *Dispatcher) RequestRemoveContainer(ctx context.Context, host, container string) error {
	return d.submitCommand(ctx, Command{
		Action: ActionRemoveContainer,
		Host:   host,
		Name:   container,
	})
}

// RequestRecreateContainer asks the server to recreate a container.
func (d *Dispatcher) RequestRecreateContainer(ctx context.Context, host, container string) error {
	return d.submitCommand(ctx, Command{
		Action: ActionRecreateContainer,
		Host:   host,
		Name:   container,
	})
}

// RequestSetContainerState asks the server to keep a container running or
// stopped.
func (d *Dispatcher) RequestSetContainerState(ctx context.Context, host, container string, keepRunning bool) error {
	return d.submitCommand(ctx, Command{
		Action:      ActionStartContainer,
		Host:        host,
		Name:        container,
		KeepRunning: &keepRunning,
	})
}

// submitCommand stamps the return address and performs exactly one
// submission. Errors come only from the page failing to navigate.
func (d *Dispatcher) submitCommand(ctx context.Context, cmd Command) error {
	endpoint, err := d.endpoints.endpointFor(cmd.Action)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Action, err)
	}
	cmd.ReturnURL = d.page.CurrentURL()
	return d.page.Submit(ctx, endpoint, cmd.Fields())
}
