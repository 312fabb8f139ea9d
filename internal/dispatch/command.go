package dispatch

import (
	"net/url"
	"strconv"
)

// Action names one container lifecycle operation exposed by the dashboard.
type Action string

const (
	ActionRemoveContainer   Action = "remove_container"
	ActionRecreateContainer Action = "recreate_container"
	ActionStartContainer    Action = "start_container"
)

// Form field names shared by the dispatcher and the dashboard handlers.
const (
	FieldHost        = "host"
	FieldName        = "name"
	FieldURL         = "url"
	FieldKeepRunning = "keep_running"
)

// Command is one lifecycle request for a single container on a single host.
// It lives for exactly one submission.
type Command struct {
	Action    Action
	Host      string
	Name      string
	ReturnURL string

	// KeepRunning is set only for ActionStartContainer.
	KeepRunning *bool
}

// Fields returns the form body for the command. Values are passed through
// untouched: empty identifiers are sent as empty values, never dropped.
func (c Command) Fields() url.Values {
	v := url.Values{}
	v.Set(FieldHost, c.Host)
	v.Set(FieldName, c.Name)
	v.Set(FieldURL, c.ReturnURL)
	if c.KeepRunning != nil {
		v.Set(FieldKeepRunning, strconv.FormatBool(*c.KeepRunning))
	}
	return v
}
