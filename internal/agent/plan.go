package agent

import (
	"sort"

	"github.com/samber/lo"

	"cya/internal/docker"
	"cya/models"
)

type action string

const (
	actionCreate   action = "create"
	actionRecreate action = "recreate"
	actionRemove   action = "remove"
	actionStart    action = "start"
	actionStop     action = "stop"
)

type step struct {
	action action
	name   string
	want   models.Container
}

// plan compares the desired containers with the managed ones on the host.
//
//   - on both sides: re_create rebuilds it, otherwise its running state
//     follows keep_running
//   - desired only: created
//   - local only: removed
//
// Steps are ordered by container name.
func plan(desired []models.Container, local []docker.Container) []step {
	want := lo.KeyBy(desired, func(c models.Container) string { return c.Name })
	have := lo.KeyBy(local, func(c docker.Container) string { return c.Name })

	var steps []step
	for name, w := range want {
		h, ok := have[name]
		switch {
		case !ok:
			steps = append(steps, step{action: actionCreate, name: name, want: w})
		case w.ReCreate:
			steps = append(steps, step{action: actionRecreate, name: name, want: w})
		case w.KeepRunning && !h.Running:
			steps = append(steps, step{action: actionStart, name: name, want: w})
		case !w.KeepRunning && h.Running:
			steps = append(steps, step{action: actionStop, name: name, want: w})
		}
	}
	for name := range have {
		if _, ok := want[name]; !ok {
			steps = append(steps, step{action: actionRemove, name: name})
		}
	}

	sort.Slice(steps, func(i, j int) bool { return steps[i].name < steps[j].name })
	return steps
}
