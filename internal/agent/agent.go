// Package agent runs on each host. It registers the host with the server,
// reports host facts and converges the local containers to the state the
// server asks for.
package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"

	"cya/internal/docker"
	"cya/models"
)

// Runtime is the container engine on the host.
// *docker.Client satisfies this interface.
type Runtime interface {
	List(ctx context.Context) ([]docker.Container, error)
	Create(ctx context.Context, spec docker.CreateSpec) error
	Start(ctx context.Context, name string) error
	Stop(ctx context.Context, name string) error
	Remove(ctx context.Context, name string) error
}

// Server is the host API as seen from one host.
// *ServerClient satisfies this interface.
type Server interface {
	Register(ctx context.Context, req models.RegisterHostRequest) error
	UpdateHost(ctx context.Context, req models.UpdateHostRequest) error
	DesiredState(ctx context.Context) (models.Host, error)
	ReportContainer(ctx context.Context, name string, req models.UpdateContainerRequest) error
}

const defaultConcurrency = 4

// Agent ties a host's runtime to the server.
type Agent struct {
	name        string
	apiKey      string
	server      Server
	runtime     Runtime
	facts       func() HostFacts
	now         func() time.Time
	concurrency int
	logger      *slog.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithFacts replaces the host fact source.
func WithFacts(f func() HostFacts) Option { return func(a *Agent) { a.facts = f } }

// WithClock replaces the clock used for creation dates.
func WithClock(now func() time.Time) Option { return func(a *Agent) { a.now = now } }

// WithConcurrency bounds how many containers are changed at once.
func WithConcurrency(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(a *Agent) { a.logger = l } }

// New creates an Agent for the host called name.
func New(name, apiKey string, server Server, runtime Runtime, opts ...Option) *Agent {
	a := &Agent{
		name:        name,
		apiKey:      apiKey,
		server:      server,
		runtime:     runtime,
		facts:       ReadHostFacts,
		now:         time.Now,
		concurrency: defaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register enlists the host together with the containers it already runs.
func (a *Agent) Register(ctx context.Context) error {
	props, err := a.localProps(ctx)
	if err != nil {
		return err
	}
	f := a.facts()
	err = a.server.Register(ctx, models.RegisterHostRequest{
		Name:           a.name,
		DistroID:       f.DistroID,
		DistroRelease:  f.DistroRelease,
		DistroCodename: f.DistroCodename,
		MemTotal:       f.MemTotal,
		CPUTotal:       f.CPUTotal,
		CPUType:        f.CPUType,
		APIKey:         a.apiKey,
		Containers:     props,
	})
	if err != nil {
		return oops.With("host", a.name).Wrapf(err, "registering host")
	}
	a.logger.LogAttrs(ctx, slog.LevelInfo, "host registered",
		slog.String("host", a.name), slog.Int("containers", len(props)))
	return nil
}

// Update refreshes the host facts on the server. withContainers also sends
// the full container report, which lets the server forget containers the
// host no longer has.
func (a *Agent) Update(ctx context.Context, withContainers bool) error {
	f := a.facts()
	req := models.UpdateHostRequest{
		DistroID:       &f.DistroID,
		DistroRelease:  &f.DistroRelease,
		DistroCodename: &f.DistroCodename,
		MemTotal:       &f.MemTotal,
		CPUTotal:       &f.CPUTotal,
		CPUType:        &f.CPUType,
	}
	if withContainers {
		props, err := a.localProps(ctx)
		if err != nil {
			return err
		}
		req.Containers = &props
	}
	if err := a.server.UpdateHost(ctx, req); err != nil {
		return oops.With("host", a.name).Wrapf(err, "updating host")
	}
	return nil
}

// Check fetches the desired containers and converges the host to them.
// Every step is attempted; the first failure is returned.
func (a *Agent) Check(ctx context.Context) error {
	desired, err := a.server.DesiredState(ctx)
	if err != nil {
		return oops.With("host", a.name).Wrapf(err, "fetching desired state")
	}
	local, err := a.runtime.List(ctx)
	if err != nil {
		return oops.Wrapf(err, "listing local containers")
	}

	steps := plan(desired.Containers, local)
	a.logger.LogAttrs(ctx, slog.LevelDebug, "check",
		slog.Int("desired", len(desired.Containers)),
		slog.Int("local", len(local)),
		slog.Int("steps", len(steps)),
	)

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for _, s := range steps {
		g.Go(func() error {
			if err := a.apply(ctx, s); err != nil {
				a.logger.LogAttrs(ctx, slog.LevelError, "container step failed",
					slog.String("action", string(s.action)),
					slog.String("container", s.name),
					slog.Any("error", err),
				)
				return oops.With("container", s.name, "action", s.action).Wrapf(err, "converging container")
			}
			return nil
		})
	}
	return g.Wait()
}

// Run checks immediately and then every interval until ctx is done. Failed
// checks are logged and retried on the next tick.
func (a *Agent) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return oops.With("interval", interval).Errorf("check interval must be positive")
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := a.Check(ctx); err != nil {
			a.logger.LogAttrs(ctx, slog.LevelError, "check failed", slog.Any("error", err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (a *Agent) apply(ctx context.Context, s step) error {
	switch s.action {
	case actionRemove:
		a.logger.LogAttrs(ctx, slog.LevelInfo, "removing container", slog.String("container", s.name))
		return a.runtime.Remove(ctx, s.name)
	case actionStart:
		return a.runtime.Start(ctx, s.name)
	case actionStop:
		return a.runtime.Stop(ctx, s.name)
	case actionRecreate:
		// The old container stays unless the new one can be built.
		image, err := models.ImageRef(s.want.Template, s.want.Release)
		if err != nil {
			return err
		}
		a.logger.LogAttrs(ctx, slog.LevelInfo, "re-creating container", slog.String("container", s.name))
		if err := a.runtime.Remove(ctx, s.name); err != nil {
			return err
		}
		return a.create(ctx, s.want, image)
	case actionCreate:
		image, err := models.ImageRef(s.want.Template, s.want.Release)
		if err != nil {
			return err
		}
		a.logger.LogAttrs(ctx, slog.LevelInfo, "creating container", slog.String("container", s.name))
		return a.create(ctx, s.want, image)
	}
	return nil
}

// create builds the container from image, stops it again when it should not
// run, and reports it to the server.
func (a *Agent) create(ctx context.Context, want models.Container, image string) error {
	err := a.runtime.Create(ctx, docker.CreateSpec{
		Name:       want.Name,
		Image:      image,
		MaxMemory:  want.MaxMemory,
		InitScript: want.InitScript,
	})
	if err != nil {
		return err
	}
	if !want.KeepRunning {
		if err := a.runtime.Stop(ctx, want.Name); err != nil {
			return err
		}
	}

	created := a.now().Unix()
	return a.server.ReportContainer(ctx, want.Name, models.UpdateContainerRequest{
		MaxMemory:   &want.MaxMemory,
		DateCreated: &created,
	})
}

func (a *Agent) localProps(ctx context.Context) ([]models.ContainerProps, error) {
	local, err := a.runtime.List(ctx)
	if err != nil {
		return nil, oops.Wrapf(err, "listing local containers")
	}
	return lo.Map(local, func(c docker.Container, _ int) models.ContainerProps {
		return models.ContainerProps{Name: c.Name, MaxMemory: c.MaxMemory, DateCreated: c.Created}
	}), nil
}
