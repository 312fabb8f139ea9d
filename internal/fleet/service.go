// Package fleet holds the host and container inventory rules of the
// dashboard: which hosts exist, what each of them should run, and how the
// reports of host agents reconcile with the desired state.
package fleet

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"

	"cya/internal/database"
	"cya/models"
)

// maxAPIKeyLen is the longest input bcrypt accepts.
const maxAPIKeyLen = 72

// Service manages hosts and their containers.
type Service struct {
	repo       *database.Repository
	autoEnlist bool
	hashCost   int
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithAutoEnlist controls whether newly registered hosts can receive
// containers right away.
func WithAutoEnlist(enlist bool) Option {
	return func(s *Service) { s.autoEnlist = enlist }
}

// WithHashCost sets the bcrypt cost used for host api keys.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a Service over repo.
func NewService(repo *database.Repository, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		autoEnlist: true,
		hashCost:   bcrypt.DefaultCost,
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks the inventory store.
func (s *Service) Ping(_ context.Context) error {
	return s.repo.Ping()
}

// ListHosts returns all hosts without their containers.
func (s *Service) ListHosts(_ context.Context) ([]models.Host, error) {
	hosts, err := s.repo.FindHosts(false)
	if err != nil {
		return nil, oops.Wrapf(err, "listing hosts")
	}
	return lo.Map(hosts, func(h database.Host, _ int) models.Host { return toHost(h) }), nil
}

// GetHost returns a host, optionally with its containers.
func (s *Service) GetHost(_ context.Context, name string, withContainers bool) (models.Host, error) {
	h, err := s.repo.FindHost(name, withContainers)
	if err != nil {
		return models.Host{}, oops.With("host", name).Wrapf(err, "loading host")
	}
	if h == nil {
		return models.Host{}, oops.With("host", name).Wrap(ErrHostNotFound)
	}
	return toHost(*h), nil
}

// RegisterHost enlists a new host together with the containers it already
// runs.
func (s *Service) RegisterHost(ctx context.Context, req models.RegisterHostRequest) (models.Host, error) {
	if len(req.APIKey) == 0 || len(req.APIKey) > maxAPIKeyLen {
		return models.Host{}, ErrInvalidAPIKey
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.APIKey), s.hashCost)
	if err != nil {
		return models.Host{}, oops.Wrapf(err, "hashing api key")
	}

	row := database.Host{
		Name:           req.Name,
		DistroID:       req.DistroID,
		DistroRelease:  req.DistroRelease,
		DistroCodename: req.DistroCodename,
		MemTotal:       req.MemTotal,
		CPUTotal:       req.CPUTotal,
		CPUType:        req.CPUType,
		Enlisted:       s.autoEnlist,
		APIKeyHash:     string(hash),
	}

	err = s.repo.Transaction(func(tx *database.Repository) error {
		existing, err := tx.FindHost(req.Name, false)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrHostExists
		}
		if err := tx.CreateHost(row); err != nil {
			return err
		}
		for _, p := range lo.UniqBy(req.Containers, func(p models.ContainerProps) string { return p.Name }) {
			if err := tx.CreateContainer(reportedContainer(req.Name, p)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Host{}, oops.With("host", req.Name).Wrapf(err, "registering host")
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "host registered",
		slog.String("host", req.Name), slog.Int("containers", len(req.Containers)))
	return s.GetHost(ctx, req.Name, true)
}

// UpdateHost applies a partial update sent by a host agent.
func (s *Service) UpdateHost(ctx context.Context, name string, req models.UpdateHostRequest) error {
	err := s.repo.Transaction(func(tx *database.Repository) error {
		h, err := tx.FindHost(name, true)
		if err != nil {
			return err
		}
		if h == nil {
			return ErrHostNotFound
		}

		if req.DistroID != nil {
			h.DistroID = *req.DistroID
		}
		if req.DistroRelease != nil {
			h.DistroRelease = *req.DistroRelease
		}
		if req.DistroCodename != nil {
			h.DistroCodename = *req.DistroCodename
		}
		if req.MemTotal != nil {
			h.MemTotal = *req.MemTotal
		}
		if req.CPUTotal != nil {
			h.CPUTotal = *req.CPUTotal
		}
		if req.CPUType != nil {
			h.CPUType = *req.CPUType
		}
		if err := tx.SaveHost(*h); err != nil {
			return err
		}

		if req.Containers != nil {
			return syncContainers(tx, *h, *req.Containers)
		}
		return nil
	})
	if err != nil {
		return oops.With("host", name).Wrapf(err, "updating host")
	}

	s.logger.LogAttrs(ctx, slog.LevelDebug, "host updated", slog.String("host", name))
	return nil
}

// syncContainers merges an agent's container report into the desired state.
// Reported containers are created or refreshed. Containers the host created
// earlier but no longer reports are dropped; containers still waiting to be
// created are kept.
func syncContainers(tx *database.Repository, h database.Host, reported []models.ContainerProps) error {
	known := lo.KeyBy(h.Containers, func(c database.Container) string { return c.Name })
	seen := make(map[string]bool, len(reported))

	for _, p := range reported {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true

		c, ok := known[p.Name]
		if !ok {
			if err := tx.CreateContainer(reportedContainer(h.Name, p)); err != nil {
				return err
			}
			continue
		}
		if err := tx.UpdateContainer(h.Name, p.Name, reportFields(c, p.MaxMemory, p.DateCreated)); err != nil {
			return err
		}
	}

	for _, c := range h.Containers {
		if !seen[c.Name] && c.DateCreated != 0 {
			if err := tx.DeleteContainer(h.Name, c.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// DeleteHost removes a host and its containers.
func (s *Service) DeleteHost(ctx context.Context, name string) error {
	h, err := s.repo.FindHost(name, false)
	if err != nil {
		return oops.With("host", name).Wrapf(err, "loading host")
	}
	if h == nil {
		return oops.With("host", name).Wrap(ErrHostNotFound)
	}
	if err := s.repo.DeleteHost(name); err != nil {
		return oops.With("host", name).Wrapf(err, "deleting host")
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "host deleted", slog.String("host", name))
	return nil
}

// SetEnlisted controls whether a host may receive new containers.
func (s *Service) SetEnlisted(ctx context.Context, name string, enlisted bool) error {
	err := s.repo.Transaction(func(tx *database.Repository) error {
		h, err := tx.FindHost(name, false)
		if err != nil {
			return err
		}
		if h == nil {
			return ErrHostNotFound
		}
		h.Enlisted = enlisted
		return tx.SaveHost(*h)
	})
	if err != nil {
		return oops.With("host", name).Wrapf(err, "setting enlisted")
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "host enlistment changed",
		slog.String("host", name), slog.Bool("enlisted", enlisted))
	return nil
}

// VerifyHostKey checks key against the host's stored hash. Unknown hosts
// fail the same way as wrong keys.
func (s *Service) VerifyHostKey(_ context.Context, name, key string) error {
	h, err := s.repo.FindHost(name, false)
	if err != nil {
		return oops.With("host", name).Wrapf(err, "loading host")
	}
	if h == nil || bcrypt.CompareHashAndPassword([]byte(h.APIKeyHash), []byte(key)) != nil {
		return ErrUnauthorized
	}
	return nil
}

// CreateContainer validates the request and places the container on the
// enlisted host running the fewest containers.
func (s *Service) CreateContainer(ctx context.Context, req models.CreateContainerRequest) (models.CreateContainerResponse, error) {
	if err := models.ValidateTemplateRelease(req.Template, req.Release); err != nil {
		return models.CreateContainerResponse{}, oops.
			With("template", req.Template, "release", req.Release).
			Wrap(err)
	}

	var placed database.Container
	err := s.repo.Transaction(func(tx *database.Repository) error {
		hosts, err := tx.FindHosts(true)
		if err != nil {
			return err
		}
		best, err := bestHost(hosts)
		if err != nil {
			return err
		}
		if lo.ContainsBy(best.Containers, func(c database.Container) bool { return c.Name == req.Name }) {
			return ErrContainerExists
		}

		placed = database.Container{
			HostName:      best.Name,
			Name:          req.Name,
			Template:      req.Template,
			Release:       req.Release,
			InitScript:    req.InitScript,
			MaxMemory:     req.MaxMemory,
			DateRequested: s.now().Unix(),
			KeepRunning:   true,
		}
		return tx.CreateContainer(placed)
	})
	if err != nil {
		return models.CreateContainerResponse{}, oops.With("container", req.Name).Wrapf(err, "creating container")
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "container requested",
		slog.String("host", placed.HostName), slog.String("container", placed.Name))
	return models.CreateContainerResponse{Host: placed.HostName, Container: toContainer(placed)}, nil
}

// bestHost picks the enlisted host with the fewest containers. Ties go to
// the first host in name order.
func bestHost(hosts []database.Host) (database.Host, error) {
	enlisted := lo.Filter(hosts, func(h database.Host, _ int) bool { return h.Enlisted })
	if len(enlisted) == 0 {
		return database.Host{}, ErrNoHosts
	}
	return lo.MinBy(enlisted, func(a, b database.Host) bool {
		return len(a.Containers) < len(b.Containers)
	}), nil
}

// UpdateContainer records what a host agent reports about a container.
func (s *Service) UpdateContainer(ctx context.Context, host, name string, req models.UpdateContainerRequest) error {
	c, err := s.findContainer(host, name)
	if err != nil {
		return err
	}

	maxMemory := c.MaxMemory
	if req.MaxMemory != nil {
		maxMemory = *req.MaxMemory
	}
	var created int64
	if req.DateCreated != nil {
		created = *req.DateCreated
	}

	if err := s.repo.UpdateContainer(host, name, reportFields(*c, maxMemory, created)); err != nil {
		return oops.With("host", host, "container", name).Wrapf(err, "updating container")
	}

	s.logger.LogAttrs(ctx, slog.LevelDebug, "container reported",
		slog.String("host", host), slog.String("container", name))
	return nil
}

// RemoveContainer drops a container from the desired state. The host agent
// destroys it on its next check.
func (s *Service) RemoveContainer(ctx context.Context, host, name string) error {
	if _, err := s.findContainer(host, name); err != nil {
		return err
	}
	if err := s.repo.DeleteContainer(host, name); err != nil {
		return oops.With("host", host, "container", name).Wrapf(err, "removing container")
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "container removed",
		slog.String("host", host), slog.String("container", name))
	return nil
}

// RecreateContainer flags a container to be destroyed and created again.
func (s *Service) RecreateContainer(ctx context.Context, host, name string) error {
	c, err := s.findContainer(host, name)
	if err != nil {
		return err
	}
	if models.ValidateTemplateRelease(c.Template, c.Release) != nil {
		return oops.With("host", host, "container", name).Wrap(ErrNotRecreatable)
	}
	if err := s.repo.UpdateContainer(host, name, map[string]any{"re_create": true}); err != nil {
		return oops.With("host", host, "container", name).Wrapf(err, "flagging re-create")
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "container re-create requested",
		slog.String("host", host), slog.String("container", name))
	return nil
}

// SetContainerState sets whether a container should be kept running.
func (s *Service) SetContainerState(ctx context.Context, host, name string, keepRunning bool) error {
	if _, err := s.findContainer(host, name); err != nil {
		return err
	}
	if err := s.repo.UpdateContainer(host, name, map[string]any{"keep_running": keepRunning}); err != nil {
		return oops.With("host", host, "container", name).Wrapf(err, "setting container state")
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "container state changed",
		slog.String("host", host), slog.String("container", name), slog.Bool("keep_running", keepRunning))
	return nil
}

func (s *Service) findContainer(host, name string) (*database.Container, error) {
	h, err := s.repo.FindHost(host, false)
	if err != nil {
		return nil, oops.With("host", host).Wrapf(err, "loading host")
	}
	if h == nil {
		return nil, oops.With("host", host).Wrap(ErrHostNotFound)
	}

	c, err := s.repo.FindContainer(host, name)
	if err != nil {
		return nil, oops.With("host", host, "container", name).Wrapf(err, "loading container")
	}
	if c == nil {
		return nil, oops.With("host", host, "container", name).Wrap(ErrContainerNotFound)
	}
	return c, nil
}

// reportFields builds the column update for an agent report. A creation
// date newer than the stored one means the container was (re)built, which
// satisfies any pending re-create.
func reportFields(c database.Container, maxMemory, dateCreated int64) map[string]any {
	fields := map[string]any{"max_memory": maxMemory}
	if dateCreated > c.DateCreated {
		fields["date_created"] = dateCreated
		fields["re_create"] = false
	}
	return fields
}

func reportedContainer(host string, p models.ContainerProps) database.Container {
	return database.Container{
		HostName:    host,
		Name:        p.Name,
		MaxMemory:   p.MaxMemory,
		DateCreated: p.DateCreated,
		KeepRunning: true,
	}
}

func toHost(h database.Host) models.Host {
	out := models.Host{
		Name:           h.Name,
		DistroID:       h.DistroID,
		DistroRelease:  h.DistroRelease,
		DistroCodename: h.DistroCodename,
		MemTotal:       h.MemTotal,
		CPUTotal:       h.CPUTotal,
		CPUType:        h.CPUType,
		Enlisted:       h.Enlisted,
	}
	if len(h.Containers) > 0 {
		out.Containers = lo.Map(h.Containers, func(c database.Container, _ int) models.Container { return toContainer(c) })
	}
	return out
}

func toContainer(c database.Container) models.Container {
	return models.Container{
		Name:          c.Name,
		Template:      c.Template,
		Release:       c.Release,
		InitScript:    c.InitScript,
		DateRequested: c.DateRequested,
		DateCreated:   c.DateCreated,
		MaxMemory:     c.MaxMemory,
		ReCreate:      c.ReCreate,
		KeepRunning:   c.KeepRunning,
	}
}
