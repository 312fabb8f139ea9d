package docker

import (
	"context"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/containerd/errdefs"
	"github.com/moby/moby/api/types/container"
	moby "github.com/moby/moby/client"
)

// Labels stamped on every container the agent creates. Containers without
// LabelManaged are never touched.
const (
	LabelManaged   = "cya.managed"
	LabelMaxMemory = "cya.max_memory"
)

const (
	stateRunning = "running"
	idleSuffix   = "\nexec sleep infinity"
)

// Container is the agent's view of one managed container.
type Container struct {
	Name      string
	Running   bool
	Created   int64 // unix seconds
	MaxMemory int64 // bytes, 0 = unlimited
}

// CreateSpec describes a container to build.
type CreateSpec struct {
	Name       string
	Image      string
	MaxMemory  int64 // bytes, 0 = unlimited
	InitScript string
}

// Client wraps the Docker SDK and exposes the operations the host agent
// needs to converge its containers.
type Client struct {
	cli *moby.Client
}

var (
	once     sync.Once
	instance *Client
)

// New returns the singleton Docker Client.
// Panics on connection failure (unrecoverable at startup).
func New() *Client {
	once.Do(func() {
		cli, err := moby.NewClientWithOpts(moby.FromEnv, moby.WithAPIVersionNegotiation())
		if err != nil {
			panic(err)
		}
		instance = &Client{cli: cli}
	})
	return instance
}

// Ping checks connectivity with the Docker daemon.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.cli.Ping(ctx, moby.PingOptions{})
	return err
}

// List returns the managed containers, running or not.
func (c *Client) List(ctx context.Context) ([]Container, error) {
	result, err := c.cli.ContainerList(ctx, moby.ContainerListOptions{All: true})
	if err != nil {
		return nil, err
	}
	var out []Container
	for _, s := range result.Items {
		if ct, ok := fromSummary(s); ok {
			out = append(out, ct)
		}
	}
	return out, nil
}

// Create builds a container from spec and starts it. The image is pulled
// first when it is not present locally.
func (c *Client) Create(ctx context.Context, spec CreateSpec) error {
	exists, err := c.ImageExists(ctx, spec.Image)
	if err != nil {
		return err
	}
	if !exists {
		if err := c.PullImage(ctx, spec.Image); err != nil {
			return err
		}
	}

	result, err := c.cli.ContainerCreate(ctx, moby.ContainerCreateOptions{
		Config:     buildConfig(spec),
		HostConfig: buildHostConfig(spec),
		Name:       spec.Name,
	})
	if err != nil {
		return err
	}
	return c.Start(ctx, result.ID)
}

// Start starts a stopped container.
func (c *Client) Start(ctx context.Context, name string) error {
	_, err := c.cli.ContainerStart(ctx, name, moby.ContainerStartOptions{})
	return wrapNotFound(err)
}

// Stop stops a running container.
func (c *Client) Stop(ctx context.Context, name string) error {
	_, err := c.cli.ContainerStop(ctx, name, moby.ContainerStopOptions{})
	return wrapNotFound(err)
}

// Remove removes a container forcefully.
func (c *Client) Remove(ctx context.Context, name string) error {
	_, err := c.cli.ContainerRemove(ctx, name, moby.ContainerRemoveOptions{Force: true})
	return wrapNotFound(err)
}

// PullImage pulls a Docker image from a registry.
func (c *Client) PullImage(ctx context.Context, image string) error {
	reader, err := c.cli.ImagePull(ctx, image, moby.ImagePullOptions{})
	if err != nil {
		return err
	}
	defer reader.Close()

	// The pull is done once the progress stream ends.
	_, err = io.Copy(io.Discard, reader)
	return err
}

// ImageExists checks if an image exists locally.
func (c *Client) ImageExists(ctx context.Context, image string) (bool, error) {
	_, err := c.cli.ImageInspect(ctx, image)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func buildConfig(spec CreateSpec) *container.Config {
	cfg := &container.Config{
		Image: spec.Image,
		Labels: map[string]string{
			LabelManaged:   "true",
			LabelMaxMemory: strconv.FormatInt(spec.MaxMemory, 10),
		},
	}
	// Distro images exit immediately without a long-running command.
	cfg.Cmd = []string{"sleep", "infinity"}
	if spec.InitScript != "" {
		cfg.Cmd = []string{"sh", "-c", spec.InitScript + idleSuffix}
	}
	return cfg
}

func buildHostConfig(spec CreateSpec) *container.HostConfig {
	hostCfg := &container.HostConfig{}
	if spec.MaxMemory > 0 {
		hostCfg.Resources = container.Resources{Memory: spec.MaxMemory}
	}
	return hostCfg
}

// fromSummary converts a list entry, reporting false for containers the
// agent did not create.
func fromSummary(s container.Summary) (Container, bool) {
	if s.Labels[LabelManaged] != "true" || len(s.Names) == 0 {
		return Container{}, false
	}
	maxMem, _ := strconv.ParseInt(s.Labels[LabelMaxMemory], 10, 64)
	return Container{
		Name:      strings.TrimPrefix(s.Names[0], "/"),
		Running:   string(s.State) == stateRunning,
		Created:   s.Created,
		MaxMemory: maxMem,
	}, true
}

// wrapNotFound converts Docker "not found" errors to ErrNotFound.
func wrapNotFound(err error) error {
	if err == nil {
		return nil
	}
	if errdefs.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}
