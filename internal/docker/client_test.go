package docker

import (
	"errors"
	"fmt"
	"testing"

	"github.com/containerd/errdefs"
	"github.com/moby/moby/api/types/container"
	"github.com/stretchr/testify/assert"
)

func TestFromSummary(t *testing.T) {
	ct, ok := fromSummary(container.Summary{
		Names:   []string{"/web"},
		State:   "running",
		Created: 1700000000,
		Labels:  map[string]string{LabelManaged: "true", LabelMaxMemory: "268435456"},
	})
	assert.True(t, ok)
	assert.Equal(t, Container{Name: "web", Running: true, Created: 1700000000, MaxMemory: 268435456}, ct)

	ct, ok = fromSummary(container.Summary{
		Names:  []string{"/db"},
		State:  "exited",
		Labels: map[string]string{LabelManaged: "true"},
	})
	assert.True(t, ok)
	assert.False(t, ct.Running)
	assert.Zero(t, ct.MaxMemory)
}

func TestFromSummary_Unmanaged(t *testing.T) {
	_, ok := fromSummary(container.Summary{Names: []string{"/postgres"}, State: "running"})
	assert.False(t, ok)

	_, ok = fromSummary(container.Summary{Labels: map[string]string{LabelManaged: "true"}})
	assert.False(t, ok, "no name")
}

func TestBuildConfig(t *testing.T) {
	cfg := buildConfig(CreateSpec{Name: "web", Image: "ubuntu:trusty", MaxMemory: 1024})
	assert.Equal(t, "ubuntu:trusty", cfg.Image)
	assert.Equal(t, "true", cfg.Labels[LabelManaged])
	assert.Equal(t, "1024", cfg.Labels[LabelMaxMemory])
	assert.Equal(t, []string{"sleep", "infinity"}, []string(cfg.Cmd))

	cfg = buildConfig(CreateSpec{Image: "debian:jessie", InitScript: "apt-get update"})
	assert.Equal(t, []string{"sh", "-c", "apt-get update\nexec sleep infinity"}, []string(cfg.Cmd))
}

func TestBuildHostConfig(t *testing.T) {
	assert.Zero(t, buildHostConfig(CreateSpec{}).Resources.Memory)
	assert.Equal(t, int64(512), buildHostConfig(CreateSpec{MaxMemory: 512}).Resources.Memory)
}

func TestWrapNotFound(t *testing.T) {
	assert.NoError(t, wrapNotFound(nil))
	assert.ErrorIs(t, wrapNotFound(fmt.Errorf("no such container: %w", errdefs.ErrNotFound)), ErrNotFound)

	other := errors.New("daemon down")
	assert.Equal(t, other, wrapNotFound(other))
}
